package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
)

var (
	sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
)

// ValidateDir validates the on-disk migrations root: filenames, goose headers
// and version parity between the dialect subdirectories.
func ValidateDir(root string) error {
	if root == "" {
		return fmt.Errorf("dir is required")
	}
	return validateFS(os.DirFS(root), ".")
}

// ValidateEmbedded runs the same checks against the migrations compiled into
// the binary.
func ValidateEmbedded() error {
	return validateFS(embedded, "migrations")
}

func validateFS(fsys fs.FS, root string) error {
	var (
		reference     []string
		referenceFrom string
	)
	for _, dialect := range Dialects {
		sub, err := dialectSubdir(dialect)
		if err != nil {
			return err
		}
		dir := path.Join(root, sub)
		versions, err := validateDialectDir(fsys, dir)
		if err != nil {
			return err
		}
		if reference == nil {
			reference, referenceFrom = versions, dir
			continue
		}
		if strings.Join(reference, ",") != strings.Join(versions, ",") {
			return fmt.Errorf("migration versions in %q do not match %q", dir, referenceFrom)
		}
	}
	return nil
}

func validateDialectDir(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename
	versions := []string{}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name
		versions = append(versions, version)

		full := path.Join(dir, name)
		b, err := fs.ReadFile(fsys, full)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", full, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
		if strings.Count(txt, "-- +goose StatementBegin") != strings.Count(txt, "-- +goose StatementEnd") {
			return nil, fmt.Errorf("migration %q has unbalanced StatementBegin/StatementEnd markers", name)
		}
	}

	sort.Strings(versions)
	return versions, nil
}
