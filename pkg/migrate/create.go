package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)
)

// CreateSQLMigration creates one goose SQL migration per dialect sharing a
// single version:
//
//	<root>/postgres/<YYYYMMDDHHMMSS>_<name>.sql
//	<root>/sqlite/<YYYYMMDDHHMMSS>_<name>.sql
func CreateSQLMigration(root string, name string) ([]string, error) {
	return createSQLMigrationAt(root, name, time.Now().UTC())
}

func createSQLMigrationAt(root string, name string, now time.Time) ([]string, error) {
	if root == "" {
		return nil, fmt.Errorf("dir is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return nil, fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	version := now.Format("20060102150405")
	filename := fmt.Sprintf("%s_%s.sql", version, safe)

	template := fmt.Sprintf(`-- +goose Up
-- +goose StatementBegin
-- %s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %s
-- +goose StatementEnd
`, safe, safe)

	created := make([]string, 0, len(Dialects))
	for _, dialect := range Dialects {
		sub, err := dialectSubdir(dialect)
		if err != nil {
			return created, err
		}
		dir := filepath.Join(root, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return created, fmt.Errorf("mkdir %q: %w", dir, err)
		}

		fullpath := filepath.Join(dir, filename)
		if _, err := os.Stat(fullpath); err == nil {
			return created, fmt.Errorf("migration already exists: %s", fullpath)
		}
		if err := os.WriteFile(fullpath, []byte(template), 0o644); err != nil {
			return created, fmt.Errorf("write migration %q: %w", fullpath, err)
		}
		created = append(created, fullpath)
	}

	return created, nil
}
