package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		exposed   bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", exposed: true, detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required", exposed: true},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied", exposed: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found", exposed: true},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", exposed: true},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", exposed: true, detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded", exposed: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error"},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.ExposeMessage != tt.exposed {
			t.Fatalf("code %s expected expose %v got %v", tt.code, tt.exposed, meta.ExposeMessage)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestPublicMessage(t *testing.T) {
	if got := New(CodeConflict, "mobile number already exists").PublicMessage(); got != "mobile number already exists" {
		t.Fatalf("conflict message should reach the client, got %q", got)
	}
	if got := New(CodeConflict, "").PublicMessage(); got != "conflict detected" {
		t.Fatalf("empty message should fall back, got %q", got)
	}
	if got := Wrap(CodeInternal, stdErrors.New("pq: relation missing"), "create user").PublicMessage(); got != "internal server error" {
		t.Fatalf("internal message leaked: %q", got)
	}
	var nilErr *Error
	if got := nilErr.PublicMessage(); got != "internal server error" {
		t.Fatalf("nil error should render as internal, got %q", got)
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsCodeFollowsWrappedChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeConflict, "email already exists"))
	if !IsCode(err, CodeConflict) {
		t.Fatalf("expected conflict code through wrapping")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatalf("did not expect not found code")
	}
	if IsCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("untyped errors carry no code")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeInternal, cause, "lookup user")

	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("expected internal code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d (%v)", len(dump.Chain), dump.Chain)
	}
	if dump.PGCode != "" {
		t.Fatalf("expected no pg code for plain errors, got %q", dump.PGCode)
	}
}

func TestDumpExtractsDriverDiagnostics(t *testing.T) {
	pgErr := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_phone_key", TableName: "users"})
	dump := Dump(Wrap(CodeConflict, pgErr, "create user"))
	if dump.PGCode != "23505" || dump.PGConstraint != "users_phone_key" || dump.PGTable != "users" {
		t.Fatalf("unexpected pgx dump %+v", dump)
	}

	pqDump := Dump(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	if pqDump.PGCode != "23505" || pqDump.PGConstraint != "users_email_key" {
		t.Fatalf("unexpected pq dump %+v", pqDump)
	}

	liteDump := Dump(fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	if liteDump.SQLiteCode != int(sqlite3.ErrConstraint) || liteDump.SQLiteExtended != int(sqlite3.ErrConstraintUnique) {
		t.Fatalf("unexpected sqlite dump %+v", liteDump)
	}
	if !liteDump.HasDriverDetails() || Dump(stdErrors.New("plain")).HasDriverDetails() {
		t.Fatal("driver detail detection is wrong")
	}
}
