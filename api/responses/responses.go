package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/mygroup/mygroup-backend/pkg/errors"
	"github.com/mygroup/mygroup-backend/pkg/logger"
)

// fallbackBody is sent when a payload cannot be encoded.
var fallbackBody = []byte(`{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}` + "\n")

// WriteSuccess writes data in the success envelope with 200.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

// WriteSuccessStatus writes data in the success envelope with status.
func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessEnvelope{Data: data})
}

// WriteError renders err as the public error envelope and logs it. Untyped
// errors are treated as internal. Driver diagnostics only reach the log.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("nil error written as response")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	if logg != nil {
		logRejection(ctx, logg, err, meta.HTTPStatus)
	}
	writeJSON(w, meta.HTTPStatus, envelopeFor(typed, meta))
}

func envelopeFor(typed *pkgerrors.Error, meta pkgerrors.Metadata) ErrorEnvelope {
	body := APIError{
		Code:    string(typed.Code()),
		Message: typed.PublicMessage(),
	}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}
	return ErrorEnvelope{Error: body}
}

// logRejection logs server faults at error level with a stack and client
// faults at warn.
func logRejection(ctx context.Context, logg *logger.Logger, err error, status int) {
	dump := pkgerrors.Dump(err)
	fields := map[string]any{
		"status":      status,
		"error":       dump.TopMessage,
		"error_code":  dump.Code,
		"error_chain": dump.Chain,
	}
	if dump.HasDriverDetails() {
		fields["db_error"] = dump
	}
	ctx = logg.WithFields(ctx, fields)

	if status >= http.StatusInternalServerError {
		logg.Error(ctx, "request.error", err)
		return
	}
	logg.Warn(ctx, "request.rejected")
}

// writeJSON encodes before touching the response so an unencodable payload
// still yields a well-formed 500.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	body := fallbackBody
	if err := json.NewEncoder(&buf).Encode(payload); err == nil {
		body = buf.Bytes()
	} else {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
