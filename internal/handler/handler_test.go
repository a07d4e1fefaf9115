package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linkstash/linkstash/internal/apperr"
)

func TestWriteErrorShape(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, http.StatusConflict, "CONFLICT", "You already have a category with this name")

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != "CONFLICT" {
		t.Errorf("code = %q, want CONFLICT", body.Error.Code)
	}
}

func TestHandleServiceErrorMapping(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperr.Validation("bad input"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", apperr.NotFound("missing"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperr.Conflict("taken"), http.StatusConflict, "CONFLICT"},
		{"unauthorized", apperr.Unauthorized("no"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"opaque internal", io.ErrUnexpectedEOF, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/links", nil)
			rec := httptest.NewRecorder()
			handleServiceError(rec, req, logger, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
			if tt.wantCode == "INTERNAL_ERROR" && body.Error.Message == io.ErrUnexpectedEOF.Error() {
				t.Error("internal error detail leaked to the client")
			}
		})
	}
}
