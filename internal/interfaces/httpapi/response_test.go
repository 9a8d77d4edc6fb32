package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/quinielago/quiniela-api/internal/usecase"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) googleErrorBody {
	t.Helper()

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if envelope.Error == nil {
		t.Fatalf("envelope has no error: %s", rec.Body.String())
	}
	return *envelope.Error
}

func TestWriteErrorHidesStorageDetail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("get league by id: %w", errors.New("pq: connection refused")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Message != "internal server error" {
		t.Fatalf("message = %q, want the opaque one", body.Message)
	}
	if body.Status != "INTERNAL" {
		t.Fatalf("status = %q", body.Status)
	}
	if strings.Contains(rec.Body.String(), "pq:") {
		t.Fatalf("storage detail leaked: %s", rec.Body.String())
	}
}

func TestWriteErrorKeepsMappedDetail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: league not found", usecase.ErrNotFound))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if !strings.Contains(body.Message, "league not found") {
		t.Fatalf("message = %q, want the mapped detail", body.Message)
	}
}
