package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

func TestWriteSuccessWritesRawBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusCreated, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusCreated {
		t.Fatalf("expected status 201 but got %d", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body)
	}
}

func TestWriteErrorIncludesIssuesForValidation(t *testing.T) {
	w := httptest.NewRecorder()
	issues := []types.Issue{{Path: []string{"quantity"}, Message: "must be at least 1", Code: "too_small"}}
	err := pkgerrors.New(pkgerrors.CodeValidation, "Validation error").WithDetails(issues)
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body types.ErrorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Message != "Validation error" || body.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected body %+v", body)
	}
	if len(body.Issues) != 1 || body.Issues[0].Path[0] != "quantity" {
		t.Fatalf("expected issues in public payload, got %+v", body.Issues)
	}
}

func TestWriteErrorKeepsNotFoundMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, fmt.Errorf("svc: %w", pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"message":"Product not found"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	var logs bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &logs})
	w := httptest.NewRecorder()
	WriteError(context.Background(), logg, w, errors.New("pq: password authentication failed"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body types.ErrorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Message != "Internal error" || body.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Issues != nil {
		t.Fatalf("issues should be omitted for internal errors")
	}
	if !strings.Contains(logs.String(), "password authentication failed") {
		t.Fatalf("expected the cause to be logged, got %s", logs.String())
	}
}
