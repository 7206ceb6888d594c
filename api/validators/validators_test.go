package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-catalog/pkg/errors"
)

type selectionBody struct {
	Attribute string            `json:"attribute" validate:"required,max=64"`
	Value     string            `json:"value" validate:"required"`
	Selection map[string]string `json:"selection"`
}

func requireValidation(t *testing.T, err error) *pkgerrors.Error {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	return typed
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"attribute":"Color","value":"Red"}`))
	var body selectionBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Attribute != "Color" || body.Value != "Red" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"attribute":"Color","value":"Red","extra":1}`))
	var body selectionBody
	requireValidation(t, DecodeJSONBody(req, &body))
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":"Red"}`))
	var body selectionBody
	typed := requireValidation(t, DecodeJSONBody(req, &body))
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["attribute"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestReadJSONDocument(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("  {\"id\": 7}\n"))
	body, err := ReadJSONDocument(req, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"id": 7}` {
		t.Fatalf("unexpected body %q", body)
	}

	for _, raw := range []string{"", "[1,2]", "{broken"} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		if _, err := ReadJSONDocument(req, 0); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"123456789"}`))
	requireValidation(t, func() error { _, err := ReadJSONDocument(req, 8); return err }())
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=abc&big=500", nil)

	if got, err := ParseQueryInt(req, "page", 1, 1, 1000); err != nil || got != 3 {
		t.Fatalf("expected page 3, got %d (%v)", got, err)
	}
	if got, err := ParseQueryInt(req, "missing", 24, 1, 100); err != nil || got != 24 {
		t.Fatalf("expected default 24, got %d (%v)", got, err)
	}
	if _, err := ParseQueryInt(req, "limit", 24, 1, 100); err == nil {
		t.Fatalf("expected non-numeric value to fail")
	}
	if _, err := ParseQueryInt(req, "big", 24, 1, 100); err == nil {
		t.Fatalf("expected out of range value to fail")
	}
}

func TestSanitizeSelection(t *testing.T) {
	got := SanitizeSelection(map[string]string{" Color ": " Red ", "  ": "x"}, 64)
	if len(got) != 1 || got["Color"] != "Red" {
		t.Fatalf("unexpected selection %v", got)
	}
}
