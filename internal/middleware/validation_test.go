package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type registerPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeAndValidate_Valid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/users/register",
		strings.NewReader(`{"email":"jo@example.com","password":"hunter22"}`))

	var payload registerPayload
	if err := DecodeAndValidate(req, &payload); err != nil {
		t.Fatalf("DecodeAndValidate returned error: %v", err)
	}
	if payload.Email != "jo@example.com" {
		t.Errorf("email = %q", payload.Email)
	}
}

func TestDecodeAndValidate_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{"email":`},
		{"missing email", `{"password":"hunter22"}`},
		{"bad email", `{"email":"nope","password":"hunter22"}`},
		{"short password", `{"email":"jo@example.com","password":"x"}`},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(tc.body))
		var payload registerPayload
		if err := DecodeAndValidate(req, &payload); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
}

func TestFormatValidationErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/users/register",
		strings.NewReader(`{"email":"nope","password":"x"}`))

	var payload registerPayload
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	errs := FormatValidationErrors(err)
	if len(errs) != 2 {
		t.Fatalf("got %d validation errors, want 2", len(errs))
	}
	for _, e := range errs {
		if e.Field == "" || e.Message == "" {
			t.Errorf("incomplete validation error: %+v", e)
		}
	}
}
