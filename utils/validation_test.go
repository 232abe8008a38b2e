package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestSanitizeValidationErrorEmail(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Email string `validate:"required,email"`
	}

	err := validate.Struct(TestReq{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error for invalid email")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "email must be a valid email address") {
		t.Errorf("expected user-friendly email error, got: %s", msg)
	}
}

func TestSanitizeValidationErrorRequired(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		FullName string `validate:"required"`
		Phone    string `validate:"required"`
	}

	err := validate.Struct(TestReq{})
	if err == nil {
		t.Fatal("expected validation error for missing required fields")
	}

	msg := SanitizeValidationError(err)
	if msg != "full_name is required; phone is required" {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestSanitizeValidationErrorNilReturnsEmpty(t *testing.T) {
	if msg := SanitizeValidationError(nil); msg != "" {
		t.Errorf("expected empty string for nil error, got: %s", msg)
	}
}

func TestSanitizeValidationErrorMinQuantity(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Quantity int `validate:"min=1"`
	}

	msg := SanitizeValidationError(validate.Struct(TestReq{Quantity: 0}))
	if msg != "quantity must be at least 1" {
		t.Errorf("expected min message, got: %s", msg)
	}
}

func TestSanitizeValidationErrorRequiredWithout(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		ProductSlug string `validate:"required_without=ProductID"`
		ProductID   int64
	}

	msg := SanitizeValidationError(validate.Struct(TestReq{}))
	if msg != "product_slug or product_id is required" {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestSanitizeValidationErrorNonValidatorError(t *testing.T) {
	if msg := SanitizeValidationError(errors.New("invalid character 'x'")); msg != "Invalid request body" {
		t.Errorf("expected generic message, got: %s", msg)
	}
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Quantity":    "quantity",
		"ProductSlug": "product_slug",
		"ProductID":   "product_id",
		"HTTPServer":  "http_server",
		"":            "",
	}
	for in, want := range cases {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
