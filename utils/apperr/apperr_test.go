package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundCarriesKind(t *testing.T) {
	err := NotFound("module")

	if !IsNotFound(err) {
		t.Fatal("expected IsNotFound to be true")
	}
	if kind := NotFoundKind(err); kind != "module" {
		t.Errorf("expected kind 'module', got %q", kind)
	}
	if msg := err.Error(); msg != "module not found" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestNotFoundSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("delete cascade: %w", NotFound("faculty"))

	if !IsNotFound(err) {
		t.Fatal("expected wrapped NotFoundError to be detected")
	}
	if kind := NotFoundKind(err); kind != "faculty" {
		t.Errorf("expected kind 'faculty', got %q", kind)
	}
}

func TestConflict(t *testing.T) {
	err := Conflict("request")

	if !IsConflict(err) {
		t.Fatal("expected IsConflict to be true")
	}
	if IsNotFound(err) {
		t.Error("conflict must not be classified as not found")
	}
	if msg := err.Error(); msg != "request already exists" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestValidation(t *testing.T) {
	err := Validation("page %d out of range", 0)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("expected a ValidationError")
	}
	if ve.Message != "page 0 out of range" {
		t.Errorf("unexpected message: %q", ve.Message)
	}
}

func TestClassifiersRejectPlainErrors(t *testing.T) {
	err := errors.New("boom")

	if IsNotFound(err) {
		t.Error("plain error classified as not found")
	}
	if IsConflict(err) {
		t.Error("plain error classified as conflict")
	}
	if kind := NotFoundKind(err); kind != "" {
		t.Errorf("expected empty kind, got %q", kind)
	}
}
