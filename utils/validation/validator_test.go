package validation

import (
	"strings"
	"testing"
)

type registerForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
	Platform string `validate:"omitempty,oneof=android ios web"`
	Semester int    `validate:"omitempty,min=1,max=20"`
}

func TestValidateStructPasses(t *testing.T) {
	v := NewValidator()
	err := v.ValidateStruct(registerForm{
		Email:    "ada@example.com",
		Password: "correct horse",
		Platform: "android",
		Semester: 3,
	})
	if err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}
}

func TestValidateStructListsEveryFailure(t *testing.T) {
	v := NewValidator()
	err := v.ValidateStruct(registerForm{
		Email:    "not-an-email",
		Password: "short",
		Platform: "windows",
		Semester: 25,
	})
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	msg := err.Error()
	for _, want := range []string{
		"email must be a valid email address",
		"password must be at least 8 characters",
		"platform must be one of: android, ios, web",
		"semester must be at most 20",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	got := SanitizeString("  Computer\x00 Science  ")
	if got != "Computer Science" {
		t.Errorf("SanitizeString = %q", got)
	}
}
