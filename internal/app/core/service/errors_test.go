package service

import (
	"errors"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("question", "200")

	expected := `question "200" not found`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected error to wrap ErrNotFound")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should return true")
	}
}

func TestNotFoundError_NoID(t *testing.T) {
	err := NewNotFoundError("session question", "")

	expected := "session question not found"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("session_id", "must be a positive integer")

	expected := "session_id: must be a positive integer"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !IsValidationError(err) {
		t.Error("IsValidationError should return true")
	}
	if IsNotFound(err) {
		t.Error("validation error must not match ErrNotFound")
	}
}

func TestRequiredError(t *testing.T) {
	err := RequiredError("question_id")

	if err.Error() != "question_id: is required" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected error to wrap ErrInvalidInput")
	}
}

func TestServiceError(t *testing.T) {
	err := WrapServiceError("questions", "Get", NewNotFoundError("question", "7"))

	expected := `questions.Get: question "7" not found`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped error should still match ErrNotFound")
	}
}

func TestWrapServiceError_Nil(t *testing.T) {
	if err := WrapServiceError("test", "op", nil); err != nil {
		t.Error("WrapServiceError(nil) should return nil")
	}
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("session question", "pair already linked")

	if err.Error() != "session question conflict: pair already linked" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !IsConflict(err) {
		t.Error("IsConflict should return true")
	}
}
