package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	core "github.com/neetprep/service_layer/internal/app/core/service"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		params LookupParams
		fields []string
	}{
		{"valid", LookupParams{SessionID: 10, QuestionID: 200}, nil},
		{"zero session", LookupParams{SessionID: 0, QuestionID: 200}, []string{"session_id"}},
		{"negative question", LookupParams{SessionID: 10, QuestionID: -1}, []string{"question_id"}},
		{"both missing", LookupParams{}, []string{"session_id", "question_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("expected valid params, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if err.Message != MsgInvalidRequest {
				t.Fatalf("unexpected message %q", err.Message)
			}
			for _, field := range tt.fields {
				if len(err.Details[field]) == 0 {
					t.Fatalf("expected details for %s, got %v", field, err.Details)
				}
			}
			if !core.IsValidationError(err) {
				t.Fatalf("validation payload should wrap ErrInvalidInput")
			}
		})
	}
}

func TestNotFoundPayload(t *testing.T) {
	err := NotFound()
	if !core.IsNotFound(err) {
		t.Fatalf("not-found payload should wrap ErrNotFound")
	}

	raw, _ := json.Marshal(err)
	if string(raw) != `{"error":"Session question not found"}` {
		t.Fatalf("unexpected json %s", raw)
	}
}

func TestLookupErrorMessage(t *testing.T) {
	err := LookupParams{}.Validate()
	want := "Invalid request (question_id: must be a positive integer; session_id: must be a positive integer)"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestAsLookupError(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NotFound())
	le, ok := AsLookupError(wrapped)
	if !ok || le.Message != MsgNotFound {
		t.Fatalf("expected lookup error in chain, got %v", le)
	}

	if _, ok := AsLookupError(errors.New("plain")); ok {
		t.Fatalf("plain error must not match")
	}
}

func TestLookupResponseShape(t *testing.T) {
	raw, _ := json.Marshal(LookupResponse{SessionQuestionID: 555})
	if string(raw) != `{"session_question_id":555}` {
		t.Fatalf("unexpected json %s", raw)
	}
}
