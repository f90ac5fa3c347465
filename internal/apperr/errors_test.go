package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestFieldsUnwrapsJoined(t *testing.T) {
	v := ValidationErrors{{Field: "Email", Message: "invalid format"}}
	err := fmt.Errorf("contact: %w", errors.Join(ErrCreateFailed, v))

	if !errors.Is(err, ErrCreateFailed) {
		t.Fatal("expected ErrCreateFailed in chain")
	}
	got := Fields(err)
	if len(got) != 1 || got[0].Field != "Email" {
		t.Fatalf("Fields = %v", got)
	}
	if got.Error() != "Email: invalid format" {
		t.Errorf("Error() = %q", got.Error())
	}
}

func TestFieldsNone(t *testing.T) {
	if Fields(ErrNotFound) != nil {
		t.Error("expected no field errors")
	}
}
