package search

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind_Message(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindNotFound, "Planet not found."},
		{KindEmptyResult, "No residents found for this planet."},
		{KindResidentFetch, "Error retrieving resident data."},
		{KindLookup, "Error retrieving planet data."},
		{KindPaging, "Error retrieving next page data."},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &Error{Kind: KindLookup, Cause: cause}

	if err.Error() != "Error retrieving planet data.: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Message() != "Error retrieving planet data." {
		t.Errorf("Message() = %q", err.Message())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see the cause")
	}

	bare := &Error{Kind: KindNotFound}
	if bare.Error() != "Planet not found." {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("ui: %w", &Error{Kind: KindPaging})
	if KindOf(wrapped) != KindPaging {
		t.Errorf("KindOf() = %q", KindOf(wrapped))
	}
	if KindOf(ErrBusy) != "" {
		t.Error("KindOf(ErrBusy) should be empty")
	}
	if KindOf(nil) != "" {
		t.Error("KindOf(nil) should be empty")
	}
}
