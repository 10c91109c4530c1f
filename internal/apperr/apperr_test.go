package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"socialposts/internal/apperr"
)

func TestKindOf_SurvivesWrapping(t *testing.T) {
	err := apperr.NotFound("Post not found")
	wrapped := fmt.Errorf("resolver: %w", err)

	if apperr.KindOf(wrapped) != apperr.KindNotFound {
		t.Fatalf("expected not found kind got %v", apperr.KindOf(wrapped))
	}
	if apperr.KindOf(errors.New("plain")) != apperr.KindUnknown {
		t.Fatal("plain error should be unknown kind")
	}
}

func TestStore_KeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := apperr.Store("list posts", cause)

	if !errors.Is(err, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
	if apperr.KindOf(err) != apperr.KindStore {
		t.Fatalf("expected store kind got %v", apperr.KindOf(err))
	}
	if err.Error() != "list posts: dial tcp: connection refused" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidation_CarriesFields(t *testing.T) {
	fields := map[string]string{"title": "Title must not be empty"}
	err := apperr.Validation(fields)

	got := apperr.FieldsOf(fmt.Errorf("create: %w", err))
	if got["title"] != fields["title"] {
		t.Fatalf("fields lost: %v", got)
	}
	if apperr.FieldsOf(errors.New("plain")) != nil {
		t.Fatal("expected nil fields for plain error")
	}
}
