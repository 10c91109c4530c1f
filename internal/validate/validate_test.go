package validate_test

import (
	"testing"

	"socialposts/internal/validate"
)

func TestPostInput_Valid(t *testing.T) {
	if errs := validate.PostInput("t", "d", "b"); len(errs) != 0 {
		t.Fatalf("expected no errors got %v", errs)
	}
}

func TestPostInput_EmptyAfterTrim(t *testing.T) {
	errs := validate.PostInput("   ", "d", "\n\t")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors got %v", errs)
	}
	if errs["title"] == "" {
		t.Fatal("expected title error")
	}
	if errs["body"] == "" {
		t.Fatal("expected body error")
	}
	if _, ok := errs["description"]; ok {
		t.Fatal("unexpected description error")
	}
}
