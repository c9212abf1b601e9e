package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeRemote, cause, "calling shop module")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeRemote {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	if got := CodeOf(stdErrors.New("plain")); got != CodeInternal {
		t.Fatalf("expected internal code, got %s", got)
	}
	if got := CodeOf(New(CodeConflict, "dup")); got != CodeConflict {
		t.Fatalf("expected conflict code, got %s", got)
	}
}

func TestIsNotFoundSeesWrappedCode(t *testing.T) {
	inner := New(CodeNotFound, "no shop customer")
	outer := Wrap(CodeRemote, inner, "lookup failed")
	// The outer code wins; callers check the outermost classification.
	if IsNotFound(outer) {
		t.Fatal("outer remote error must not read as not-found")
	}
	if !IsNotFound(inner) {
		t.Fatal("expected not-found")
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", meta.HTTPStatus)
	}
}
