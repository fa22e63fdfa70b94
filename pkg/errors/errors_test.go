package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := Wrap(CodeInternal, cause, "saving sale")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected wrapped error to match cause")
	}
	if err.Error() != "INTERNAL_ERROR: saving sale" {
		t.Fatalf("unexpected error string: %q", err.Error())
	}
}

func TestAsExtractsThroughWrapping(t *testing.T) {
	typed := New(CodeConflict, "duplicate product name")
	wrapped := fmt.Errorf("recording product: %w", typed)

	got := As(wrapped)
	if got == nil {
		t.Fatal("expected typed error to be extracted")
	}
	if got.Code() != CodeConflict {
		t.Fatalf("unexpected code %q", got.Code())
	}
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for non-typed error")
	}
	if As(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestMetadataForLockedIsRetryable(t *testing.T) {
	meta := MetadataFor(CodeLocked)
	if !meta.Retryable {
		t.Fatal("expected locked condition to be retryable")
	}
	if meta.HTTPStatus != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
}

func TestDumpIncludesChain(t *testing.T) {
	cause := stdErrors.New("database is locked")
	err := Wrap(CodeLocked, cause, "recording payment")

	d := Dump(err)
	if d.Code != CodeLocked {
		t.Fatalf("unexpected code %q", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(d.Chain))
	}
}
