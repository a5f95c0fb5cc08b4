package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRedirectErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *RedirectError
		want []string
	}{
		{
			name: "conflict carries both destinations",
			err:  NewConflictingRedirectError("/old", "/a", "/b"),
			want: []string{ErrCodeConflictingRedirect, "/old", "/a", "/b"},
		},
		{
			name: "chain carries full path sequence",
			err:  NewChainTooLongError([]string{"/a", "/b", "/c"}),
			want: []string{ErrCodeChainTooLong, "/a -> /b -> /c"},
		},
		{
			name: "cycle names revisited path",
			err:  NewRedirectCycleError([]string{"/a", "/b", "/a"}),
			want: []string{ErrCodeRedirectCycle, "/a -> /b -> /a"},
		},
		{
			name: "self redirect names the path",
			err:  NewSelfRedirectError("/loop"),
			want: []string{ErrCodeSelfRedirect, "/loop"},
		},
		{
			name: "empty source names the destination",
			err:  NewEmptySourceError("/dest"),
			want: []string{ErrCodeEmptySource, "/dest"},
		},
		{
			name: "shadow names the source",
			err:  NewShadowsPageError("/docs/page"),
			want: []string{ErrCodeShadowsPage, "/docs/page"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, fragment := range tt.want {
				if !strings.Contains(msg, fragment) {
					t.Errorf("error %q missing %q", msg, fragment)
				}
			}
		})
	}
}

func TestRedirectErrorIs(t *testing.T) {
	err := NewSelfRedirectError("/loop")

	if !errors.Is(err, &RedirectError{Type: ErrorTypeRule, Code: ErrCodeSelfRedirect}) {
		t.Error("expected Is to match on type and code")
	}
	if errors.Is(err, &RedirectError{Type: ErrorTypeTable, Code: ErrCodeSelfRedirect}) {
		t.Error("expected Is to reject a different type")
	}
}

func TestRedirectErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewConfigError("bad config", cause)

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap chain to reach the cause")
	}
}

func TestIsCode(t *testing.T) {
	err := NewShadowsPageError("/p")
	if !IsCode(err, ErrCodeShadowsPage) {
		t.Error("expected IsCode match")
	}
	if IsCode(err, ErrCodeRedirectCycle) {
		t.Error("expected IsCode mismatch")
	}
	if IsCode(errors.New("plain"), ErrCodeShadowsPage) {
		t.Error("expected plain errors not to match")
	}

	wrapped := fmt.Errorf("build failed: %w", err)
	if !IsCode(wrapped, ErrCodeShadowsPage) {
		t.Error("expected IsCode to unwrap")
	}
}

func TestCollector(t *testing.T) {
	collector := NewCollector()
	if collector.HasErrors() {
		t.Fatal("new collector should be empty")
	}
	if collector.Err() != nil {
		t.Fatal("empty collector should fold to nil")
	}

	collector.Add(nil)
	if collector.HasErrors() {
		t.Fatal("nil errors should be ignored")
	}

	first := NewSelfRedirectError("/a")
	collector.Add(first)
	if got := collector.Err(); got != first {
		t.Errorf("single-error fold should return it verbatim, got %v", got)
	}

	collector.Add(NewShadowsPageError("/b"))
	err := collector.Err()
	if err == nil || !strings.Contains(err.Error(), "1 more") {
		t.Errorf("multi-error fold should summarize, got %v", err)
	}
	if !errors.Is(err, first) {
		t.Error("folded error should still match the first via errors.Is")
	}

	if got := len(collector.ByCode(ErrCodeShadowsPage)); got != 1 {
		t.Errorf("ByCode = %d, want 1", got)
	}
	if got := len(collector.Errors()); got != 2 {
		t.Errorf("Errors = %d, want 2", got)
	}
}
