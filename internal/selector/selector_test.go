package selector

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/roelfdiedericks/llmcli/internal/catalog"
)

var threeModels = []catalog.Model{
	{ID: "mistral-small-latest", Name: "Mistral Small", Description: "Small and fast"},
	{ID: "mistral-medium-latest", Name: "Mistral Medium", Description: "Balanced"},
	{ID: "mistral-large-latest", Name: "mistral-large-latest", Description: ""},
}

func TestSelectValid(t *testing.T) {
	var out bytes.Buffer
	got, err := Select(threeModels, strings.NewReader("2\n"), &out)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got.ID != "mistral-medium-latest" {
		t.Errorf("Select(2) = %q, want mistral-medium-latest", got.ID)
	}
}

func TestSelectWithoutTrailingNewline(t *testing.T) {
	var out bytes.Buffer
	got, err := Select(threeModels, strings.NewReader(" 3 "), &out)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got.ID != "mistral-large-latest" {
		t.Errorf("got %q", got.ID)
	}
}

func TestSelectInvalid(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"out of range high", "5\n", "out of range"},
		{"zero", "0\n", "out of range"},
		{"negative", "-1\n", "out of range"},
		{"not a number", "abc\n", "not a number"},
		{"empty line", "\n", "empty input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := Select(threeModels, strings.NewReader(tt.input), &out)
			var selErr *SelectionError
			if !errors.As(err, &selErr) {
				t.Fatalf("expected SelectionError, got %v", err)
			}
			if !strings.Contains(selErr.Reason, tt.reason) {
				t.Errorf("reason = %q, want it to contain %q", selErr.Reason, tt.reason)
			}
		})
	}
}

func TestSelectEOF(t *testing.T) {
	var out bytes.Buffer
	_, err := Select(threeModels, strings.NewReader(""), &out)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected error wrapping io.EOF, got %v", err)
	}
	var selErr *SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("expected SelectionError, got %T", err)
	}
}

func TestSelectEmptyCatalog(t *testing.T) {
	var out bytes.Buffer
	_, err := Select(nil, strings.NewReader("1\n"), &out)
	if !errors.Is(err, catalog.ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("empty catalog should not render a prompt, got %q", out.String())
	}
}

func TestRenderPreservesOrder(t *testing.T) {
	var out bytes.Buffer
	New(strings.NewReader(""), &out).Render(threeModels)

	text := out.String()
	prev := -1
	for i, m := range threeModels {
		idx := strings.Index(text, m.ID)
		if idx < 0 {
			t.Fatalf("model %q not rendered:\n%s", m.ID, text)
		}
		if idx <= prev {
			t.Errorf("model %d (%q) rendered out of order", i, m.ID)
		}
		prev = idx
	}
	for _, want := range []string{"1.", "2.", "3.", "Mistral Small", "Small and fast"} {
		if !strings.Contains(text, want) {
			t.Errorf("render missing %q:\n%s", want, text)
		}
	}
}

func TestSelectorReprompt(t *testing.T) {
	var out bytes.Buffer
	s := New(strings.NewReader("abc\n1\n"), &out)

	if _, err := s.Select(threeModels); err == nil {
		t.Fatal("first attempt should fail")
	}
	got, err := s.Select(threeModels)
	if err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if got.ID != "mistral-small-latest" {
		t.Errorf("got %q", got.ID)
	}
}

func TestShorten(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := shorten(long, 20)
	if len([]rune(got)) > 20 {
		t.Errorf("shorten returned %d runes: %q", len([]rune(got)), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if got := shorten("  multi\n line  ", 20); got != "multi line" {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}
