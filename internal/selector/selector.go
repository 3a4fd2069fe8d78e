// Package selector lets the user pick one model from a resolved catalog.
package selector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roelfdiedericks/llmcli/internal/catalog"
	"github.com/roelfdiedericks/llmcli/internal/tui"
)

// descriptionWidth caps how much of a description is shown per line.
const descriptionWidth = 70

// SelectionError is invalid input at the selection prompt. The caller
// decides whether to re-prompt; the selector never loops.
type SelectionError struct {
	Input  string
	Reason string
	Err    error // io.EOF when input ended
}

func (e *SelectionError) Error() string {
	if e.Input == "" {
		return "invalid selection: " + e.Reason
	}
	return fmt.Sprintf("invalid selection %q: %s", e.Input, e.Reason)
}

func (e *SelectionError) Unwrap() error { return e.Err }

// Selector renders a numbered list and reads one choice per call.
type Selector struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Selector reading from in and writing to out. Reuse one
// Selector across re-prompts so buffered input isn't lost.
func New(in io.Reader, out io.Writer) *Selector {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Selector{in: br, out: out}
}

// Select is a one-shot helper around New(in, out).Select(models).
func Select(models []catalog.Model, in io.Reader, out io.Writer) (catalog.Model, error) {
	return New(in, out).Select(models)
}

// Render prints the 1-based list in the order given.
func (s *Selector) Render(models []catalog.Model) {
	fmt.Fprintln(s.out, tui.TitleStyle.Render("Available models:"))
	for i, m := range models {
		line := fmt.Sprintf("%s %s",
			tui.IndexStyle.Render(fmt.Sprintf("%3d.", i+1)),
			tui.ModelIDStyle.Render(m.ID),
		)
		if m.Name != "" && m.Name != m.ID {
			line += " " + m.Name
		}
		if d := shorten(m.Description, descriptionWidth); d != "" {
			line += tui.HintStyle.Render(" - " + d)
		}
		fmt.Fprintln(s.out, line)
	}
}

// Select renders models, reads one line and returns the chosen model.
// An empty list yields catalog.ErrEmptyCatalog without prompting.
func (s *Selector) Select(models []catalog.Model) (catalog.Model, error) {
	if len(models) == 0 {
		return catalog.Model{}, catalog.ErrEmptyCatalog
	}

	s.Render(models)
	fmt.Fprint(s.out, tui.PromptStyle.Render(fmt.Sprintf("Select a model [1-%d]: ", len(models))))

	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return catalog.Model{}, &SelectionError{Reason: "no input", Err: err}
	}

	return Parse(models, line)
}

// Parse maps one line of input to a model.
func Parse(models []catalog.Model, input string) (catalog.Model, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return catalog.Model{}, &SelectionError{Reason: "empty input"}
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return catalog.Model{}, &SelectionError{Input: input, Reason: "not a number"}
	}
	if n < 1 || n > len(models) {
		return catalog.Model{}, &SelectionError{Input: input, Reason: fmt.Sprintf("out of range 1-%d", len(models))}
	}
	return models[n-1], nil
}

func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-3])) + "..."
}
