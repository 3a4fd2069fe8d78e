// Package session runs the interactive prompt loop against one model.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/roelfdiedericks/llmcli/internal/llm"
	. "github.com/roelfdiedericks/llmcli/internal/logging"
	"github.com/roelfdiedericks/llmcli/internal/tui"
)

// quitWords end the session, case-insensitively.
var quitWords = map[string]bool{"quit": true, "exit": true, "q": true}

// Stats summarizes a finished session.
type Stats struct {
	Turns    int // prompts sent
	Failures int // prompts that returned an error
}

// Session reads prompts from in and prints model replies to out.
type Session struct {
	client llm.Client
	label  string
	in     *bufio.Reader
	out    io.Writer
	stats  Stats
}

// New creates a session. label is the provider name shown in the banner and
// response headers, e.g. "Mistral".
func New(client llm.Client, label string, in io.Reader, out io.Writer) *Session {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	if label == "" {
		label = client.Name()
	}
	return &Session{client: client, label: label, in: br, out: out}
}

// Stats returns the counters so far.
func (s *Session) Stats() Stats { return s.stats }

type line struct {
	text string
	err  error
}

// Run loops until the user quits, input ends or ctx is cancelled. A failed
// turn is reported and the loop continues. Only cancellation is returned as
// an error.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, tui.Banner(
		s.label+" LLM Interactive Client",
		"Type 'quit', 'exit', or 'q' to end the session",
	))
	fmt.Fprintln(s.out, tui.HintStyle.Render("Model: "+s.client.Model()))

	lines := make(chan line)
	done := make(chan struct{})
	defer close(done)

	// stdin reads can't be interrupted, so they happen off the loop
	go func() {
		for {
			text, err := s.in.ReadString('\n')
			select {
			case lines <- line{text, err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		fmt.Fprint(s.out, "\n"+tui.PromptStyle.Render("Enter your prompt: "))

		var l line
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\nGoodbye!")
			return ctx.Err()
		case l = <-lines:
		}

		prompt := strings.TrimSpace(l.text)
		if l.err != nil && prompt == "" {
			if !errors.Is(l.err, io.EOF) {
				L_warn("session: read failed", "error", l.err)
			}
			fmt.Fprintln(s.out, "\nGoodbye!")
			return nil
		}

		if quitWords[strings.ToLower(prompt)] {
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
		if prompt == "" {
			fmt.Fprintln(s.out, tui.WarningStyle.Render("Please enter a valid prompt."))
			continue
		}

		s.turn(ctx, prompt)

		if l.err != nil {
			fmt.Fprintln(s.out, "\nGoodbye!")
			return nil
		}
	}
}

func (s *Session) turn(ctx context.Context, prompt string) {
	s.stats.Turns++
	start := time.Now()

	reply, err := s.client.Complete(ctx, prompt)
	if err != nil {
		s.stats.Failures++
		errType := llm.Classify(err)
		L_error("session: request failed", "model", s.client.Model(), "type", errType, "error", err)
		fmt.Fprintln(s.out, tui.ErrorStyle.Render(llm.FormatErrorForUser(err.Error(), errType)))
		return
	}
	L_elapsed(start, "session: reply received", "model", s.client.Model(), "chars", len(reply))

	if reply == "" {
		s.stats.Failures++
		fmt.Fprintln(s.out, tui.ErrorStyle.Render(fmt.Sprintf("No response received from %s API.", s.label)))
		return
	}

	fmt.Fprintln(s.out, "\n"+tui.ResponseHeaderStyle.Render(s.label+" Response:"))
	fmt.Fprintln(s.out, reply)
}
