package mcpapp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/etnz/mcpgemini/expert"
	"github.com/mitchellh/go-wordwrap"
)

// Agent is the interactive shell: it reads queries from the operator, asks
// the expert and prints the answers.
type Agent struct {
	w      io.Writer
	r      *bufio.Reader
	expert *expert.Expert

	// ExitCommand ends the session, compared case-insensitively.
	ExitCommand string
	// Prompt is printed before each query.
	Prompt string
}

// NewAgent creates a new Agent and registers it as the expert's conversation logger.
func NewAgent(e *expert.Expert, w io.Writer, r io.Reader) *Agent {
	defaults := DefaultConfig()
	a := &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		expert:      e,
		ExitCommand: defaults.ExitCommand,
		Prompt:      defaults.Prompt,
	}
	e.SetLogger(a)
	return a
}

// Run starts the read-eval-print loop. inputs are replayed as queries before
// reading from the operator.
//
// Run returns nil on the exit command or at end of input. A failed query is
// reported and the loop goes on; only a read error or the cancellation of ctx
// stops it early, even while waiting for the operator.
func (a *Agent) Run(ctx context.Context, inputs ...string) error {
	fmt.Fprintf(a.w, "\nMCP Client Started! Type '%s' to quit.\n", a.ExitCommand)

	done := make(chan struct{})
	defer close(done)
	var lines <-chan line

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(a.w, "\n%s", a.Prompt)

		// Read input from args, or from user input
		var input string
		if len(inputs) > 0 {
			input = strings.TrimSpace(inputs[0])
			inputs = inputs[1:]
			fmt.Fprintln(a.w, input)
		} else {
			if lines == nil {
				lines = a.readLines(done)
			}
			var l line
			select {
			case <-ctx.Done():
				fmt.Fprintln(a.w)
				return ctx.Err()
			case l = <-lines:
			}
			if l.err != nil {
				if l.err == io.EOF {
					fmt.Fprintln(a.w) // Newline on exit
					return nil
				}
				return l.err
			}
			input = strings.TrimSpace(l.text)
		}

		if strings.EqualFold(input, a.ExitCommand) {
			return nil
		}

		response, err := a.expert.Ask(ctx, input)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if !errors.Is(err, expert.ErrGeneration) {
				log.Printf("unexpected query failure: %v", err)
			}
			fmt.Fprintf(a.w, "\nError: %v\n", err)
			continue
		}
		fmt.Fprintf(a.w, "\nResponse: %s\n", response)
	}
}

// line is one read from the operator: a text or the error that ended input.
type line struct {
	text string
	err  error
}

// readLines reads the operator input in its own goroutine, so that waiting
// for a line never blocks cancellation. The last value carries the read
// error, io.EOF at end of input. The goroutine stops when done is closed.
func (a *Agent) readLines(done <-chan struct{}) <-chan line {
	lines := make(chan line)
	go func() {
		for {
			text, err := a.r.ReadString('\n')
			if err == io.EOF && text != "" {
				// last line without a newline
				err = nil
			}
			select {
			case lines <- line{text: text, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

// logMultiline is a helper to log multi-line text with a consistent format.
// It prefixes the first line with the expert's name and a prompt character,
// and indents subsequent lines.
func (a *Agent) logMultiline(name, promptChar, text string) {
	const wrapWidth = 80

	firstLinePrefix := fmt.Sprintf("%20s%s ", name, promptChar)
	indentPrefix := fmt.Sprintf("%20s  ", "")

	textWidth := max(wrapWidth-len(firstLinePrefix), 20)

	wrappedLines := strings.Split(wordwrap.WrapString(text, uint(textWidth)), "\n")
	for i, line := range wrappedLines {
		if i == 0 {
			fmt.Fprintf(a.w, "%s%s\n", firstLinePrefix, line)
		} else {
			fmt.Fprintf(a.w, "%s%s\n", indentPrefix, line)
		}
	}
}

// LogQuestion implements the expert.ConversationLogger interface.
func (a *Agent) LogQuestion(expertName, question string) {
	a.logMultiline(expertName, ">", question)
}

// LogResponse implements the expert.ConversationLogger interface.
func (a *Agent) LogResponse(expertName, response string) {
	a.logMultiline(expertName, ":", response)
}
