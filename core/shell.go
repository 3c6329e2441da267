package core

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/josephlewis42/pipesh/core/logger"
)

// Shell is the interactive read loop. Each turn it builds a prompt, reads a
// line and hands it to the Executor.
type Shell struct {
	Executor   *Executor
	Prompt     *PromptBuilder
	Interrupts *InterruptController
	Reader     LineReader

	// Out receives the blank line written when the shell stops.
	Out io.Writer
	Log *log.Logger

	prompt string
}

// NewShell wires the read loop's collaborators together. Redrawn prompts are
// written to out.
func NewShell(executor *Executor, prompt *PromptBuilder, reader LineReader, out io.Writer, log *log.Logger) *Shell {
	s := &Shell{
		Executor: executor,
		Prompt:   prompt,
		Interrupts: &InterruptController{
			Out:    out,
			Prompt: prompt.Build,
		},
		Reader: reader,
		Out:    out,
		Log:    log,
	}
	executor.OnChdir = s.refreshPrompt

	return s
}

func (s *Shell) refreshPrompt() {
	s.prompt = s.Prompt.Build()
}

// Run reads and executes lines until input ends, exit is called or reading
// fails. The returned status is 0 unless reading failed, in which case the
// error is also returned.
func (s *Shell) Run() (int, error) {
	for {
		s.refreshPrompt()
		line, err := s.readLine()

		switch {
		case err == io.EOF:
			fmt.Fprintln(s.Out)
			return 0, nil

		case errors.Is(err, ErrLineInterrupted):
			continue

		case err != nil:
			s.Log.Printf("Error reading input: %v", err)
			s.Executor.record(logger.Event{Type: logger.TypeReadError, Error: err.Error()})
			fmt.Fprintln(s.Out)
			return 1, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue // empty line
		}

		if s.RunCommand(line) {
			return 0, nil
		}
	}
}

// readLine blocks for input with interrupts armed.
func (s *Shell) readLine() (string, error) {
	s.Interrupts.Arm()
	defer s.Interrupts.Disarm()

	return s.Reader.ReadLine(s.prompt)
}

// RunCommand executes a single line and reports whether the shell should quit.
func (s *Shell) RunCommand(line string) bool {
	return s.Executor.Run(line)
}
