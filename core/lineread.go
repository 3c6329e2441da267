package core

import (
	"bufio"
	"errors"
	"io"

	"github.com/abiosoft/readline"
)

// ErrLineInterrupted is returned by a LineReader when the user abandons the
// line being edited.
var ErrLineInterrupted = errors.New("line interrupted")

// LineReader shows a prompt and reads one line of input.
type LineReader interface {
	// ReadLine displays prompt followed by PromptSuffix and blocks until a
	// line is available. io.EOF is returned once input is exhausted.
	ReadLine(prompt string) (string, error)
}

// PlainReader reads newline terminated lines without any editing support.
type PlainReader struct {
	in  *bufio.Reader
	out io.Writer
}

var _ LineReader = (*PlainReader)(nil)

func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// ReadLine implements LineReader. A final line without a trailing newline is
// returned before io.EOF.
func (p *PlainReader) ReadLine(prompt string) (string, error) {
	w := bufio.NewWriter(p.out)
	w.WriteString(prompt)
	w.WriteString(PromptSuffix)
	if err := w.Flush(); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}

// ReadlineReader reads lines from the terminal with history and editing.
type ReadlineReader struct {
	rl *readline.Instance
}

var _ LineReader = (*ReadlineReader)(nil)

// NewReadlineReader sets up line editing on the process's terminal. History
// is persisted to historyFile if it's not empty.
func NewReadlineReader(historyFile string) (*ReadlineReader, error) {
	cfg := &readline.Config{
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &ReadlineReader{rl: rl}, nil
}

// ReadLine implements LineReader.
func (r *ReadlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt + PromptSuffix)
	line, err := r.rl.Readline()
	if err == readline.ErrInterrupt {
		return line, ErrLineInterrupted
	}
	return line, err
}

// Close restores the terminal.
func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}
