package core

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, reader LineReader, out io.Writer) (*Shell, *eventLog) {
	t.Helper()

	events := &eventLog{}
	executor := &Executor{
		Stdout: out,
		Stderr: ioutil.Discard,
		Env:    vos.OSEnv{},
		Events: events,
	}
	return NewShell(executor, newTestPromptBuilder(t), reader, out, log.New(ioutil.Discard, "", 0)), events
}

func TestShell_Run_transcripts(t *testing.T) {
	cases := map[string]struct {
		input  string
		status int
	}{
		"eof":            {"", 0},
		"blank-lines":    {"\n   \n\t\n", 0},
		"pipeline":       {"printf %s hi | cat\n", 0},
		"exit":           {"exit\nprintf %s never\n", 0},
		"unterminated":   {"printf %s last", 0},
		"spawn-failure":  {"pipesh-no-such-program\nprintf %s next\n", 0},
		"multiple-turns": {"printf 'a\\n'\n printf 'b\\n' | cat \n", 0},
	}

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			out := &bytes.Buffer{}
			s, _ := newTestShell(t, NewPlainReader(strings.NewReader(tc.input), out), out)

			status, err := s.Run()

			assert.NoError(t, err)
			assert.Equal(t, tc.status, status)
			assert.False(t, s.Interrupts.Armed())
			g.Assert(t, tn, out.Bytes())
		})
	}
}

// scriptedReader returns canned results and remembers the prompts it was
// shown.
type scriptedReader struct {
	results []scriptedResult
	prompts []string
	onRead  func()
}

type scriptedResult struct {
	line string
	err  error
}

func (r *scriptedReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if r.onRead != nil {
		r.onRead()
	}
	if len(r.results) == 0 {
		return "", io.EOF
	}
	next := r.results[0]
	r.results = r.results[1:]
	return next.line, next.err
}

func TestShell_Run_readError(t *testing.T) {
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	readErr := errors.New("input/output error")
	reader := &scriptedReader{results: []scriptedResult{{err: readErr}}}
	s, events := newTestShell(t, reader, out)
	s.Log = log.New(logs, "", 0)

	status, err := s.Run()

	assert.Equal(t, 1, status)
	assert.Equal(t, readErr, err)
	assert.Equal(t, "\n", out.String())
	assert.Contains(t, logs.String(), "input/output error")
	assert.Equal(t, []logger.Event{
		{Type: logger.TypeReadError, Error: "input/output error"},
	}, events.events)
}

func TestShell_Run_interruptedLine(t *testing.T) {
	out := &bytes.Buffer{}
	reader := &scriptedReader{results: []scriptedResult{
		{line: "printf %s partial", err: ErrLineInterrupted},
		{line: "printf %s ran\n"},
	}}
	s, _ := newTestShell(t, reader, out)

	status, err := s.Run()

	assert.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, "ran\n", out.String())
	assert.Len(t, reader.prompts, 3)
}

func TestShell_Run_armedOnlyWhileReading(t *testing.T) {
	out := &bytes.Buffer{}
	reader := &scriptedReader{results: []scriptedResult{
		{line: "true\n"},
		{line: "\n"},
	}}
	s, _ := newTestShell(t, reader, out)

	var armed []bool
	reader.onRead = func() {
		armed = append(armed, s.Interrupts.Armed())
	}

	_, err := s.Run()

	assert.NoError(t, err)
	assert.Equal(t, []bool{true, true, true}, armed)
	assert.False(t, s.Interrupts.Armed())
	// An interrupt outside of a read is swallowed.
	assert.False(t, s.Interrupts.Handle())
	assert.Equal(t, "\n", out.String())
}

func TestShell_Run_promptFollowsCd(t *testing.T) {
	restoreWd(t)
	out := &bytes.Buffer{}
	reader := &scriptedReader{results: []scriptedResult{
		{line: "cd /\n"},
	}}
	s, _ := newTestShell(t, reader, out)
	s.Prompt.Getwd = os.Getwd

	_, err := s.Run()

	require.NoError(t, err)
	require.Len(t, reader.prompts, 2)
	assert.Equal(t, "alice@box:/ ", reader.prompts[1])
	assert.Equal(t, "alice@box:/ ", s.prompt)
}

func TestShell_RunCommand(t *testing.T) {
	out := &bytes.Buffer{}
	s, _ := newTestShell(t, &scriptedReader{}, out)

	assert.False(t, s.RunCommand("printf %s one | tr a-z A-Z"))
	assert.True(t, s.RunCommand("exit"))
	assert.Equal(t, "ONE", out.String())
}
