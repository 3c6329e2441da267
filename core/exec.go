package core

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/shell"
	"github.com/josephlewis42/pipesh/core/vos"
)

// Executor runs command lines as pipelines of external programs.
//
// Stages run one at a time: each is started and waited on before the next is
// started, with its captured output handed to the next stage as input. A
// stage that writes more than the pipe buffer holds will block until it's
// killed because its reader hasn't started yet.
type Executor struct {
	// Stdin is the input of the first stage.
	Stdin io.Reader
	// Stdout is the output of the last stage.
	Stdout io.Writer
	// Stderr receives errors and the error output of every stage.
	Stderr io.Writer
	// Env is passed to child processes and consulted by builtins.
	Env vos.VEnv
	// Events records what was run, it may be nil.
	Events logger.EventRecorder
	// OnChdir is called after a builtin changes the working directory.
	OnChdir func()

	quit bool
}

// Stage is one command of a pipeline.
type Stage struct {
	// Index is the position of the stage in the pipeline.
	Index int
	// Args holds the program name followed by its arguments.
	Args []string
	// Last is set for the final stage, whose output isn't captured.
	Last bool
}

// Run executes one command line and reports whether the shell should quit.
func (e *Executor) Run(line string) (quit bool) {
	subcommands := shell.Split(line)

	if len(subcommands) == 1 {
		if builtin, ok := lookupBuiltin(subcommands[0]); ok {
			e.runBuiltin(builtin, shell.Tokenize(subcommands[0]))
			return e.quit
		}
	}

	e.runPipeline(subcommands)
	return false
}

// lookupBuiltin finds the builtin named by the first word of the raw
// subcommand.
func lookupBuiltin(subcommand string) (ShellBuiltin, bool) {
	fields := strings.Fields(subcommand)
	if len(fields) == 0 {
		return nil, false
	}
	builtin, ok := AllBuiltins[fields[0]]
	return builtin, ok
}

func (e *Executor) runBuiltin(builtin ShellBuiltin, args []string) {
	status := builtin.Main(e, args)
	e.record(logger.Event{Type: logger.TypeBuiltin, Command: args, Status: status})
}

func (e *Executor) runPipeline(subcommands []string) {
	// Read end of the previous stage's output.
	var captured *os.File
	defer func() {
		if captured != nil {
			captured.Close()
		}
	}()

	for i, subcommand := range subcommands {
		tokens := shell.Tokenize(subcommand)
		if len(tokens) == 0 {
			continue
		}

		// Builtins can't take part in pipelines.
		if _, ok := AllBuiltins[tokens[0]]; ok {
			continue
		}

		captured = e.runStage(&Stage{
			Index: i,
			Args:  tokens,
			Last:  i == len(subcommands)-1,
		}, captured)
	}
}

// runStage starts the stage reading from input (or Stdin if nil) and waits
// for it to exit. If the stage isn't last, the read end of its output is
// returned. input is always closed.
func (e *Executor) runStage(stage *Stage, input *os.File) (output *os.File) {
	if input != nil {
		defer input.Close()
	}

	cmd := exec.Command(stage.Args[0], stage.Args[1:]...)
	cmd.Stderr = e.Stderr
	cmd.Env = e.env().Environ()

	if input != nil {
		cmd.Stdin = input
	} else if e.Stdin != nil {
		cmd.Stdin = e.Stdin
	}

	if stage.Last {
		cmd.Stdout = e.Stdout
	} else {
		r, w, err := os.Pipe()
		if err != nil {
			e.spawnFailed(stage, err)
			return nil
		}
		// The parent's copy of the write end must be closed so the next stage
		// sees EOF.
		defer w.Close()
		cmd.Stdout = w
		output = r
	}

	if err := cmd.Start(); err != nil {
		if output != nil {
			output.Close()
		}
		e.spawnFailed(stage, err)
		return nil
	}

	// Non-zero exits are recorded, but otherwise don't affect the pipeline.
	_ = cmd.Wait()

	e.record(logger.Event{
		Type:    logger.TypeRunCommand,
		Command: stage.Args,
		Stage:   stage.Index,
		Status:  cmd.ProcessState.ExitCode(),
	})

	return output
}

func (e *Executor) spawnFailed(stage *Stage, err error) {
	fmt.Fprintln(e.stderr(), err)
	e.record(logger.Event{
		Type:    logger.TypeSpawnFailure,
		Command: stage.Args,
		Stage:   stage.Index,
		Error:   err.Error(),
	})
}

func (e *Executor) stderr() io.Writer {
	if e.Stderr == nil {
		return io.Discard
	}
	return e.Stderr
}

func (e *Executor) env() vos.VEnv {
	if e.Env == nil {
		return vos.OSEnv{}
	}
	return e.Env
}

func (e *Executor) record(event logger.Event) {
	if e.Events == nil {
		return
	}
	// Event logging is best effort.
	_ = e.Events.Record(event)
}
