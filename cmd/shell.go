package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/josephlewis42/pipesh/core"
	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func runShell(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	appLogger := log.New(cmd.ErrOrStderr(), "[pipesh] ", 0)

	var events logger.EventRecorder = logger.NopRecorder{}
	if cfg.EventLog && cfg.HasDir() {
		logFd, err := cfg.OpenEventLog()
		if err != nil {
			return err
		}
		defer logFd.Close()
		events = logger.NewJSONLinesLogRecorder(logFd).NewSession()
	}

	executor := &core.Executor{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Env:    vos.OSEnv{},
		Events: events,
	}
	prompt := core.NewPromptBuilder(cfg.HostnamePath, cfg.UseColor(!color.NoColor))

	if command != "" {
		s := core.NewShell(executor, prompt, nil, cmd.OutOrStdout(), appLogger)
		s.RunCommand(command)
		return nil
	}

	reader, closer, err := newLineReader(cmd, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	s := core.NewShell(executor, prompt, reader, cmd.OutOrStdout(), appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Interrupts.NotifyInterrupts(ctx)

	if _, err := s.Run(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newLineReader(cmd *cobra.Command, cfg *config.Configuration) (core.LineReader, io.Closer, error) {
	if cfg.UseReadline(isatty.IsTerminal(os.Stdin.Fd())) {
		reader, err := core.NewReadlineReader(cfg.HistoryPath())
		if err != nil {
			return nil, nil, err
		}
		return reader, reader, nil
	}

	return core.NewPlainReader(cmd.InOrStdin(), cmd.OutOrStdout()), nopCloser{}, nil
}
