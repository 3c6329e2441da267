package core

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
)

// InterruptController redraws the prompt when an interrupt arrives while the
// shell is blocked reading a line. Interrupts at any other time, such as
// while a child process is running, are swallowed.
type InterruptController struct {
	reading atomic.Bool

	// Out receives redrawn prompts.
	Out io.Writer
	// Prompt builds the prompt to redraw.
	Prompt func() string
}

// Arm marks the start of a blocking read.
func (ic *InterruptController) Arm() {
	ic.reading.Store(true)
}

// Disarm marks the end of a blocking read.
func (ic *InterruptController) Disarm() {
	ic.reading.Store(false)
}

// Armed reports whether a read is in progress.
func (ic *InterruptController) Armed() bool {
	return ic.reading.Load()
}

// Handle reacts to one interrupt and reports whether the prompt was redrawn.
//
// When called from Listen the flag is read once the listener runs, not when
// the signal arrived, so an interrupt queued while a child was running can
// still redraw the prompt if the next read has already been armed.
func (ic *InterruptController) Handle() bool {
	if !ic.reading.Load() {
		return false
	}

	prompt := ""
	if ic.Prompt != nil {
		prompt = ic.Prompt()
	}

	w := bufio.NewWriter(ic.Out)
	w.WriteString("\n")
	w.WriteString(prompt)
	w.WriteString(PromptSuffix)
	_ = w.Flush()
	return true
}

// Listen calls Handle for each notification on interrupts until the channel
// is closed or ctx is done. It returns once the listener goroutine has been
// started; the returned channel is closed when it exits.
func (ic *InterruptController) Listen(ctx context.Context, interrupts <-chan os.Signal) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-interrupts:
				if !ok {
					return
				}
				ic.Handle()
			}
		}
	}()
	return done
}

// NotifyInterrupts routes SIGINT to the controller until ctx is done.
func (ic *InterruptController) NotifyInterrupts(ctx context.Context) {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)

	done := ic.Listen(ctx, interrupts)
	go func() {
		<-done
		signal.Stop(interrupts)
	}()
}
