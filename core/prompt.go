package core

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/spf13/afero"
)

const (
	// DefaultHostnamePath is where Linux exposes the host name.
	DefaultHostnamePath = "/proc/sys/kernel/hostname"

	// PromptSuffix follows the prompt string on every read.
	PromptSuffix = "$ "
)

var (
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
)

func init() {
	// Whether to color is decided per PromptBuilder, not by fatih/color's
	// terminal detection.
	ColorBoldGreen.EnableColor()
	ColorBoldBlue.EnableColor()
}

// PromptBuilder creates the text shown before each line is read, in the
// form user@host:cwd.
type PromptBuilder struct {
	Env          vos.VEnv
	Fs           afero.Fs
	HostnamePath string
	Getwd        func() (string, error)
	Color        bool
}

// NewPromptBuilder creates a builder over the real OS.
func NewPromptBuilder(hostnamePath string, useColor bool) *PromptBuilder {
	return &PromptBuilder{
		Env:          vos.OSEnv{},
		Fs:           afero.NewOsFs(),
		HostnamePath: hostnamePath,
		Getwd:        os.Getwd,
		Color:        useColor,
	}
}

// Build creates a fresh prompt. If any of the user, host name or working
// directory can't be found the whole prompt is abandoned and Build returns an
// empty string.
func (p *PromptBuilder) Build() string {
	user, ok := p.Env.LookupEnv(vos.EnvUser)
	if !ok {
		return ""
	}

	hostPath := p.HostnamePath
	if hostPath == "" {
		hostPath = DefaultHostnamePath
	}
	host, err := afero.ReadFile(p.Fs, hostPath)
	if err != nil {
		return ""
	}

	wd, err := p.Getwd()
	if err != nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(p.paint(ColorBoldGreen, user+"@"+strings.TrimSpace(string(host))+":"))
	sb.WriteString(p.paint(ColorBoldBlue, wd+" "))
	return sb.String()
}

func (p *PromptBuilder) paint(c *color.Color, s string) string {
	if p.Color {
		return c.Sprint(s)
	}
	return s
}
