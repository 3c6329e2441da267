package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	EventLogName      = "events.log"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	EditorAuto     = "auto"
	EditorReadline = "readline"
	EditorPlain    = "plain"
)

type Configuration struct {
	configFs afero.Fs

	Color        string `json:"color" validate:"oneof=auto always never"`
	Editor       string `json:"editor" validate:"oneof=auto readline plain"`
	HostnamePath string `json:"hostname_path" validate:"required"`
	EventLog     bool   `json:"event_log"`
	HistoryFile  string `json:"history_file"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// UseColor resolves the color setting, isTerminal is consulted for "auto".
func (c *Configuration) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

// UseReadline resolves the editor setting, isTerminal is consulted for "auto".
func (c *Configuration) UseReadline(isTerminal bool) bool {
	switch c.Editor {
	case EditorReadline:
		return true
	case EditorPlain:
		return false
	default:
		return isTerminal
	}
}

// HasDir reports whether the configuration is backed by a directory.
func (c *Configuration) HasDir() bool {
	return c.configFs != nil
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewMemMapFs()
	}
	return c.configFs
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(EventLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(EventLogName, os.O_RDONLY, 0600)
}

// HistoryPath returns the path to the readline history file or an empty string
// if history isn't persisted.
func (c *Configuration) HistoryPath() string {
	if c.HistoryFile == "" || !c.HasDir() {
		return ""
	}

	if bp, ok := c.configFs.(*afero.BasePathFs); ok {
		if real, err := bp.RealPath(c.HistoryFile); err == nil {
			return real
		}
	}
	return filepath.Clean(c.HistoryFile)
}

// Default returns the built-in configuration, it isn't backed by a directory.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
