package config

import (
	"errors"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir if one doesn't exist
// and returns the loaded result.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	return InitializeFs(afero.NewOsFs(), dir, logger)
}

// InitializeFs is Initialize over an arbitrary filesystem.
func InitializeFs(afs afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	if err := afs.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch _, err := afs.Stat(configPath); {
	case err == nil:
		logger.Printf("Keeping existing config: %s\n", configPath)
	case errors.Is(err, fs.ErrNotExist):
		logger.Printf("Writing default config: %s\n", configPath)
		if err := afero.WriteFile(afs, configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return LoadFs(afs, dir)
}
