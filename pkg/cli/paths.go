package cli

import (
	"os"
	"path/filepath"
)

// Paths provides access to the per-app directory structure
type Paths struct {
	// AppName is the application name
	AppName string

	// HomeDir is the user's home directory
	HomeDir string
}

// NewPaths creates a new Paths instance for the given app
func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{
		AppName: appName,
		HomeDir: home,
	}, nil
}

// BaseDir returns the base directory (~/.vosk)
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// AppDir returns the app-specific directory (~/.vosk/<app>)
func (p *Paths) AppDir() string {
	return filepath.Join(p.BaseDir(), p.AppName)
}

// ConfigFile returns the config file path (~/.vosk/<app>/config.yaml)
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.AppDir(), DefaultConfigFile)
}

// ModelsDir returns the directory models are looked up in (~/.vosk/models),
// shared by all apps.
func (p *Paths) ModelsDir() string {
	return filepath.Join(p.BaseDir(), "models")
}

// DataDir returns the data directory (~/.vosk/<app>/data)
func (p *Paths) DataDir() string {
	return filepath.Join(p.AppDir(), "data")
}

// TranscriptsDir returns the default transcript store (~/.vosk/<app>/data/transcripts)
func (p *Paths) TranscriptsDir() string {
	return p.DataPath("transcripts")
}

// EnsureDataDir creates the data directory if it doesn't exist
func (p *Paths) EnsureDataDir() error {
	return os.MkdirAll(p.DataDir(), 0755)
}

// DataPath returns a path within the data directory
func (p *Paths) DataPath(name string) string {
	return filepath.Join(p.DataDir(), name)
}

// ModelPath resolves a model name. Absolute paths and paths that exist
// relative to the working directory are returned as is; other names are
// looked up in ModelsDir.
func (p *Paths) ModelPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(p.ModelsDir(), name)
}
