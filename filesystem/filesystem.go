// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// It wraps afero so that production code runs on the OS filesystem while tests swap in an in-memory backend.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs installs a volatile in-memory backend, used by unit tests.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// IsRegularFile reports whether path exists and is not a directory.
func IsRegularFile(path string) (bool, error) {
	info, err := backend.Stat(path)
	if err != nil {
		exists, existsErr := backend.Exists(path)
		if existsErr == nil && !exists {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
