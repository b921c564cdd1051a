package resolver

import "fmt"

// InvalidSourceError reports a locator that cannot be turned into a playable source.
type InvalidSourceError struct {
	Source string
	Err    error
}

func (e *InvalidSourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid source %q", e.Source)
	}
	return fmt.Sprintf("invalid source %q: %v", e.Source, e.Err)
}

func (e *InvalidSourceError) Unwrap() error {
	return e.Err
}

// MissingFileError reports a file-kind track whose path does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// ManifestFetchError reports a failed or empty manifest fetch for a hosted video.
type ManifestFetchError struct {
	ID  string
	Err error
}

func (e *ManifestFetchError) Error() string {
	return fmt.Sprintf("fetch manifest for %s: %v", e.ID, e.Err)
}

func (e *ManifestFetchError) Unwrap() error {
	return e.Err
}
