package profile

import (
	"fmt"
	"io/fs"
)

// NotFoundError is returned by Load when the profile file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("profile not found: %s", e.Path)
}

// Is lets callers test with errors.Is(err, fs.ErrNotExist).
func (e *NotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}

// MalformedDataError is returned by Load when the file is not valid JSON,
// contains an unknown key, or a field has the wrong shape.
type MalformedDataError struct {
	Path  string
	Field string // Empty when the document as a whole is invalid
	Err   error
}

func (e *MalformedDataError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed profile %s: field %q: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed profile %s: %v", e.Path, e.Err)
}

func (e *MalformedDataError) Unwrap() error {
	return e.Err
}
