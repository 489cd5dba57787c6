// Package photoerr defines the error taxonomy shared by the extraction,
// thumbnail and browsing code. Every failure carries the file path it
// happened on plus an errors.Is-matchable kind.
package photoerr

import (
	"errors"
	"fmt"
)

// Kind sentinels. Match with errors.Is.
var (
	ErrNotFound  = errors.New("file not found")
	ErrRead      = errors.New("file read failed")
	ErrExifParse = errors.New("exif parse failed")
	ErrDecode    = errors.New("image decode failed")
	ErrEncode    = errors.New("image encode failed")
	ErrNoData    = errors.New("no data")
)

// Error is a path-scoped failure of one of the above kinds.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Path)
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func NotFound(path string) error {
	return &Error{Kind: ErrNotFound, Path: path}
}

func Read(path string, err error) error {
	return &Error{Kind: ErrRead, Path: path, Err: err}
}

func ExifParse(path string, err error) error {
	return &Error{Kind: ErrExifParse, Path: path, Err: err}
}

func Decode(path string, err error) error {
	return &Error{Kind: ErrDecode, Path: path, Err: err}
}

func Encode(path string, err error) error {
	return &Error{Kind: ErrEncode, Path: path, Err: err}
}
