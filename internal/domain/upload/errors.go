package upload

import "errors"

var (
	ErrNoFiles              = errors.New("no files uploaded")
	ErrNoValidFiles         = errors.New("no valid files in request")
	ErrUnknownField         = errors.New("unknown upload field")
	ErrUnsupportedMediaType = errors.New("file type is not allowed")
	ErrPayloadTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrTooManyFiles         = errors.New("too many files for this field")
	ErrInvalidFileType      = errors.New("invalid file type parameter")
)
