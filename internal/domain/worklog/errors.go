package worklog

import "errors"

var (
	ErrLogNotFound             = errors.New("log not found")
	ErrDuplicateLog            = errors.New("a log already exists for this date and project")
	ErrForbidden               = errors.New("forbidden")
	ErrLogApproved             = errors.New("log is approved and can no longer be modified")
	ErrValidation              = errors.New("validation error")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrAttachmentNotFound      = errors.New("attachment not found")
	ErrVersionConflict         = errors.New("log was modified concurrently")
)
