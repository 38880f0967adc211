package utils

import "errors"

var (
	ErrSessionNotFound    = errors.New("quiz session not found")
	ErrStepIncomplete     = errors.New("step incomplete")
	ErrInvalidQuestion    = errors.New("unknown question id")
	ErrInvalidOption      = errors.New("option not allowed for question")
	ErrAnswerKindMismatch = errors.New("answer kind does not match question")
	ErrQuizSubmitted      = errors.New("quiz already submitted")
	ErrStepUnreachable    = errors.New("step not reachable yet")
	ErrDiscountPending    = errors.New("discount must be acknowledged first")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrDatabaseError      = errors.New("database error")
)
