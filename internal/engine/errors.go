package engine

import "errors"

// Sentinel errors for pipeline operations.
var (
	ErrUnparseable   = errors.New("could not understand input")
	ErrInvalidSchema = errors.New("generated schema failed validation")
	ErrTimeout       = errors.New("pipeline deadline exceeded")
	ErrAnalyzeFailed = errors.New("intent analysis failed")
	ErrFieldsFailed  = errors.New("field generation failed")
	ErrNarrateFailed = errors.New("prompt narration failed")
	ErrBatchTooLarge = errors.New("too many dimensions in one batch")
)
