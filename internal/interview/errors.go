package interview

import "errors"

var (
	ErrSessionNotFound      = errors.New("interview session not found")
	ErrSubmissionInProgress = errors.New("an answer for this session is already being processed")
	ErrOutOfOrder           = errors.New("answer does not match the pending question")
	ErrInvalidPacing        = errors.New("invalid pacing")
	ErrNoPendingQuestion    = errors.New("no pending question")
	ErrQuestionPending      = errors.New("a question is already pending")
	ErrSessionEnded         = errors.New("interview session has ended")
)
