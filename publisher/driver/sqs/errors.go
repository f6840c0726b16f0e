package sqs

import "github.com/infigaming-com/queue-publisher/errors"

const (
	ErrCodeEndpointResolution = 21000 + iota
	ErrCodeBatchPartialFailure
)

func NewSqsError(code int64, message string, cause error) *errors.Error {
	return errors.NewError(code, message, cause)
}
