package publisher

import "github.com/infigaming-com/queue-publisher/errors"

const (
	ErrCodeInvalidBatchSize = 20000 + iota
	ErrCodeNilQueue
	ErrCodeQueueNameRequired
)

func NewPublisherError(code int64, message string, cause error) *errors.Error {
	return errors.NewError(code, message, cause)
}
