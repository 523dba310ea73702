package messaging

// MessagingError represents a messaging service error
type MessagingError string

func (e MessagingError) Error() string {
	return string(e)
}

const (
	ErrNilConfig MessagingError = "config cannot be nil"
	ErrNilRandom MessagingError = "random source cannot be nil"
	ErrNilEvent  MessagingError = "event cannot be nil"
)
