package ws

// HandlerError represents an error constructing the websocket handler
type HandlerError string

func (e HandlerError) Error() string {
	return string(e)
}

const (
	ErrNilConfig        HandlerError = "config cannot be nil"
	ErrNilGameService   HandlerError = "game service cannot be nil"
	ErrNilTokenIssuer   HandlerError = "token issuer cannot be nil"
	ErrNilHub           HandlerError = "hub cannot be nil"
	ErrNilMessaging     HandlerError = "messaging service cannot be nil"
	ErrNilUUIDGenerator HandlerError = "uuid generator cannot be nil"
)
