package domain

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// SendMessageCommand is one user-initiated send through the session
// pipeline.
type SendMessageCommand struct {
	ConversationID ConversationID `validate:"required"`
	SenderID       string         `validate:"required"`
	Text           string         `validate:"required"`
}

func (c SendMessageCommand) Validate() error {
	return validate.Struct(c)
}
