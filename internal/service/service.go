package service

import (
	"context"
	"errors"
	"fmt"

	"tg-otp-service/internal/domain"
)

// Messenger - outbound side of the messaging transport
type Messenger interface {
	SendMessage(ctx context.Context, chatID, text string) error
	GetChat(ctx context.Context, chatID string) (domain.Chat, error)
}

// asTransportError makes sure err is classified as a transport failure.
func asTransportError(err error) error {
	if err == nil || errors.Is(err, domain.ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrTransport, err)
}

// asDirectoryError makes sure err is classified as a directory failure.
func asDirectoryError(op string, err error) error {
	if err == nil || errors.Is(err, domain.ErrDirectory) {
		return err
	}
	return &domain.DirectoryError{Op: op, Err: err}
}
