package domain

import "strconv"

// handleMarker prefixes handles so they never collide with numeric chat IDs.
const handleMarker = "@"

// Identity - canonical login key of a principal
type Identity string

func (i Identity) String() string { return string(i) }

// Chat - chat metadata as delivered by Telegram
type Chat struct {
	ID        int64  `json:"id"`
	Type      string `json:"type,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

// ChatID returns the decimal form of the chat ID, used as the OTP session key.
func (c Chat) ChatID() string {
	return strconv.FormatInt(c.ID, 10)
}

// ResolveIdentity derives the login key: "@handle" when a handle is set, else the chat ID.
func ResolveIdentity(chat Chat) Identity {
	if chat.Username != "" {
		return Identity(handleMarker + chat.Username)
	}
	return Identity(chat.ChatID())
}

// ParseChatID validates a raw chat ID taken from a URL.
func ParseChatID(raw string) (string, error) {
	if raw == "" {
		return "", ErrChatIDRequired
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", ErrInvalidChatID
	}
	return strconv.FormatInt(id, 10), nil
}
