package service

import (
	"context"
	"errors"
	"sync"

	"tg-otp-service/internal/domain"
)

type sentMessage struct {
	ChatID string
	Text   string
}

// fakeMessenger records outgoing messages and serves chat metadata.
type fakeMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	chats   map[string]domain.Chat
	sendErr error
	chatErr error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{chats: make(map[string]domain.Chat)}
}

func (m *fakeMessenger) SendMessage(_ context.Context, chatID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *fakeMessenger) GetChat(_ context.Context, chatID string) (domain.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.chatErr != nil {
		return domain.Chat{}, m.chatErr
	}
	chat, ok := m.chats[chatID]
	if !ok {
		return domain.Chat{}, errors.New("chat not found")
	}
	return chat, nil
}

func (m *fakeMessenger) Sent() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

// fakeDirectory counts calls and can be made to fail.
type fakeDirectory struct {
	mu      sync.Mutex
	rows    map[domain.Identity]int
	creates []domain.Identity
	err     error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{rows: make(map[domain.Identity]int)}
}

func (d *fakeDirectory) CreateRecord(_ context.Context, identity domain.Identity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.creates = append(d.creates, identity)
	d.rows[identity]++
	return nil
}

func (d *fakeDirectory) Exists(_ context.Context, identity domain.Identity) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	return d.rows[identity] > 0, nil
}

func (d *fakeDirectory) DeleteRecord(_ context.Context, identity domain.Identity) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return 0, d.err
	}
	n := d.rows[identity]
	delete(d.rows, identity)
	return n, nil
}

func (d *fakeDirectory) Creates() []domain.Identity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Identity(nil), d.creates...)
}
