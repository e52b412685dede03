package service

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"tg-otp-service/internal/domain"
)

const (
	// OTPLength - number of digits in a code
	OTPLength = 6
	// OTPTTL - validity window of an issued code
	OTPTTL = 5 * time.Minute
)

// OTPStore in-memory OTP sessions, keyed by chat ID
type OTPStore struct {
	mu       sync.Mutex
	sessions map[string]OTPSession

	now      func() time.Time
	generate func() string
}

// OTPSession a single live code
type OTPSession struct {
	Code      string
	ExpiresAt time.Time
}

// OTPStoreOption configures an OTPStore
type OTPStoreOption func(*OTPStore)

// WithClock replaces the time source.
func WithClock(now func() time.Time) OTPStoreOption {
	return func(s *OTPStore) { s.now = now }
}

// WithCodeGenerator replaces the random code generator.
func WithCodeGenerator(generate func() string) OTPStoreOption {
	return func(s *OTPStore) { s.generate = generate }
}

// NewOTPStore creates an empty store
func NewOTPStore(opts ...OTPStoreOption) *OTPStore {
	store := &OTPStore{
		sessions: make(map[string]OTPSession),
		now:      time.Now,
		generate: func() string { return generateRandomCode(OTPLength) },
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Issue generates a new code for key, replacing any previous session.
func (s *OTPStore) Issue(key string) string {
	code := s.generate()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[key] = OTPSession{
		Code:      code,
		ExpiresAt: s.now().Add(OTPTTL),
	}
	otpPendingSessions.Set(float64(len(s.sessions)))

	return code
}

// Verify checks code against the session of key.
// Success and Expired remove the session, Mismatch keeps it.
func (s *OTPStore) Verify(key, code string) domain.VerifyResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { otpPendingSessions.Set(float64(len(s.sessions))) }()

	session, exists := s.sessions[key]
	if !exists {
		return domain.VerifyNoSession
	}

	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, key)
		return domain.VerifyExpired
	}

	if session.Code != code {
		return domain.VerifyMismatch
	}

	delete(s.sessions, key)
	return domain.VerifySuccess
}

// Invalidate drops the session of key, if any.
func (s *OTPStore) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	otpPendingSessions.Set(float64(len(s.sessions)))
}

// Sweep removes expired sessions and returns how many were removed.
func (s *OTPStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, key)
			removed++
		}
	}
	otpPendingSessions.Set(float64(len(s.sessions)))
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *OTPStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// generateRandomCode generates a numeric code of the given length
func generateRandomCode(length int) string {
	const digits = "0123456789"
	code := make([]byte, length)

	for i := range code {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		code[i] = digits[num.Int64()]
	}

	return string(code)
}
