package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tg-otp-service/internal/directory"
	"tg-otp-service/internal/domain"
)

// LoginService runs the two-step browser login handshake
type LoginService struct {
	otpStore  *OTPStore
	messenger Messenger
	directory directory.Directory
	logger    *zap.Logger
}

// NewLoginService creates a new login service
func NewLoginService(
	otpStore *OTPStore,
	messenger Messenger,
	dir directory.Directory,
	logger *zap.Logger,
) *LoginService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginService{
		otpStore:  otpStore,
		messenger: messenger,
		directory: dir,
		logger:    logger,
	}
}

// RequestOTP issues a code for chatID and sends it to the chat (step 1).
// When sending fails the session is kept and the transport error is returned.
func (s *LoginService) RequestOTP(ctx context.Context, chatID string) error {
	code := s.otpStore.Issue(chatID)
	otpIssued.Inc()

	s.logger.Debug("OTP issued", zap.String("chat_id", chatID))

	text := fmt.Sprintf("🔐 Login OTP: %s\nValid for %d minutes.", code, int(OTPTTL.Minutes()))
	if err := s.messenger.SendMessage(ctx, chatID, text); err != nil {
		s.logger.Warn("failed to send OTP", zap.String("chat_id", chatID), zap.Error(err))
		return asTransportError(err)
	}

	s.logger.Info("OTP sent", zap.String("chat_id", chatID))
	return nil
}

// VerifyOTP checks code for chatID and records the login (step 2).
// Once the code is accepted it is consumed, even if recording the login fails.
func (s *LoginService) VerifyOTP(ctx context.Context, chatID, code string) (domain.Identity, error) {
	result := s.otpStore.Verify(chatID, code)
	otpVerifications.WithLabelValues(result.String()).Inc()

	if err := result.Err(); err != nil {
		s.logger.Info("OTP verification failed",
			zap.String("chat_id", chatID),
			zap.Stringer("result", result),
		)
		return "", err
	}

	chat, err := s.messenger.GetChat(ctx, chatID)
	if err != nil {
		loginsRecorded.WithLabelValues(domain.ReasonTransportError).Inc()
		s.logger.Error("failed to fetch chat after OTP verification", zap.String("chat_id", chatID), zap.Error(err))
		return "", asTransportError(err)
	}

	identity := domain.ResolveIdentity(chat)
	if err := s.directory.CreateRecord(ctx, identity); err != nil {
		loginsRecorded.WithLabelValues(domain.ReasonDirectoryError).Inc()
		s.logger.Error("failed to record login",
			zap.String("chat_id", chatID),
			zap.String("identity", identity.String()),
			zap.Error(err),
		)
		return "", asDirectoryError("create", err)
	}

	loginsRecorded.WithLabelValues(domain.LoginSuccessful).Inc()
	s.logger.Info("login recorded", zap.String("chat_id", chatID), zap.String("identity", identity.String()))
	return identity, nil
}

// PendingSessions returns the number of OTP sessions held in memory.
func (s *LoginService) PendingSessions() int {
	return s.otpStore.Len()
}
