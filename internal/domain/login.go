package domain

// Login statuses
const (
	StatusPending = "pending"
	StatusError   = "error"

	LoginSuccessful = "successful"
	LoginFailed     = "failed"
)

// SendOTPResponse - response of step 1 (GET /otp/:chat)
type SendOTPResponse struct {
	Status  string `json:"status"`
	ChatID  string `json:"chat_id,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Details string `json:"details,omitempty"`
}

// VerifyOTPResponse - response of step 2 (GET /otp/:chat/:code)
type VerifyOTPResponse struct {
	Login    string `json:"login"`
	Reason   string `json:"reason,omitempty"`
	Identity string `json:"identity,omitempty"`
}

// HealthResponse - response of GET /healthz
type HealthResponse struct {
	Status          string `json:"status"`
	PendingSessions int    `json:"pending_sessions"`
}
