package domain

// VerifyResult - outcome of an OTP verification attempt
type VerifyResult int

const (
	VerifySuccess VerifyResult = iota
	VerifyNoSession
	VerifyExpired
	VerifyMismatch
)

func (r VerifyResult) String() string {
	switch r {
	case VerifySuccess:
		return "Success"
	case VerifyNoSession:
		return ReasonNoSession
	case VerifyExpired:
		return ReasonExpired
	case VerifyMismatch:
		return ReasonMismatch
	default:
		return "Unknown"
	}
}

// Err returns the sentinel error for a failed verification, nil on success.
func (r VerifyResult) Err() error {
	switch r {
	case VerifySuccess:
		return nil
	case VerifyNoSession:
		return ErrNoSession
	case VerifyExpired:
		return ErrExpired
	default:
		return ErrMismatch
	}
}
