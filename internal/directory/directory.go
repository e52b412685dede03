// Package directory defines the Login Directory: the external store that records
// successful logins by identity. Backends live in the sub-packages.
package directory

import (
	"context"
	"time"

	"tg-otp-service/internal/domain"
)

// Directory is implemented by every login record backend.
type Directory interface {
	// CreateRecord appends a login record for identity stamped with the current time.
	CreateRecord(ctx context.Context, identity domain.Identity) error
	// Exists reports whether at least one record matches identity.
	Exists(ctx context.Context, identity domain.Identity) (bool, error)
	// DeleteRecord removes every record of identity and returns how many were removed.
	DeleteRecord(ctx context.Context, identity domain.Identity) (int, error)
}

// Record is a single login row.
type Record struct {
	Username string `json:"username"`
	Time     string `json:"time"`
}

// TimeLayout is the layout of Record.Time.
const TimeLayout = "2006-01-02 15:04:05"

// IST is India Standard Time; it has no daylight saving so a fixed zone is exact.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// NewRecord builds the record written for a login of identity at t.
func NewRecord(identity domain.Identity, t time.Time) Record {
	return Record{
		Username: identity.String(),
		Time:     t.In(IST).Format(TimeLayout),
	}
}
