package directory

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"tg-otp-service/internal/domain"
)

var directoryErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "login_directory_errors_total",
		Help: "Failed Login Directory calls by operation",
	},
	[]string{"op"},
)

// Guarded bounds every call of the wrapped Directory by a timeout and reports
// any failure as a *domain.DirectoryError.
type Guarded struct {
	next    Directory
	timeout time.Duration
	logger  *zap.Logger
}

var _ Directory = (*Guarded)(nil)

// Guard wraps next. A zero timeout leaves calls unbounded.
func Guard(next Directory, timeout time.Duration, logger *zap.Logger) *Guarded {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guarded{next: next, timeout: timeout, logger: logger}
}

func (g *Guarded) CreateRecord(ctx context.Context, identity domain.Identity) error {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	if err := g.next.CreateRecord(ctx, identity); err != nil {
		return g.fail("create", identity, err)
	}
	return nil
}

func (g *Guarded) Exists(ctx context.Context, identity domain.Identity) (bool, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	ok, err := g.next.Exists(ctx, identity)
	if err != nil {
		return false, g.fail("exists", identity, err)
	}
	return ok, nil
}

func (g *Guarded) DeleteRecord(ctx context.Context, identity domain.Identity) (int, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	n, err := g.next.DeleteRecord(ctx, identity)
	if err != nil {
		return 0, g.fail("delete", identity, err)
	}
	return n, nil
}

func (g *Guarded) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

func (g *Guarded) fail(op string, identity domain.Identity, err error) error {
	directoryErrors.WithLabelValues(op).Inc()
	g.logger.Warn("login directory call failed",
		zap.String("op", op),
		zap.String("identity", identity.String()),
		zap.Error(err),
	)
	return &domain.DirectoryError{Op: op, Err: err}
}
