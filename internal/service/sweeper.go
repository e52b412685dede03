package service

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sweeper periodically evicts expired OTP sessions. Verification never depends
// on it: expiry is always re-checked when a code is verified.
type Sweeper struct {
	scheduler gocron.Scheduler
}

// StartSweeper schedules store.Sweep every interval and starts the scheduler.
func StartSweeper(store *OTPStore, interval time.Duration, logger *zap.Logger) (*Sweeper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scheduler, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithError(func(jobID uuid.UUID, jobName string, err error) {
					logger.Error("job failed", zap.String("job_name", jobName), zap.Stringer("job_id", jobID), zap.Error(err))
				}),
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("job panicked", zap.String("job_name", jobName), zap.Stringer("job_id", jobID), zap.Any("recover_data", recoverData))
				}),
			),
		),
		gocron.WithLogger(cronLogger{l: logger.Sugar()}),
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if removed := store.Sweep(); removed > 0 {
				logger.Debug("expired OTP sessions removed", zap.Int("removed", removed))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("OTP Session Sweep"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}

	scheduler.Start()
	return &Sweeper{scheduler: scheduler}, nil
}

// Stop shuts the scheduler down and waits for a running sweep to finish.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}

type cronLogger struct {
	l *zap.SugaredLogger
}

func (l cronLogger) Debug(msg string, args ...any) { l.l.Debugw(msg, args...) }
func (l cronLogger) Error(msg string, args ...any) { l.l.Errorw(msg, args...) }
func (l cronLogger) Info(msg string, args ...any)  { l.l.Infow(msg, args...) }
func (l cronLogger) Warn(msg string, args ...any)  { l.l.Warnw(msg, args...) }
