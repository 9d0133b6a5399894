package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const runTimeout = 5 * time.Minute

// LicenseExpirer is the part of the license service the sweep needs
type LicenseExpirer interface {
	ExpireLicenses(ctx context.Context, today time.Time) (int64, error)
}

// ExpiryJob marks active licenses past their expired date as expired
type ExpiryJob struct {
	expirer LicenseExpirer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExpiryJob creates a new ExpiryJob instance
func NewExpiryJob(expirer LicenseExpirer, logger *zap.Logger) *ExpiryJob {
	return &ExpiryJob{
		expirer: expirer,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes one sweep; it satisfies cron.Job
func (j *ExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	today := j.now().UTC()
	j.logger.Info("Starting license expiry sweep", zap.String("today", today.Format("2006-01-02")))

	n, err := j.expirer.ExpireLicenses(ctx, today)
	if err != nil {
		j.logger.Error("License expiry sweep failed", zap.Error(err))
		return
	}

	j.logger.Info("License expiry sweep completed", zap.Int64("expired", n))
}

// Scheduler runs cron jobs in UTC
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// Add registers job on a cron schedule, e.g. "@daily" or "0 1 * * *"
func (s *Scheduler) Add(name, schedule string, job cron.Job) error {
	id, err := s.cron.AddJob(schedule, job)
	if err != nil {
		return err
	}
	s.logger.Info("Job scheduled",
		zap.String("job", name),
		zap.String("schedule", schedule),
		zap.Int("entry_id", int(id)),
	)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
