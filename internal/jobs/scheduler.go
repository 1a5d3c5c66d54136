// File: internal/jobs/scheduler.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"dentalhub_backend/internal/config"
	"dentalhub_backend/internal/event"
	"dentalhub_backend/internal/notification"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler owns the background maintenance jobs: archiving finished events
// and reconciling the in-memory unread notification counters against the
// database.
type Scheduler struct {
	eventService  *event.Service
	counter       *notification.Counter
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewScheduler creates a new background job scheduler.
func NewScheduler(
	eventService *event.Service,
	counter *notification.Counter,
	logger *zap.Logger,
	cfg *config.Config,
) *Scheduler {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &Scheduler{
		eventService:  eventService,
		counter:       counter,
		logger:        logger.Named("Scheduler"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules the jobs and starts the cron scheduler. A missing
// schedule disables that job without failing startup.
func (s *Scheduler) SetupAndStart() error {
	if spec := s.cfg.EventLifecycleJobSchedule; spec != "" {
		jobID, err := s.cronScheduler.AddFunc(spec, s.runEventLifecycle)
		if err != nil {
			s.logger.Error("Failed to schedule event lifecycle job", zap.String("spec", spec), zap.Error(err))
			return err
		}
		s.logger.Info("Event lifecycle job scheduled", zap.String("spec", spec), zap.Any("jobID", jobID))
	} else {
		s.logger.Warn("Event lifecycle job schedule not defined (EVENT_LIFECYCLE_JOB_SCHEDULE). Job will not run.")
	}

	if spec := s.cfg.UnreadReconcileJobSchedule; spec != "" {
		jobID, err := s.cronScheduler.AddFunc(spec, s.runUnreadReconcile)
		if err != nil {
			s.logger.Error("Failed to schedule unread reconcile job", zap.String("spec", spec), zap.Error(err))
			return err
		}
		s.logger.Info("Unread reconcile job scheduled", zap.String("spec", spec), zap.Any("jobID", jobID))
	} else {
		s.logger.Warn("Unread reconcile job schedule not defined (UNREAD_RECONCILE_JOB_SCHEDULE). Job will not run.")
	}

	s.cronScheduler.Start()
	return nil
}

func (s *Scheduler) runEventLifecycle() {
	s.logger.Info("Starting event lifecycle job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	archivedCount, err := s.eventService.ArchivePast(ctx)
	if err != nil {
		s.logger.Error("Event lifecycle job run failed", zap.Error(err))
	} else {
		s.logger.Info("Event lifecycle job run completed", zap.Int64("events_archived", archivedCount))
	}
}

func (s *Scheduler) runUnreadReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.counter.Reconcile(ctx); err != nil {
		s.logger.Error("Unread reconcile job run failed", zap.Error(err))
	}
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() {
	if s.cronScheduler != nil {
		s.logger.Info("Stopping background job scheduler...")
		stopCtx := s.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			s.logger.Info("Background job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			s.logger.Warn("Background job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
