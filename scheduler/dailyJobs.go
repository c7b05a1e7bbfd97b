package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/schema"
	"github.com/mdblp/health-tracker/utils"
)

// DefaultRunTime the daily run time used when none or an invalid one is configured
const DefaultRunTime = "00:30"

const jobTimeout = 10 * time.Minute

type GarminSyncer interface {
	SyncYesterday(ctx context.Context)
}

type DoseExpander interface {
	CreateScheduledEntries(ctx context.Context, day string) (int, error)
}

// Clock gives the current calendar date in the configured time zone
type Clock interface {
	Today() string
}

type Config struct {
	// SyncEnabled when false only the medication schedules are expanded
	SyncEnabled bool
	// RunTime HH:MM in Location
	RunTime  string
	Location *time.Location
}

// DailyJobs the once a day background work: Garmin sync of yesterday, then today's scheduled doses
type DailyJobs struct {
	cron        *cron.Cron
	cfg         Config
	sync        GarminSyncer
	medications DoseExpander
	clock       Clock
	logger      *zap.Logger
}

func NewDailyJobs(cfg Config, sync GarminSyncer, medications DoseExpander, clock Clock, logger *zap.Logger) *DailyJobs {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	cronLogger := cron.PrintfLogger(utils.StdLogger(logger, "cron"))
	return &DailyJobs{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		cfg:         cfg,
		sync:        sync,
		medications: medications,
		clock:       clock,
		logger:      logger,
	}
}

// Spec cron expression of a HH:MM daily run, an invalid time falls back to DefaultRunTime
func Spec(runTime string, logger *zap.Logger) string {
	hour, minute, err := parseRunTime(runTime)
	if err != nil {
		logger.Error("invalid_sync_time", zap.String("value", runTime), zap.String("fallback", DefaultRunTime), zap.Error(err))
		hour, minute, _ = parseRunTime(DefaultRunTime)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour)
}

// parseRunTime strict HH:MM, two digits each
func parseRunTime(value string) (int, int, error) {
	if len(value) != len(DefaultRunTime) || strings.TrimSpace(value) != value {
		return 0, 0, fmt.Errorf("%q is not a valid HH:MM time", value)
	}
	return schema.ParseClockTime(value)
}

// Start schedule the daily run
func (d *DailyJobs) Start() error {
	spec := Spec(d.cfg.RunTime, d.logger)
	if _, err := d.cron.AddFunc(spec, d.Run); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	d.cron.Start()
	d.logger.Info("daily_jobs_started",
		zap.String("spec", spec),
		zap.String("location", d.cfg.Location.String()),
		zap.Bool("garmin_sync_enabled", d.cfg.SyncEnabled),
		zap.Time("next_run", d.Next()))
	return nil
}

// Next time of the next run, zero when not started
func (d *DailyJobs) Next() time.Time {
	entries := d.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop waits for a running job to complete
func (d *DailyJobs) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
	d.logger.Info("daily_jobs_stopped")
}

// Run one daily run, also used by the cron entry
func (d *DailyJobs) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if d.cfg.SyncEnabled {
		d.sync.SyncYesterday(ctx)
	}

	today := d.clock.Today()
	created, err := d.medications.CreateScheduledEntries(ctx, today)
	if err != nil {
		d.logger.Error("scheduled_medications_failed", zap.String("date", today), zap.Error(err))
		return
	}
	d.logger.Info("scheduled_medications_created", zap.String("date", today), zap.Int("count", created))
}
