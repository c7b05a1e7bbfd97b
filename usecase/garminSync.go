package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/garmin"
	"github.com/mdblp/health-tracker/schema"
)

const (
	syncResultSuccess = "success"
	syncResultSkipped = "skipped"
	syncResultFailed  = "failed"

	syncLogDefaultLimit = 50
)

var garminSyncCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name:      "sync_total",
	Help:      "The number of Garmin synchronizations by result",
	Subsystem: "garmin",
	Namespace: "health_tracker",
}, []string{"result"})

var garminSyncTimer = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:      "sync_duration_seconds",
	Help:      "A histogram of Garmin synchronization execution time (s)",
	Buckets:   prometheus.DefBuckets,
	Subsystem: "garmin",
	Namespace: "health_tracker",
})

// GarminSync pulls Garmin Connect data into the local store
type GarminSync struct {
	mu         sync.Mutex
	metrics    EntryRepository[schema.GarminDailyMetric]
	activities EntryRepository[schema.Activity]
	syncLogs   EntryRepository[schema.GarminSyncLog]
	users      *Users
	connect    garmin.ConnectorFactory
	cache      SummaryCache
	calendar   *Calendar
	logger     *zap.Logger
}

func NewGarminSync(repos Repositories, users *Users, connect garmin.ConnectorFactory, cache SummaryCache, calendar *Calendar, logger *zap.Logger) *GarminSync {
	return &GarminSync{
		metrics:    repos.GarminData,
		activities: repos.Activities,
		syncLogs:   repos.SyncLogs,
		users:      users,
		connect:    connect,
		cache:      cache,
		calendar:   calendar,
		logger:     logger,
	}
}

func (g *GarminSync) metricOf(ctx context.Context, day string) (*schema.GarminDailyMetric, error) {
	return g.metrics.FindOne(ctx, common.EntryQuery{UserID: schema.DefaultUserID}.Where("date", day))
}

// Sync synchronize one calendar date, runs never overlap.
// Unless force is set an already synced date is left untouched and Garmin is not called.
// The result is always returned, the error tells how the failure maps to the API.
func (g *GarminSync) Sync(ctx context.Context, day string, force bool) (*schema.SyncResult, *common.DetailedError) {
	if day == "" {
		day = g.calendar.Yesterday()
	}
	if _, err := common.ParseDay(day); err != nil {
		return nil, errorInvalidDate.Wrap(err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	start := time.Now()
	defer func() { garminSyncTimer.Observe(time.Since(start).Seconds()) }()
	logger := g.logger.With(zap.String("sync_date", day), zap.Bool("force", force), zap.String("trace_id", common.TraceID(ctx)))

	result := &schema.SyncResult{Date: day, DataTypesSynced: []string{}}

	if !force {
		existing, err := g.metricOf(ctx, day)
		if err != nil {
			garminSyncCounter.WithLabelValues(syncResultFailed).Inc()
			return nil, storeError(ctx, "Sync", err)
		}
		if existing != nil {
			logger.Info("garmin_sync_skipped", zap.String("reason", "data already exists"))
			garminSyncCounter.WithLabelValues(syncResultSkipped).Inc()
			result.Success = true
			result.Message = "Data already exists"
			return result, nil
		}
	}

	username, password, err := g.users.GarminCredentials(ctx)
	if err != nil {
		garminSyncCounter.WithLabelValues(syncResultFailed).Inc()
		if errors.Is(err, ErrGarminNotConfigured) {
			result.Message = "Garmin credentials not configured"
			result.Errors = map[string]string{"auth": "Missing Garmin credentials"}
			return result, errorGarminConfig.Wrap(err)
		}
		if !errors.Is(err, ErrCredentialsUnreadable) {
			return nil, storeError(ctx, "Sync", err)
		}
		logger.Error("garmin_credentials_unreadable", zap.Error(err))
		result.Message = "Failed to decrypt credentials"
		result.Errors = map[string]string{"auth": err.Error()}
		return result, g.syncError(result, err)
	}

	connector := g.connect(username, password)
	if err = connector.Login(ctx); err != nil {
		logger.Error("garmin_login_failed", zap.Error(err))
		garminSyncCounter.WithLabelValues(syncResultFailed).Inc()
		result.Message = "Failed to login to Garmin Connect"
		result.Errors = map[string]string{"auth": "Login failed"}
		g.logAttempt(ctx, day, false, result.Message, result.DataTypesSynced)
		return result, g.syncError(result, err)
	}

	payloads, fetchErrors := g.fetch(ctx, connector, day)
	for dataType, fetchErr := range fetchErrors {
		logger.Warn("garmin_fetch_failed", zap.String("data_type", dataType), zap.Error(fetchErr))
		if result.Errors == nil {
			result.Errors = map[string]string{}
		}
		result.Errors[dataType] = fetchErr.Error()
	}
	result.DataTypesSynced = payloads.Synced()

	now := time.Now().UTC()
	if len(payloads.Activities) > 0 {
		if err = g.saveActivities(ctx, payloads.Activities, day, now); err != nil {
			logger.Error("garmin_activities_not_saved", zap.Error(err))
		}
	}

	if len(result.DataTypesSynced) > 0 {
		if err = g.upsert(ctx, day, payloads, now); err != nil {
			logger.Error("garmin_metric_not_saved", zap.Error(err))
		} else {
			g.logAttempt(ctx, day, true, "", result.DataTypesSynced)
			if err = g.cache.Flush(ctx); err != nil {
				logger.Warn("summary_cache_flush_failed", zap.Error(err))
			}
			logger.Info("garmin_sync_succeeded", zap.Strings("data_types", result.DataTypesSynced))
			garminSyncCounter.WithLabelValues(syncResultSuccess).Inc()
			result.Success = true
			result.Message = "Data synced successfully"
			return result, nil
		}
	}

	g.logAttempt(ctx, day, false, "No data retrieved", result.DataTypesSynced)
	garminSyncCounter.WithLabelValues(syncResultFailed).Inc()
	result.Message = "Failed to retrieve data from Garmin"
	return result, g.syncError(result, err)
}

func (g *GarminSync) syncError(result *schema.SyncResult, cause error) *common.DetailedError {
	if cause == nil {
		cause = errors.New(result.Message)
	}
	e := errorGarminSync.WithMessage(result.Message)
	return e.Wrap(cause)
}

// fetch every data type, a failing type does not prevent the others
func (g *GarminSync) fetch(ctx context.Context, c garmin.Connector, day string) (*GarminPayloads, map[string]error) {
	p := &GarminPayloads{}
	errs := map[string]error{}
	var err error
	if p.DailySummary, err = c.DailySummary(ctx, day); err != nil {
		errs[schema.GarminDailySummary] = err
	}
	if p.HeartRate, err = c.HeartRate(ctx, day); err != nil {
		errs[schema.GarminHeartRate] = err
	}
	if p.Sleep, err = c.Sleep(ctx, day); err != nil {
		errs[schema.GarminSleep] = err
	}
	if p.Stress, err = c.Stress(ctx, day); err != nil {
		errs[schema.GarminStress] = err
	}
	if p.BodyBattery, err = c.BodyBattery(ctx, day); err != nil {
		errs[schema.GarminBodyBattery] = err
	}
	if p.WeighIns, err = c.WeighIns(ctx, day); err != nil {
		errs[schema.GarminWeight] = err
	}
	if p.Activities, err = c.Activities(ctx, day, day); err != nil {
		errs[schema.GarminActivities] = err
	}
	return p, errs
}

// saveActivities store the workouts not known yet, known ones are left untouched
func (g *GarminSync) saveActivities(ctx context.Context, activities []garmin.Activity, day string, now time.Time) error {
	for _, a := range activities {
		activity := activityFrom(a, day, g.calendar.Location, now)
		if activity.GarminActivityID == "" {
			continue
		}
		existing, err := g.activities.FindOne(ctx, common.EntryQuery{}.Where("garmin_activity_id", activity.GarminActivityID))
		if err != nil {
			return fmt.Errorf("lookup activity %s: %w", activity.GarminActivityID, err)
		}
		if existing != nil {
			continue
		}
		activity.SetOwner(schema.DefaultUserID)
		activity.Touch(now)
		if err = g.activities.Create(ctx, &activity); err != nil && !errors.Is(err, common.ErrDuplicate) {
			return fmt.Errorf("save activity %s: %w", activity.GarminActivityID, err)
		}
	}
	return nil
}

// upsert the metric of its date. An existing row keeps its id and
// the sections not fetched this time.
func (g *GarminSync) upsert(ctx context.Context, day string, payloads *GarminPayloads, now time.Time) error {
	existing, err := g.metricOf(ctx, day)
	if err != nil {
		return err
	}
	if existing == nil {
		metric := BuildDailyMetric(day, payloads, now)
		metric.SetOwner(schema.DefaultUserID)
		metric.Touch(now)
		err = g.metrics.Create(ctx, metric)
		if !errors.Is(err, common.ErrDuplicate) {
			return err
		}
		if existing, err = g.metricOf(ctx, day); err != nil || existing == nil {
			return fmt.Errorf("metric of %s: concurrent write: %w", day, common.ErrDuplicate)
		}
	}
	metric := ApplyPayloads(existing, payloads, now)
	metric.SetOwner(schema.DefaultUserID)
	metric.Touch(now)
	_, err = g.metrics.Update(ctx, metric)
	return err
}

func (g *GarminSync) logAttempt(ctx context.Context, day string, success bool, message string, dataTypes []string) {
	now := time.Now().UTC()
	entry := &schema.GarminSyncLog{
		SyncDate:        day,
		SyncTimestamp:   now,
		Success:         success,
		DataTypesSynced: dataTypes,
	}
	if !success {
		entry.ErrorMessage = message
	}
	entry.SetOwner(schema.DefaultUserID)
	entry.Touch(now)
	if err := g.syncLogs.Create(ctx, entry); err != nil {
		g.logger.Error("garmin_sync_log_failed", zap.Error(err), zap.String("sync_date", day))
	}
}

// SyncYesterday the daily job: yesterday, without forcing.
// Nothing is done when no credentials are configured.
func (g *GarminSync) SyncYesterday(ctx context.Context) {
	result, derr := g.Sync(ctx, g.calendar.Yesterday(), false)
	switch {
	case derr != nil && derr.Code == errorGarminConfig.Code:
		g.logger.Warn("garmin_sync_not_configured")
	case derr != nil:
		g.logger.Error("scheduled_garmin_sync_failed", zap.String("code", derr.Code), zap.String("message", derr.Message), zap.String("internal", derr.InternalMessage))
	default:
		g.logger.Info("scheduled_garmin_sync_done", zap.String("date", result.Date), zap.String("message", result.Message))
	}
}

// Metrics stored daily metrics of a date range, most recent first
func (g *GarminSync) Metrics(ctx context.Context, dates common.Date) ([]schema.GarminDailyMetric, *common.DetailedError) {
	metrics, err := g.metrics.Find(ctx, common.EntryQuery{UserID: schema.DefaultUserID, Dates: &dates}.OrderBy(common.Desc("date")))
	if err != nil {
		return nil, storeError(ctx, "Metrics", err)
	}
	return metrics, nil
}

func (g *GarminSync) Metric(ctx context.Context, day string) (*schema.GarminDailyMetric, *common.DetailedError) {
	if _, err := common.ParseDay(day); err != nil {
		return nil, errorInvalidDate.Wrap(err)
	}
	metric, err := g.metricOf(ctx, day)
	if err != nil {
		return nil, storeError(ctx, "Metric", err)
	}
	if metric == nil {
		nf := errorNotFound.WithMessage(fmt.Sprintf("No Garmin data found for %s", day))
		return nil, &nf
	}
	return metric, nil
}

// Activities workouts of a date range, latest start first
func (g *GarminSync) Activities(ctx context.Context, dates common.Date) ([]schema.Activity, *common.DetailedError) {
	activities, err := g.activities.Find(ctx, common.EntryQuery{UserID: schema.DefaultUserID, Dates: &dates}.OrderBy(common.Desc("start_time")))
	if err != nil {
		return nil, storeError(ctx, "Activities", err)
	}
	return activities, nil
}

// SyncLogs the most recent attempts as sync results, limit defaults to 50
func (g *GarminSync) SyncLogs(ctx context.Context, limit int64) ([]schema.SyncResult, *common.DetailedError) {
	if limit <= 0 {
		limit = syncLogDefaultLimit
	}
	logs, err := g.syncLogs.Find(ctx, common.EntryQuery{UserID: schema.DefaultUserID, Limit: limit}.OrderBy(common.Desc("sync_timestamp")))
	if err != nil {
		return nil, storeError(ctx, "SyncLogs", err)
	}
	results := make([]schema.SyncResult, 0, len(logs))
	for _, l := range logs {
		results = append(results, syncResultOf(l))
	}
	return results, nil
}

func syncResultOf(l schema.GarminSyncLog) schema.SyncResult {
	result := schema.SyncResult{
		Success:         l.Success,
		Message:         "Sync successful",
		Date:            l.SyncDate,
		DataTypesSynced: l.DataTypesSynced,
	}
	if result.DataTypesSynced == nil {
		result.DataTypesSynced = []string{}
	}
	if l.ErrorMessage != "" {
		result.Message = l.ErrorMessage
		result.Errors = map[string]string{"error": l.ErrorMessage}
	}
	return result
}
