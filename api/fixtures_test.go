package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/infrastructure"
	"github.com/mdblp/health-tracker/schema"
	"github.com/mdblp/health-tracker/usecase"
	"github.com/mdblp/health-tracker/utils"
)

const (
	testToday = "2024-03-10"
	// base64 of a 32 bytes key
	testEncryptionKey = "MDEyMzQ1Njc4OTAxMjM0NTY3ODkwMTIzNDU2Nzg5MDE="
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// garminMock the Garmin use case, Garmin Connect is never reached from the API tests
type garminMock struct {
	mock.Mock
}

func (m *garminMock) Sync(ctx context.Context, day string, force bool) (*schema.SyncResult, *common.DetailedError) {
	args := m.Called(day, force)
	result, _ := args.Get(0).(*schema.SyncResult)
	derr, _ := args.Get(1).(*common.DetailedError)
	return result, derr
}

func (m *garminMock) Metrics(ctx context.Context, dates common.Date) ([]schema.GarminDailyMetric, *common.DetailedError) {
	args := m.Called(dates)
	metrics, _ := args.Get(0).([]schema.GarminDailyMetric)
	derr, _ := args.Get(1).(*common.DetailedError)
	return metrics, derr
}

func (m *garminMock) Metric(ctx context.Context, day string) (*schema.GarminDailyMetric, *common.DetailedError) {
	args := m.Called(day)
	metric, _ := args.Get(0).(*schema.GarminDailyMetric)
	derr, _ := args.Get(1).(*common.DetailedError)
	return metric, derr
}

func (m *garminMock) Activities(ctx context.Context, dates common.Date) ([]schema.Activity, *common.DetailedError) {
	args := m.Called(dates)
	activities, _ := args.Get(0).([]schema.Activity)
	derr, _ := args.Get(1).(*common.DetailedError)
	return activities, derr
}

func (m *garminMock) SyncLogs(ctx context.Context, limit int64) ([]schema.SyncResult, *common.DetailedError) {
	args := m.Called(limit)
	logs, _ := args.Get(0).([]schema.SyncResult)
	derr, _ := args.Get(1).(*common.DetailedError)
	return logs, derr
}

// countingCache never hits, counts the flushes
type countingCache struct {
	mu      sync.Mutex
	flushes int
}

func (c *countingCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (c *countingCache) Set(ctx context.Context, key string, value interface{}) error { return nil }

func (c *countingCache) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushes++
	return nil
}

func (c *countingCache) Flushes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushes
}

type testServer struct {
	api    *API
	router *mux.Router
	db     *infrastructure.MockDbAdapter
	garmin *garminMock
	cache  *countingCache
	water  *infrastructure.MockEntryCollection[schema.WaterIntake, *schema.WaterIntake]
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	water := infrastructure.NewMockEntryCollection[schema.WaterIntake]()
	repos := usecase.Repositories{
		Users:        infrastructure.NewMockEntryCollection[schema.User](),
		GarminData:   infrastructure.NewMockEntryCollection[schema.GarminDailyMetric]("date"),
		Activities:   infrastructure.NewMockEntryCollection[schema.Activity]("garmin_activity_id"),
		SyncLogs:     infrastructure.NewMockEntryCollection[schema.GarminSyncLog](),
		Food:         infrastructure.NewMockEntryCollection[schema.FoodEntry](),
		FoodDatabase: infrastructure.NewMockEntryCollection[schema.FoodDatabaseEntry](),
		Medications:  infrastructure.NewMockEntryCollection[schema.Medication](),
		Schedules:    infrastructure.NewMockEntryCollection[schema.MedicationSchedule](),
		Sickness:     infrastructure.NewMockEntryCollection[schema.SicknessEntry](),
		Seizures:     infrastructure.NewMockEntryCollection[schema.Seizure](),
		HealthEvents: infrastructure.NewMockEntryCollection[schema.HealthEvent](),
		Notes:        infrastructure.NewMockEntryCollection[schema.DailyNote]("date"),
		Water:        water,
	}
	logger := zap.NewNop()
	calendar := &usecase.Calendar{Location: time.UTC, Now: func() time.Time { return testNow }}
	cipher, err := utils.NewCredentialCipher(testEncryptionKey, "")
	require.NoError(t, err)

	s := &testServer{
		db:     infrastructure.NewMockDbAdapter(),
		garmin: &garminMock{},
		cache:  &countingCache{},
		water:  water,
		router: mux.NewRouter(),
	}
	s.api = InitAPI(UseCases{
		Users:     usecase.NewUsers(repos.Users, cipher, logger),
		Garmin:    s.garmin,
		Logbook:   usecase.NewLogbook(repos, logger),
		Dashboard: usecase.NewDashboard(repos, s.cache, calendar, logger),
		Exporter:  usecase.NewExporter(repos, t.TempDir(), nil, logger),
		Dates:     calendar,
		Cache:     s.cache,
	}, s.db, logger)
	s.api.SetHandlers("/api", s.router)
	return s
}

// do serve one request, body may be empty
func (s *testServer) do(method string, target string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, reader)
	response := httptest.NewRecorder()
	s.router.ServeHTTP(response, request)
	return response
}

func decodeResponse(t *testing.T, response *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), v), response.Body.String())
}

// errorOf the DetailedError body of a failed request
func errorOf(t *testing.T, response *httptest.ResponseRecorder) common.DetailedError {
	t.Helper()
	var derr common.DetailedError
	decodeResponse(t, response, &derr)
	return derr
}
