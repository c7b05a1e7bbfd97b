// @title Health-Tracker API
// @version 1.0.0
// @description Personal health logbook: food, medications, sickness, seizures, notes, water and Garmin Connect metrics
// @host localhost:8000
// @BasePath /api/v1
// @accept json
// @produce json
// @schemes http https
// @contact.name Health-Tracker maintainers
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidepool-org/go-common"
	"github.com/tidepool-org/go-common/clients"
	"github.com/tidepool-org/go-common/clients/disc"
	"github.com/tidepool-org/go-common/clients/mongo"
	muxprom "gitlab.com/msvechla/mux-prometheus/pkg/middleware"
	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/api"
	"github.com/mdblp/health-tracker/garmin"
	"github.com/mdblp/health-tracker/infrastructure"
	"github.com/mdblp/health-tracker/scheduler"
	"github.com/mdblp/health-tracker/schema"
	"github.com/mdblp/health-tracker/usecase"
	"github.com/mdblp/health-tracker/utils"
)

const (
	serviceName     = "health-tracker"
	defaultExports  = "exports"
	defaultRegion   = "eu-west-1"
	summaryCacheTTL = 10 * time.Minute
)

type (
	// SyncConfig the daily background jobs
	SyncConfig struct {
		Enabled  bool   `json:"enabled"`
		Time     string `json:"time"`
		Timezone string `json:"timezone"`
	}

	// ExportConfig where the export artifacts go
	ExportConfig struct {
		Dir    string `json:"dir"`
		Bucket string `json:"bucket"`
		Prefix string `json:"prefix"`
	}

	// HTConfig holds the configuration for the `health-tracker` service
	HTConfig struct {
		clients.Config
		Service disc.ServiceListing `json:"service"`
		Mongo   mongo.Config        `json:"mongo"`
		Garmin  garmin.Config       `json:"garmin"`
		Sync    SyncConfig          `json:"sync"`
		Export  ExportConfig        `json:"export"`
	}
)

func envOr(name string, value string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return value
}

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      os.Getenv("LOG_FORMAT"),
		ServiceName: serviceName,
		File:        os.Getenv("LOG_FILE"),
	})
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	htconfig := HTConfig{
		Garmin: garmin.DefaultConfig(),
		Sync:   SyncConfig{Enabled: true, Time: scheduler.DefaultRunTime},
		Export: ExportConfig{Dir: defaultExports},
	}
	if err := common.LoadEnvironmentConfig(
		[]string{"HEALTH_TRACKER_SERVICE", "HEALTH_TRACKER_ENV"},
		&htconfig,
	); err != nil {
		logger.Fatal("Problem loading config", zap.Error(err))
	}
	htconfig.Mongo.FromEnv()

	if v := os.Getenv("GARMIN_SYNC_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			logger.Fatal("Env var GARMIN_SYNC_ENABLED is not a boolean", zap.String("value", v))
		}
		htconfig.Sync.Enabled = enabled
	}
	htconfig.Sync.Time = envOr("GARMIN_SYNC_TIME", htconfig.Sync.Time)
	htconfig.Sync.Timezone = envOr("TIMEZONE", htconfig.Sync.Timezone)
	htconfig.Export.Dir = envOr("EXPORT_DIR", htconfig.Export.Dir)
	htconfig.Export.Bucket = envOr("EXPORT_BUCKET", htconfig.Export.Bucket)

	location := time.UTC
	if htconfig.Sync.Timezone != "" {
		location, err = time.LoadLocation(htconfig.Sync.Timezone)
		if err != nil {
			logger.Fatal("Unknown timezone", zap.String("timezone", htconfig.Sync.Timezone), zap.Error(err))
		}
	}

	cipher, err := utils.NewCredentialCipher(os.Getenv("ENCRYPTION_KEY"), os.Getenv("SECRET_KEY"))
	if err != nil {
		logger.Fatal("Env var ENCRYPTION_KEY or SECRET_KEY is not usable", zap.Error(err))
	}

	/*
	 * Store setup
	 */
	repository, err := infrastructure.NewHealthMongoRepository(&htconfig.Mongo, utils.StdLogger(logger, "mongo"))
	if err != nil {
		logger.Fatal("Unable to create the mongo store", zap.Error(err))
	}
	defer repository.Close()
	repository.Start()

	repos := usecase.Repositories{
		Users:        infrastructure.NewEntryCollection[schema.User](repository, infrastructure.UsersCollection),
		GarminData:   infrastructure.NewEntryCollection[schema.GarminDailyMetric](repository, infrastructure.GarminDataCollection),
		Activities:   infrastructure.NewEntryCollection[schema.Activity](repository, infrastructure.ActivitiesCollection),
		SyncLogs:     infrastructure.NewEntryCollection[schema.GarminSyncLog](repository, infrastructure.SyncLogsCollection),
		Food:         infrastructure.NewEntryCollection[schema.FoodEntry](repository, infrastructure.FoodEntriesCollection),
		FoodDatabase: infrastructure.NewEntryCollection[schema.FoodDatabaseEntry](repository, infrastructure.FoodDatabaseCollection),
		Medications:  infrastructure.NewEntryCollection[schema.Medication](repository, infrastructure.MedicationsCollection),
		Schedules:    infrastructure.NewEntryCollection[schema.MedicationSchedule](repository, infrastructure.MedicationSchedulesCollection),
		Sickness:     infrastructure.NewEntryCollection[schema.SicknessEntry](repository, infrastructure.SicknessCollection),
		Seizures:     infrastructure.NewEntryCollection[schema.Seizure](repository, infrastructure.SeizuresCollection),
		HealthEvents: infrastructure.NewEntryCollection[schema.HealthEvent](repository, infrastructure.HealthEventsCollection),
		Notes:        infrastructure.NewEntryCollection[schema.DailyNote](repository, infrastructure.DailyNotesCollection),
		Water:        infrastructure.NewEntryCollection[schema.WaterIntake](repository, infrastructure.WaterIntakeCollection),
	}

	/*
	 * Summary cache
	 */
	cache := usecase.NoopCache()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisCache, err := infrastructure.NewRedisSummaryCache(context.Background(), addr, summaryCacheTTL, logger)
		if err != nil {
			logger.Fatal("Unable to reach redis", zap.Error(err))
		}
		defer redisCache.Close()
		cache = redisCache
	} else {
		logger.Info("Env var REDIS_ADDR not set, summaries are not cached")
	}

	/*
	 * AWS part configuration, only when exports are pushed to a bucket
	 */
	var uploader usecase.Uploader
	if htconfig.Export.Bucket != "" {
		region := os.Getenv("REGION")
		if region == "" {
			region = defaultRegion
			logger.Info("Using default aws region", zap.String("region", region))
		}
		url := os.Getenv("S3_ENDPOINT_URL")
		customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if url != "" {
				logger.Info("Using custom s3 endpoint", zap.String("url", url))
				return aws.Endpoint{
					PartitionID:       "aws",
					URL:               url,
					SigningRegion:     region,
					HostnameImmutable: true,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		awsconfig, err := config.LoadDefaultConfig(context.TODO(), config.WithEndpointResolverWithOptions(customResolver), config.WithRegion(region))
		if err != nil {
			logger.Fatal("Unable to load the aws config", zap.Error(err))
		}
		s3Uploader, err := infrastructure.NewS3Uploader(s3.NewFromConfig(awsconfig), htconfig.Export.Bucket, htconfig.Export.Prefix)
		if err != nil {
			logger.Fatal("Unable to create the export uploader", zap.Error(err))
		}
		uploader = s3Uploader
	}

	/*
	 * Use cases
	 */
	calendar := usecase.NewCalendar(location)
	logbook := usecase.NewLogbook(repos, logger)
	users := usecase.NewUsers(repos.Users, cipher, logger)
	garminSync := usecase.NewGarminSync(repos, users, garmin.NewClientFactory(htconfig.Garmin, logger.Named("garmin")), cache, calendar, logger)
	dashboard := usecase.NewDashboard(repos, cache, calendar, logger)
	exporter := usecase.NewExporter(repos, htconfig.Export.Dir, uploader, logger)
	medicationScheduler := usecase.NewMedicationScheduler(logbook, calendar, logger)

	jobs := scheduler.NewDailyJobs(scheduler.Config{
		SyncEnabled: htconfig.Sync.Enabled,
		RunTime:     htconfig.Sync.Time,
		Location:    location,
	}, garminSync, medicationScheduler, calendar, logger.Named("scheduler"))
	if err := jobs.Start(); err != nil {
		logger.Fatal("Unable to schedule the daily jobs", zap.Error(err))
	}

	/*
	 * Instrumentation setup
	 */
	instrumentation := muxprom.NewCustomInstrumentation(true, "dblp", "healthtracker", prometheus.DefBuckets, nil, prometheus.DefaultRegisterer)

	rtr := mux.NewRouter()
	rtr.Use(instrumentation.Middleware)
	rtr.Path("/metrics").Handler(promhttp.Handler())

	api := api.InitAPI(api.UseCases{
		Users:     users,
		Garmin:    garminSync,
		Logbook:   logbook,
		Dashboard: dashboard,
		Exporter:  exporter,
		Dates:     calendar,
		Cache:     cache,
	}, repository, logger)
	api.SetHandlers("/api", rtr)

	// exports and range summaries can be large, compress them when the client accepts it
	gzipHandler := handlers.CompressHandler(rtr)

	done := make(chan bool)
	server := common.NewServer(&http.Server{
		Addr:    htconfig.Service.GetPort(),
		Handler: gzipHandler,
	})

	var start func() error
	if htconfig.Service.Scheme == "https" {
		sslSpec := htconfig.Service.GetSSLSpec()
		start = func() error { return server.ListenAndServeTLS(sslSpec.CertFile, sslSpec.KeyFile) }
	} else {
		start = func() error { return server.ListenAndServe() }
	}
	if err := start(); err != nil {
		logger.Fatal("Unable to start the server", zap.Error(err))
	}
	logger.Info("health-tracker started", zap.String("addr", htconfig.Service.GetPort()), zap.Time("nextDailyRun", jobs.Next()))

	// Wait for SIGINT (Ctrl+C) or SIGTERM to stop the service
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			<-sigc
			jobs.Stop()
			repository.Close()
			server.Close()
			done <- true
		}
	}()

	<-done
}
