package api

import (
	"context"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

type UserUseCase interface {
	Me(ctx context.Context) (*schema.User, *common.DetailedError)
	UpdateMe(ctx context.Context, update *schema.UserUpdate) (*schema.User, *common.DetailedError)
	GarminStatus(ctx context.Context) (*schema.GarminStatus, *common.DetailedError)
}

type GarminUseCase interface {
	Sync(ctx context.Context, day string, force bool) (*schema.SyncResult, *common.DetailedError)
	Metrics(ctx context.Context, dates common.Date) ([]schema.GarminDailyMetric, *common.DetailedError)
	Metric(ctx context.Context, day string) (*schema.GarminDailyMetric, *common.DetailedError)
	Activities(ctx context.Context, dates common.Date) ([]schema.Activity, *common.DetailedError)
	SyncLogs(ctx context.Context, limit int64) ([]schema.SyncResult, *common.DetailedError)
}

type DashboardUseCase interface {
	Daily(ctx context.Context, day string) (*schema.DailySummary, *common.DetailedError)
	Today(ctx context.Context) (*schema.DailySummary, *common.DetailedError)
	Range(ctx context.Context, start string, end string) (*schema.RangeSummary, *common.DetailedError)
	Analysis(ctx context.Context, dates common.Date) (*schema.AnalysisSummary, *common.DetailedError)
	AIPrompt(ctx context.Context, dates common.Date) (*schema.AIPrompt, *common.DetailedError)
}

type ExporterUseCase interface {
	Export(ctx context.Context, req *schema.ExportRequest) (*schema.ExportResponse, *common.DetailedError)
	DownloadPath(filename string) (string, *common.DetailedError)
}

// DateResolver resolve the optional date bounds of a listing
type DateResolver interface {
	Today() string
	Range(start string, end string, lookbackDays int) (common.Date, *common.DetailedError)
}
