package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

const downloadRoute = "/api/v1/export/download/"

var exportCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name:      "export_total",
	Help:      "The number of exports by format and result",
	Namespace: "health_tracker",
}, []string{"format", "result"})

// Exporter writes a date range of the logbook to files for an external analysis
type Exporter struct {
	repos    Repositories
	dir      string
	uploader Uploader
	logger   *zap.Logger
	now      func() time.Time
}

// NewExporter uploader may be nil, artifacts then only stay in dir
func NewExporter(repos Repositories, dir string, uploader Uploader, logger *zap.Logger) *Exporter {
	return &Exporter{
		repos:    repos,
		dir:      dir,
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}
}

func (e *Exporter) Export(ctx context.Context, req *schema.ExportRequest) (*schema.ExportResponse, *common.DetailedError) {
	if derr := validateStruct(req); derr != nil {
		return nil, derr
	}
	if req.Format == "" {
		req.Format = schema.ExportJSON
	}
	dates := common.Date{Start: req.StartDate, End: req.EndDate}
	if err := dates.Validate(); err != nil {
		return nil, ErrorInvalidParameters(err)
	}

	common.TimeIt(ctx, "export")
	defer common.TimeEnd(ctx, "export")
	now := e.now()
	data, err := e.collect(ctx, req, dates, now)
	if err != nil {
		exportCounter.WithLabelValues(req.Format, "failed").Inc()
		return nil, storeError(ctx, "Export", err)
	}

	base := fmt.Sprintf("health_data_%s_%s_%s", dates.Start, dates.End, now.Format("20060102_150405"))
	output, artifact, err := e.write(req.Format, base, data)
	if err != nil {
		exportCounter.WithLabelValues(req.Format, "failed").Inc()
		e.logger.Error("export_failed", zap.String("format", req.Format), zap.Error(err), zap.String("trace_id", common.TraceID(ctx)))
		failure := errorExport.WithMessage("Export failed: " + err.Error())
		return nil, failure.Wrap(err)
	}

	result := &schema.ExportResponse{
		Success:   true,
		FilePath:  output,
		FileURL:   downloadRoute + artifact,
		Message:   fmt.Sprintf("Data exported successfully to %s", filepath.Base(output)),
		Format:    req.Format,
		DateRange: fmt.Sprintf("%s to %s", dates.Start, dates.End),
	}
	if e.uploader != nil {
		location, err := e.upload(ctx, artifact)
		if err != nil {
			// the local artifact stays downloadable
			e.logger.Error("export_upload_failed", zap.String("artifact", artifact), zap.Error(err))
		} else {
			result.Location = location
		}
	}
	exportCounter.WithLabelValues(req.Format, "success").Inc()
	e.logger.Info("export_done", zap.String("format", req.Format), zap.String("path", output), zap.String("trace_id", common.TraceID(ctx)))
	return result, nil
}

// write returns the produced path and the name of the downloadable artifact
func (e *Exporter) write(format string, base string, data *exportDataset) (string, string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", "", err
	}
	switch format {
	case schema.ExportJSON:
		path := filepath.Join(e.dir, base+".json")
		return path, base + ".json", writeJSONExport(path, data)
	case schema.ExportXLSX:
		path := filepath.Join(e.dir, base+".xlsx")
		return path, base + ".xlsx", writeXlsxExport(path, data)
	case schema.ExportCSV, schema.ExportParquet:
		dir := filepath.Join(e.dir, base)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", err
		}
		var err error
		if format == schema.ExportCSV {
			err = writeCsvExport(dir, data)
		} else {
			err = writeParquetExport(dir, data)
		}
		if err != nil {
			return "", "", err
		}
		return dir, base + ".zip", zipDirectory(dir, filepath.Join(e.dir, base+".zip"))
	}
	return "", "", fmt.Errorf("unsupported export format: %s", format)
}

func (e *Exporter) upload(ctx context.Context, artifact string) (string, error) {
	f, err := os.Open(filepath.Join(e.dir, artifact))
	if err != nil {
		return "", err
	}
	defer f.Close()
	return e.uploader.Upload(ctx, artifact, f)
}

// DownloadPath local path of an export artifact, only plain file names are served
func (e *Exporter) DownloadPath(filename string) (string, *common.DetailedError) {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.HasPrefix(filename, ".") {
		return "", ErrorInvalidParameters(errors.New("invalid file name"))
	}
	path := filepath.Join(e.dir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrorNotFound("File")
	}
	return path, nil
}

func (e *Exporter) collect(ctx context.Context, req *schema.ExportRequest, dates common.Date, now time.Time) (*exportDataset, error) {
	data := &exportDataset{metadata: schema.ExportMetadata{
		ExportDate: now.Format(time.RFC3339),
		StartDate:  dates.Start,
		EndDate:    dates.End,
		UserID:     schema.DefaultUserID,
	}}
	q := ownedBetween(dates).OrderBy(common.Asc("date"))
	add := func(name string, records []map[string]interface{}, err error) error {
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		data.sections = append(data.sections, exportSection{name: name, records: records})
		return nil
	}

	if schema.Included(req.IncludeGarmin) {
		metrics, err := e.repos.GarminData.Find(ctx, q)
		if err != nil {
			return nil, err
		}
		records, err := toRecords(metrics)
		if err == nil && req.GarminFullRawData {
			for i := range records {
				records[i]["raw_data"] = metrics[i].RawData
			}
		}
		if err = add("garmin_data", records, err); err != nil {
			return nil, err
		}
		activities, err := e.repos.Activities.Find(ctx, q.OrderBy(common.Asc("start_time")))
		if err != nil {
			return nil, err
		}
		records, err = toRecords(activities)
		if err == nil && req.GarminFullRawData {
			for i := range records {
				records[i]["raw_data"] = activities[i].RawData
			}
		}
		if err = add("activities", records, err); err != nil {
			return nil, err
		}
	}
	if schema.Included(req.IncludeFood) {
		if err := collectSection(ctx, data, "food_entries", e.repos.Food, q.OrderBy(common.Asc("time"))); err != nil {
			return nil, err
		}
	}
	if schema.Included(req.IncludeMedications) {
		if err := collectSection(ctx, data, "medications", e.repos.Medications, q.OrderBy(common.Asc("time"))); err != nil {
			return nil, err
		}
	}
	if schema.Included(req.IncludeSickness) {
		if err := collectSection(ctx, data, "sickness_entries", e.repos.Sickness, q); err != nil {
			return nil, err
		}
	}
	if schema.Included(req.IncludeSeizures) {
		if err := collectSection(ctx, data, "seizures", e.repos.Seizures, q.OrderBy(common.Asc("time"))); err != nil {
			return nil, err
		}
	}
	if schema.Included(req.IncludeNotes) {
		if err := collectSection(ctx, data, "daily_notes", e.repos.Notes, q); err != nil {
			return nil, err
		}
	}
	if schema.Included(req.IncludeWater) {
		if err := collectSection(ctx, data, "water_intake", e.repos.Water, q.OrderBy(common.Asc("time"))); err != nil {
			return nil, err
		}
	}
	if schema.Included(req.IncludeHealthEvents) {
		if err := collectSection(ctx, data, "health_events", e.repos.HealthEvents, q.OrderBy(common.Asc("time"))); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func collectSection[T any](ctx context.Context, data *exportDataset, name string, repo EntryRepository[T], q common.EntryQuery) error {
	entries, err := repo.Find(ctx, q)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	records, err := toRecords(entries)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	data.sections = append(data.sections, exportSection{name: name, records: records})
	return nil
}
