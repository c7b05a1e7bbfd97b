package schema

// Export formats
const (
	ExportJSON    = "json"
	ExportCSV     = "csv"
	ExportParquet = "parquet"
	ExportXLSX    = "xlsx"
)

type (
	// ExportRequest a nil include flag means true
	ExportRequest struct {
		StartDate           string `json:"start_date" validate:"required,datetime=2006-01-02"`
		EndDate             string `json:"end_date" validate:"required,datetime=2006-01-02"`
		IncludeGarmin       *bool  `json:"include_garmin"`
		IncludeFood         *bool  `json:"include_food"`
		IncludeMedications  *bool  `json:"include_medications"`
		IncludeSickness     *bool  `json:"include_sickness"`
		IncludeSeizures     *bool  `json:"include_seizures"`
		IncludeNotes        *bool  `json:"include_notes"`
		IncludeWater        *bool  `json:"include_water"`
		IncludeHealthEvents *bool  `json:"include_health_events"`
		// GarminFullRawData adds the raw Garmin payloads to the exported rows
		GarminFullRawData bool   `json:"garmin_full_raw_data"`
		Format            string `json:"format" validate:"omitempty,oneof=json csv parquet xlsx"`
	}

	ExportResponse struct {
		Success  bool   `json:"success"`
		FilePath string `json:"file_path,omitempty"`
		// FileURL download route of the artifact
		FileURL string `json:"file_url,omitempty"`
		// Location remote copy of the artifact, when uploaded
		Location string `json:"location,omitempty"`
		Message  string `json:"message"`
		Format   string `json:"format,omitempty"`
		// DateRange human readable "start to end"
		DateRange string `json:"date_range,omitempty"`
	}

	ExportMetadata struct {
		ExportDate string `json:"export_date"`
		StartDate  string `json:"start_date"`
		EndDate    string `json:"end_date"`
		UserID     int64  `json:"user_id"`
	}
)

// Included resolve an optional include flag
func Included(flag *bool) bool {
	return flag == nil || *flag
}
