package schema

type (
	// DailySummary everything recorded on a calendar date
	DailySummary struct {
		Date            string             `json:"date"`
		GarminData      *GarminDailyMetric `json:"garmin_data"`
		Activities      []Activity         `json:"activities"`
		FoodEntries     []FoodEntry        `json:"food_entries"`
		Medications     []Medication       `json:"medications"`
		SicknessEntries []SicknessEntry    `json:"sickness_entries"`
		Seizures        []Seizure          `json:"seizures"`
		WaterIntake     []WaterIntake      `json:"water_intake"`
		HealthEvents    []HealthEvent      `json:"health_events"`
		DailyNote       *DailyNote         `json:"daily_note"`

		TotalCaloriesConsumed *int `json:"total_calories_consumed"`
		TotalWaterML          *int `json:"total_water_ml"`
		MedicationCount       int  `json:"medication_count"`
	}

	// RangeSummary aggregated metrics over an inclusive date range
	RangeSummary struct {
		StartDate        string   `json:"start_date"`
		EndDate          string   `json:"end_date"`
		TotalDays        int      `json:"total_days"`
		DaysWithData     int      `json:"days_with_data"`
		AvgSteps         *float64 `json:"avg_steps"`
		AvgSleepHours    *float64 `json:"avg_sleep_hours"`
		TotalSeizures    int      `json:"total_seizures"`
		TotalMedications int      `json:"total_medications"`
		DaysWithSickness int      `json:"days_with_sickness"`
	}

	AnalysisDateRange struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Days  int    `json:"days"`
	}

	GarminAnalysis struct {
		DaysWithData  int      `json:"days_with_data"`
		AvgSteps      float64  `json:"avg_steps"`
		AvgSleepHours float64  `json:"avg_sleep_hours"`
		AvgRestingHR  *float64 `json:"avg_resting_hr"`
		AvgStress     *float64 `json:"avg_stress"`
	}

	SeizureAnalysis struct {
		TotalSeizures     int            `json:"total_seizures"`
		AvgPerWeek        float64        `json:"avg_per_week"`
		SeverityBreakdown map[string]int `json:"severity_breakdown"`
	}

	MedicationAnalysis struct {
		TotalDoses          int `json:"total_doses"`
		DaysWithMedications int `json:"days_with_medications"`
		UniqueMedications   int `json:"unique_medications"`
	}

	SicknessAnalysis struct {
		DaysSick      int `json:"days_sick"`
		DaysWithFever int `json:"days_with_fever"`
	}

	// AnalysisSummary statistics prepared for an external analysis of the exported data
	AnalysisSummary struct {
		DateRange         AnalysisDateRange  `json:"date_range"`
		GarminSummary     *GarminAnalysis    `json:"garmin_summary,omitempty"`
		SeizureSummary    SeizureAnalysis    `json:"seizure_summary"`
		MedicationSummary MedicationAnalysis `json:"medication_summary"`
		SicknessSummary   SicknessAnalysis   `json:"sickness_summary"`
	}

	// AIPrompt a ready to use analysis prompt with its data summary
	AIPrompt struct {
		Prompt       string          `json:"prompt"`
		Summary      AnalysisSummary `json:"summary"`
		Instructions string          `json:"instructions"`
	}
)
