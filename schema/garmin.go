package schema

import "time"

type (
	// GarminDailyMetric aggregated Garmin Connect metrics of a calendar date, one per date
	GarminDailyMetric struct {
		Record `bson:",inline"`
		Date   string `json:"date" bson:"date"`

		Steps          *int     `json:"steps" bson:"steps,omitempty"`
		DistanceMeters *float64 `json:"distance_meters" bson:"distance_meters,omitempty"`
		CaloriesActive *int     `json:"calories_active" bson:"calories_active,omitempty"`
		CaloriesTotal  *int     `json:"calories_total" bson:"calories_total,omitempty"`
		FloorsClimbed  *float64 `json:"floors_climbed" bson:"floors_climbed,omitempty"`

		MinHeartRate     *int `json:"min_heart_rate" bson:"min_heart_rate,omitempty"`
		RestingHeartRate *int `json:"resting_heart_rate" bson:"resting_heart_rate,omitempty"`
		MaxHeartRate     *int `json:"max_heart_rate" bson:"max_heart_rate,omitempty"`
		AvgHeartRate     *int `json:"avg_heart_rate" bson:"avg_heart_rate,omitempty"`

		SleepStartTime       *time.Time `json:"sleep_start_time" bson:"sleep_start_time,omitempty"`
		SleepEndTime         *time.Time `json:"sleep_end_time" bson:"sleep_end_time,omitempty"`
		SleepDurationSeconds *int       `json:"sleep_duration_seconds" bson:"sleep_duration_seconds,omitempty"`
		DeepSleepSeconds     *int       `json:"deep_sleep_seconds" bson:"deep_sleep_seconds,omitempty"`
		LightSleepSeconds    *int       `json:"light_sleep_seconds" bson:"light_sleep_seconds,omitempty"`
		RemSleepSeconds      *int       `json:"rem_sleep_seconds" bson:"rem_sleep_seconds,omitempty"`
		AwakeSeconds         *int       `json:"awake_seconds" bson:"awake_seconds,omitempty"`
		SleepScore           *int       `json:"sleep_score" bson:"sleep_score,omitempty"`

		AvgStressLevel *int `json:"avg_stress_level" bson:"avg_stress_level,omitempty"`
		MaxStressLevel *int `json:"max_stress_level" bson:"max_stress_level,omitempty"`

		BodyBatteryCharged *int `json:"body_battery_charged" bson:"body_battery_charged,omitempty"`
		BodyBatteryDrained *int `json:"body_battery_drained" bson:"body_battery_drained,omitempty"`
		BodyBatteryHighest *int `json:"body_battery_highest" bson:"body_battery_highest,omitempty"`
		BodyBatteryLowest  *int `json:"body_battery_lowest" bson:"body_battery_lowest,omitempty"`

		WeightKg          *float64 `json:"weight_kg" bson:"weight_kg,omitempty"`
		BMI               *float64 `json:"bmi" bson:"bmi,omitempty"`
		BodyFatPercentage *float64 `json:"body_fat_percentage" bson:"body_fat_percentage,omitempty"`

		ModerateIntensityMinutes *int `json:"moderate_intensity_minutes" bson:"moderate_intensity_minutes,omitempty"`
		VigorousIntensityMinutes *int `json:"vigorous_intensity_minutes" bson:"vigorous_intensity_minutes,omitempty"`

		// RawData the fetched Garmin payloads, as JSON text
		RawData  string    `json:"-" bson:"raw_data,omitempty"`
		SyncedAt time.Time `json:"synced_at" bson:"synced_at"`
	}

	// Activity a Garmin workout
	Activity struct {
		Record           `bson:",inline"`
		GarminActivityID string     `json:"garmin_activity_id" bson:"garmin_activity_id"`
		Date             string     `json:"date" bson:"date"`
		StartTime        *time.Time `json:"start_time" bson:"start_time,omitempty"`
		DurationSeconds  *int       `json:"duration_seconds" bson:"duration_seconds,omitempty"`
		ActivityType     string     `json:"activity_type,omitempty" bson:"activity_type,omitempty"`
		ActivityName     string     `json:"activity_name,omitempty" bson:"activity_name,omitempty"`
		DistanceMeters   *float64   `json:"distance_meters" bson:"distance_meters,omitempty"`
		Calories         *int       `json:"calories" bson:"calories,omitempty"`
		AvgHeartRate     *int       `json:"avg_heart_rate" bson:"avg_heart_rate,omitempty"`
		MaxHeartRate     *int       `json:"max_heart_rate" bson:"max_heart_rate,omitempty"`
		AvgSpeed         *float64   `json:"avg_speed" bson:"avg_speed,omitempty"`
		MaxSpeed         *float64   `json:"max_speed" bson:"max_speed,omitempty"`
		ElevationGain    *float64   `json:"elevation_gain" bson:"elevation_gain,omitempty"`
		RawData          string     `json:"-" bson:"raw_data,omitempty"`
		SyncedAt         time.Time  `json:"synced_at" bson:"synced_at"`
	}

	// GarminSyncLog one sync attempt
	GarminSyncLog struct {
		Record          `bson:",inline"`
		SyncDate        string    `json:"sync_date" bson:"sync_date"`
		SyncTimestamp   time.Time `json:"sync_timestamp" bson:"sync_timestamp"`
		Success         bool      `json:"success" bson:"success"`
		ErrorMessage    string    `json:"error_message,omitempty" bson:"error_message,omitempty"`
		DataTypesSynced []string  `json:"data_types_synced" bson:"data_types_synced"`
	}

	// SyncRequest body of a manual sync, a missing date means yesterday
	SyncRequest struct {
		Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
		Force bool   `json:"force"`
	}

	// SyncResult outcome of a sync of one calendar date
	SyncResult struct {
		Success         bool              `json:"success"`
		Message         string            `json:"message"`
		Date            string            `json:"date"`
		DataTypesSynced []string          `json:"data_types_synced"`
		Errors          map[string]string `json:"errors,omitempty"`
	}
)

// Garmin data types fetched by a sync
const (
	GarminDailySummary = "daily_summary"
	GarminHeartRate    = "heart_rate"
	GarminSleep        = "sleep"
	GarminStress       = "stress"
	GarminBodyBattery  = "body_battery"
	GarminWeight       = "weight"
	GarminActivities   = "activities"
)
