package garmin

import (
	"bytes"
	"encoding/json"
)

// Garmin Connect payloads, only the fields used by the sync are mapped.
// Raw keeps the full payload as received.
type (
	DailySummary struct {
		TotalSteps               *float64 `json:"totalSteps"`
		TotalDistanceMeters      *float64 `json:"totalDistanceMeters"`
		ActiveKilocalories       *float64 `json:"activeKilocalories"`
		TotalKilocalories        *float64 `json:"totalKilocalories"`
		FloorsAscended           *float64 `json:"floorsAscended"`
		ModerateIntensityMinutes *float64 `json:"moderateIntensityMinutes"`
		VigorousIntensityMinutes *float64 `json:"vigorousIntensityMinutes"`
		MinHeartRate             *float64 `json:"minHeartRate"`
		MaxHeartRate             *float64 `json:"maxHeartRate"`
		RestingHeartRate         *float64 `json:"restingHeartRate"`
		MinAvgHeartRate          *float64 `json:"minAvgHeartRate"`
		AverageStressLevel       *float64 `json:"averageStressLevel"`
		MaxStressLevel           *float64 `json:"maxStressLevel"`
		SleepingSeconds          *float64 `json:"sleepingSeconds"`
		MeasurableAsleepDuration *float64 `json:"measurableAsleepDuration"`

		Raw json.RawMessage `json:"-"`
	}

	HeartRate struct {
		RestingHeartRate *float64 `json:"restingHeartRate"`
		MaxHeartRate     *float64 `json:"maxHeartRate"`
		AverageHeartRate *float64 `json:"averageHeartRate"`

		Raw json.RawMessage `json:"-"`
	}

	SleepScore struct {
		Value *float64 `json:"value"`
	}

	SleepScores struct {
		Overall *SleepScore `json:"overall"`
	}

	DailySleep struct {
		SleepStartTimestampGMT *float64     `json:"sleepStartTimestampGMT"`
		SleepEndTimestampGMT   *float64     `json:"sleepEndTimestampGMT"`
		SleepTimeSeconds       *float64     `json:"sleepTimeSeconds"`
		DeepSleepSeconds       *float64     `json:"deepSleepSeconds"`
		LightSleepSeconds      *float64     `json:"lightSleepSeconds"`
		RemSleepSeconds        *float64     `json:"remSleepSeconds"`
		AwakeSleepSeconds      *float64     `json:"awakeSleepSeconds"`
		SleepScores            *SleepScores `json:"sleepScores"`
	}

	Sleep struct {
		DailySleepDTO *DailySleep `json:"dailySleepDTO"`

		Raw json.RawMessage `json:"-"`
	}

	// Stress the daily stress endpoint names the average avgStressLevel,
	// older payloads use averageStressLevel
	Stress struct {
		AvgStressLevel     *float64 `json:"avgStressLevel"`
		AverageStressLevel *float64 `json:"averageStressLevel"`
		MaxStressLevel     *float64 `json:"maxStressLevel"`

		Raw json.RawMessage `json:"-"`
	}

	// BodyBatteryReport one day, BodyBatteryValues holds [timestamp, value] pairs
	BodyBatteryReport struct {
		Charged           *float64     `json:"charged"`
		Drained           *float64     `json:"drained"`
		BodyBatteryValues [][]*float64 `json:"bodyBatteryValuesArray"`

		Raw json.RawMessage `json:"-"`
	}

	// WeighIn Weight is in grams
	WeighIn struct {
		Weight  *float64 `json:"weight"`
		BMI     *float64 `json:"bmi"`
		BodyFat *float64 `json:"bodyFat"`

		Raw json.RawMessage `json:"-"`
	}

	ActivityType struct {
		TypeKey string `json:"typeKey"`
	}

	Activity struct {
		ActivityID     json.Number   `json:"activityId"`
		ActivityName   string        `json:"activityName"`
		StartTimeLocal string        `json:"startTimeLocal"`
		Duration       *float64      `json:"duration"`
		ActivityType   *ActivityType `json:"activityType"`
		Distance       *float64      `json:"distance"`
		Calories       *float64      `json:"calories"`
		AverageHR      *float64      `json:"averageHR"`
		MaxHR          *float64      `json:"maxHR"`
		AverageSpeed   *float64      `json:"averageSpeed"`
		MaxSpeed       *float64      `json:"maxSpeed"`
		ElevationGain  *float64      `json:"elevationGain"`

		Raw json.RawMessage `json:"-"`
	}

	socialProfile struct {
		DisplayName string `json:"displayName"`
	}

	oauthToken struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}

	weightRange struct {
		DateWeightList []WeighIn `json:"dateWeightList"`
	}
)

func keepRaw(b []byte) json.RawMessage {
	return append(json.RawMessage(nil), b...)
}

func (d *DailySummary) UnmarshalJSON(b []byte) error {
	type alias DailySummary
	if err := json.Unmarshal(b, (*alias)(d)); err != nil {
		return err
	}
	d.Raw = keepRaw(b)
	return nil
}

func (h *HeartRate) UnmarshalJSON(b []byte) error {
	type alias HeartRate
	if err := json.Unmarshal(b, (*alias)(h)); err != nil {
		return err
	}
	h.Raw = keepRaw(b)
	return nil
}

func (s *Sleep) UnmarshalJSON(b []byte) error {
	type alias Sleep
	if err := json.Unmarshal(b, (*alias)(s)); err != nil {
		return err
	}
	s.Raw = keepRaw(b)
	return nil
}

func (s *Stress) UnmarshalJSON(b []byte) error {
	type alias Stress
	if err := json.Unmarshal(b, (*alias)(s)); err != nil {
		return err
	}
	s.Raw = keepRaw(b)
	return nil
}

func (r *BodyBatteryReport) UnmarshalJSON(b []byte) error {
	type alias BodyBatteryReport
	if err := json.Unmarshal(b, (*alias)(r)); err != nil {
		return err
	}
	r.Raw = keepRaw(b)
	return nil
}

func (w *WeighIn) UnmarshalJSON(b []byte) error {
	type alias WeighIn
	if err := json.Unmarshal(b, (*alias)(w)); err != nil {
		return err
	}
	w.Raw = keepRaw(b)
	return nil
}

func (a *Activity) UnmarshalJSON(b []byte) error {
	type alias Activity
	if err := json.Unmarshal(b, (*alias)(a)); err != nil {
		return err
	}
	a.Raw = keepRaw(b)
	return nil
}

// isEmptyPayload Garmin answers null, {} or [] for days without data
func isEmptyPayload(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	switch string(trimmed) {
	case "", "null", "{}", "[]":
		return true
	}
	return false
}
