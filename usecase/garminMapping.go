package usecase

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/mdblp/health-tracker/garmin"
	"github.com/mdblp/health-tracker/schema"
)

// GarminPayloads what a sync fetched for one calendar date, nil when Garmin had nothing
type GarminPayloads struct {
	DailySummary *garmin.DailySummary
	HeartRate    *garmin.HeartRate
	Sleep        *garmin.Sleep
	Stress       *garmin.Stress
	BodyBattery  []garmin.BodyBatteryReport
	WeighIns     []garmin.WeighIn
	Activities   []garmin.Activity
}

// Synced the data types carrying data, in fetch order
func (p *GarminPayloads) Synced() []string {
	synced := make([]string, 0, 7)
	if p.DailySummary != nil {
		synced = append(synced, schema.GarminDailySummary)
	}
	if p.HeartRate != nil {
		synced = append(synced, schema.GarminHeartRate)
	}
	if p.Sleep != nil {
		synced = append(synced, schema.GarminSleep)
	}
	if p.Stress != nil {
		synced = append(synced, schema.GarminStress)
	}
	if len(p.BodyBattery) > 0 {
		synced = append(synced, schema.GarminBodyBattery)
	}
	if len(p.WeighIns) > 0 {
		synced = append(synced, schema.GarminWeight)
	}
	if len(p.Activities) > 0 {
		synced = append(synced, schema.GarminActivities)
	}
	return synced
}

func roundInt(v *float64) *int {
	if v == nil {
		return nil
	}
	i := int(math.Round(*v))
	return &i
}

// present Garmin uses 0 and negative values for "not measured"
func present(v *float64) bool {
	return v != nil && *v > 0
}

// BuildDailyMetric map the fetched payloads on a new daily metric
func BuildDailyMetric(day string, p *GarminPayloads, syncedAt time.Time) *schema.GarminDailyMetric {
	return ApplyPayloads(&schema.GarminDailyMetric{Date: day}, p, syncedAt)
}

// ApplyPayloads overwrite the sections of m fetched this time, the others keep their stored values.
// Sources are applied in fetch order, the dedicated heart rate and stress
// endpoints only override the daily summary when they carry a value.
func ApplyPayloads(m *schema.GarminDailyMetric, p *GarminPayloads, syncedAt time.Time) *schema.GarminDailyMetric {
	m.SyncedAt = syncedAt

	if s := p.DailySummary; s != nil {
		m.Steps = roundInt(s.TotalSteps)
		m.DistanceMeters = s.TotalDistanceMeters
		m.CaloriesActive = roundInt(s.ActiveKilocalories)
		m.CaloriesTotal = roundInt(s.TotalKilocalories)
		m.FloorsClimbed = s.FloorsAscended
		m.ModerateIntensityMinutes = roundInt(s.ModerateIntensityMinutes)
		m.VigorousIntensityMinutes = roundInt(s.VigorousIntensityMinutes)
		m.MinHeartRate = roundInt(s.MinHeartRate)
		m.MaxHeartRate = roundInt(s.MaxHeartRate)
		m.RestingHeartRate = roundInt(s.RestingHeartRate)
		m.AvgHeartRate = roundInt(s.MinAvgHeartRate)
		m.AvgStressLevel = roundInt(s.AverageStressLevel)
		m.MaxStressLevel = roundInt(s.MaxStressLevel)
		if present(s.SleepingSeconds) {
			m.SleepDurationSeconds = roundInt(s.SleepingSeconds)
		} else if present(s.MeasurableAsleepDuration) {
			m.SleepDurationSeconds = roundInt(s.MeasurableAsleepDuration)
		}
	}

	if hr := p.HeartRate; hr != nil {
		if present(hr.RestingHeartRate) {
			m.RestingHeartRate = roundInt(hr.RestingHeartRate)
		}
		if present(hr.MaxHeartRate) {
			m.MaxHeartRate = roundInt(hr.MaxHeartRate)
		}
		if present(hr.AverageHeartRate) {
			m.AvgHeartRate = roundInt(hr.AverageHeartRate)
		}
	}

	if p.Sleep != nil && p.Sleep.DailySleepDTO != nil {
		sleep := p.Sleep.DailySleepDTO
		if present(sleep.SleepStartTimestampGMT) {
			t := time.UnixMilli(int64(*sleep.SleepStartTimestampGMT)).UTC()
			m.SleepStartTime = &t
		}
		if present(sleep.SleepEndTimestampGMT) {
			t := time.UnixMilli(int64(*sleep.SleepEndTimestampGMT)).UTC()
			m.SleepEndTime = &t
		}
		if sleep.SleepTimeSeconds != nil {
			m.SleepDurationSeconds = roundInt(sleep.SleepTimeSeconds)
		}
		m.DeepSleepSeconds = roundInt(sleep.DeepSleepSeconds)
		m.LightSleepSeconds = roundInt(sleep.LightSleepSeconds)
		m.RemSleepSeconds = roundInt(sleep.RemSleepSeconds)
		m.AwakeSeconds = roundInt(sleep.AwakeSleepSeconds)
		if sleep.SleepScores != nil && sleep.SleepScores.Overall != nil {
			m.SleepScore = roundInt(sleep.SleepScores.Overall.Value)
		}
	}

	if st := p.Stress; st != nil {
		avg := st.AvgStressLevel
		if !present(avg) {
			avg = st.AverageStressLevel
		}
		if present(avg) {
			m.AvgStressLevel = roundInt(avg)
		}
		if present(st.MaxStressLevel) {
			m.MaxStressLevel = roundInt(st.MaxStressLevel)
		}
	}

	if len(p.BodyBattery) > 0 {
		bb := p.BodyBattery[0]
		m.BodyBatteryCharged = roundInt(bb.Charged)
		m.BodyBatteryDrained = roundInt(bb.Drained)
		var highest, lowest *float64
		for _, sample := range bb.BodyBatteryValues {
			if len(sample) < 2 || sample[1] == nil {
				continue
			}
			v := *sample[1]
			if highest == nil || v > *highest {
				highest = float64Ptr(v)
			}
			if lowest == nil || v < *lowest {
				lowest = float64Ptr(v)
			}
		}
		m.BodyBatteryHighest = roundInt(highest)
		m.BodyBatteryLowest = roundInt(lowest)
	}

	if len(p.WeighIns) > 0 {
		w := p.WeighIns[0]
		if present(w.Weight) {
			m.WeightKg = float64Ptr(*w.Weight / 1000)
		}
		m.BMI = w.BMI
		m.BodyFatPercentage = w.BodyFat
	}

	m.RawData = rawPayloads(m.RawData, p)
	return m
}

// rawPayloads the fetched payloads as received, keyed by data type, merged over the previous raw data
func rawPayloads(previous string, p *GarminPayloads) string {
	raw := map[string]json.RawMessage{}
	if previous != "" {
		// unreadable previous raw data is replaced
		if err := json.Unmarshal([]byte(previous), &raw); err != nil {
			raw = map[string]json.RawMessage{}
		}
	}
	if p.DailySummary != nil {
		raw[schema.GarminDailySummary] = p.DailySummary.Raw
	}
	if p.HeartRate != nil {
		raw[schema.GarminHeartRate] = p.HeartRate.Raw
	}
	if p.Sleep != nil {
		raw[schema.GarminSleep] = p.Sleep.Raw
	}
	if p.Stress != nil {
		raw[schema.GarminStress] = p.Stress.Raw
	}
	if len(p.BodyBattery) > 0 {
		items := make([]json.RawMessage, 0, len(p.BodyBattery))
		for _, r := range p.BodyBattery {
			items = append(items, r.Raw)
		}
		raw[schema.GarminBodyBattery] = rawArray(items)
	}
	if len(p.WeighIns) > 0 {
		items := make([]json.RawMessage, 0, len(p.WeighIns))
		for _, w := range p.WeighIns {
			items = append(items, w.Raw)
		}
		raw[schema.GarminWeight] = rawArray(items)
	}
	if len(p.Activities) > 0 {
		items := make([]json.RawMessage, 0, len(p.Activities))
		for _, a := range p.Activities {
			items = append(items, a.Raw)
		}
		raw[schema.GarminActivities] = rawArray(items)
	}
	for key, value := range raw {
		if len(value) == 0 {
			raw[key] = json.RawMessage("null")
		}
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return ""
	}
	return string(b)
}

func rawArray(items []json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if len(item) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(item)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

var activityTimeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", time.RFC3339}

// activityFrom map a Garmin workout, its local start time is read in loc
func activityFrom(a garmin.Activity, day string, loc *time.Location, syncedAt time.Time) schema.Activity {
	activity := schema.Activity{
		GarminActivityID: a.ActivityID.String(),
		Date:             day,
		ActivityName:     a.ActivityName,
		DurationSeconds:  roundInt(a.Duration),
		DistanceMeters:   a.Distance,
		Calories:         roundInt(a.Calories),
		AvgHeartRate:     roundInt(a.AverageHR),
		MaxHeartRate:     roundInt(a.MaxHR),
		AvgSpeed:         a.AverageSpeed,
		MaxSpeed:         a.MaxSpeed,
		ElevationGain:    a.ElevationGain,
		RawData:          string(a.Raw),
		SyncedAt:         syncedAt,
	}
	if a.ActivityType != nil {
		activity.ActivityType = a.ActivityType.TypeKey
	}
	if start := strings.TrimSpace(a.StartTimeLocal); start != "" {
		for _, layout := range activityTimeLayouts {
			if t, err := time.ParseInLocation(layout, start, loc); err == nil {
				utc := t.UTC()
				activity.StartTime = &utc
				break
			}
		}
	}
	return activity
}
