package schema

import "time"

type (
	// User the local profile, holding the Garmin Connect credentials
	User struct {
		Record                  `bson:",inline"`
		Username                string `json:"username" bson:"username"`
		Email                   string `json:"email,omitempty" bson:"email,omitempty"`
		GarminUsername          string `json:"garmin_username,omitempty" bson:"garmin_username,omitempty"`
		GarminPasswordEncrypted string `json:"-" bson:"garmin_password_encrypted,omitempty"`
	}

	// UserUpdate partial profile update, a nil field is left untouched
	UserUpdate struct {
		Email          *string `json:"email" validate:"omitempty,email"`
		GarminUsername *string `json:"garmin_username"`
		GarminPassword *string `json:"garmin_password"`
	}

	FoodEntry struct {
		Record         `bson:",inline"`
		Date           string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
		Time           time.Time `json:"time" bson:"time" validate:"required"`
		MealType       string    `json:"meal_type" bson:"meal_type" validate:"required,oneof=breakfast lunch dinner snack other"`
		Description    string    `json:"description" bson:"description" validate:"required,max=500"`
		Calories       *int      `json:"calories" bson:"calories,omitempty" validate:"omitempty,gte=0"`
		ProteinGrams   *float64  `json:"protein_grams" bson:"protein_grams,omitempty" validate:"omitempty,gte=0"`
		CarbsGrams     *float64  `json:"carbs_grams" bson:"carbs_grams,omitempty" validate:"omitempty,gte=0"`
		FatGrams       *float64  `json:"fat_grams" bson:"fat_grams,omitempty" validate:"omitempty,gte=0"`
		IsDrink        bool      `json:"is_drink" bson:"is_drink"`
		VolumeML       *int      `json:"volume_ml" bson:"volume_ml,omitempty" validate:"omitempty,gte=0"`
		Notes          string    `json:"notes,omitempty" bson:"notes,omitempty"`
		FoodDatabaseID *int64    `json:"food_database_id" bson:"food_database_id,omitempty"`
	}

	// FoodEntryCreate a food entry plus how it relates to the food catalog
	FoodEntryCreate struct {
		FoodEntry
		// SaveToDatabase defaults to true
		SaveToDatabase *bool `json:"save_to_database"`
	}

	// FoodDatabaseEntry a catalog item reused when logging food
	FoodDatabaseEntry struct {
		Record       `bson:",inline"`
		Name         string     `json:"name" bson:"name" validate:"required,max=200"`
		ServingSize  string     `json:"serving_size,omitempty" bson:"serving_size,omitempty"`
		Calories     *int       `json:"calories" bson:"calories,omitempty" validate:"omitempty,gte=0"`
		ProteinGrams *float64   `json:"protein_grams" bson:"protein_grams,omitempty" validate:"omitempty,gte=0"`
		CarbsGrams   *float64   `json:"carbs_grams" bson:"carbs_grams,omitempty" validate:"omitempty,gte=0"`
		FatGrams     *float64   `json:"fat_grams" bson:"fat_grams,omitempty" validate:"omitempty,gte=0"`
		IsDrink      bool       `json:"is_drink" bson:"is_drink"`
		VolumeML     *int       `json:"volume_ml" bson:"volume_ml,omitempty" validate:"omitempty,gte=0"`
		TimesLogged  int        `json:"times_logged" bson:"times_logged"`
		LastUsed     *time.Time `json:"last_used" bson:"last_used,omitempty"`
		IsFavorite   bool       `json:"is_favorite" bson:"is_favorite"`
	}

	Medication struct {
		Record         `bson:",inline"`
		Date           string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
		Time           time.Time `json:"time" bson:"time" validate:"required"`
		MedicationName string    `json:"medication_name" bson:"medication_name" validate:"required,max=200"`
		Dosage         string    `json:"dosage,omitempty" bson:"dosage,omitempty"`
		Quantity       *float64  `json:"quantity" bson:"quantity,omitempty" validate:"omitempty,gte=0"`
		Unit           string    `json:"unit,omitempty" bson:"unit,omitempty"`
		Notes          string    `json:"notes,omitempty" bson:"notes,omitempty"`
	}

	// MedicationSchedule a recurring medication, expanded every day into Medication entries
	MedicationSchedule struct {
		Record         `bson:",inline"`
		MedicationName string   `json:"medication_name" bson:"medication_name" validate:"required,max=200"`
		Dosage         string   `json:"dosage,omitempty" bson:"dosage,omitempty"`
		Quantity       *float64 `json:"quantity" bson:"quantity,omitempty" validate:"omitempty,gte=0"`
		Unit           string   `json:"unit,omitempty" bson:"unit,omitempty"`
		ScheduleTimes  []string `json:"schedule_times" bson:"schedule_times" validate:"required,min=1"`
		// IsActive defaults to true on creation
		IsActive  *bool  `json:"is_active" bson:"is_active"`
		StartDate string `json:"start_date" bson:"start_date" validate:"required,datetime=2006-01-02"`
		EndDate   string `json:"end_date,omitempty" bson:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
		Notes     string `json:"notes,omitempty" bson:"notes,omitempty"`
	}

	SicknessEntry struct {
		Record             `bson:",inline"`
		Date               string     `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
		Symptoms           string     `json:"symptoms" bson:"symptoms" validate:"required"`
		Severity           string     `json:"severity,omitempty" bson:"severity,omitempty" validate:"omitempty,oneof=mild moderate severe"`
		HasFever           bool       `json:"has_fever" bson:"has_fever"`
		TemperatureCelsius *float64   `json:"temperature_celsius" bson:"temperature_celsius,omitempty" validate:"omitempty,gte=30,lte=45"`
		TemperatureTime    *time.Time `json:"temperature_time" bson:"temperature_time,omitempty"`
		Notes              string     `json:"notes,omitempty" bson:"notes,omitempty"`
	}

	Seizure struct {
		Record           `bson:",inline"`
		Date             string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
		Time             time.Time `json:"time" bson:"time" validate:"required"`
		SeizureType      string    `json:"seizure_type,omitempty" bson:"seizure_type,omitempty"`
		DurationSeconds  *int      `json:"duration_seconds" bson:"duration_seconds,omitempty" validate:"omitempty,gte=0"`
		Severity         string    `json:"severity,omitempty" bson:"severity,omitempty" validate:"omitempty,oneof=mild moderate severe"`
		Triggers         string    `json:"triggers,omitempty" bson:"triggers,omitempty"`
		WarningSigns     string    `json:"warning_signs,omitempty" bson:"warning_signs,omitempty"`
		PostSeizureState string    `json:"post_seizure_state,omitempty" bson:"post_seizure_state,omitempty"`
		Location         string    `json:"location,omitempty" bson:"location,omitempty"`
		ActivityBefore   string    `json:"activity_before,omitempty" bson:"activity_before,omitempty"`
		Notes            string    `json:"notes,omitempty" bson:"notes,omitempty"`
	}

	HealthEvent struct {
		Record       `bson:",inline"`
		Date         string     `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
		Time         *time.Time `json:"time" bson:"time,omitempty"`
		EventType    string     `json:"event_type" bson:"event_type" validate:"required,oneof=surgery hospitalization doctor_visit vaccination diagnosis procedure test_result other"`
		Title        string     `json:"title" bson:"title" validate:"required,max=200"`
		Description  string     `json:"description,omitempty" bson:"description,omitempty"`
		Location     string     `json:"location,omitempty" bson:"location,omitempty"`
		Provider     string     `json:"provider,omitempty" bson:"provider,omitempty"`
		FollowUpDate string     `json:"follow_up_date,omitempty" bson:"follow_up_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
		Outcome      string     `json:"outcome,omitempty" bson:"outcome,omitempty"`
		Notes        string     `json:"notes,omitempty" bson:"notes,omitempty"`
	}

	// DailyNote one journal entry per calendar date
	DailyNote struct {
		Record      `bson:",inline"`
		Date        string `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
		Mood        string `json:"mood,omitempty" bson:"mood,omitempty"`
		EnergyLevel *int   `json:"energy_level" bson:"energy_level,omitempty" validate:"omitempty,min=1,max=10"`
		Notes       string `json:"notes,omitempty" bson:"notes,omitempty"`
	}

	WaterIntake struct {
		Record   `bson:",inline"`
		Date     string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
		Time     time.Time `json:"time" bson:"time" validate:"required"`
		AmountML int       `json:"amount_ml" bson:"amount_ml" validate:"required,gt=0"`
		Notes    string    `json:"notes,omitempty" bson:"notes,omitempty"`
	}

	// WaterDailyTotal water drunk on a given date
	WaterDailyTotal struct {
		Date       string `json:"date"`
		TotalML    int    `json:"total_ml"`
		EntryCount int    `json:"entry_count"`
	}
)

func (f *FoodEntry) Clock() *time.Time { return &f.Time }
func (f *FoodEntry) Day() string       { return f.Date }
func (f *FoodEntry) SetDay(day string) { f.Date = day }

func (m *Medication) Clock() *time.Time { return &m.Time }
func (m *Medication) Day() string       { return m.Date }
func (m *Medication) SetDay(day string) { m.Date = day }

func (s *Seizure) Clock() *time.Time { return &s.Time }
func (s *Seizure) Day() string       { return s.Date }
func (s *Seizure) SetDay(day string) { s.Date = day }

func (w *WaterIntake) Clock() *time.Time { return &w.Time }
func (w *WaterIntake) Day() string       { return w.Date }
func (w *WaterIntake) SetDay(day string) { w.Date = day }

func (h *HealthEvent) Clock() *time.Time { return h.Time }
func (h *HealthEvent) Day() string       { return h.Date }
func (h *HealthEvent) SetDay(day string) { h.Date = day }

// Active a schedule without explicit flag is active
func (s *MedicationSchedule) Active() bool {
	return s.IsActive == nil || *s.IsActive
}

// AppliesTo the schedule is active and day is within its validity range
func (s *MedicationSchedule) AppliesTo(day string) bool {
	if !s.Active() || s.StartDate > day {
		return false
	}
	return s.EndDate == "" || s.EndDate >= day
}

// HasGarminCredentials both the Garmin username and the encrypted password are set
func (u *User) HasGarminCredentials() bool {
	return u.GarminUsername != "" && u.GarminPasswordEncrypted != ""
}

// ActionResult outcome of an operation without a resource to return
type ActionResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	IsFavorite *bool  `json:"is_favorite,omitempty"`
}

// CatalogQuery selection of food catalog items
type CatalogQuery struct {
	Search        string
	IsDrink       *bool
	FavoritesOnly bool
	// SortBy frequent (default), recent or alphabetical
	SortBy string
	Skip   int64
	Limit  int64
}

// GarminStatus whether a sync can log in to Garmin Connect
type GarminStatus struct {
	Configured bool    `json:"configured"`
	Username   *string `json:"username"`
}
