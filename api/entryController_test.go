package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRoutes_CRUD(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		create   string
		update   string
		field    string
		expected interface{}
	}{
		{
			name:     "food",
			path:     "/api/v1/food/",
			create:   `{"time": "2024-03-09T12:30:00Z", "meal_type": "lunch", "description": "Pasta", "calories": 600}`,
			update:   `{"description": "Pasta pesto"}`,
			field:    "description",
			expected: "Pasta pesto",
		},
		{
			name:     "medication",
			path:     "/api/v1/medications/",
			create:   `{"date": "2024-03-09", "time": "2024-03-09T08:00:00Z", "medication_name": "Keppra", "dosage": "500mg"}`,
			update:   `{"dosage": "750mg"}`,
			field:    "dosage",
			expected: "750mg",
		},
		{
			name:     "medication schedule",
			path:     "/api/v1/medications/schedules",
			create:   `{"medication_name": "Keppra", "schedule_times": ["08:00", "20:00"], "start_date": "2024-03-01"}`,
			update:   `{"notes": "with food"}`,
			field:    "notes",
			expected: "with food",
		},
		{
			name:     "sickness",
			path:     "/api/v1/sickness/",
			create:   `{"date": "2024-03-09", "symptoms": "cough", "has_fever": true, "temperature_celsius": 38.2}`,
			update:   `{"severity": "mild"}`,
			field:    "severity",
			expected: "mild",
		},
		{
			name:     "seizure",
			path:     "/api/v1/seizures/",
			create:   `{"time": "2024-03-09T07:30:00Z", "severity": "mild", "duration_seconds": 40}`,
			update:   `{"severity": "severe"}`,
			field:    "severity",
			expected: "severe",
		},
		{
			name:     "health event",
			path:     "/api/v1/health-events/",
			create:   `{"date": "2024-03-01", "event_type": "doctor_visit", "title": "Neurologist"}`,
			update:   `{"outcome": "stable"}`,
			field:    "outcome",
			expected: "stable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			response := s.do(http.MethodPost, tt.path, tt.create)
			require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
			var created map[string]interface{}
			decodeResponse(t, response, &created)
			assert.Equal(t, float64(1), created["id"])
			assert.Equal(t, float64(1), created["user_id"])
			item := fmt.Sprintf("%s/1", trimSlash(tt.path))

			response = s.do(http.MethodGet, item, "")
			require.Equal(t, http.StatusOK, response.Code, response.Body.String())

			response = s.do(http.MethodPut, item, tt.update)
			require.Equal(t, http.StatusOK, response.Code, response.Body.String())
			var updated map[string]interface{}
			decodeResponse(t, response, &updated)
			assert.Equal(t, tt.expected, updated[tt.field])
			assert.Equal(t, created["created_at"], updated["created_at"])
			assert.NotNil(t, updated["updated_at"])

			response = s.do(http.MethodDelete, item, "")
			require.Equal(t, http.StatusNoContent, response.Code)

			response = s.do(http.MethodGet, item, "")
			require.Equal(t, http.StatusNotFound, response.Code)
			assert.Equal(t, "not_found", errorOf(t, response).Code)

			response = s.do(http.MethodDelete, item, "")
			require.Equal(t, http.StatusNotFound, response.Code)
		})
	}
}

func trimSlash(path string) string {
	if len(path) > 0 && path[len(path)-1] == '/' {
		return path[:len(path)-1]
	}
	return path
}

func TestEntryRoutes_UpdateKeepsIdentity(t *testing.T) {
	s := newTestServer(t)
	response := s.do(http.MethodPost, "/api/v1/sickness/", `{"date": "2024-03-09", "symptoms": "cough"}`)
	require.Equal(t, http.StatusCreated, response.Code)

	response = s.do(http.MethodPut, "/api/v1/sickness/1", `{"id": 42, "user_id": 7, "symptoms": "sore throat"}`)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	var updated map[string]interface{}
	decodeResponse(t, response, &updated)
	assert.Equal(t, float64(1), updated["id"])
	assert.Equal(t, float64(1), updated["user_id"])
	assert.Equal(t, "sore throat", updated["symptoms"])
	assert.Equal(t, "2024-03-09", updated["date"])
}

func TestEntryRoutes_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	response := s.do(http.MethodPost, "/api/v1/health-events/", `{"date": "2024-03-01", "event_type": "party", "title": "x"}`)
	require.Equal(t, http.StatusBadRequest, response.Code)
	derr := errorOf(t, response)
	assert.Equal(t, "invalid_body", derr.Code)
	assert.Contains(t, derr.Message, "event_type")

	response = s.do(http.MethodPost, "/api/v1/medications/schedules", `{"medication_name": "Keppra", "schedule_times": ["08:00"], "start_date": "2024-03-10", "end_date": "2024-03-01"}`)
	require.Equal(t, http.StatusBadRequest, response.Code)

	response = s.do(http.MethodGet, "/api/v1/seizures/0", "")
	require.Equal(t, http.StatusBadRequest, response.Code)
	assert.Equal(t, "invalid_parameters", errorOf(t, response).Code)
}

func TestLogbookRoutes_ListDefaultsToToday(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []string{
		`{"time": "2024-03-10T09:00:00Z", "amount_ml": 250}`,
		`{"time": "2024-03-10T15:00:00Z", "amount_ml": 500}`,
		`{"time": "2024-03-09T09:00:00Z", "amount_ml": 330}`,
	} {
		response := s.do(http.MethodPost, "/api/v1/water/", body)
		require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	}

	var entries []map[string]interface{}
	response := s.do(http.MethodGet, "/api/v1/water/", "")
	require.Equal(t, http.StatusOK, response.Code)
	decodeResponse(t, response, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, float64(500), entries[0]["amount_ml"])

	response = s.do(http.MethodGet, "/api/v1/water/?start_date=2024-03-09", "")
	require.Equal(t, http.StatusOK, response.Code)
	decodeResponse(t, response, &entries)
	assert.Len(t, entries, 3)

	response = s.do(http.MethodGet, "/api/v1/water/?start_date=2024-03-10&end_date=2024-03-09", "")
	require.Equal(t, http.StatusBadRequest, response.Code)
	assert.Equal(t, "invalid_parameters", errorOf(t, response).Code)

	response = s.do(http.MethodGet, "/api/v1/water/?start_date=10-03-2024", "")
	require.Equal(t, http.StatusBadRequest, response.Code)
	assert.Equal(t, "invalid_date", errorOf(t, response).Code)

	var total map[string]interface{}
	response = s.do(http.MethodGet, "/api/v1/water/daily-total/2024-03-10", "")
	require.Equal(t, http.StatusOK, response.Code)
	decodeResponse(t, response, &total)
	assert.Equal(t, map[string]interface{}{"date": "2024-03-10", "total_ml": float64(750), "entry_count": float64(2)}, total)

	response = s.do(http.MethodGet, "/api/v1/water/daily-total/yesterday", "")
	require.Equal(t, http.StatusBadRequest, response.Code)
}

func TestLogbookRoutes_Filters(t *testing.T) {
	s := newTestServer(t)
	for path, body := range map[string]string{
		"/api/v1/sickness/":      `{"date": "2024-03-10", "symptoms": "flu", "has_fever": true}`,
		"/api/v1/seizures/":      `{"time": "2024-03-10T03:00:00Z", "severity": "severe", "seizure_type": "tonic-clonic"}`,
		"/api/v1/health-events/": `{"date": "2024-03-10", "event_type": "vaccination", "title": "Flu shot"}`,
		"/api/v1/medications/":   `{"time": "2024-03-10T08:00:00Z", "medication_name": "Lamotrigine"}`,
	} {
		response := s.do(http.MethodPost, path, body)
		require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	}

	tests := []struct {
		query    string
		expected int
	}{
		{query: "/api/v1/sickness/?has_fever=true", expected: 1},
		{query: "/api/v1/sickness/?has_fever=false", expected: 0},
		{query: "/api/v1/seizures/?severity=severe&seizure_type=tonic-clonic", expected: 1},
		{query: "/api/v1/seizures/?severity=mild", expected: 0},
		{query: "/api/v1/health-events/?event_type=vaccination", expected: 1},
		{query: "/api/v1/health-events/?event_type=surgery", expected: 0},
		{query: "/api/v1/medications/?medication_name=lamo", expected: 1},
		{query: "/api/v1/medications/?medication_name=keppra", expected: 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var entries []map[string]interface{}
			response := s.do(http.MethodGet, tt.query, "")
			require.Equal(t, http.StatusOK, response.Code, response.Body.String())
			decodeResponse(t, response, &entries)
			assert.Len(t, entries, tt.expected)
		})
	}

	response := s.do(http.MethodGet, "/api/v1/sickness/?has_fever=maybe", "")
	require.Equal(t, http.StatusBadRequest, response.Code)
}

func TestMedicationRoutes_SchedulesActiveOnly(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []string{
		`{"medication_name": "Vitamin D", "schedule_times": ["12:00"], "start_date": "2024-03-01"}`,
		`{"medication_name": "Keppra", "schedule_times": ["08:00", "20:00"], "start_date": "2024-03-01"}`,
		`{"medication_name": "Depakine", "schedule_times": ["08:00"], "start_date": "2024-01-01", "is_active": false}`,
	} {
		response := s.do(http.MethodPost, "/api/v1/medications/schedules", body)
		require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	}

	var schedules []map[string]interface{}
	response := s.do(http.MethodGet, "/api/v1/medications/schedules", "")
	require.Equal(t, http.StatusOK, response.Code)
	decodeResponse(t, response, &schedules)
	require.Len(t, schedules, 2)
	assert.Equal(t, "Keppra", schedules[0]["medication_name"])
	assert.Equal(t, true, schedules[0]["is_active"])
	assert.Equal(t, "Vitamin D", schedules[1]["medication_name"])

	response = s.do(http.MethodGet, "/api/v1/medications/schedules?active_only=false", "")
	require.Equal(t, http.StatusOK, response.Code)
	decodeResponse(t, response, &schedules)
	require.Len(t, schedules, 3)
	assert.Equal(t, "Depakine", schedules[0]["medication_name"])
}
