package common

import "errors"

// ErrDuplicate a unique constraint of the store rejected the write
var ErrDuplicate = errors.New("duplicate entry")

// SortField one sort key, ties are broken by ascending id
type SortField struct {
	Field string
	Desc  bool
}

// EntryQuery selection of stored entries.
// Missing fields sort before any value, like in the store.
type EntryQuery struct {
	UserID int64
	// Dates inclusive range on DateField ("date" when empty)
	Dates     *Date
	DateField string
	// Equal exact match on a field value
	Equal map[string]interface{}
	// IEqual case-insensitive string equality
	IEqual map[string]string
	// Contains case-insensitive substring match
	Contains map[string]string
	Sort     []SortField
	Skip     int64
	Limit    int64
}

// DateKey the field used for the date range
func (q EntryQuery) DateKey() string {
	if q.DateField == "" {
		return "date"
	}
	return q.DateField
}

// Where add an equality condition
func (q EntryQuery) Where(field string, value interface{}) EntryQuery {
	equal := make(map[string]interface{}, len(q.Equal)+1)
	for k, v := range q.Equal {
		equal[k] = v
	}
	equal[field] = value
	q.Equal = equal
	return q
}

// OrderBy append sort keys
func (q EntryQuery) OrderBy(fields ...SortField) EntryQuery {
	q.Sort = append(append([]SortField{}, q.Sort...), fields...)
	return q
}

func Asc(field string) SortField {
	return SortField{Field: field}
}

func Desc(field string) SortField {
	return SortField{Field: field, Desc: true}
}
