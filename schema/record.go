package schema

import "time"

// DefaultUserID the single local user owning every record
const DefaultUserID int64 = 1

// Record holds the fields shared by every stored entity
type Record struct {
	ID        int64      `json:"id" bson:"_id"`
	UserID    int64      `json:"user_id" bson:"user_id"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Entry is implemented by every entity stored in an entry collection
type Entry interface {
	GetID() int64
	SetID(id int64)
	SetOwner(userID int64)
	Created() time.Time
	SetCreated(t time.Time)
	Touch(now time.Time)
}

func (r *Record) GetID() int64 {
	return r.ID
}

func (r *Record) SetID(id int64) {
	r.ID = id
}

func (r *Record) SetOwner(userID int64) {
	r.UserID = userID
}

func (r *Record) Created() time.Time {
	return r.CreatedAt
}

func (r *Record) SetCreated(t time.Time) {
	r.CreatedAt = t
}

// Touch set the creation time of a new record, or the update time of an existing one
func (r *Record) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
		return
	}
	r.UpdatedAt = &now
}

// Clocked entities carry both a calendar date and an instant, the date follows the instant
type Clocked interface {
	Entry
	Clock() *time.Time
	Day() string
	SetDay(day string)
}
