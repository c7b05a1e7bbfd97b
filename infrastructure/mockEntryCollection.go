package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

// MockEntryCollection in memory EntryCollection, use for unit tests.
// Entries are matched on their bson representation, so filters use the stored field names.
type MockEntryCollection[T any, PT interface {
	*T
	schema.Entry
}] struct {
	mu      sync.Mutex
	lastID  int64
	entries map[int64]T
	// Unique fields rejected with ErrDuplicate when already used by another entry
	Unique []string
	// Err when set, returned by every call
	Err error
}

func NewMockEntryCollection[T any, PT interface {
	*T
	schema.Entry
}](unique ...string) *MockEntryCollection[T, PT] {
	return &MockEntryCollection[T, PT]{entries: map[int64]T{}, Unique: unique}
}

// Len number of stored entries
func (c *MockEntryCollection[T, PT]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// All stored entries in id order
func (c *MockEntryCollection[T, PT]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, 0, len(c.entries))
	for _, id := range c.sortedIDs() {
		out = append(out, c.entries[id])
	}
	return out
}

func (c *MockEntryCollection[T, PT]) sortedIDs() []int64 {
	ids := make([]int64, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *MockEntryCollection[T, PT]) checkUnique(entry *T) error {
	if len(c.Unique) == 0 {
		return nil
	}
	doc, err := toDocument(entry)
	if err != nil {
		return err
	}
	for id, existing := range c.entries {
		if id == PT(entry).GetID() {
			continue
		}
		other, err := toDocument(&existing)
		if err != nil {
			return err
		}
		for _, field := range c.Unique {
			if doc[field] != nil && fmt.Sprint(doc[field]) == fmt.Sprint(other[field]) && fmt.Sprint(doc["user_id"]) == fmt.Sprint(other["user_id"]) {
				return fmt.Errorf("%s: %w", field, ErrDuplicate)
			}
		}
	}
	return nil
}

func (c *MockEntryCollection[T, PT]) Create(ctx context.Context, entry *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	PT(entry).SetID(c.lastID + 1)
	if err := c.checkUnique(entry); err != nil {
		PT(entry).SetID(0)
		return err
	}
	c.lastID++
	c.entries[c.lastID] = *entry
	return nil
}

func (c *MockEntryCollection[T, PT]) Get(ctx context.Context, id int64) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	entry, ok := c.entries[id]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (c *MockEntryCollection[T, PT]) Update(ctx context.Context, entry *T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	id := PT(entry).GetID()
	if _, ok := c.entries[id]; !ok {
		return false, nil
	}
	if err := c.checkUnique(entry); err != nil {
		return false, err
	}
	c.entries[id] = *entry
	return true, nil
}

func (c *MockEntryCollection[T, PT]) Delete(ctx context.Context, id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	if _, ok := c.entries[id]; !ok {
		return false, nil
	}
	delete(c.entries, id)
	return true, nil
}

func (c *MockEntryCollection[T, PT]) Find(ctx context.Context, q common.EntryQuery) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	type candidate struct {
		entry T
		doc   bson.M
	}
	matches := make([]candidate, 0)
	for _, id := range c.sortedIDs() {
		entry := c.entries[id]
		doc, err := toDocument(&entry)
		if err != nil {
			return nil, err
		}
		if matchDocument(doc, q) {
			matches = append(matches, candidate{entry: entry, doc: doc})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		for _, f := range q.Sort {
			cmp := compareValues(matches[i].doc[f.Field], matches[j].doc[f.Field])
			if cmp == 0 {
				continue
			}
			if f.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	results := make([]T, 0, len(matches))
	for i, m := range matches {
		if int64(i) < q.Skip {
			continue
		}
		if q.Limit > 0 && int64(len(results)) >= q.Limit {
			break
		}
		results = append(results, m.entry)
	}
	return results, nil
}

func (c *MockEntryCollection[T, PT]) FindOne(ctx context.Context, q common.EntryQuery) (*T, error) {
	q.Limit = 1
	results, err := c.Find(ctx, q)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return &results[0], nil
}

func (c *MockEntryCollection[T, PT]) Count(ctx context.Context, q common.EntryQuery) (int64, error) {
	q.Skip, q.Limit = 0, 0
	results, err := c.Find(ctx, q)
	return int64(len(results)), err
}

func toDocument(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := bson.M{}
	return doc, bson.Unmarshal(raw, &doc)
}

func matchDocument(doc bson.M, q common.EntryQuery) bool {
	if q.UserID != 0 && fmt.Sprint(doc["user_id"]) != fmt.Sprint(q.UserID) {
		return false
	}
	if q.Dates != nil {
		day, _ := doc[q.DateKey()].(string)
		if q.Dates.Start != "" && day < q.Dates.Start {
			return false
		}
		if q.Dates.End != "" && day > q.Dates.End {
			return false
		}
	}
	for field, value := range q.Equal {
		if fmt.Sprint(doc[field]) != fmt.Sprint(value) {
			return false
		}
	}
	for field, value := range q.IEqual {
		s, ok := doc[field].(string)
		if !ok || !strings.EqualFold(s, value) {
			return false
		}
	}
	for field, value := range q.Contains {
		s, ok := doc[field].(string)
		if !ok || !strings.Contains(strings.ToLower(s), strings.ToLower(value)) {
			return false
		}
	}
	return true
}

// compareValues order of two bson values, a missing value sorts first
func compareValues(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ta, ok := a.(primitive.DateTime); ok {
		if tb, ok := b.(primitive.DateTime); ok {
			return compareTimes(ta.Time(), tb.Time())
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
