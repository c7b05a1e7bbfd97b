package common

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TimeItKey int
type TimeItType struct {
	timers  map[string]time.Time
	results string
}

// IsValidUUID check if the uuid is valid
func IsValidUUID(u string) bool {
	_, err := uuid.Parse(u)
	return err == nil
}

// Contains search an element in an array
func Contains(a []string, x string) bool {
	for _, n := range a {
		if x == n {
			return true
		}
	}
	return false
}

func TimeItContext(ctx context.Context) context.Context {
	value := &TimeItType{
		timers: make(map[string]time.Time),
	}
	return context.WithValue(ctx, TimeItKey(0), value)
}

func timeItValue(ctx context.Context) *TimeItType {
	if ctx == nil {
		return nil
	}
	value, _ := ctx.Value(TimeItKey(0)).(*TimeItType)
	return value
}

// TimeIt start a named timer, no-op on a context without timers
func TimeIt(ctx context.Context, name string) {
	ctxValue := timeItValue(ctx)
	if ctxValue == nil {
		return
	}
	if _, present := ctxValue.timers[name]; present {
		fmt.Printf("timeIt: Timer %s already started\n", name)
		return
	}
	ctxValue.timers[name] = time.Now()
}

func TimeEnd(ctx context.Context, name string) int64 {
	ctxValue := timeItValue(ctx)
	if ctxValue == nil {
		return 0
	}
	start, present := ctxValue.timers[name]
	if !present {
		fmt.Printf("timeEnd: Timer %s has not started\n", name)
		return 0
	}
	delete(ctxValue.timers, name)
	dur := time.Since(start).Milliseconds()
	if len(ctxValue.results) == 0 {
		ctxValue.results = fmt.Sprintf("%s:%dms", name, dur)
	} else {
		ctxValue.results = fmt.Sprintf("%s %s:%dms", ctxValue.results, name, dur)
	}
	return dur
}

func TimeResults(ctx context.Context) string {
	ctxValue := timeItValue(ctx)
	if ctxValue == nil {
		return ""
	}
	return ctxValue.results
}

type traceIDKey struct{}

// WithTraceID attach the request trace id to ctx
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID the request trace id, empty outside of a request
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}
