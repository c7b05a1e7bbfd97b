package infrastructure

import (
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrMockPing = errors.New("store unreachable")

// MockDbAdapter store client without a server, for the status route tests.
// It never hands out a collection: the entry collections are mocked separately.
type MockDbAdapter struct {
	mu       sync.Mutex
	pingErr  error
	started  bool
	closed   bool
	PingDone int
}

func NewMockDbAdapter() *MockDbAdapter {
	return &MockDbAdapter{}
}

// FailPing make the next pings fail with err, nil restores them
func (c *MockDbAdapter) FailPing(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pingErr = err
}

func (c *MockDbAdapter) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PingDone++
	return c.pingErr
}

func (c *MockDbAdapter) PingOK() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pingErr == nil
}

func (c *MockDbAdapter) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = true
}

func (c *MockDbAdapter) WaitUntilStarted() {}

// Started true between Start and Close
func (c *MockDbAdapter) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started && !c.closed
}

func (c *MockDbAdapter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *MockDbAdapter) Collection(collectionName string, databaseName ...string) *mongo.Collection {
	return nil
}
