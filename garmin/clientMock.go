package garmin

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockConnector Connector for unit tests
type MockConnector struct {
	mock.Mock
}

// MockFactory always hand out the same connector
func MockFactory(m *MockConnector) ConnectorFactory {
	return func(username string, password string) Connector {
		return m
	}
}

func (m *MockConnector) Login(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockConnector) DailySummary(ctx context.Context, day string) (*DailySummary, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DailySummary), args.Error(1)
}

func (m *MockConnector) HeartRate(ctx context.Context, day string) (*HeartRate, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*HeartRate), args.Error(1)
}

func (m *MockConnector) Sleep(ctx context.Context, day string) (*Sleep, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Sleep), args.Error(1)
}

func (m *MockConnector) Stress(ctx context.Context, day string) (*Stress, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stress), args.Error(1)
}

func (m *MockConnector) BodyBattery(ctx context.Context, day string) ([]BodyBatteryReport, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BodyBatteryReport), args.Error(1)
}

func (m *MockConnector) WeighIns(ctx context.Context, day string) ([]WeighIn, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WeighIn), args.Error(1)
}

func (m *MockConnector) Activities(ctx context.Context, start string, end string) ([]Activity, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Activity), args.Error(1)
}
