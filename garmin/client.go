package garmin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Connector the Garmin Connect operations used by the sync.
// Fetch methods return a nil payload and no error for a day without data.
type Connector interface {
	Login(ctx context.Context) error
	DailySummary(ctx context.Context, day string) (*DailySummary, error)
	HeartRate(ctx context.Context, day string) (*HeartRate, error)
	Sleep(ctx context.Context, day string) (*Sleep, error)
	Stress(ctx context.Context, day string) (*Stress, error)
	BodyBattery(ctx context.Context, day string) ([]BodyBatteryReport, error)
	WeighIns(ctx context.Context, day string) ([]WeighIn, error)
	Activities(ctx context.Context, start string, end string) ([]Activity, error)
}

// ConnectorFactory build a Connector for a set of credentials
type ConnectorFactory func(username string, password string) Connector

// Config Garmin Connect endpoints and client behaviour
type Config struct {
	SSOURL     string        `json:"ssoUrl"`
	ConnectURL string        `json:"connectUrl"`
	Timeout    time.Duration `json:"timeout"`
	RetryCount int           `json:"retryCount"`
	UserAgent  string        `json:"userAgent"`
}

// DefaultConfig public Garmin Connect endpoints
func DefaultConfig() Config {
	return Config{
		SSOURL:     "https://sso.garmin.com",
		ConnectURL: "https://connectapi.garmin.com",
		Timeout:    30 * time.Second,
		RetryCount: 3,
		UserAgent:  "GCM-iOS-5.7.2.1",
	}
}

var (
	ErrNotLoggedIn = errors.New("garmin client not logged in")
	ErrNoTicket    = errors.New("garmin sso did not return a service ticket")
	ticketRegexp   = regexp.MustCompile(`ticket=([^"&\s]+)`)
)

// StatusError Garmin Connect answered with an http error
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("garmin %s: http status %d", e.Endpoint, e.Code)
}

// Client holds the state of a Garmin Connect session
type Client struct {
	http        *resty.Client
	cfg         Config
	username    string
	password    string
	logger      *zap.Logger
	mu          sync.RWMutex
	displayName string
}

// NewClient one session for username, Login must be called first
func NewClient(cfg Config, username string, password string, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(cfg.ConnectURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		httpClient.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Client{
		http:     httpClient,
		cfg:      cfg,
		username: username,
		password: password,
		logger:   logger,
	}
}

// NewClientFactory Connector factory for the sync
func NewClientFactory(cfg Config, logger *zap.Logger) ConnectorFactory {
	return func(username string, password string) Connector {
		return NewClient(cfg, username, password, logger)
	}
}

// Login sign in through the SSO, exchange the service ticket for a bearer token
// then resolve the display name used by the wellness endpoints
func (c *Client) Login(ctx context.Context) error {
	service := c.cfg.ConnectURL + "/modern"
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"service":   service,
			"gauthHost": c.cfg.SSOURL + "/sso",
			"embed":     "true",
		}).
		SetFormData(map[string]string{
			"username": c.username,
			"password": c.password,
			"embed":    "true",
		}).
		Post(c.cfg.SSOURL + "/sso/signin")
	if err != nil {
		return fmt.Errorf("garmin signin: %w", err)
	}
	if resp.IsError() {
		return &StatusError{Endpoint: "signin", Code: resp.StatusCode()}
	}
	match := ticketRegexp.FindSubmatch(resp.Body())
	if match == nil {
		return ErrNoTicket
	}
	ticket, err := url.QueryUnescape(string(match[1]))
	if err != nil {
		return fmt.Errorf("garmin signin: invalid ticket: %w", err)
	}

	var token oauthToken
	resp, err = c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"ticket": ticket, "service": service}).
		SetResult(&token).
		Post("/oauth-service/oauth/exchange/user/2.0")
	if err != nil {
		return fmt.Errorf("garmin token exchange: %w", err)
	}
	if resp.IsError() {
		return &StatusError{Endpoint: "token exchange", Code: resp.StatusCode()}
	}
	if token.AccessToken == "" {
		return errors.New("garmin token exchange: empty access token")
	}
	c.http.SetAuthToken(token.AccessToken)

	var profile socialProfile
	if err := c.getJSON(ctx, "social profile", "/userprofile-service/socialProfile", nil, &profile); err != nil {
		return err
	}
	if profile.DisplayName == "" {
		return errors.New("garmin social profile: empty display name")
	}

	c.mu.Lock()
	c.displayName = profile.DisplayName
	c.mu.Unlock()
	c.logger.Info("garmin_login_succeeded", zap.String("username", c.username))
	return nil
}

func (c *Client) display() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.displayName == "" {
		return "", ErrNotLoggedIn
	}
	return c.displayName, nil
}

// getJSON decode the answer of path into dest, false when Garmin has no data
func (c *Client) getJSON(ctx context.Context, endpoint string, path string, query map[string]string, dest interface{}) error {
	_, err := c.fetch(ctx, endpoint, path, query, dest)
	return err
}

func (c *Client) fetch(ctx context.Context, endpoint string, path string, query map[string]string, dest interface{}) (bool, error) {
	req := c.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return false, fmt.Errorf("garmin %s: %w", endpoint, err)
	}
	if resp.StatusCode() == http.StatusNoContent || resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if resp.IsError() {
		return false, &StatusError{Endpoint: endpoint, Code: resp.StatusCode()}
	}
	if isEmptyPayload(resp.Body()) {
		return false, nil
	}
	if err := json.Unmarshal(resp.Body(), dest); err != nil {
		return false, fmt.Errorf("garmin %s: decode: %w", endpoint, err)
	}
	return true, nil
}

func (c *Client) DailySummary(ctx context.Context, day string) (*DailySummary, error) {
	name, err := c.display()
	if err != nil {
		return nil, err
	}
	var summary DailySummary
	found, err := c.fetch(ctx, "daily summary", "/usersummary-service/usersummary/daily/"+url.PathEscape(name),
		map[string]string{"calendarDate": day}, &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) HeartRate(ctx context.Context, day string) (*HeartRate, error) {
	name, err := c.display()
	if err != nil {
		return nil, err
	}
	var hr HeartRate
	found, err := c.fetch(ctx, "heart rate", "/wellness-service/wellness/dailyHeartRate/"+url.PathEscape(name),
		map[string]string{"date": day}, &hr)
	if err != nil || !found {
		return nil, err
	}
	return &hr, nil
}

func (c *Client) Sleep(ctx context.Context, day string) (*Sleep, error) {
	name, err := c.display()
	if err != nil {
		return nil, err
	}
	var sleep Sleep
	found, err := c.fetch(ctx, "sleep", "/wellness-service/wellness/dailySleepData/"+url.PathEscape(name),
		map[string]string{"date": day, "nonSleepBufferMinutes": "60"}, &sleep)
	if err != nil || !found {
		return nil, err
	}
	return &sleep, nil
}

func (c *Client) Stress(ctx context.Context, day string) (*Stress, error) {
	if _, err := c.display(); err != nil {
		return nil, err
	}
	var stress Stress
	found, err := c.fetch(ctx, "stress", "/wellness-service/wellness/dailyStress/"+url.PathEscape(day), nil, &stress)
	if err != nil || !found {
		return nil, err
	}
	return &stress, nil
}

func (c *Client) BodyBattery(ctx context.Context, day string) ([]BodyBatteryReport, error) {
	if _, err := c.display(); err != nil {
		return nil, err
	}
	var reports []BodyBatteryReport
	found, err := c.fetch(ctx, "body battery", "/wellness-service/wellness/bodyBattery/reports/daily",
		map[string]string{"startDate": day, "endDate": day}, &reports)
	if err != nil || !found {
		return nil, err
	}
	return reports, nil
}

func (c *Client) WeighIns(ctx context.Context, day string) ([]WeighIn, error) {
	if _, err := c.display(); err != nil {
		return nil, err
	}
	var weights weightRange
	found, err := c.fetch(ctx, "weight", "/weight-service/weight/dateRange",
		map[string]string{"startDate": day, "endDate": day}, &weights)
	if err != nil || !found || len(weights.DateWeightList) == 0 {
		return nil, err
	}
	return weights.DateWeightList, nil
}

func (c *Client) Activities(ctx context.Context, start string, end string) ([]Activity, error) {
	if _, err := c.display(); err != nil {
		return nil, err
	}
	var activities []Activity
	found, err := c.fetch(ctx, "activities", "/activitylist-service/activities/search/activities",
		map[string]string{"startDate": start, "endDate": end, "start": "0", "limit": "100"}, &activities)
	if err != nil || !found {
		return nil, err
	}
	return activities, nil
}
