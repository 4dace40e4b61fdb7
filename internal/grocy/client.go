package grocy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiKeyHeader   = "GROCY-API-KEY"
	defaultTimeout = 5 * time.Second

	// maxErrorBody caps how much of an error response is read for its message.
	maxErrorBody = 64 << 10
)

// Config holds the connection settings for a grocy instance.
type Config struct {
	Host    string // base URL without the /api suffix
	APIKey  string
	Timeout time.Duration
}

// Client talks to the grocy REST API. Requests are synchronous and bounded by
// the configured timeout.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a client for cfg. A nil logger uses zap's global logger.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = zap.L()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.Host, "/") + "/api",
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.Named("grocy"),
	}
}

// FetchUsers returns every grocy user.
func (c *Client) FetchUsers(ctx context.Context) ([]User, error) {
	var raw []userJSON
	if err := c.getJSON(ctx, "fetch users", "/users", &raw); err != nil {
		return nil, err
	}
	users := make([]User, 0, len(raw))
	for _, u := range raw {
		users = append(users, User{ID: int(u.ID), DisplayName: u.DisplayName})
	}
	c.log.Info("users fetched", zap.Int("count", len(users)))
	return users, nil
}

// FetchChores returns all chores ordered by their next estimated execution.
func (c *Client) FetchChores(ctx context.Context) ([]Chore, error) {
	var raw []choreJSON
	if err := c.getJSON(ctx, "fetch chores", "/chores?order=next_estimated_execution_time", &raw); err != nil {
		return nil, err
	}
	chores := make([]Chore, 0, len(raw))
	for _, ch := range raw {
		due := ""
		if ch.NextEstimatedExecutionTime != nil {
			due = *ch.NextEstimatedExecutionTime
		}
		chores = append(chores, Chore{
			ID:                         int(ch.ID),
			Name:                       ch.ChoreName,
			AssignedUserID:             int(ch.NextExecutionAssignedTo),
			NextEstimatedExecutionTime: due,
		})
	}
	c.log.Info("chores fetched", zap.Int("count", len(chores)))
	return chores, nil
}

// CompleteChore tracks an execution of choreID by userID at completedAt.
// Only 200 counts as success; 400 and 500 return a *RemoteError with grocy's
// message, any other status an *UnrecognizedResponseError. The call is never
// retried.
func (c *Client) CompleteChore(ctx context.Context, choreID, userID int, completedAt time.Time) error {
	op := fmt.Sprintf("complete chore %d", choreID)
	body, err := json.Marshal(executeRequest{
		TrackedTime: FormatTrackedTime(completedAt),
		DoneBy:      userID,
		Skipped:     "false",
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chores/%d/execute", c.baseURL, choreID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	c.log.Debug("executing chore", zap.Int("chore_id", choreID), zap.Int("user_id", userID))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("execute chore failed", zap.Int("chore_id", choreID), zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		c.log.Info("chore executed", zap.Int("chore_id", choreID), zap.Int("user_id", userID))
		return nil
	case http.StatusBadRequest, http.StatusInternalServerError:
		rerr := &RemoteError{Status: resp.StatusCode, Message: readErrorMessage(resp)}
		c.log.Warn("execute chore rejected",
			zap.Int("chore_id", choreID),
			zap.Int("status", rerr.Status),
			zap.String("message", rerr.Message),
		)
		return rerr
	default:
		io.Copy(io.Discard, resp.Body)
		c.log.Warn("execute chore unclear outcome", zap.Int("chore_id", choreID), zap.Int("status", resp.StatusCode))
		return &UnrecognizedResponseError{Status: resp.StatusCode}
	}
}

func (c *Client) getJSON(ctx context.Context, op, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.decorate(req)

	c.log.Debug("request", zap.String("op", op), zap.String("path", path))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("op", op), zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := &RemoteError{Status: resp.StatusCode, Message: readErrorMessage(resp)}
		c.log.Warn("request rejected",
			zap.String("op", op),
			zap.Int("status", rerr.Status),
			zap.String("message", rerr.Message),
		)
		return rerr
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
}

// readErrorMessage extracts grocy's error_message, falling back to the status
// text when the body has none.
func readErrorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var er errorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.ErrorMessage != "" {
		return er.ErrorMessage
	}
	return http.StatusText(resp.StatusCode)
}
