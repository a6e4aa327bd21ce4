package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 5
	defaultBackoffBase = time.Second

	breakerMaxFailures = 5
	breakerTimeout     = 30 * time.Second
)

// WarehouseClient talks to the warehouse server: fact submission, step
// commands and catalog/task/template sync.
//
// Reads retry with exponential backoff and jitter. Submissions and step
// commands never retry at the transport level: booking a fact is not
// idempotent, and a duplicate booking is worse than a failed one the
// worker can resubmit.
type WarehouseClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	baseURL     string
	deviceToken string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// NewWarehouseClient creates a client with default settings.
// Rate limit: 5 requests per second with burst of 5.
func NewWarehouseClient(baseURL, deviceToken string) *WarehouseClient {
	return NewWarehouseClientWithConfig(baseURL, deviceToken, defaultMaxRetries, defaultBackoffBase, nil)
}

// NewWarehouseClientWithConfig creates a client with custom retry and
// clock configuration. If clock is nil, uses RealClock.
func NewWarehouseClientWithConfig(
	baseURL, deviceToken string,
	maxRetries int,
	backoffBase time.Duration,
	clock shared.Clock,
) *WarehouseClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &WarehouseClient{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(5), 5),
		breaker:     NewCircuitBreaker(breakerMaxFailures, breakerTimeout, clock),
		baseURL:     baseURL,
		deviceToken: deviceToken,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		clock:       clock,
	}
}

// Submit posts a finalized fact record and returns the server's updated
// task snapshot. Satisfies the wizard's RemoteSubmitter port.
//
// The server books all-or-nothing; the error message is passed through
// verbatim so the worker sees exactly what the server said.
func (c *WarehouseClient) Submit(ctx context.Context, endpoint string, record *task.FactRecord) (*task.Task, error) {
	var snapshot *task.Task

	err := c.breaker.Call(func() error {
		var response struct {
			Task taskDocument `json:"task"`
		}
		path := fmt.Sprintf("/endpoints/%s/facts", endpoint)
		if err := c.doOnce(ctx, http.MethodPost, path, factToDocument(record), &response); err != nil {
			return err
		}
		t, err := documentToTask(&response.Task, c.clock)
		if err != nil {
			return fmt.Errorf("server returned malformed task snapshot: %w", err)
		}
		snapshot = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Execute runs a step-attached command on the server. Satisfies the
// wizard's CommandClient port.
func (c *WarehouseClient) Execute(ctx context.Context, endpoint string, req appwizard.CommandRequest) (*appwizard.CommandResponse, error) {
	body := struct {
		CommandID  string            `json:"command_id"`
		StepID     string            `json:"step_id"`
		Record     *factDocument     `json:"record,omitempty"`
		Parameters map[string]string `json:"parameters,omitempty"`
		Context    map[string]string `json:"context,omitempty"`
	}{
		CommandID:  req.CommandID,
		StepID:     req.StepID,
		Parameters: req.Parameters,
		Context:    req.Context,
	}
	if req.CurrentRecord != nil {
		body.Record = factToDocument(req.CurrentRecord)
	}

	var response struct {
		Success    bool              `json:"success"`
		Message    string            `json:"message"`
		ResultData map[string]string `json:"result_data"`
		NextAction string            `json:"next_action"`
		Record     *factDocument     `json:"record,omitempty"`
	}
	path := fmt.Sprintf("/endpoints/%s/commands", endpoint)
	if err := c.doOnce(ctx, http.MethodPost, path, body, &response); err != nil {
		return nil, err
	}

	result := &appwizard.CommandResponse{
		Success:    response.Success,
		Message:    response.Message,
		ResultData: response.ResultData,
		NextAction: appwizard.Directive(response.NextAction),
	}
	if response.Record != nil {
		fact, err := documentToFact(response.Record)
		if err != nil {
			return nil, fmt.Errorf("server returned malformed record: %w", err)
		}
		result.UpdatedRecord = fact
	}
	return result, nil
}

// PullOpenTasks fetches the open tasks assigned to a worker, paginated
func (c *WarehouseClient) PullOpenTasks(ctx context.Context, workerID int) ([]*task.Task, error) {
	var all []*task.Task
	page := 1
	limit := 20

	for {
		path := fmt.Sprintf("/workers/%d/tasks?page=%d&limit=%d", workerID, page, limit)
		var response struct {
			Data []taskDocument `json:"data"`
			Meta struct {
				Total int `json:"total"`
			} `json:"meta"`
		}
		if err := c.get(ctx, path, &response); err != nil {
			return nil, fmt.Errorf("failed to pull tasks: %w", err)
		}

		for i := range response.Data {
			t, err := documentToTask(&response.Data[i], c.clock)
			if err != nil {
				return nil, err
			}
			all = append(all, t)
		}

		if len(all) >= response.Meta.Total || len(response.Data) == 0 {
			break
		}
		page++
	}
	return all, nil
}

// PullTemplates fetches all action templates
func (c *WarehouseClient) PullTemplates(ctx context.Context) ([]*wizard.ActionTemplate, error) {
	var response struct {
		Data []templateDocument `json:"data"`
	}
	if err := c.get(ctx, "/templates", &response); err != nil {
		return nil, fmt.Errorf("failed to pull templates: %w", err)
	}

	templates := make([]*wizard.ActionTemplate, 0, len(response.Data))
	for i := range response.Data {
		template, err := documentToTemplate(&response.Data[i])
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, nil
}

// PullProducts fetches catalog products changed since the given time,
// paginated. Zero time fetches the whole catalog.
func (c *WarehouseClient) PullProducts(ctx context.Context, since time.Time) ([]*catalog.Product, error) {
	var all []*catalog.Product
	page := 1
	limit := 100

	for {
		path := fmt.Sprintf("/products?page=%d&limit=%d", page, limit)
		if !since.IsZero() {
			path += "&since=" + since.UTC().Format(time.RFC3339)
		}
		var response struct {
			Data []productDocument `json:"data"`
			Meta struct {
				Total int `json:"total"`
			} `json:"meta"`
		}
		if err := c.get(ctx, path, &response); err != nil {
			return nil, fmt.Errorf("failed to pull products: %w", err)
		}

		for i := range response.Data {
			product, err := documentToProduct(&response.Data[i])
			if err != nil {
				return nil, err
			}
			all = append(all, product)
		}

		if len(all) >= response.Meta.Total || len(response.Data) == 0 {
			break
		}
		page++
	}
	return all, nil
}

// get performs a GET with exponential backoff retries. Only reads retry;
// see the type comment.
func (c *WarehouseClient) get(ctx context.Context, path string, result interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.doOnce(ctx, http.MethodGet, path, nil, result)
		if err == nil {
			return nil
		}
		lastErr = err

		retryable, retryAfter := isRetryable(err)
		if !retryable || attempt >= c.maxRetries {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		delay := retryAfter
		if delay == 0 {
			delay = addJitter(c.backoffBase * time.Duration(1<<attempt))
		}
		c.clock.Sleep(delay)
	}
	return lastErr
}

// doOnce performs a single request attempt through the rate limiter
func (c *WarehouseClient) doOnce(ctx context.Context, method, path string, body, result interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.deviceToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &retryableError{message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		var retryAfter time.Duration
		if header := resp.Header.Get("Retry-After"); header != "" {
			if seconds, err := strconv.Atoi(header); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return &retryableError{message: "rate limited (429)", retryAfter: retryAfter}
	}
	if resp.StatusCode >= 500 {
		return &retryableError{message: serverMessage(respBody, resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s", serverMessage(respBody, resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// serverMessage extracts the server's error message, falling back to the
// raw body. The message travels to the wizard unchanged.
func serverMessage(body []byte, statusCode int) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	if len(body) > 0 {
		return string(body)
	}
	return fmt.Sprintf("server error (HTTP %d)", statusCode)
}

// retryableError marks transport failures that a retry might fix
type retryableError struct {
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}

func isRetryable(err error) (bool, time.Duration) {
	if re, ok := err.(*retryableError); ok {
		return true, re.retryAfter
	}
	return false, 0
}

// addJitter randomizes a delay by ±25% so a fleet of devices does not
// retry in lockstep
func addJitter(d time.Duration) time.Duration {
	jitter := time.Duration(rand.Int63n(int64(d) / 2))
	return d*3/4 + jitter
}
