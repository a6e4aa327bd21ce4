package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/warelog/handheld-go/internal/adapters/httpapi"
)

// DaemonClient talks to the handheld daemon over its unix socket
type DaemonClient struct {
	httpClient *http.Client
	socketPath string
}

// NewDaemonClient creates a client for the daemon socket
func NewDaemonClient(socketPath string) *DaemonClient {
	return &DaemonClient{
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					var dialer net.Dialer
					return dialer.DialContext(ctx, "unix", socketPath)
				},
			},
			Timeout: 60 * time.Second,
		},
		socketPath: socketPath,
	}
}

// HealthCheck verifies the daemon is running
func (c *DaemonClient) HealthCheck(ctx context.Context) error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/health", nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("daemon unhealthy: %s", response.Status)
	}
	return nil
}

// ListTasks fetches the open tasks for a worker
func (c *DaemonClient) ListTasks(ctx context.Context, workerID int) ([]httpapi.TaskView, error) {
	var response struct {
		Tasks []httpapi.TaskView `json:"tasks"`
	}
	path := fmt.Sprintf("/v1/tasks?worker_id=%d", workerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Tasks, nil
}

// GetTask fetches one task with its actions
func (c *DaemonClient) GetTask(ctx context.Context, taskID string) (*httpapi.TaskView, error) {
	var view httpapi.TaskView
	if err := c.do(ctx, http.MethodGet, "/v1/tasks/"+taskID, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Sync pulls tasks, templates and catalog from the server
func (c *DaemonClient) Sync(ctx context.Context, workerID int) (tasks, templates, products int, err error) {
	var response struct {
		Tasks     int `json:"tasks"`
		Templates int `json:"templates"`
		Products  int `json:"products"`
	}
	body := map[string]int{"worker_id": workerID}
	if err := c.do(ctx, http.MethodPost, "/v1/sync", body, &response); err != nil {
		return 0, 0, 0, err
	}
	return response.Tasks, response.Templates, response.Products, nil
}

// OpenWizard starts or reattaches a wizard session
func (c *DaemonClient) OpenWizard(ctx context.Context, taskID, actionID string) (*httpapi.WizardStateView, error) {
	body := map[string]string{"task_id": taskID, "action_id": actionID}
	return c.stateRequest(ctx, http.MethodPost, "/v1/wizard/open", body)
}

// GetState fetches the current wizard state and record
func (c *DaemonClient) GetState(ctx context.Context, actionID string) (*httpapi.WizardStateView, *httpapi.RecordView, error) {
	var response struct {
		State  httpapi.WizardStateView `json:"state"`
		Record *httpapi.RecordView     `json:"record"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/wizard/"+actionID, nil, &response); err != nil {
		return nil, nil, err
	}
	return &response.State, response.Record, nil
}

// Scan feeds a barcode into the wizard
func (c *DaemonClient) Scan(ctx context.Context, actionID, code string) (*httpapi.WizardStateView, error) {
	body := map[string]string{"code": code}
	return c.stateRequest(ctx, http.MethodPost, "/v1/wizard/"+actionID+"/scan", body)
}

// Enter feeds typed input into the wizard
func (c *DaemonClient) Enter(ctx context.Context, actionID, input string) (*httpapi.WizardStateView, error) {
	body := map[string]string{"input": input}
	return c.stateRequest(ctx, http.MethodPost, "/v1/wizard/"+actionID+"/enter", body)
}

// Advance confirms the current step
func (c *DaemonClient) Advance(ctx context.Context, actionID string) (*httpapi.WizardStateView, error) {
	return c.stateRequest(ctx, http.MethodPost, "/v1/wizard/"+actionID+"/advance", struct{}{})
}

// Retreat moves back one visible step
func (c *DaemonClient) Retreat(ctx context.Context, actionID string) (*httpapi.WizardStateView, error) {
	return c.stateRequest(ctx, http.MethodPost, "/v1/wizard/"+actionID+"/retreat", struct{}{})
}

// Exit drives the exit confirmation flow: SHOW, DISMISS or CONFIRM
func (c *DaemonClient) Exit(ctx context.Context, actionID, decision string) (*httpapi.WizardStateView, error) {
	body := map[string]string{"decision": decision}
	return c.stateRequest(ctx, http.MethodPost, "/v1/wizard/"+actionID+"/exit", body)
}

// SetExtra captures expiry date and product status for the current step
func (c *DaemonClient) SetExtra(ctx context.Context, actionID string, expiry *time.Time, status string) (*httpapi.WizardStateView, error) {
	body := map[string]interface{}{}
	if expiry != nil {
		body["expiry_date"] = expiry
	}
	if status != "" {
		body["product_status"] = status
	}
	return c.stateRequest(ctx, http.MethodPost, "/v1/wizard/"+actionID+"/extra", body)
}

// RunCommand executes a step-attached server command
func (c *DaemonClient) RunCommand(ctx context.Context, actionID, commandID string, parameters map[string]string) (*httpapi.WizardStateView, string, string, error) {
	body := map[string]interface{}{"command_id": commandID}
	if len(parameters) > 0 {
		body["parameters"] = parameters
	}
	var response struct {
		State     httpapi.WizardStateView `json:"state"`
		Directive string                  `json:"directive"`
		Message   string                  `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/wizard/"+actionID+"/command", body, &response); err != nil {
		return nil, "", "", err
	}
	return &response.State, response.Directive, response.Message, nil
}

// ClearError acknowledges the current step error
func (c *DaemonClient) ClearError(ctx context.Context, actionID string) (*httpapi.WizardStateView, error) {
	return c.stateRequest(ctx, http.MethodPost, "/v1/wizard/"+actionID+"/clear-error", struct{}{})
}

// Submit books the collected facts
func (c *DaemonClient) Submit(ctx context.Context, actionID string) (*httpapi.WizardStateView, error) {
	return c.stateRequest(ctx, http.MethodPost, "/v1/wizard/"+actionID+"/submit", struct{}{})
}

func (c *DaemonClient) stateRequest(ctx context.Context, method, path string, body interface{}) (*httpapi.WizardStateView, error) {
	var view httpapi.WizardStateView
	if err := c.do(ctx, method, path, body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *DaemonClient) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	}

	// Host is ignored for unix sockets but required by net/http
	req, err := http.NewRequestWithContext(ctx, method, "http://daemon"+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w", c.socketPath, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Error != "" {
			return fmt.Errorf("%s", envelope.Error)
		}
		return fmt.Errorf("daemon error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
