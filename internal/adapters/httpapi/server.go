package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/warelog/handheld-go/internal/application/common"
	syncCommands "github.com/warelog/handheld-go/internal/application/sync/commands"
	wizardCommands "github.com/warelog/handheld-go/internal/application/wizard/commands"
	wizardQueries "github.com/warelog/handheld-go/internal/application/wizard/queries"
)

// DaemonServer exposes the wizard engine to local hosts (CLI, device UI)
// as JSON over a unix domain socket. Every request funnels through the
// mediator; the server owns no business logic.
type DaemonServer struct {
	mediator common.Mediator
	logger   common.SessionLogger
	listener net.Listener

	shutdownChan chan os.Signal
	done         chan struct{}
}

// NewDaemonServer creates a daemon server bound to the given socket path
func NewDaemonServer(mediator common.Mediator, logger common.SessionLogger, socketPath string) (*DaemonServer, error) {
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Owner only: the socket accepts unauthenticated wizard commands
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	server := &DaemonServer{
		mediator:     mediator,
		logger:       logger,
		listener:     listener,
		shutdownChan: make(chan os.Signal, 1),
		done:         make(chan struct{}),
	}
	signal.Notify(server.shutdownChan, os.Interrupt, syscall.SIGTERM)
	return server, nil
}

// Start serves requests until a shutdown signal arrives
func (s *DaemonServer) Start() error {
	fmt.Printf("Daemon listening on unix socket: %s\n", s.listener.Addr().String())

	httpServer := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.handleShutdown()

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-s.done:
		fmt.Println("Initiating graceful shutdown...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	}
}

// Stop triggers a graceful shutdown
func (s *DaemonServer) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *DaemonServer) handleShutdown() {
	<-s.shutdownChan
	fmt.Println("\nShutdown signal received, stopping daemon...")
	s.Stop()
}

func (s *DaemonServer) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /v1/tasks", s.handleListTasks)
	mux.HandleFunc("GET /v1/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("POST /v1/sync", s.handleSync)

	mux.HandleFunc("POST /v1/wizard/open", s.handleOpen)
	mux.HandleFunc("GET /v1/wizard/{action}", s.handleGetState)
	mux.HandleFunc("POST /v1/wizard/{action}/scan", s.handleScan)
	mux.HandleFunc("POST /v1/wizard/{action}/enter", s.handleEnter)
	mux.HandleFunc("POST /v1/wizard/{action}/advance", s.handleAdvance)
	mux.HandleFunc("POST /v1/wizard/{action}/retreat", s.handleRetreat)
	mux.HandleFunc("POST /v1/wizard/{action}/exit", s.handleExit)
	mux.HandleFunc("POST /v1/wizard/{action}/extra", s.handleExtra)
	mux.HandleFunc("POST /v1/wizard/{action}/command", s.handleCommand)
	mux.HandleFunc("POST /v1/wizard/{action}/clear-error", s.handleClearError)
	mux.HandleFunc("POST /v1/wizard/{action}/submit", s.handleSubmit)

	return mux
}

func (s *DaemonServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *DaemonServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	workerID, err := strconv.Atoi(r.URL.Query().Get("worker_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "worker_id is required")
		return
	}

	response, err := s.send(r, &wizardQueries.ListOpenTasksQuery{WorkerID: workerID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := response.(*wizardQueries.ListOpenTasksResponse)
	views := make([]TaskView, 0, len(result.Tasks))
	for _, t := range result.Tasks {
		views = append(views, NewTaskView(t))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": views})
}

func (s *DaemonServer) handleGetTask(w http.ResponseWriter, r *http.Request) {
	response, err := s.send(r, &wizardQueries.GetTaskQuery{TaskID: r.PathValue("id")})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	result := response.(*wizardQueries.GetTaskResponse)
	writeJSON(w, http.StatusOK, NewTaskView(result.Task))
}

func (s *DaemonServer) handleSync(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkerID int `json:"worker_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	response, err := s.send(r, &syncCommands.SyncDeviceCommand{WorkerID: body.WorkerID})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	result := response.(*syncCommands.SyncDeviceResponse)
	writeJSON(w, http.StatusOK, map[string]int{
		"tasks":     result.Tasks,
		"templates": result.Templates,
		"products":  result.Products,
	})
}

func (s *DaemonServer) handleOpen(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TaskID   string `json:"task_id"`
		ActionID string `json:"action_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	response, err := s.send(r, &wizardCommands.OpenWizardCommand{TaskID: body.TaskID, ActionID: body.ActionID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	result := response.(*wizardCommands.OpenWizardResponse)
	writeJSON(w, http.StatusOK, NewWizardStateView(result.State))
}

func (s *DaemonServer) handleGetState(w http.ResponseWriter, r *http.Request) {
	response, err := s.send(r, &wizardQueries.GetWizardStateQuery{ActionID: r.PathValue("action")})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	result := response.(*wizardQueries.GetWizardStateResponse)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":  NewWizardStateView(result.State),
		"record": NewRecordView(result.Record),
	})
}

func (s *DaemonServer) handleScan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	response, err := s.send(r, &wizardCommands.ScanCodeCommand{ActionID: r.PathValue("action"), Code: body.Code})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	result := response.(*wizardCommands.ScanCodeResponse)
	writeJSON(w, http.StatusOK, NewWizardStateView(result.State))
}

func (s *DaemonServer) handleEnter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input string `json:"input"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	response, err := s.send(r, &wizardCommands.EnterValueCommand{ActionID: r.PathValue("action"), Input: body.Input})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	result := response.(*wizardCommands.EnterValueResponse)
	writeJSON(w, http.StatusOK, NewWizardStateView(result.State))
}

func (s *DaemonServer) handleAdvance(w http.ResponseWriter, r *http.Request) {
	response, err := s.send(r, &wizardCommands.AdvanceStepCommand{ActionID: r.PathValue("action")})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	result := response.(*wizardCommands.AdvanceStepResponse)
	writeJSON(w, http.StatusOK, NewWizardStateView(result.State))
}

func (s *DaemonServer) handleRetreat(w http.ResponseWriter, r *http.Request) {
	response, err := s.send(r, &wizardCommands.RetreatStepCommand{ActionID: r.PathValue("action")})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	result := response.(*wizardCommands.RetreatStepResponse)
	writeJSON(w, http.StatusOK, NewWizardStateView(result.State))
}

func (s *DaemonServer) handleExit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Decision string `json:"decision"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	response, err := s.send(r, &wizardCommands.ExitWizardCommand{
		ActionID: r.PathValue("action"),
		Decision: wizardCommands.ExitDecision(body.Decision),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result := response.(*wizardCommands.ExitWizardResponse)
	writeJSON(w, http.StatusOK, NewWizardStateView(result.State))
}

func (s *DaemonServer) handleExtra(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
		ProductStatus string     `json:"product_status,omitempty"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	response, err := s.send(r, &wizardCommands.SetExtraCommand{
		ActionID:      r.PathValue("action"),
		ExpiryDate:    body.ExpiryDate,
		ProductStatus: body.ProductStatus,
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	result := response.(*wizardCommands.SetExtraResponse)
	writeJSON(w, http.StatusOK, NewWizardStateView(result.State))
}

func (s *DaemonServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CommandID  string            `json:"command_id"`
		Parameters map[string]string `json:"parameters,omitempty"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	response, err := s.send(r, &wizardCommands.RunStepCommandCommand{
		ActionID:   r.PathValue("action"),
		CommandID:  body.CommandID,
		Parameters: body.Parameters,
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	result := response.(*wizardCommands.RunStepCommandResponse)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":     NewWizardStateView(result.State),
		"directive": string(result.Directive),
		"message":   result.Message,
		"success":   result.Success,
	})
}

func (s *DaemonServer) handleClearError(w http.ResponseWriter, r *http.Request) {
	response, err := s.send(r, &wizardCommands.ClearErrorCommand{ActionID: r.PathValue("action")})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	result := response.(*wizardCommands.ClearErrorResponse)
	writeJSON(w, http.StatusOK, NewWizardStateView(result.State))
}

func (s *DaemonServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	response, err := s.send(r, &wizardCommands.SubmitActionCommand{ActionID: r.PathValue("action")})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	result := response.(*wizardCommands.SubmitActionResponse)
	writeJSON(w, http.StatusOK, NewWizardStateView(result.State))
}

// send dispatches a request through the mediator with the session logger
// attached to the context
func (s *DaemonServer) send(r *http.Request, request common.Request) (common.Response, error) {
	ctx := r.Context()
	if s.logger != nil {
		ctx = common.WithLogger(ctx, s.logger)
	}
	return s.mediator.Send(ctx, request)
}

func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("malformed request body: %v", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
