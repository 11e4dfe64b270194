// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/lexchat/internal/backend"
	"github.com/jeranaias/lexchat/internal/model"
)

// ApologyText is the assistant turn appended when a request fails.
const ApologyText = "Sorry, something went wrong. Please check that the backend service is running."

// ErrBusy is returned by Ask while another request is in flight.
var ErrBusy = errors.New("a request is already in flight")

// ErrEmptyInput is returned by Ask for blank input.
var ErrEmptyInput = errors.New("input is empty")

// =============================================================================
// STATE
// =============================================================================

// State is the controller's request state.
type State int

const (
	StateIdle    State = iota // no request outstanding
	StateWaiting              // one request in flight
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// Chatter sends one chat request. *backend.Client satisfies it.
type Chatter interface {
	Chat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error)
}

// Config holds controller settings.
type Config struct {
	// AgentType is sent with every request.
	AgentType string

	// Timeout bounds each request. Zero leaves the client's own limit.
	Timeout time.Duration

	// SendConversationID includes the conversation ID in requests.
	SendConversationID bool
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		AgentType: backend.DefaultAgentType,
		Timeout:   backend.DefaultTimeout,
	}
}

// Request is a submitted question waiting to be sent. It carries everything
// Send needs so the call never reads controller state.
type Request struct {
	Seq     uint64
	TurnID  string
	Body    backend.ChatRequest
	Timeout time.Duration
}

// Result is the outcome of Send.
type Result struct {
	Request  Request
	Response *backend.ChatResponse
	Err      error
	Duration time.Duration
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the conversation and its request state.
type Controller struct {
	mu sync.Mutex

	client Chatter
	logger *zap.Logger
	cfg    Config

	conv     *model.Conversation
	state    State
	seq      uint64
	selected *model.Citation

	startTime    time.Time
	lastActivity time.Time
	failures     int
}

// NewController creates a controller that sends through client.
func NewController(client Chatter, cfg Config, logger *zap.Logger) *Controller {
	if cfg.AgentType == "" {
		cfg.AgentType = backend.DefaultAgentType
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now()
	return &Controller{
		client:       client,
		logger:       logger.Named("session"),
		cfg:          cfg,
		conv:         model.NewConversation(),
		startTime:    now,
		lastActivity: now,
	}
}

// Submit validates input and, if accepted, appends the user turn and enters
// the waiting state. It returns false without side effects when the trimmed
// input is empty or a request is already in flight.
func (c *Controller) Submit(input string) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(input) == "" || c.state == StateWaiting {
		return Request{}, false
	}

	turn := model.NewUserTurn(input)
	c.conv.Append(turn)
	c.state = StateWaiting
	c.seq++
	c.lastActivity = time.Now()

	req := Request{
		Seq:    c.seq,
		TurnID: turn.ID,
		Body: backend.ChatRequest{
			Message:   input,
			AgentType: c.cfg.AgentType,
		},
		Timeout: c.cfg.Timeout,
	}
	if c.cfg.SendConversationID {
		req.Body.ConversationID = c.conv.ID
	}

	c.logger.Debug("submitted",
		zap.Uint64("seq", req.Seq),
		zap.String("turn_id", turn.ID),
		zap.Int("length", len(input)))
	return req, true
}

// Send performs the backend call for req. It touches no controller state
// and may run on any goroutine.
func (c *Controller) Send(ctx context.Context, req Request) Result {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.client.Chat(ctx, req.Body)
	if err == nil && resp == nil {
		err = fmt.Errorf("%w: empty response", backend.ErrMalformedResponse)
	}
	return Result{
		Request:  req,
		Response: resp,
		Err:      err,
		Duration: time.Since(start),
	}
}

// Complete appends the assistant turn for res and returns to idle. A result
// that does not belong to the outstanding request is ignored.
func (c *Controller) Complete(res Result) (model.Turn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateWaiting || res.Request.Seq != c.seq {
		c.logger.Warn("dropping stale result", zap.Uint64("seq", res.Request.Seq))
		return model.Turn{}, false
	}

	var turn model.Turn
	if res.Err != nil {
		c.failures++
		c.logger.Error("chat request failed",
			zap.Uint64("seq", res.Request.Seq),
			zap.Duration("duration", res.Duration),
			zap.Error(res.Err))
		turn = model.NewFailureTurn(ApologyText)
	} else {
		c.logger.Info("chat answered",
			zap.Uint64("seq", res.Request.Seq),
			zap.Duration("duration", res.Duration),
			zap.Int("citations", len(res.Response.Citations)),
			zap.Int("sources", len(res.Response.Sources)))
		turn = model.NewAssistantTurn(res.Response.Answer, res.Response.Citations, res.Response.Sources)
	}

	c.conv.Append(turn)
	c.state = StateIdle
	c.lastActivity = time.Now()
	return turn, true
}

// Ask runs Submit, Send and Complete in one call. The returned error is the
// underlying request error, if any; the apology turn is appended either way.
func (c *Controller) Ask(ctx context.Context, input string) (model.Turn, error) {
	if strings.TrimSpace(input) == "" {
		return model.Turn{}, ErrEmptyInput
	}
	req, ok := c.Submit(input)
	if !ok {
		return model.Turn{}, ErrBusy
	}
	res := c.Send(ctx, req)
	turn, _ := c.Complete(res)
	return turn, res.Err
}

// =============================================================================
// SELECTION
// =============================================================================

// Select marks a citation as the one shown in the detail view.
func (c *Controller) Select(cit model.Citation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &cit
}

// ClearSelection closes the detail view.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// Selected returns the selected citation, if any.
func (c *Controller) Selected() (model.Citation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return model.Citation{}, false
	}
	return *c.selected, true
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current request state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending reports whether a request is in flight.
func (c *Controller) Pending() bool {
	return c.State() == StateWaiting
}

// Turns returns the conversation turns in display order.
func (c *Controller) Turns() []model.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.Turns()
}

// Conversation returns a snapshot of the conversation for export.
func (c *Controller) Conversation() *model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := model.NewConversation()
	snap.ID = c.conv.ID
	snap.CreatedAt = c.conv.CreatedAt
	for _, t := range c.conv.Turns() {
		snap.Append(t)
	}
	snap.UpdatedAt = c.conv.UpdatedAt
	return snap
}

// SetTimeout changes the timeout used by later submissions.
func (c *Controller) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Timeout = d
}

// SetAgentType changes the agent type used by later submissions.
func (c *Controller) SetAgentType(agent string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if agent != "" {
		c.cfg.AgentType = agent
	}
}

// AgentType returns the agent type sent with requests.
func (c *Controller) AgentType() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.AgentType
}

// =============================================================================
// STATUS
// =============================================================================

// Status is a point-in-time summary for status displays.
type Status struct {
	ConversationID string
	State          State
	Turns          int
	Failures       int
	Duration       time.Duration
	IdleTime       time.Duration
	AgentType      string
}

// GetStatus returns the current status.
func (c *Controller) GetStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	return Status{
		ConversationID: c.conv.ID,
		State:          c.state,
		Turns:          c.conv.Len(),
		Failures:       c.failures,
		Duration:       now.Sub(c.startTime),
		IdleTime:       now.Sub(c.lastActivity),
		AgentType:      c.cfg.AgentType,
	}
}

// FormatDuration formats a duration as "1h 05m", "12m 30s" or "45s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
