// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lexchat/internal/backend"
	"github.com/jeranaias/lexchat/internal/config"
	"github.com/jeranaias/lexchat/internal/model"
	"github.com/jeranaias/lexchat/internal/session"
	"github.com/jeranaias/lexchat/internal/ui/components"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeBackend struct {
	mu       sync.Mutex
	requests []backend.ChatRequest
	resp     *backend.ChatResponse
	err      error
	health   string
}

func (f *fakeBackend) Chat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

func (f *fakeBackend) Health(ctx context.Context) (*backend.HealthResponse, error) {
	return &backend.HealthResponse{Status: f.health}, nil
}

var criminalCode = model.Citation{
	SourceID:    "c1",
	ArticleName: "Criminal Code",
	Section:     "Art. 5",
	Content:     "Whoever commits theft shall be punished.",
	URL:         "https://example.org/cc/5",
}

func answering() *fakeBackend {
	return &fakeBackend{
		health: "healthy",
		resp: &backend.ChatResponse{
			Answer:    "Theft is covered by [[c1]].",
			Citations: []model.Citation{criminalCode},
		},
	}
}

func newTestModel(t *testing.T, b Backend) Model {
	t.Helper()
	m := New(Options{
		Backend:    b,
		Config:     config.Default(),
		BackendURL: "http://localhost:8000",
		Version:    "test",
		ExportDir:  t.TempDir(),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// runCmd executes cmd and any batched commands, keeping the messages that
// arrive promptly. Timers such as notice expiry are dropped.
func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()

	select {
	case msg := <-out:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var msgs []tea.Msg
			for _, c := range batch {
				msgs = append(msgs, runCmd(t, c)...)
			}
			return msgs
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(m Model, text string) Model {
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// exchange submits question and feeds the backend's reply back in.
func exchange(t *testing.T, m Model, question string) Model {
	t.Helper()
	m = typeText(m, question)
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})

	resp, ok := findMsg[responseMsg](runCmd(t, cmd))
	if !ok {
		t.Fatal("submit did not produce a response message")
	}
	m, _ = send(m, resp)
	return m
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmitAppendsUserTurnAndWaits(t *testing.T) {
	m := newTestModel(t, answering())
	m = typeText(m, "What is theft?")

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command after submit")
	}
	if !m.ctrl.Pending() {
		t.Error("expected a request in flight")
	}
	turns := m.ctrl.Turns()
	if len(turns) != 1 || !turns[0].IsUser() || turns[0].Content != "What is theft?" {
		t.Fatalf("unexpected turns after submit: %+v", turns)
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
	if m.status.Status != components.StatusWaiting {
		t.Errorf("status = %v, want waiting", m.status.Status)
	}
	if !strings.Contains(m.View(), "Thinking...") {
		t.Error("view should show the thinking indicator")
	}
}

func TestResponseAppendsAssistantTurn(t *testing.T) {
	fb := answering()
	m := exchange(t, newTestModel(t, fb), "What is theft?")

	if m.ctrl.Pending() {
		t.Error("request still pending after response")
	}
	turns := m.ctrl.Turns()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if !turns[1].IsAssistant() || turns[1].Failed {
		t.Errorf("second turn should be a normal answer: %+v", turns[1])
	}
	if len(fb.requests) != 1 || fb.requests[0].AgentType != "consultant" {
		t.Errorf("unexpected requests: %+v", fb.requests)
	}
	if m.status.Status != components.StatusReady {
		t.Errorf("status = %v, want ready", m.status.Status)
	}
	if !strings.Contains(m.View(), "Criminal Code Art. 5") {
		t.Error("view should show the citation badge")
	}
}

func TestFailedRequestShowsApology(t *testing.T) {
	fb := &fakeBackend{health: "healthy", err: errors.New("connection refused")}
	m := exchange(t, newTestModel(t, fb), "What is theft?")

	turns := m.ctrl.Turns()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if !turns[1].Failed || turns[1].Content != session.ApologyText {
		t.Errorf("expected apology turn, got %+v", turns[1])
	}
	if m.status.Status != components.StatusError {
		t.Errorf("status = %v, want error", m.status.Status)
	}
}

func TestEmptyInputIgnored(t *testing.T) {
	m := newTestModel(t, answering())
	m = typeText(m, "   ")

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank input should not produce a command")
	}
	if len(m.ctrl.Turns()) != 0 {
		t.Error("blank input should not create a turn")
	}
}

func TestSubmitWhilePendingIgnored(t *testing.T) {
	m := newTestModel(t, answering())
	m = typeText(m, "first")
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	m = typeText(m, "second")
	if m.input.Value() != "" {
		t.Errorf("typing should be ignored while pending, got %q", m.input.Value())
	}
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("second submit should be ignored")
	}
	if n := len(m.ctrl.Turns()); n != 1 {
		t.Errorf("expected 1 turn, got %d", n)
	}
}

// =============================================================================
// CITATION TESTS
// =============================================================================

func TestTabAndOpenShowsPanel(t *testing.T) {
	m := exchange(t, newTestModel(t, answering()), "What is theft?")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != 0 {
		t.Fatalf("focus = %d, want 0", m.focus)
	}

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	selected, ok := findMsg[components.CitationSelectedMsg](runCmd(t, cmd))
	if !ok {
		t.Fatal("ctrl+o did not select a citation")
	}
	if selected.Citation.SourceID != "c1" {
		t.Errorf("selected %q, want c1", selected.Citation.SourceID)
	}

	m, _ = send(m, selected)
	if !m.panelOpen {
		t.Fatal("panel should be open")
	}
	if c, ok := m.ctrl.Selected(); !ok || c.SourceID != "c1" {
		t.Errorf("controller selection = %+v, %v", c, ok)
	}
	view := m.View()
	if !strings.Contains(view, "Whoever commits theft") {
		t.Error("panel should show the citation content")
	}
	if strings.Contains(view, "source_id") {
		t.Error("panel must not show the source id")
	}
}

func TestEnterOpensFocusedCitationWhenInputEmpty(t *testing.T) {
	m := exchange(t, newTestModel(t, answering()), "What is theft?")
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := findMsg[components.CitationSelectedMsg](runCmd(t, cmd)); !ok {
		t.Error("enter with empty input should open the focused citation")
	}
	if n := len(m.ctrl.Turns()); n != 2 {
		t.Errorf("enter should not submit, got %d turns", n)
	}
}

func TestEscDismissesPanel(t *testing.T) {
	m := exchange(t, newTestModel(t, answering()), "What is theft?")
	m, _ = send(m, components.CitationSelectedMsg{Citation: criminalCode})

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEsc})
	dismissed, ok := findMsg[components.CitationDismissedMsg](runCmd(t, cmd))
	if !ok {
		t.Fatal("esc did not dismiss the panel")
	}
	m, _ = send(m, dismissed)
	if m.panelOpen {
		t.Error("panel should be closed")
	}
	if _, ok := m.ctrl.Selected(); ok {
		t.Error("selection should be cleared")
	}
}

func TestTabWithoutCitationsKeepsNoFocus(t *testing.T) {
	fb := &fakeBackend{health: "healthy", resp: &backend.ChatResponse{Answer: "No sources."}}
	m := exchange(t, newTestModel(t, fb), "hello")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != -1 {
		t.Errorf("focus = %d, want -1", m.focus)
	}
}

func TestFocusWraps(t *testing.T) {
	m := exchange(t, newTestModel(t, answering()), "What is theft?")

	// One inline reference and one badge.
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != 0 {
		t.Errorf("focus = %d, want 0 after wrapping", m.focus)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != 1 {
		t.Errorf("focus = %d, want 1 after shift+tab", m.focus)
	}
}

// =============================================================================
// COMMAND TESTS
// =============================================================================

func TestExportCommandWritesFile(t *testing.T) {
	m := exchange(t, newTestModel(t, answering()), "What is theft?")
	m = typeText(m, "/export json")

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	done, ok := findMsg[exportDoneMsg](runCmd(t, cmd))
	if !ok {
		t.Fatal("/export produced no result")
	}
	if done.err != nil {
		t.Fatalf("export failed: %v", done.err)
	}
	if filepath.Ext(done.path) != ".json" {
		t.Errorf("path %q should end in .json", done.path)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
	if n := len(m.ctrl.Turns()); n != 2 {
		t.Errorf("slash command should not create turns, got %d", n)
	}

	m, _ = send(m, done)
	if !strings.Contains(m.status.Notice, "exported to") {
		t.Errorf("notice = %q", m.status.Notice)
	}
}

func TestExportWithoutDirUsesWorkingDir(t *testing.T) {
	wd := t.TempDir()
	chdir(t, wd)

	m := New(Options{Backend: answering(), Config: config.Default()})
	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = exchange(t, m, "What is theft?")

	done, ok := findMsg[exportDoneMsg](runCmd(t, m.exportCmd("md")))
	if !ok || done.err != nil {
		t.Fatalf("export: ok=%v err=%v", ok, done.err)
	}
	if filepath.Dir(done.path) != "." {
		t.Errorf("path %q should be relative to the working directory", done.path)
	}
	if _, err := os.Stat(filepath.Join(wd, filepath.Base(done.path))); err != nil {
		t.Errorf("exported file missing from working directory: %v", err)
	}
}

func TestExportEmptyConversationFails(t *testing.T) {
	m := newTestModel(t, answering())
	done, ok := findMsg[exportDoneMsg](runCmd(t, m.exportCmd("md")))
	if !ok || done.err == nil {
		t.Error("exporting an empty conversation should fail")
	}
}

func TestUnknownCommand(t *testing.T) {
	m := newTestModel(t, answering())
	m = typeText(m, "/frobnicate")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.status.Notice, "unknown command") {
		t.Errorf("notice = %q", m.status.Notice)
	}
	if len(m.ctrl.Turns()) != 0 {
		t.Error("unknown command should not be sent")
	}
	if m.input.Value() != "" {
		t.Error("input should be cleared")
	}
}

func TestHelpCommandToggles(t *testing.T) {
	m := newTestModel(t, answering())
	m = typeText(m, "/help")
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.showHelp {
		t.Error("/help should show help")
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF1})
	if m.showHelp {
		t.Error("f1 should toggle help off")
	}
}

// =============================================================================
// BACKGROUND MESSAGE TESTS
// =============================================================================

func TestHealthMessages(t *testing.T) {
	m := newTestModel(t, answering())
	if m.status.Health != components.HealthUnknown {
		t.Errorf("initial health = %v", m.status.Health)
	}

	health, ok := findMsg[healthMsg](runCmd(t, m.checkHealth()))
	if !ok {
		t.Fatal("no health message")
	}
	m, _ = send(m, health)
	if m.status.Health != components.HealthUp {
		t.Errorf("health = %v, want up", m.status.Health)
	}

	m, _ = send(m, healthMsg{err: errors.New("dial tcp: refused")})
	if m.status.Health != components.HealthDown {
		t.Errorf("health = %v, want down", m.status.Health)
	}
}

func TestConfigReloadAppliesSettings(t *testing.T) {
	m := newTestModel(t, answering())

	cfg := config.Default()
	cfg.Backend.AgentType = "judge"
	cfg.Backend.TimeoutSecs = 5
	cfg.UI.Theme = "light"

	m, _ = send(m, configReloadedMsg{cfg: cfg})
	if got := m.ctrl.AgentType(); got != "judge" {
		t.Errorf("agent type = %q, want judge", got)
	}
	if m.header.AgentType != "judge" {
		t.Errorf("header agent = %q", m.header.AgentType)
	}
	if m.theme.IsDark {
		t.Error("theme should be light after reload")
	}
	if !strings.Contains(m.status.Notice, "config reloaded") {
		t.Errorf("notice = %q", m.status.Notice)
	}
}

func TestConfigReloadErrorKeepsConfig(t *testing.T) {
	m := newTestModel(t, answering())
	m, _ = send(m, configReloadedMsg{err: errors.New("bad toml")})
	if m.ctrl.AgentType() != "consultant" {
		t.Error("failed reload should keep the old settings")
	}
	if !strings.Contains(m.status.Notice, "not reloaded") {
		t.Errorf("notice = %q", m.status.Notice)
	}
}

func TestNoticeExpiry(t *testing.T) {
	m := newTestModel(t, answering())
	_ = m.setNotice("hello")
	seq := m.noticeSeq

	m, _ = send(m, noticeExpiredMsg{seq: seq - 1})
	if m.status.Notice != "hello" {
		t.Error("stale expiry should not clear a newer notice")
	}
	m, _ = send(m, noticeExpiredMsg{seq: seq})
	if m.status.Notice != "" {
		t.Error("notice should be cleared")
	}
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestViewBeforeReady(t *testing.T) {
	m := New(Options{Backend: answering()})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}

func TestViewShowsWelcome(t *testing.T) {
	m := newTestModel(t, answering())
	view := m.View()
	if !strings.Contains(view, "lexchat") {
		t.Error("view should include the app name")
	}
	if !strings.Contains(view, "http://localhost:8000") {
		t.Error("view should include the backend URL")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, answering())
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
	if m.ctx.Err() == nil {
		t.Error("quitting should cancel the request context")
	}
}
