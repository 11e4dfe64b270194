// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme(ModeDark)
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}
	if !theme.IsDark {
		t.Error("dark mode should set IsDark")
	}
	if theme.Mode != ModeDark {
		t.Errorf("Mode = %q, want %q", theme.Mode, ModeDark)
	}
}

func TestNewThemeModes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dark", ModeDark},
		{"LIGHT", ModeLight},
		{" auto ", ModeAuto},
		{"", ModeAuto},
		{"neon", ModeAuto},
	}
	for _, tt := range tests {
		theme := NewTheme(tt.in)
		if theme.Mode != tt.want {
			t.Errorf("NewTheme(%q).Mode = %q, want %q", tt.in, theme.Mode, tt.want)
		}
	}

	if NewTheme(ModeLight).IsDark {
		t.Error("light mode should not be dark")
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme(ModeDark)

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"UserBubble", theme.UserBubble},
		{"AssistantBubble", theme.AssistantBubble},
		{"FailureBubble", theme.FailureBubble},
		{"Reference", theme.Reference},
		{"Badge", theme.Badge},
		{"Panel", theme.Panel},
		{"StatusBar", theme.StatusBar},
		{"WelcomeBox", theme.WelcomeBox},
	}

	for _, s := range styles {
		rendered := s.style.Render("test")
		if !strings.Contains(rendered, "test") {
			t.Errorf("%s style lost its content: %q", s.name, rendered)
		}
	}
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{0, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme(ModeDark)
	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: GetLayoutMode() = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestLayoutModeString(t *testing.T) {
	if LayoutWide.String() != "wide" {
		t.Errorf("LayoutWide.String() = %q", LayoutWide.String())
	}
	if LayoutMode(42).String() != "unknown" {
		t.Errorf("unknown layout should stringify as unknown")
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []string{"auto", "Dark", "light"} {
		if !ValidMode(m) {
			t.Errorf("ValidMode(%q) = false", m)
		}
	}
	if ValidMode("sepia") {
		t.Error("ValidMode(sepia) = true")
	}
}

// =============================================================================
// RENDER HELPER TESTS
// =============================================================================

func TestRenderHelpersKeepIndicators(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"success", RenderSuccess("saved"), StatusIndicators.Success},
		{"error", RenderError("failed"), StatusIndicators.Error},
		{"warning", RenderWarning("slow"), StatusIndicators.Warning},
		{"info", RenderInfo("hint"), StatusIndicators.Info},
		{"status ok", RenderStatus(true, "x"), StatusIndicators.Success},
		{"status fail", RenderStatus(false, "x"), StatusIndicators.Error},
	}
	for _, tt := range tests {
		if !strings.Contains(tt.got, tt.want) {
			t.Errorf("%s: %q missing indicator %q", tt.name, tt.got, tt.want)
		}
	}

	if !strings.Contains(RenderLink("https://example.com"), "https://example.com") {
		t.Error("RenderLink dropped its text")
	}
}
