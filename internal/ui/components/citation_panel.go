// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/lexchat/internal/model"
	"github.com/jeranaias/lexchat/internal/ui/styles"
	"github.com/jeranaias/lexchat/internal/util"
	"github.com/muesli/termenv"
)

// =============================================================================
// MESSAGES
// =============================================================================

// CitationSelectedMsg asks the parent to open the detail panel.
type CitationSelectedMsg struct {
	Citation model.Citation
}

// CitationDismissedMsg asks the parent to clear the selection.
type CitationDismissedMsg struct{}

// SelectCitation returns a command that emits CitationSelectedMsg.
func SelectCitation(c model.Citation) tea.Cmd {
	return func() tea.Msg { return CitationSelectedMsg{Citation: c} }
}

func dismissCitation() tea.Msg { return CitationDismissedMsg{} }

// =============================================================================
// CITATION PANEL COMPONENT
// =============================================================================

// Panel labels.
const (
	panelTitle     = "Source"
	labelArticle   = "Article"
	labelContent   = "Content"
	linkText       = "View original →"
	panelHint      = "esc close  ↑/↓ scroll"
	minPanelWidth  = 24
	minPanelHeight = 6
)

// CitationPanel shows one citation in detail. The only state beyond the
// citation itself is the scroll offset.
type CitationPanel struct {
	citation   model.Citation
	width      int
	height     int
	offset     int
	hyperlinks bool
	theme      *styles.Theme
}

// NewCitationPanel creates a panel for c.
func NewCitationPanel(c model.Citation, theme *styles.Theme) CitationPanel {
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	return CitationPanel{
		citation:   c,
		width:      40,
		height:     20,
		hyperlinks: true,
		theme:      theme,
	}
}

// SetSize sets the outer panel dimensions including the border.
func (p *CitationPanel) SetSize(width, height int) {
	if width < minPanelWidth {
		width = minPanelWidth
	}
	if height < minPanelHeight {
		height = minPanelHeight
	}
	p.width = width
	p.height = height
	p.clampOffset()
}

// SetHyperlinks toggles OSC 8 links for the source URL.
func (p *CitationPanel) SetHyperlinks(enabled bool) {
	p.hyperlinks = enabled
}

// Citation returns the citation being shown.
func (p CitationPanel) Citation() model.Citation {
	return p.citation
}

// Init implements tea.Model.
func (p CitationPanel) Init() tea.Cmd {
	return nil
}

// Update handles dismiss and scroll keys.
func (p CitationPanel) Update(msg tea.Msg) (CitationPanel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch keyMsg.String() {
	case "esc":
		return p, dismissCitation
	case "up", "k":
		p.offset--
	case "down", "j":
		p.offset++
	case "pgup":
		p.offset -= p.bodyHeight()
	case "pgdown":
		p.offset += p.bodyHeight()
	case "home":
		p.offset = 0
	case "end":
		p.offset = len(p.lines())
	}
	p.clampOffset()
	return p, nil
}

// View renders the panel.
func (p CitationPanel) View() string {
	lines := p.lines()
	visible := p.bodyHeight()

	end := p.offset + visible
	if end > len(lines) {
		end = len(lines)
	}
	body := strings.Join(lines[p.offset:end], "\n")

	title := p.theme.PanelTitle.Render(panelTitle)
	hint := p.theme.PanelHint.Render(panelHint)

	inner := lipgloss.JoinVertical(lipgloss.Left, title, body, "", hint)
	return p.theme.Panel.
		Width(p.width - 2).
		MaxHeight(p.height).
		Render(inner)
}

// bodyHeight is the number of content lines that fit between the title
// and the hint.
func (p CitationPanel) bodyHeight() int {
	// border (2) + title + blank + hint
	h := p.height - 5
	if h < 1 {
		h = 1
	}
	return h
}

func (p CitationPanel) innerWidth() int {
	// border (2) + padding (2)
	w := p.width - 4
	if w < 10 {
		w = 10
	}
	return w
}

func (p *CitationPanel) clampOffset() {
	maxOffset := len(p.lines()) - p.bodyHeight()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if p.offset > maxOffset {
		p.offset = maxOffset
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// lines builds the wrapped body of the panel. The source id is never shown.
func (p CitationPanel) lines() []string {
	w := p.innerWidth()
	c := p.citation

	var out []string
	out = append(out, p.theme.PanelLabel.Render(labelArticle))
	out = append(out, splitWrapped(c.ArticleName, w)...)
	if c.Section != "" {
		out = append(out, splitWrapped(c.Section, w)...)
	}

	out = append(out, "", p.theme.PanelLabel.Render(labelContent))
	for _, line := range splitWrapped(c.Content, w) {
		out = append(out, p.theme.PanelBody.Render(line))
	}

	if c.HasURL() {
		out = append(out, "")
		out = append(out, p.renderLink(w)...)
	}
	return out
}

// renderLink emits an OSC 8 hyperlink when enabled and the plain URL
// otherwise.
func (p CitationPanel) renderLink(width int) []string {
	url := p.citation.URL
	if p.hyperlinks {
		return []string{p.theme.LinkStyle.Render(termenv.Hyperlink(url, linkText))}
	}
	out := []string{p.theme.LinkStyle.Render(linkText)}
	return append(out, splitWrapped(url, width)...)
}

func splitWrapped(text string, width int) []string {
	return strings.Split(util.Wrap(text, width), "\n")
}
