// Package ui wraps the tcell screen: cell drawing, width-aware strings, and
// theme-derived styles for the tree view.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-treeview/internal/config"
	"github.com/pstuifzand/tui-treeview/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	Theme       *theme.Theme
}

// NewScreen creates a new Screen instance with the configured theme
func NewScreen() (*Screen, error) {
	cfg, err := config.Load()
	if err != nil {
		// If config fails to load, use Default as fallback
		return NewScreenWithTheme(theme.Default())
	}

	t := theme.LoadThemeOrDefault(cfg.Theme)
	return NewScreenWithTheme(t)
}

// NewScreenWithTheme creates a new Screen instance with a specific theme
func NewScreenWithTheme(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}

	width, height := tcellScreen.Size()
	return &Screen{
		tcellScreen: tcellScreen,
		width:       width,
		height:      height,
		Theme:       t,
	}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws a string at the given position with the given style
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		s.SetCell(col, y, r, style)
		col += RuneWidth(r)
	}
}

// DrawStringLimited draws a string, truncating it if it exceeds maxWidth
// display columns.
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) {
	if maxWidth <= 0 {
		return
	}
	s.DrawString(x, y, TruncateToWidth(text, maxWidth), style)
}

// FillRow paints a full-width row with the given rune and style.
func (s *Screen) FillRow(y int, r rune, style tcell.Style) {
	for x := 0; x < s.width; x++ {
		s.SetCell(x, y, r, style)
	}
}

// PollEvent polls for the next event (key press, mouse, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// PostEvent delivers an event into the poll loop; timer callbacks use it to
// hand work back to the event goroutine. It blocks when the queue is full
// rather than dropping the event.
func (s *Screen) PostEvent(ev tcell.Event) {
	s.tcellScreen.PostEventWait(ev)
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	w, h := s.tcellScreen.Size()
	s.width = w
	s.height = h
	return w, h
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	s.width, _ = s.tcellScreen.Size()
	return s.width
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, s.height = s.tcellScreen.Size()
	return s.height
}

// HasMouse returns true if mouse is supported
func (s *Screen) HasMouse() bool {
	return s.tcellScreen.HasMouse()
}

// EnableMouse enables mouse support on the screen
func (s *Screen) EnableMouse() {
	s.tcellScreen.EnableMouse(tcell.MouseMotionEvents)
}

// Theme-aware style methods

// TreeTextStyle returns the style for normal tree rows
func (s *Screen) TreeTextStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.TreeText)
}

// TreeSelectedStyle returns the style for the selected tree row
func (s *Screen) TreeSelectedStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.TreeSelected).Bold(true).Reverse(true)
}

// TreeLeafArrowStyle returns the style for leaf node markers
func (s *Screen) TreeLeafArrowStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.TreeLeafArrow).Dim(true)
}

// TreeExpandedArrowStyle returns the style for expanded node markers
func (s *Screen) TreeExpandedArrowStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.TreeExpandedArrow)
}

// TreeCollapsedArrowStyle returns the style for collapsed node markers
func (s *Screen) TreeCollapsedArrowStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.TreeCollapsedArrow)
}

// DragSourceStyle returns the style for rows being dragged
func (s *Screen) DragSourceStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.DragSource).Dim(true)
}

// MarkerAboveStyle returns the style for the insert-above separator
func (s *Screen) MarkerAboveStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.MarkerAbove).Bold(true)
}

// MarkerBelowStyle returns the style for the insert-below separator
func (s *Screen) MarkerBelowStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.MarkerBelow).Bold(true)
}

// MarkerInsideStyle returns the style for the insert-inside row highlight
func (s *Screen) MarkerInsideStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.TreeText, s.Theme.Colors.MarkerInside)
}

// FreeZoneStyle returns the style for the trailing free-drop zone hint
func (s *Screen) FreeZoneStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.FreeZone).Dim(true)
}

// StatusModeStyle returns the style for the mode indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StatusMode).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StatusMessage)
}

// HeaderStyle returns the style for the header title
func (s *Screen) HeaderStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.HeaderTitle).Bold(true)
}
