// Package app is the terminal front end: it wires the tree, windower and
// drag controller to a tcell screen and translates key/mouse events into
// engine operations.
package app

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-treeview/internal/config"
	"github.com/pstuifzand/tui-treeview/internal/dnd"
	"github.com/pstuifzand/tui-treeview/internal/sched"
	"github.com/pstuifzand/tui-treeview/internal/storage"
	"github.com/pstuifzand/tui-treeview/internal/tree"
	"github.com/pstuifzand/tui-treeview/internal/ui"
	"github.com/pstuifzand/tui-treeview/internal/view"
)

// Mode is the input mode of the main loop.
type Mode string

const (
	ModeNormal Mode = "NORMAL"
	ModeDrag   Mode = "DRAG"
	ModeSearch Mode = "SEARCH"
)

// App is the main application controller
type App struct {
	screen     *ui.Screen
	cfg        *config.Config
	store      *storage.JSONStore
	tree       *tree.Tree
	viewport   *cellViewport
	windower   *view.Windower
	controller *dnd.Controller
	assist     *view.AutoScroll
	clock      sched.Clock

	// labels caches the formatted text per materialized row; filled by the
	// windower's render callback, dropped by its release callback.
	labels map[*view.Row]string

	selRow    int // 1-based visible row of the selection
	marked    map[*tree.Node]bool
	hoverRow  int // during a drag; rowCount+1 addresses the free zone
	hoverNode *tree.Node
	zone      dnd.Zone

	// marker state fed back by the drag controller
	markerTarget *tree.Node
	markerZone   dnd.Zone

	searchInput string
	searchTerm  string

	statusMsg    string
	statusTime   time.Time
	dirty        bool
	autoSaveTime time.Time
	quit         bool
	debugMode    bool
	mode         Mode
}

// NewApp creates a new App instance
func NewApp(filePath string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	store := storage.NewJSONStore(filePath)
	t, err := store.Load()
	if err != nil {
		screen.Close()
		return nil, fmt.Errorf("failed to load tree: %w", err)
	}
	if t.NodeCount() == 0 {
		welcome := tree.NewNode("Welcome to tui-treeview")
		t.Append(nil, welcome)
		t.Append(welcome, tree.NewNode("g grabs a node, j/k aim, Tab picks the zone, Enter drops"))
		t.Append(welcome, tree.NewNode("m marks nodes for a multi-node drag"))
		t.SetExpanded(welcome, true)
	}

	a := &App{
		screen:       screen,
		cfg:          cfg,
		store:        store,
		tree:         t,
		labels:       make(map[*view.Row]string),
		marked:       make(map[*tree.Node]bool),
		selRow:       1,
		statusMsg:    "Ready",
		statusTime:   time.Now(),
		autoSaveTime: time.Now(),
		mode:         ModeNormal,
	}
	a.clock = &uiClock{post: screen.PostEvent}
	a.viewport = &cellViewport{
		rowHeight: cfg.View.RowHeight,
		cells:     a.viewCells,
	}
	a.windower = view.NewWindower(view.Config{
		Tree:           t,
		Viewport:       a.viewport,
		Clock:          a.clock,
		RowHeight:      cfg.View.RowHeight,
		FreeZoneHeight: cfg.View.FreeZone,
		RenderRow:      a.renderRow,
		ReleaseRow:     a.releaseRow,
	})
	a.assist = view.NewAutoScroll(a.clock, a.viewport, 60*time.Millisecond,
		cfg.View.RowHeight, a.maxScroll, a.windower.OnScroll)
	a.controller = dnd.NewController(dnd.Config{
		Tree:           t,
		Batcher:        a.windower.Batcher(),
		Clock:          a.clock,
		RowHeight:      cfg.View.RowHeight,
		EdgeZoneHeight: cfg.View.EdgeZone,
		Policy:         insertPolicy(cfg.View.InsertPolicy),
		Markers:        a,
		OnCommit:       a.onCommit,
		AutoScroll:     a.assist,
		ScrollEdge:     cfg.View.ScrollEdge,
		Viewport:       a.viewport,
	})

	if screen.HasMouse() {
		screen.EnableMouse()
	}
	a.windower.Render()
	return a, nil
}

func insertPolicy(name string) dnd.InsertPolicy {
	if name == "first" {
		return dnd.InsertFirst
	}
	return dnd.InsertLast
}

// cellViewport maps the engine's abstract units onto terminal lines: one
// tree row per line, RowHeight units per line.
type cellViewport struct {
	scrollTop int // engine units
	rowHeight int
	cells     func() int
}

func (v *cellViewport) ScrollTop() int      { return v.scrollTop }
func (v *cellViewport) ViewportHeight() int { return v.cells() * v.rowHeight }
func (v *cellViewport) SetScrollTop(o int)  { v.scrollTop = o }
func (v *cellViewport) topCell() int        { return v.scrollTop / v.rowHeight }
func (v *cellViewport) setTopCell(cell int) { v.scrollTop = cell * v.rowHeight }

// viewCells is the number of terminal lines available to tree rows: the
// full height minus the header and status lines.
func (a *App) viewCells() int {
	h := a.screen.GetHeight() - 2
	if h < 1 {
		return 1
	}
	return h
}

func (a *App) maxScroll() int {
	m := a.windower.ContentHeight() - a.viewport.ViewportHeight()
	if m < 0 {
		return 0
	}
	return m
}

// renderRow is the windower's render callback.
func (a *App) renderRow(n *tree.Node, row *view.Row) {
	a.labels[row] = a.rowLabel(n)
}

// releaseRow is the windower's deferred cleanup callback.
func (a *App) releaseRow(row *view.Row) {
	delete(a.labels, row)
}

func (a *App) rowLabel(n *tree.Node) string {
	indent := ""
	for range a.tree.NestLevel(n) {
		indent += "  "
	}
	return indent + string(rowArrow(n)) + " " + n.Text
}

func rowArrow(n *tree.Node) rune {
	switch {
	case !n.HasChildren():
		return '•'
	case n.Expanded():
		return '▼'
	default:
		return '▶'
	}
}

// arrowStyle picks the themed style for a row's expansion glyph.
func (a *App) arrowStyle(n *tree.Node) tcell.Style {
	switch {
	case !n.HasChildren():
		return a.screen.TreeLeafArrowStyle()
	case n.Expanded():
		return a.screen.TreeExpandedArrowStyle()
	default:
		return a.screen.TreeCollapsedArrowStyle()
	}
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			event := a.screen.PollEvent()
			eventChan <- event
			if event == nil {
				break
			}
		}
	}()

	ticker := time.NewTicker(50 * time.Millisecond) // ~20 FPS
	defer ticker.Stop()

	for !a.quit {
		select {
		case ev := <-eventChan:
			if ev != nil {
				a.handleRawEvent(ev)
			}
		case <-ticker.C:
			a.render()

			// Auto-save every 5 seconds if dirty
			if a.dirty && time.Since(a.autoSaveTime) > 5*time.Second {
				if err := a.Save(); err != nil {
					a.SetStatus("Failed to save: " + err.Error())
				} else {
					a.SetStatus("Saved")
				}
			}
		}
	}

	return nil
}

// Close closes the application
func (a *App) Close() error {
	if a.screen != nil {
		return a.screen.Close()
	}
	return nil
}

// handleRawEvent dispatches one event from the loop. Engine timers arrive
// here as TimerEvents, so their callbacks run on this goroutine.
func (a *App) handleRawEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *TimerEvent:
		ev.Fire()
	case *tcell.EventResize:
		a.windower.Render()
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
}

// render draws the current state: header, windowed tree rows, free-zone
// hint and status line.
func (a *App) render() {
	a.screen.Clear()

	width, height := a.screen.Size()
	a.clampSelection()

	title := a.store.Title
	if title == "" {
		title = "Untitled"
	}
	header := fmt.Sprintf(" %s — %d nodes, %d rows", title, a.tree.NodeCount(), a.tree.RowCount())
	a.screen.DrawStringLimited(0, 0, header, width, a.screen.HeaderStyle())

	topCell := a.viewport.topCell()
	rowCount := a.tree.RowCount()
	for line := range a.viewCells() {
		rowIndex := topCell + line // 0-based windower index
		y := 1 + line
		if rowIndex >= rowCount {
			if rowIndex == rowCount {
				a.drawFreeZone(y, width)
			}
			continue
		}
		a.drawRow(rowIndex, y, width)
	}

	a.drawStatus(width, height)
	a.screen.Show()
}

func (a *App) drawRow(rowIndex, y, width int) {
	row := a.windower.RowAt(rowIndex)
	if row == nil || row.Hidden {
		return
	}
	n := row.Node
	label, ok := a.labels[row]
	if !ok {
		label = a.rowLabel(n)
	}

	style := a.screen.TreeTextStyle()
	highlighted := true
	switch {
	case a.markerTarget == n && a.markerZone == dnd.ZoneInside:
		style = a.screen.MarkerInsideStyle()
	case a.controller.Dragging() && a.inDraggedSet(n):
		style = a.screen.DragSourceStyle()
	case rowIndex+1 == a.selRow && a.mode != ModeDrag:
		style = a.screen.TreeSelectedStyle()
	case rowIndex+1 == a.hoverRow && a.mode == ModeDrag:
		style = style.Underline(true)
	default:
		highlighted = false
	}

	// Column 0 carries the mark and drop-marker glyphs.
	if a.marked[n] {
		a.screen.SetCell(0, y, '*', a.screen.StatusMessageStyle())
	}
	if a.markerTarget == n {
		switch a.markerZone {
		case dnd.ZoneAbove:
			a.screen.SetCell(0, y, '▲', a.screen.MarkerAboveStyle())
		case dnd.ZoneBelow:
			a.screen.SetCell(0, y, '▼', a.screen.MarkerBelowStyle())
		}
	}

	a.screen.DrawStringLimited(2, y, ui.TruncateToWidthWithEllipsis(label, width-2), width-2, style)

	// Plain rows get the themed expansion glyph; highlighted rows keep one
	// uniform style so the highlight reads as a block.
	if !highlighted {
		a.screen.SetCell(2+2*a.tree.NestLevel(n), y, rowArrow(n), a.arrowStyle(n))
	}
}

func (a *App) drawFreeZone(y, width int) {
	if a.mode != ModeDrag {
		return
	}
	style := a.screen.FreeZoneStyle()
	if a.markerTarget != nil && a.markerTarget.IsRoot() {
		style = a.screen.MarkerInsideStyle()
	}
	a.screen.DrawStringLimited(2, y, "┄ drop here for top level ┄", width-2, style)
}

func (a *App) drawStatus(width, height int) {
	statusLine := fmt.Sprintf("-- %s --", a.mode)
	if a.mode == ModeSearch {
		statusLine = "/" + a.searchInput
	}
	if a.statusMsg != "Ready" && time.Since(a.statusTime) <= 3*time.Second {
		statusLine += " " + a.statusMsg
	}
	if a.dirty {
		statusLine += " (modified)"
	}
	statusLine = ui.PadStringToWidth(statusLine, width)
	a.screen.DrawStringLimited(0, height-1, statusLine, width, a.screen.StatusModeStyle())
}

func (a *App) inDraggedSet(n *tree.Node) bool {
	for _, d := range a.controller.DraggedNodes() {
		if d == n || n.IsDescendantOf(d) {
			return true
		}
	}
	return false
}

// clampSelection keeps the selection on an existing row after mutations.
func (a *App) clampSelection() {
	if rc := a.tree.RowCount(); a.selRow > rc {
		a.selRow = rc
	}
	if a.selRow < 1 {
		a.selRow = 1
	}
}

// ensureRowVisible scrolls so the 1-based row sits inside the viewport.
func (a *App) ensureRowVisible(row int) {
	top := a.viewport.topCell()
	cells := a.viewCells()
	switch {
	case row-1 < top:
		top = row - 1
	case row-1 >= top+cells:
		top = row - cells
	default:
		return
	}
	if top < 0 {
		top = 0
	}
	a.viewport.setTopCell(top)
	a.windower.OnScroll()
}

func (a *App) selectedNode() *tree.Node {
	a.clampSelection()
	return a.tree.NodeAtRow(a.selRow)
}

// onCommit is the drag controller's commit notification.
func (a *App) onCommit(parent, next, prev *tree.Node, moved []*tree.Node) {
	a.dirty = true
	if a.debugMode {
		log.Printf("drop: %d node(s) under %q (next=%v prev=%v)",
			len(moved), parent.Text, next != nil, prev != nil)
	}
}

// The App is the controller's MarkerHost: marker state is plain fields the
// next render pass picks up.

func (a *App) ShowAboveMarker(target *tree.Node, nestLevel int) {
	a.markerTarget, a.markerZone = target, dnd.ZoneAbove
}

func (a *App) ShowBelowMarker(target *tree.Node, nestLevel int) {
	a.markerTarget, a.markerZone = target, dnd.ZoneBelow
}

func (a *App) ShowInsideMarker(target *tree.Node) {
	a.markerTarget, a.markerZone = target, dnd.ZoneInside
}

func (a *App) ClearMarkers(target *tree.Node) {
	if a.markerTarget == target {
		a.markerTarget, a.markerZone = nil, dnd.ZoneNone
	}
}

// Save saves the tree to disk
func (a *App) Save() error {
	if a.store.FilePath == "" {
		return fmt.Errorf("no file path given")
	}
	if err := a.store.Save(a.tree); err != nil {
		return err
	}
	a.dirty = false
	a.autoSaveTime = time.Now()
	return nil
}

// SetStatus sets the status message
func (a *App) SetStatus(msg string) {
	a.statusMsg = msg
	a.statusTime = time.Now()
}

// Quit signals the app to quit
func (a *App) Quit() {
	a.quit = true
}

// SetDebugMode enables or disables debug mode
func (a *App) SetDebugMode(debug bool) {
	a.debugMode = debug
}
