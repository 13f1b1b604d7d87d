package app

import (
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-treeview/internal/dnd"
	"github.com/pstuifzand/tui-treeview/internal/locate"
	"github.com/pstuifzand/tui-treeview/internal/tree"
)

// handleKey dispatches a key event to the active mode.
func (a *App) handleKey(ev *tcell.EventKey) {
	switch a.mode {
	case ModeSearch:
		a.handleSearchKey(ev)
	case ModeDrag:
		a.handleDragKey(ev)
	default:
		a.handleNormalKey(ev)
	}
}

func (a *App) handleNormalKey(ev *tcell.EventKey) {
	if a.debugMode {
		a.SetStatus(fmt.Sprintf("Key: %v | Rune: %q | Modifiers: %v", ev.Key(), ev.Rune(), ev.Modifiers()))
	}

	switch ev.Key() {
	case tcell.KeyDown:
		a.moveSelection(1)
		return
	case tcell.KeyUp:
		a.moveSelection(-1)
		return
	case tcell.KeyLeft:
		a.collapseSelected()
		return
	case tcell.KeyRight:
		a.expandSelected()
		return
	case tcell.KeyHome:
		a.selRow = 1
		a.ensureRowVisible(1)
		return
	case tcell.KeyEnd:
		a.selRow = a.tree.RowCount()
		a.ensureRowVisible(a.selRow)
		return
	case tcell.KeyCtrlS:
		if err := a.Save(); err != nil {
			a.SetStatus("Failed to save: " + err.Error())
		} else {
			a.SetStatus("Saved")
		}
		return
	case tcell.KeyEnter:
		if n := a.selectedNode(); n != nil {
			a.tree.ToggleExpanded(n)
		}
		return
	}

	switch ev.Rune() {
	case 'j':
		a.moveSelection(1)
	case 'k':
		a.moveSelection(-1)
	case 'h':
		a.collapseSelected()
	case 'l':
		a.expandSelected()
	case ' ':
		if n := a.selectedNode(); n != nil {
			a.tree.ToggleExpanded(n)
		}
	case 'G':
		a.selRow = a.tree.RowCount()
		a.ensureRowVisible(a.selRow)
	case 'E':
		a.tree.ExpandAll(nil)
		a.SetStatus("Expanded all")
	case 'C':
		a.tree.CollapseAll(nil)
		a.SetStatus("Collapsed all")
	case 'o':
		a.addSibling()
	case 'a':
		a.addChild()
	case 'd':
		a.deleteSelected()
	case 'm':
		a.toggleMark()
	case 'g':
		a.startDrag()
	case '/':
		a.mode = ModeSearch
		a.searchInput = ""
	case 'n':
		a.findNext()
	case 's':
		if err := a.Save(); err != nil {
			a.SetStatus("Failed to save: " + err.Error())
		} else {
			a.SetStatus("Saved")
		}
	case 'D':
		a.debugMode = !a.debugMode
		if a.debugMode {
			a.tree.Dump(log.Writer())
			a.SetStatus("Debug mode ON")
		} else {
			a.SetStatus("Debug mode OFF")
		}
	case 'q':
		if a.dirty {
			a.SetStatus("Unsaved changes! Q to force quit, s to save")
		} else {
			a.quit = true
		}
	case 'Q':
		a.quit = true
	}
}

func (a *App) handleDragKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.cancelDrag()
		return
	case tcell.KeyEnter:
		a.drop()
		return
	case tcell.KeyDown:
		a.moveHover(1)
		return
	case tcell.KeyUp:
		a.moveHover(-1)
		return
	case tcell.KeyTab:
		a.cycleZone()
		return
	}

	switch ev.Rune() {
	case 'j':
		a.moveHover(1)
	case 'k':
		a.moveHover(-1)
	case 'g':
		a.cancelDrag()
	}
}

func (a *App) handleSearchKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.mode = ModeNormal
		return
	case tcell.KeyEnter:
		a.mode = ModeNormal
		a.searchTerm = a.searchInput
		a.findNext()
		return
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.searchInput) > 0 {
			runes := []rune(a.searchInput)
			a.searchInput = string(runes[:len(runes)-1])
		}
		return
	}
	if r := ev.Rune(); r != 0 {
		a.searchInput += string(r)
	}
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	_, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		a.scrollCells(-3)
	case buttons&tcell.WheelDown != 0:
		a.scrollCells(3)
	case buttons&tcell.Button1 != 0:
		if row, ok := a.rowAtLine(y); ok {
			if a.mode == ModeDrag {
				a.hoverRow = row
				a.updateHover()
			} else {
				a.selRow = row
			}
		}
	case buttons&tcell.Button3 != 0:
		if row, ok := a.rowAtLine(y); ok && a.mode == ModeNormal {
			a.selRow = row
			if n := a.selectedNode(); n != nil {
				a.tree.ToggleExpanded(n)
			}
		}
	}
}

// rowAtLine maps a screen line to a 1-based tree row.
func (a *App) rowAtLine(y int) (int, bool) {
	if y < 1 || y > a.viewCells() {
		return 0, false
	}
	row := a.viewport.topCell() + y // topCell is 0-based, rows 1-based
	if row > a.tree.RowCount() {
		if a.mode == ModeDrag {
			return a.tree.RowCount() + 1, true // free zone
		}
		return 0, false
	}
	return row, true
}

func (a *App) scrollCells(delta int) {
	top := a.viewport.topCell() + delta
	maxTop := a.tree.RowCount() - a.viewCells() + 1 // keep the free zone reachable
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	a.viewport.setTopCell(top)
	a.windower.OnScroll()
}

func (a *App) moveSelection(delta int) {
	a.selRow += delta
	a.clampSelection()
	a.ensureRowVisible(a.selRow)
}

func (a *App) expandSelected() {
	if n := a.selectedNode(); n != nil {
		a.tree.SetExpanded(n, true)
	}
}

func (a *App) collapseSelected() {
	n := a.selectedNode()
	if n == nil {
		return
	}
	if n.Expanded() {
		a.tree.SetExpanded(n, false)
		return
	}
	// Already collapsed: jump to the parent row.
	if p := n.Parent(); p != nil && !p.IsRoot() {
		a.selRow = a.tree.RowOf(p)
	}
}

func (a *App) addSibling() {
	n := tree.NewNode("new item")
	if sel := a.selectedNode(); sel != nil {
		a.tree.InsertAfter(sel, n)
	} else {
		a.tree.Append(nil, n)
	}
	a.selRow = a.tree.RowOf(n)
	a.dirty = true
	a.SetStatus("Created new item")
}

func (a *App) addChild() {
	sel := a.selectedNode()
	n := tree.NewNode("new item")
	a.tree.Append(sel, n)
	if sel != nil {
		a.tree.SetExpanded(sel, true)
	}
	a.selRow = a.tree.RowOf(n)
	a.dirty = true
	a.SetStatus("Created new child item")
}

func (a *App) deleteSelected() {
	n := a.selectedNode()
	if n == nil {
		return
	}
	delete(a.marked, n)
	a.tree.Remove(n)
	a.clampSelection()
	a.dirty = true
	a.SetStatus("Deleted item")
}

func (a *App) toggleMark() {
	n := a.selectedNode()
	if n == nil {
		return
	}
	if a.marked[n] {
		delete(a.marked, n)
	} else {
		a.marked[n] = true
	}
	a.moveSelection(1)
}

// startDrag grabs the marked nodes (in visible order), or the selection
// when nothing is marked.
func (a *App) startDrag() {
	var dragged []*tree.Node
	if len(a.marked) > 0 {
		a.tree.Accept(func(n *tree.Node) tree.VisitResult {
			if a.marked[n] {
				dragged = append(dragged, n)
			}
			return tree.Continue
		}, false, false, false)
	} else if sel := a.selectedNode(); sel != nil {
		dragged = append(dragged, sel)
	}
	if len(dragged) == 0 {
		a.SetStatus("Nothing to grab")
		return
	}

	a.controller.StartDrag(dragged...)
	a.mode = ModeDrag
	a.zone = dnd.ZoneInside
	a.hoverRow = a.selRow
	a.hoverNode = nil
	a.updateHover()
	a.SetStatus(fmt.Sprintf("Grabbed %d node(s)", len(dragged)))
}

func (a *App) cancelDrag() {
	a.controller.EndDrag()
	a.mode = ModeNormal
	a.hoverNode = nil
	a.SetStatus("Drag cancelled")
}

func (a *App) moveHover(delta int) {
	a.hoverRow += delta
	if a.hoverRow < 1 {
		a.hoverRow = 1
	}
	// One past the last row addresses the free drop zone.
	if limit := a.tree.RowCount() + 1; a.hoverRow > limit {
		a.hoverRow = limit
	}
	a.updateHover()
}

// cycleZone steps the requested zone above → inside → below. The controller
// may still fall through to a different zone when the requested one is
// invalid for the hovered target.
func (a *App) cycleZone() {
	a.zone = nextZone(a.zone)
	a.updateHover()
}

func nextZone(z dnd.Zone) dnd.Zone {
	switch z {
	case dnd.ZoneAbove:
		return dnd.ZoneInside
	case dnd.ZoneInside:
		return dnd.ZoneBelow
	default:
		return dnd.ZoneAbove
	}
}

// offsetForZone synthesizes the pointer offset within a row that classifies
// as the requested zone.
func (a *App) offsetForZone() int {
	rh := a.cfg.View.RowHeight
	switch a.zone {
	case dnd.ZoneAbove:
		return 0
	case dnd.ZoneBelow:
		return rh - 1
	default:
		return rh / 2
	}
}

// updateHover replays the current hover position into the controller and
// feeds the auto-scroll assist. Enter/leave notifications stay balanced by
// tracking the previously hovered node.
func (a *App) updateHover() {
	if a.hoverRow > a.tree.RowCount() {
		if a.hoverNode != nil {
			a.controller.DragLeaveRow(a.hoverNode)
			a.hoverNode = nil
		}
		a.controller.DragOverFreeZone()
		a.ensureRowVisible(a.hoverRow)
		return
	}
	target := a.tree.NodeAtRow(a.hoverRow)
	if target == nil {
		return
	}
	if target != a.hoverNode {
		if a.hoverNode != nil {
			a.controller.DragLeaveRow(a.hoverNode)
		}
		a.controller.DragEnterRow(target)
		a.hoverNode = target
	}
	a.controller.DragOverRow(target, a.offsetForZone())
	a.ensureRowVisible(a.hoverRow)
	a.controller.PointerMoved((a.hoverRow-1)*a.cfg.View.RowHeight - a.viewport.ScrollTop())
}

func (a *App) drop() {
	var moved bool
	if a.hoverRow > a.tree.RowCount() {
		moved = a.controller.DropOnFreeZone()
	} else if target := a.tree.NodeAtRow(a.hoverRow); target != nil {
		moved = a.controller.DropOnRow(target, a.offsetForZone())
	}

	a.mode = ModeNormal
	a.hoverNode = nil
	a.markerTarget, a.markerZone = nil, dnd.ZoneNone
	clear(a.marked)
	if moved {
		a.SetStatus("Moved")
	} else {
		a.SetStatus("Drop not allowed here")
	}
	a.clampSelection()
}

func (a *App) findNext() {
	if a.searchTerm == "" {
		a.SetStatus("No search term")
		return
	}
	m := locate.NewFuzzyMatcher(a.searchTerm)
	found := locate.FindNext(a.tree, a.selectedNode(), m)
	if found == nil {
		a.SetStatus("No match for " + a.searchTerm)
		return
	}
	a.selRow = locate.Reveal(a.tree, found)
	a.ensureRowVisible(a.selRow)
	a.SetStatus("Found: " + found.Text)
}
