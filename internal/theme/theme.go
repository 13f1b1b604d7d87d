package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	// Tree view colors
	TreeText           tcell.Color
	TreeSelected       tcell.Color
	TreeLeafArrow      tcell.Color
	TreeExpandedArrow  tcell.Color
	TreeCollapsedArrow tcell.Color

	// Drag feedback colors
	DragSource   tcell.Color // dragged rows while the drag is live
	MarkerAbove  tcell.Color // insert-above separator line
	MarkerBelow  tcell.Color // insert-below separator line
	MarkerInside tcell.Color // insert-inside row highlight (background)
	FreeZone     tcell.Color // trailing free-drop zone hint

	// Status line colors
	StatusMode    tcell.Color
	StatusMessage tcell.Color

	// Header colors
	HeaderTitle tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a default theme using terminal defaults
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			TreeText:           tcell.ColorDefault,
			TreeSelected:       tcell.ColorDefault,
			TreeLeafArrow:      tcell.ColorDefault,
			TreeExpandedArrow:  tcell.ColorDefault,
			TreeCollapsedArrow: tcell.ColorDefault,
			DragSource:         tcell.ColorGray,
			MarkerAbove:        tcell.ColorDefault,
			MarkerBelow:        tcell.ColorDefault,
			MarkerInside:       tcell.ColorGray,
			FreeZone:           tcell.ColorGray,
			StatusMode:         tcell.ColorDefault,
			StatusMessage:      tcell.ColorDefault,
			HeaderTitle:        tcell.ColorDefault,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			// Tokyo Night palette
			TreeText:           HexToColor("#c0caf5"), // Light gray-blue
			TreeSelected:       HexToColor("#7aa2f7"), // Blue
			TreeLeafArrow:      HexToColor("#7dcfff"), // Cyan
			TreeExpandedArrow:  HexToColor("#7dcfff"), // Cyan
			TreeCollapsedArrow: HexToColor("#7dcfff"), // Cyan
			DragSource:         HexToColor("#565f89"), // Comment gray
			MarkerAbove:        HexToColor("#9ece6a"), // Green
			MarkerBelow:        HexToColor("#9ece6a"), // Green
			MarkerInside:       HexToColor("#283457"), // Selection blue
			FreeZone:           HexToColor("#565f89"), // Comment gray
			StatusMode:         HexToColor("#bb9af7"), // Magenta
			StatusMessage:      HexToColor("#9ece6a"), // Green
			HeaderTitle:        HexToColor("#bb9af7"), // Magenta
		},
	}
}
