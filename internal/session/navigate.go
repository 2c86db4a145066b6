package session

type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
	ModeFilter
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeCommand:
		return "command"
	case ModeFilter:
		return "filter"
	case ModeSearch:
		return "search"
	default:
		return "unknown"
	}
}

type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirTop
	DirBottom
	DirHalfPageUp
	DirHalfPageDown
)

// Boundary signals that a movement ran into an edge of the list. It is a
// cue for the caller (load more, visual bump), never a mode change.
type Boundary int

const (
	BoundaryNone Boundary = iota
	BoundaryTop
	BoundaryBottom
)

// NavigateList is the pure movement function: it maps a direction and the
// current position onto a new clamped index. A boundary is reported exactly
// when the desired index fell outside the list and had to be clamped.
func NavigateList(dir Direction, current, itemCount, pageSize int) (int, Boundary) {
	if itemCount <= 0 {
		return 0, BoundaryNone
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	half := pageSize / 2
	if half < 1 {
		half = 1
	}

	desired := current
	switch dir {
	case DirUp:
		desired = current - 1
	case DirDown:
		desired = current + 1
	case DirTop:
		desired = 0
	case DirBottom:
		desired = itemCount - 1
	case DirHalfPageUp:
		desired = current - half
	case DirHalfPageDown:
		desired = current + half
	}

	switch {
	case desired < 0:
		return 0, BoundaryTop
	case desired > itemCount-1:
		return itemCount - 1, BoundaryBottom
	default:
		return desired, BoundaryNone
	}
}

func clampIndex(index, itemCount int) int {
	if itemCount <= 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index > itemCount-1 {
		return itemCount - 1
	}
	return index
}
