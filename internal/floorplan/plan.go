// Package floorplan keeps the rooms and their table layouts. Tables live on a
// per-room grid; positions and sizes are grid cells, not pixels.
package floorplan

import (
	"sort"
	"strconv"
)

// MaxTableSpan caps how many cells a table may span per axis when resized.
const MaxTableSpan = 6

// Plan is one table's place on the room grid.
type Plan struct {
	Occupied bool `json:"occupied" bson:"occupied"`
	X        int  `json:"x" bson:"x"`
	Y        int  `json:"y" bson:"y"`
	W        int  `json:"w" bson:"w"`
	H        int  `json:"h" bson:"h"`
}

// Room is a named dining area with its grid dimensions and tables.
type Room struct {
	Name   string           `json:"name" bson:"_id"`
	Cols   int              `json:"cols" bson:"cols"`
	Rows   int              `json:"rows" bson:"rows"`
	Tables map[string]*Plan `json:"tables" bson:"tables"`
}

// RoomOrder is the fixed display order of the house's rooms. Unknown rooms
// are appended sorted by name.
var RoomOrder = []string{"Restaurant", "Gewölbe", "Scheune EG", "Scheune UG", "Terrasse"}

// GridFor returns the grid dimensions used for a room. The Restaurant room is
// larger than the rest.
func GridFor(roomName string) (cols, rows int) {
	switch roomName {
	case "Restaurant":
		return 20, 13
	case "Scheune EG":
		return 18, 10
	case "Scheune UG":
		return 18, 8
	case "Gewölbe":
		return 18, 9
	case "Terrasse":
		return 18, 8
	default:
		return 12, 8
	}
}

// NewRoom creates an empty room with its grid dimensions.
func NewRoom(name string) *Room {
	cols, rows := GridFor(name)
	return &Room{Name: name, Cols: cols, Rows: rows, Tables: make(map[string]*Plan)}
}

// SortRoomNames orders room names for display: the fixed house order first,
// unknown rooms appended alphabetically.
func SortRoomNames(names []string) []string {
	known := make(map[string]bool, len(RoomOrder))
	for _, n := range RoomOrder {
		known[n] = true
	}

	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	var out []string
	for _, n := range RoomOrder {
		if present[n] {
			out = append(out, n)
		}
	}

	var extras []string
	for _, n := range names {
		if !known[n] {
			extras = append(extras, n)
		}
	}
	sort.Strings(extras)
	return append(out, extras...)
}

// ClampToGrid keeps a plan inside the room grid. Spans never drop below one
// cell; the position is pulled in so the whole table stays visible.
func (r *Room) ClampToGrid(p Plan) Plan {
	if p.W < 1 {
		p.W = 1
	}
	if p.H < 1 {
		p.H = 1
	}

	maxX := r.Cols - p.W
	if maxX < 0 {
		maxX = 0
	}
	maxY := r.Rows - p.H
	if maxY < 0 {
		maxY = 0
	}

	p.X = clamp(p.X, 0, maxX)
	p.Y = clamp(p.Y, 0, maxY)
	return p
}

// FindFirstFreeSpot scans the grid row by row for the first cell where a w×h
// rectangle overlaps no existing table. Falls back to the origin when the
// room is packed.
func (r *Room) FindFirstFreeSpot(w, h int) (x, y int) {
	maxX := r.Cols - w
	if maxX < 0 {
		maxX = 0
	}
	maxY := r.Rows - h
	if maxY < 0 {
		maxY = 0
	}

	for yy := 0; yy <= maxY; yy++ {
		for xx := 0; xx <= maxX; xx++ {
			free := true
			for _, other := range r.Tables {
				if overlaps(xx, yy, w, h, other) {
					free = false
					break
				}
			}
			if free {
				return xx, yy
			}
		}
	}
	return 0, 0
}

// NextFreeTableID returns the smallest positive number not yet used as a
// table id.
func (r *Room) NextFreeTableID() string {
	used := make(map[int]bool)
	for id := range r.Tables {
		if n, err := strconv.Atoi(id); err == nil {
			used[n] = true
		}
	}

	next := 1
	for used[next] {
		next++
	}
	return strconv.Itoa(next)
}

func overlaps(x, y, w, h int, other *Plan) bool {
	ax2 := x + w - 1
	ay2 := y + h - 1
	bx2 := other.X + other.W - 1
	by2 := other.Y + other.H - 1
	return !(ax2 < other.X || x > bx2 || ay2 < other.Y || y > by2)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
