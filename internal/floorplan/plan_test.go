package floorplan

import (
	"reflect"
	"testing"
)

func TestClampToGrid(t *testing.T) {
	room := NewRoom("Terrasse") // 18x8

	tests := []struct {
		name string
		in   Plan
		want Plan
	}{
		{"insideUntouched", Plan{X: 3, Y: 2, W: 2, H: 2}, Plan{X: 3, Y: 2, W: 2, H: 2}},
		{"zeroSpanRaisedToOne", Plan{X: 0, Y: 0, W: 0, H: 0}, Plan{X: 0, Y: 0, W: 1, H: 1}},
		{"negativePositionPulledIn", Plan{X: -4, Y: -1, W: 2, H: 2}, Plan{X: 0, Y: 0, W: 2, H: 2}},
		{"overflowPulledBack", Plan{X: 30, Y: 30, W: 2, H: 2}, Plan{X: 16, Y: 6, W: 2, H: 2}},
		{"occupiedFlagKept", Plan{Occupied: true, X: 1, Y: 1, W: 1, H: 1}, Plan{Occupied: true, X: 1, Y: 1, W: 1, H: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := room.ClampToGrid(tt.in); got != tt.want {
				t.Errorf("ClampToGrid(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFindFirstFreeSpot(t *testing.T) {
	t.Run("emptyRoomUsesOrigin", func(t *testing.T) {
		room := NewRoom("Terrasse")
		x, y := room.FindFirstFreeSpot(2, 2)
		if x != 0 || y != 0 {
			t.Errorf("spot = (%d,%d), want (0,0)", x, y)
		}
	})

	t.Run("skipsOccupiedCells", func(t *testing.T) {
		room := NewRoom("Terrasse")
		room.Tables["1"] = &Plan{X: 0, Y: 0, W: 2, H: 2}

		x, y := room.FindFirstFreeSpot(2, 2)
		if x != 2 || y != 0 {
			t.Errorf("spot = (%d,%d), want (2,0)", x, y)
		}
	})

	t.Run("fullRowWrapsDown", func(t *testing.T) {
		room := NewRoom("Terrasse")
		room.Tables["wall"] = &Plan{X: 0, Y: 0, W: 18, H: 1}

		x, y := room.FindFirstFreeSpot(1, 1)
		if x != 0 || y != 1 {
			t.Errorf("spot = (%d,%d), want (0,1)", x, y)
		}
	})
}

func TestNextFreeTableID(t *testing.T) {
	room := NewRoom("Terrasse")
	room.Tables["1"] = &Plan{}
	room.Tables["2"] = &Plan{}
	room.Tables["4"] = &Plan{}
	room.Tables["Stammtisch"] = &Plan{}

	if got := room.NextFreeTableID(); got != "3" {
		t.Errorf("NextFreeTableID() = %q, want %q", got, "3")
	}
}

func TestSortRoomNames(t *testing.T) {
	t.Run("houseOrderFirst", func(t *testing.T) {
		got := SortRoomNames([]string{"Terrasse", "Restaurant", "Gewölbe"})
		want := []string{"Restaurant", "Gewölbe", "Terrasse"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SortRoomNames() = %v, want %v", got, want)
		}
	})

	t.Run("unknownRoomsAppendedSorted", func(t *testing.T) {
		got := SortRoomNames([]string{"Zelt", "Restaurant", "Biergarten"})
		want := []string{"Restaurant", "Biergarten", "Zelt"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SortRoomNames() = %v, want %v", got, want)
		}
	})
}

func TestSeedLayout(t *testing.T) {
	t.Run("knownRoomsFitTheirGrid", func(t *testing.T) {
		for _, name := range RoomOrder {
			room := NewRoom(name)
			for id, p := range SeedLayout(name) {
				if clamped := room.ClampToGrid(*p); clamped != *p {
					t.Errorf("%s table %s = %+v does not fit the %dx%d grid", name, id, *p, room.Cols, room.Rows)
				}
			}
		}
	})

	t.Run("unknownRoomGetsGenericTables", func(t *testing.T) {
		tables := SeedLayout("Festzelt")
		if len(tables) != 10 {
			t.Fatalf("got %d tables, want 10", len(tables))
		}
		if _, ok := tables["T1"]; !ok {
			t.Error("generic layout misses table T1")
		}
	})
}
