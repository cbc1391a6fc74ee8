package floorplan

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type memRepo struct {
	rooms map[string]*Room
}

func newMemRepo() *memRepo {
	return &memRepo{rooms: make(map[string]*Room)}
}

func (r *memRepo) Get(_ context.Context, name string) (*Room, error) {
	room, ok := r.rooms[name]
	if !ok {
		return nil, nil
	}
	return room, nil
}

func (r *memRepo) List(_ context.Context) ([]*Room, error) {
	var out []*Room
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (r *memRepo) Save(_ context.Context, room *Room) error {
	r.rooms[room.Name] = room
	return nil
}

func (r *memRepo) SetOccupied(_ context.Context, room, table string, occupied bool) error {
	if plan, ok := r.rooms[room].Tables[table]; ok {
		plan.Occupied = occupied
	}
	return nil
}

func newTestHandler() (*chi.Mux, *memRepo) {
	repo := newMemRepo()
	h := NewHandler(repo, nil, nil)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, repo
}

func do(t *testing.T, router *chi.Mux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("cannot encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetRoom(t *testing.T) {
	t.Run("unknownRoomCreatedOnAccess", func(t *testing.T) {
		router, repo := newTestHandler()

		rec := do(t, router, http.MethodGet, "/rooms/Restaurant", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		room := repo.rooms["Restaurant"]
		if room == nil {
			t.Fatal("room not persisted on first access")
		}
		if room.Cols != 20 || room.Rows != 13 {
			t.Errorf("grid = %dx%d, want 20x13", room.Cols, room.Rows)
		}
	})
}

func TestSeedTables(t *testing.T) {
	t.Run("seedsEmptyRoom", func(t *testing.T) {
		router, repo := newTestHandler()

		rec := do(t, router, http.MethodPost, "/rooms/Terrasse/seed", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if len(repo.rooms["Terrasse"].Tables) != 8 {
			t.Errorf("seeded %d tables, want 8", len(repo.rooms["Terrasse"].Tables))
		}
	})

	t.Run("refusesNonEmptyRoom", func(t *testing.T) {
		router, repo := newTestHandler()
		repo.rooms["Terrasse"] = NewRoom("Terrasse")
		repo.rooms["Terrasse"].Tables["60"] = &Plan{X: 0, Y: 0, W: 1, H: 1}

		rec := do(t, router, http.MethodPost, "/rooms/Terrasse/seed", nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
		if len(repo.rooms["Terrasse"].Tables) != 1 {
			t.Error("existing layout was overwritten")
		}
	})
}

func TestAddTable(t *testing.T) {
	router, repo := newTestHandler()
	repo.rooms["Terrasse"] = NewRoom("Terrasse")
	repo.rooms["Terrasse"].Tables["1"] = &Plan{X: 0, Y: 0, W: 1, H: 1}
	repo.rooms["Terrasse"].Tables["2"] = &Plan{X: 1, Y: 0, W: 1, H: 1}

	rec := do(t, router, http.MethodPost, "/rooms/Terrasse/tables", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	plan, ok := repo.rooms["Terrasse"].Tables["3"]
	if !ok {
		t.Fatal("new table 3 missing")
	}
	if plan.X != 2 || plan.Y != 0 {
		t.Errorf("spot = (%d,%d), want first free (2,0)", plan.X, plan.Y)
	}
}

func TestRenameTable(t *testing.T) {
	t.Run("movesPlanToNewID", func(t *testing.T) {
		router, repo := newTestHandler()
		repo.rooms["Terrasse"] = NewRoom("Terrasse")
		repo.rooms["Terrasse"].Tables["60"] = &Plan{Occupied: true, X: 2, Y: 2, W: 2, H: 2}

		rec := do(t, router, http.MethodPut, "/rooms/Terrasse/tables/60/rename", RenameRequest{NewID: "99"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body)
		}

		tables := repo.rooms["Terrasse"].Tables
		if _, old := tables["60"]; old {
			t.Error("old id still present")
		}
		plan, ok := tables["99"]
		if !ok {
			t.Fatal("new id missing")
		}
		if !plan.Occupied || plan.X != 2 {
			t.Errorf("plan = %+v, want geometry and flag kept", plan)
		}
	})

	t.Run("duplicateIDRejected", func(t *testing.T) {
		router, repo := newTestHandler()
		repo.rooms["Terrasse"] = NewRoom("Terrasse")
		repo.rooms["Terrasse"].Tables["60"] = &Plan{X: 0, Y: 0, W: 1, H: 1}
		repo.rooms["Terrasse"].Tables["61"] = &Plan{X: 1, Y: 0, W: 1, H: 1}

		rec := do(t, router, http.MethodPut, "/rooms/Terrasse/tables/60/rename", RenameRequest{NewID: "61"})
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		if _, ok := repo.rooms["Terrasse"].Tables["60"]; !ok {
			t.Error("table lost on rejected rename")
		}
	})
}

func TestSavePlan(t *testing.T) {
	t.Run("clampsAndKeepsOccupied", func(t *testing.T) {
		router, repo := newTestHandler()
		repo.rooms["Terrasse"] = NewRoom("Terrasse")
		repo.rooms["Terrasse"].Tables["60"] = &Plan{Occupied: true, X: 0, Y: 0, W: 2, H: 2}

		rec := do(t, router, http.MethodPut, "/rooms/Terrasse/plan", SavePlanRequest{
			Tables: map[string]PlanUpdate{"60": {X: 40, Y: 40, W: 2, H: 2}},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		plan := repo.rooms["Terrasse"].Tables["60"]
		if plan.X != 16 || plan.Y != 6 {
			t.Errorf("position = (%d,%d), want clamped (16,6)", plan.X, plan.Y)
		}
		if !plan.Occupied {
			t.Error("occupied flag lost in plan save")
		}
	})

	t.Run("oversizedTableRejected", func(t *testing.T) {
		router, repo := newTestHandler()
		repo.rooms["Terrasse"] = NewRoom("Terrasse")
		repo.rooms["Terrasse"].Tables["60"] = &Plan{X: 0, Y: 0, W: 2, H: 2}

		rec := do(t, router, http.MethodPut, "/rooms/Terrasse/plan", SavePlanRequest{
			Tables: map[string]PlanUpdate{"60": {X: 0, Y: 0, W: 7, H: 1}},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestListRooms(t *testing.T) {
	router, repo := newTestHandler()
	repo.rooms["Terrasse"] = NewRoom("Terrasse")
	repo.rooms["Zelt"] = NewRoom("Zelt")

	rec := do(t, router, http.MethodGet, "/rooms", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data []Room `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}

	want := []string{"Restaurant", "Gewölbe", "Scheune EG", "Scheune UG", "Terrasse", "Zelt"}
	if len(resp.Data) != len(want) {
		t.Fatalf("got %d rooms, want %d", len(resp.Data), len(want))
	}
	for i, name := range want {
		if resp.Data[i].Name != name {
			t.Errorf("room %d = %q, want %q", i, resp.Data[i].Name, name)
		}
	}
}
