package floorplan

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/muehlenhof/pos/pkg"
	"github.com/muehlenhof/pos/pkg/event"
	"github.com/muehlenhof/pos/pkg/logging"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	repo      Repo
	publisher pkg.Publisher
	logger    *slog.Logger
}

func NewHandler(repo Repo, publisher pkg.Publisher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Handler{repo: repo, publisher: publisher, logger: logger}
}

// RegisterRoutes attaches the floor plan endpoints. Registered flat because
// the order module shares the /rooms subtree.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/rooms", h.ListRooms)
	r.Get("/rooms/{room}", h.GetRoom)
	r.Post("/rooms/{room}/seed", h.SeedTables)
	r.Put("/rooms/{room}/plan", h.SavePlan)
	r.Post("/rooms/{room}/tables", h.AddTable)
	r.Put("/rooms/{room}/tables/{table}/rename", h.RenameTable)
	r.Delete("/rooms/{room}/tables/{table}", h.DeleteTable)
}

// ListRooms returns every room in the house's display order, missing default
// rooms included as empty entries.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()

	rooms, err := h.repo.List(ctx)
	if err != nil {
		log.Error("cannot list rooms", "error", err)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not retrieve rooms")
		return
	}

	byName := make(map[string]*Room, len(rooms))
	names := make([]string, 0, len(rooms))
	for _, room := range rooms {
		byName[room.Name] = room
		names = append(names, room.Name)
	}
	for _, n := range RoomOrder {
		if _, ok := byName[n]; !ok {
			names = append(names, n)
		}
	}

	ordered := make([]*Room, 0, len(names))
	for _, n := range SortRoomNames(names) {
		room, ok := byName[n]
		if !ok {
			room = NewRoom(n)
		}
		ordered = append(ordered, room)
	}

	pkg.RespondCollection(w, ordered, "room")
}

// GetRoom returns one room. An unknown room is created empty with its grid
// dimensions on first access.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	name := chi.URLParam(r, "room")

	room, err := h.loadOrCreate(ctx, name)
	if err != nil {
		log.Error("cannot load room", "error", err, "room", name)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load room")
		return
	}

	pkg.RespondSuccess(w, room)
}

// SeedTables fills a room with the house's default layout. A room that
// already has tables is left untouched.
func (h *Handler) SeedTables(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	name := chi.URLParam(r, "room")

	room, err := h.loadOrCreate(ctx, name)
	if err != nil {
		log.Error("cannot load room", "error", err, "room", name)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load room")
		return
	}

	if len(room.Tables) > 0 {
		pkg.RespondError(w, http.StatusConflict, "Room already has tables")
		return
	}

	room.Tables = SeedLayout(name)
	for id, p := range room.Tables {
		clamped := room.ClampToGrid(*p)
		room.Tables[id] = &clamped
	}

	if err := h.repo.Save(ctx, room); err != nil {
		log.Error("cannot save seeded room", "error", err, "room", name)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not save room")
		return
	}

	log.Info("room seeded", "room", name, "tables", len(room.Tables))
	pkg.RespondSuccess(w, room)
}

// PlanUpdate is one table's new geometry in a bulk plan save.
type PlanUpdate struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type SavePlanRequest struct {
	Tables map[string]PlanUpdate `json:"tables"`
}

// SavePlan stores edited table geometry in bulk, clamped to the grid. The
// occupied flags are untouched; they belong to the order flow.
func (h *Handler) SavePlan(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	name := chi.URLParam(r, "room")

	var req SavePlanRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}
	if len(req.Tables) == 0 {
		pkg.RespondError(w, http.StatusBadRequest, "No tables in plan")
		return
	}

	room, err := h.loadOrCreate(ctx, name)
	if err != nil {
		log.Error("cannot load room", "error", err, "room", name)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load room")
		return
	}

	for id, upd := range req.Tables {
		current, ok := room.Tables[id]
		if !ok {
			pkg.RespondError(w, http.StatusBadRequest, "Unknown table: "+id)
			return
		}
		if upd.W > MaxTableSpan || upd.H > MaxTableSpan {
			pkg.RespondError(w, http.StatusBadRequest, "Table size exceeds limit: "+id)
			return
		}
		clamped := room.ClampToGrid(Plan{Occupied: current.Occupied, X: upd.X, Y: upd.Y, W: upd.W, H: upd.H})
		room.Tables[id] = &clamped
	}

	if err := h.repo.Save(ctx, room); err != nil {
		log.Error("cannot save room plan", "error", err, "room", name)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not save room")
		return
	}

	pkg.RespondSuccess(w, room)
}

// AddTable creates a table with the next free numeric id on the first free
// grid cell.
func (h *Handler) AddTable(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	name := chi.URLParam(r, "room")

	room, err := h.loadOrCreate(ctx, name)
	if err != nil {
		log.Error("cannot load room", "error", err, "room", name)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load room")
		return
	}

	id := room.NextFreeTableID()
	x, y := room.FindFirstFreeSpot(1, 1)
	room.Tables[id] = &Plan{X: x, Y: y, W: 1, H: 1}

	if err := h.repo.Save(ctx, room); err != nil {
		log.Error("cannot save room", "error", err, "room", name)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not save room")
		return
	}

	log.Info("table added", "room", name, "table", id)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	pkg.RespondSuccess(w, map[string]any{"id": id, "plan": room.Tables[id]})
}

type RenameRequest struct {
	NewID string `json:"new_id"`
}

// RenameTable moves a table to a new id. The new id is written before the old
// one is removed, so a failure never loses the table.
func (h *Handler) RenameTable(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	name := chi.URLParam(r, "room")
	oldID := chi.URLParam(r, "table")

	var req RenameRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	newID := strings.TrimSpace(req.NewID)
	if newID == "" {
		pkg.RespondError(w, http.StatusBadRequest, "new_id is required")
		return
	}
	if newID == oldID {
		pkg.RespondError(w, http.StatusBadRequest, "New id equals the current id")
		return
	}

	room, err := h.loadOrCreate(ctx, name)
	if err != nil {
		log.Error("cannot load room", "error", err, "room", name)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load room")
		return
	}

	plan, ok := room.Tables[oldID]
	if !ok {
		pkg.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}
	if _, exists := room.Tables[newID]; exists {
		pkg.RespondError(w, http.StatusConflict, "Table "+newID+" already exists")
		return
	}

	room.Tables[newID] = plan
	delete(room.Tables, oldID)

	if err := h.repo.Save(ctx, room); err != nil {
		log.Error("cannot save room after rename", "error", err, "room", name)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not save room")
		return
	}

	h.publishTableRenamed(ctx, name, newID, plan.Occupied)

	log.Info("table renamed", "room", name, "old_id", oldID, "new_id", newID)
	pkg.RespondSuccess(w, room)
}

func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	name := chi.URLParam(r, "room")
	id := chi.URLParam(r, "table")

	room, err := h.loadOrCreate(ctx, name)
	if err != nil {
		log.Error("cannot load room", "error", err, "room", name)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load room")
		return
	}

	if _, ok := room.Tables[id]; !ok {
		pkg.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}
	delete(room.Tables, id)

	if err := h.repo.Save(ctx, room); err != nil {
		log.Error("cannot save room after delete", "error", err, "room", name)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not save room")
		return
	}

	log.Info("table deleted", "room", name, "table", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadOrCreate(ctx context.Context, name string) (*Room, error) {
	room, err := h.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if room == nil {
		room = NewRoom(name)
		if err := h.repo.Save(ctx, room); err != nil {
			return nil, err
		}
	}
	if room.Tables == nil {
		room.Tables = make(map[string]*Plan)
	}
	if room.Cols == 0 || room.Rows == 0 {
		room.Cols, room.Rows = GridFor(name)
	}
	return room, nil
}

func (h *Handler) publishTableRenamed(ctx context.Context, room, table string, occupied bool) {
	if h.publisher == nil {
		return
	}

	evt := event.TableStatusEvent{
		EventType:  event.EventTableRenamed,
		OccurredAt: time.Now(),
		Room:       room,
		Table:      table,
		Occupied:   occupied,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("cannot marshal table renamed event", "error", err)
		return
	}
	if err := h.publisher.Publish(ctx, event.TableStatusTopic, payload); err != nil {
		h.logger.Error("cannot publish table renamed event", "error", err)
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	return h.logger.With("request_id", middleware.GetReqID(r.Context()))
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, target any, log *slog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("cannot read request body", "error", err)
		pkg.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}
	if len(body) == 0 {
		return true
	}

	if err := json.Unmarshal(body, target); err != nil {
		log.Debug("cannot decode request body", "error", err)
		pkg.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}
	return true
}
