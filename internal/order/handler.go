package order

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

	"github.com/muehlenhof/pos/internal/menu"
	"github.com/muehlenhof/pos/internal/printing"
	"github.com/muehlenhof/pos/internal/receipt"
	"github.com/muehlenhof/pos/pkg"
	"github.com/muehlenhof/pos/pkg/event"
	"github.com/muehlenhof/pos/pkg/logging"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	logger      *slog.Logger
	repo        Repo
	historyRepo HistoryRepo
	tables      TableStatus
	cache       *Cache
	menuCache   *menu.Cache
	printer     *printing.Router
	publisher   pkg.Publisher
}

type HandlerDeps struct {
	Repo        Repo
	HistoryRepo HistoryRepo
	Tables      TableStatus
	Cache       *Cache
	MenuCache   *menu.Cache
	Printer     *printing.Router
	Publisher   pkg.Publisher
}

func NewHandler(hd HandlerDeps, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Handler{
		logger:      logger,
		repo:        hd.Repo,
		historyRepo: hd.HistoryRepo,
		tables:      hd.Tables,
		cache:       hd.Cache,
		menuCache:   hd.MenuCache,
		printer:     hd.Printer,
		publisher:   hd.Publisher,
	}
}

// RegisterRoutes attaches the order endpoints. Registered flat because the
// floor plan owns the /rooms subtree on the same router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	const base = "/rooms/{room}/tables/{table}/order"
	r.Get(base, h.GetOrder)
	r.Post(base+"/items", h.AddItem)
	r.Post(base+"/items/{key}/increment", h.IncrementLine)
	r.Post(base+"/items/{key}/decrement", h.DecrementLine)
	r.Put(base+"/items/{key}/note", h.SetNote)
	r.Post(base+"/send", h.SendOrder)
	r.Post(base+"/pay", h.PayOrder)
	r.Post(base+"/split", h.SplitPay)
	r.Get(base+"/history", h.ListHistory)
}

// OrderView is the order as the terminal shows it.
type OrderView struct {
	Room     string        `json:"room"`
	Table    string        `json:"table"`
	Lines    []DisplayLine `json:"lines"`
	Total    float64       `json:"total"`
	Occupied bool          `json:"occupied"`
}

func viewOf(room, table string, o *Order) OrderView {
	view := OrderView{Room: room, Table: table, Lines: []DisplayLine{}}
	if o != nil {
		view.Lines = o.VisibleLines()
		view.Total = o.Total()
		view.Occupied = o.Occupied()
	}
	return view
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	room, table := tableParams(r)

	o, err := h.cache.Get(ctx, room, table)
	if err != nil {
		log.Error("cannot load order", "error", err, "room", room, "table", table)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load order")
		return
	}

	pkg.RespondSuccess(w, viewOf(room, table, o))
}

type AddItemRequest struct {
	ItemID   string `json:"item_id"`
	Size     string `json:"size,omitempty"`
	Tab      string `json:"tab,omitempty"`
	Category string `json:"category,omitempty"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	room, table := tableParams(r)

	var req AddItemRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}
	if strings.TrimSpace(req.ItemID) == "" {
		pkg.RespondError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	catalog := h.menuCache.Catalog()
	item, ok := catalog.ItemByID(req.ItemID)
	if !ok {
		log.Debug("unknown menu item", "item_id", req.ItemID)
		pkg.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	price := item.Price
	if req.Size != "" {
		size, ok := sizeOf(item, req.Size)
		if !ok {
			pkg.RespondError(w, http.StatusBadRequest, "Unknown size for item")
			return
		}
		price = size.Price
	}

	route, ok := catalog.RouteFor(req.ItemID)
	if !ok {
		route = fallbackRoute(req.Tab, req.Category)
	}

	o, err := h.loadOrCreate(ctx, room, table)
	if err != nil {
		log.Error("cannot load order", "error", err, "room", room, "table", table)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load order")
		return
	}

	now := time.Now()
	key := LineKey(req.ItemID, req.Size)
	eventType := event.EventOrderItemAdded

	if line, exists := o.Items[key]; exists {
		line.Qty++
		line.LastAddedAt = now
		if route.Dept == menu.DeptKitchen && route.Course != "" {
			line.Course = route.Course
		}
		eventType = event.EventOrderItemUpdated
	} else {
		o.Items[key] = &Line{
			Name:        item.Name,
			Price:       price,
			Qty:         1,
			Dept:        route.Dept,
			Size:        req.Size,
			Course:      route.Course,
			LastAddedAt: now,
		}
	}
	o.UpdatedAt = now

	if !h.persist(w, ctx, o, log) {
		return
	}
	h.syncOccupied(ctx, o, log)
	h.publishOrderChanged(ctx, eventType, room, table, key)

	pkg.RespondSuccess(w, viewOf(room, table, o))
}

func (h *Handler) IncrementLine(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	room, table := tableParams(r)
	key := chi.URLParam(r, "key")

	o, line, ok := h.loadLine(w, ctx, room, table, key, log)
	if !ok {
		return
	}

	line.Qty++
	line.LastAddedAt = time.Now()
	o.UpdatedAt = line.LastAddedAt

	if !h.persist(w, ctx, o, log) {
		return
	}
	h.publishOrderChanged(ctx, event.EventOrderItemUpdated, room, table, key)

	pkg.RespondSuccess(w, viewOf(room, table, o))
}

type DecrementRequest struct {
	Confirm bool `json:"confirm,omitempty"`
}

// DecrementLine reduces a line's quantity. Dropping the last unit needs an
// explicit confirm; the line then stays at qty 0 so the next send can print
// the cancellation.
func (h *Handler) DecrementLine(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	room, table := tableParams(r)
	key := chi.URLParam(r, "key")

	var req DecrementRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	o, line, ok := h.loadLine(w, ctx, room, table, key, log)
	if !ok {
		return
	}

	switch {
	case line.Qty > 1:
		line.Qty--
	case line.Qty == 1 && req.Confirm:
		line.Qty = 0
	case line.Qty == 1:
		pkg.RespondError(w, http.StatusConflict, "Removing the last unit requires confirm")
		return
	default:
		pkg.RespondError(w, http.StatusBadRequest, "Line is already empty")
		return
	}
	o.UpdatedAt = time.Now()

	if !h.persist(w, ctx, o, log) {
		return
	}
	h.syncOccupied(ctx, o, log)
	h.publishOrderChanged(ctx, event.EventOrderItemUpdated, room, table, key)

	pkg.RespondSuccess(w, viewOf(room, table, o))
}

type NoteRequest struct {
	Note string `json:"note"`
}

func (h *Handler) SetNote(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	room, table := tableParams(r)
	key := chi.URLParam(r, "key")

	var req NoteRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	o, line, ok := h.loadLine(w, ctx, room, table, key, log)
	if !ok {
		return
	}

	line.Note = strings.TrimSpace(req.Note)
	o.UpdatedAt = time.Now()

	if !h.persist(w, ctx, o, log) {
		return
	}
	h.publishOrderChanged(ctx, event.EventOrderItemUpdated, room, table, key)

	pkg.RespondSuccess(w, viewOf(room, table, o))
}

// SendResult reports what a send printed.
type SendResult struct {
	Tickets int  `json:"tickets"`
	Sent    bool `json:"sent"`
}

// SendOrder prints the delta since the last send and records the new sent
// quantities. Quantities only advance after every ticket printed, so a failed
// print leaves the whole delta pending for the next attempt.
func (h *Handler) SendOrder(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	room, table := tableParams(r)

	o, err := h.repo.Get(ctx, room, table)
	if err != nil {
		log.Error("cannot load order", "error", err, "room", room, "table", table)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load order")
		return
	}
	if o == nil {
		pkg.RespondError(w, http.StatusNotFound, "No open order for table")
		return
	}

	plan := PlanSend(o)
	if plan.Empty() {
		pkg.RespondSuccess(w, SendResult{Tickets: 0, Sent: false})
		return
	}

	for _, t := range plan.Tickets {
		job := receipt.Build(table, room, t.Section, t.Hint, t.Items)
		if err := h.printer.Print(ctx, t.Dept, job); err != nil {
			log.Error("cannot print ticket", "error", err, "dept", t.Dept, "room", room, "table", table)
			pkg.RespondError(w, http.StatusBadGateway, "Could not print order")
			return
		}
	}

	ApplyOrderedQty(o, plan.Advance)
	o.UpdatedAt = time.Now()

	if !h.persist(w, ctx, o, log) {
		return
	}
	h.publishOrderChanged(ctx, event.EventOrderSent, room, table, "")

	log.Info("order sent", "room", room, "table", table, "tickets", len(plan.Tickets))
	pkg.RespondSuccess(w, SendResult{Tickets: len(plan.Tickets), Sent: true})
}

// PayOrder archives the open order and frees the table. Archive, delete and
// occupied flag run in that sequence; a failure mid-way leaves the order in
// place so closing can be retried.
func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	room, table := tableParams(r)

	o, err := h.repo.Get(ctx, room, table)
	if err != nil {
		log.Error("cannot load order", "error", err, "room", room, "table", table)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load order")
		return
	}
	if o == nil || !o.Occupied() {
		pkg.RespondError(w, http.StatusBadRequest, "Order is empty")
		return
	}

	rec := NewHistoryRecord(o, time.Now())
	if err := h.historyRepo.Create(ctx, rec); err != nil {
		log.Error("cannot archive order", "error", err, "room", room, "table", table)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not archive order")
		return
	}

	if err := h.repo.Delete(ctx, room, table); err != nil {
		log.Error("cannot clear order after archiving", "error", err, "room", room, "table", table)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not clear order")
		return
	}

	if h.tables != nil {
		if err := h.tables.SetOccupied(ctx, room, table, false); err != nil {
			log.Error("cannot free table", "error", err, "room", room, "table", table)
		} else {
			h.publishTableStatus(ctx, room, table, false)
		}
	}

	h.cache.Drop(room, table)
	h.publishOrderChanged(ctx, event.EventOrderClosed, room, table, "")

	log.Info("order paid and archived", "room", room, "table", table, "history_id", rec.ID.String())
	pkg.RespondSuccess(w, rec)
}

type SplitPayRequest struct {
	Items []SplitPayItem `json:"items"`
}

type SplitPayItem struct {
	Key string `json:"key"`
	Qty int    `json:"qty"`
}

// SplitPayResult reports a partial payment.
type SplitPayResult struct {
	PaidAmount float64   `json:"paid_amount"`
	Order      OrderView `json:"order"`
}

// SplitPay takes a partial payment: the selected quantities are paid and
// removed from their lines, floored at zero. The table stays open while
// anything remains.
func (h *Handler) SplitPay(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	room, table := tableParams(r)

	var req SplitPayRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	var selected []SplitPayItem
	for _, it := range req.Items {
		if it.Qty > 0 {
			selected = append(selected, it)
		}
	}
	if len(selected) == 0 {
		pkg.RespondError(w, http.StatusBadRequest, "No positions selected")
		return
	}

	o, err := h.repo.Get(ctx, room, table)
	if err != nil {
		log.Error("cannot load order", "error", err, "room", room, "table", table)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load order")
		return
	}
	if o == nil {
		pkg.RespondError(w, http.StatusNotFound, "No open order for table")
		return
	}

	var paid float64
	for _, it := range selected {
		line, ok := o.Items[it.Key]
		if !ok || !line.Visible() {
			pkg.RespondError(w, http.StatusBadRequest, "Unknown order line: "+it.Key)
			return
		}

		payQty := it.Qty
		if payQty > line.Qty {
			payQty = line.Qty
		}
		paid += line.Price * float64(payQty)
		line.Qty -= payQty
	}
	o.UpdatedAt = time.Now()

	if !h.persist(w, ctx, o, log) {
		return
	}
	h.syncOccupied(ctx, o, log)
	h.publishOrderChanged(ctx, event.EventOrderItemUpdated, room, table, "")

	log.Info("partial payment taken", "room", room, "table", table, "amount", paid)
	pkg.RespondSuccess(w, SplitPayResult{PaidAmount: paid, Order: viewOf(room, table, o)})
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()
	room, table := tableParams(r)

	records, err := h.historyRepo.ListByTable(ctx, room, table)
	if err != nil {
		log.Error("cannot list order history", "error", err, "room", room, "table", table)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not retrieve order history")
		return
	}

	pkg.RespondCollection(w, records, "order-history")
}

// Helpers

func tableParams(r *http.Request) (room, table string) {
	return chi.URLParam(r, "room"), chi.URLParam(r, "table")
}

func sizeOf(item menu.Item, label string) (menu.Size, bool) {
	for _, s := range item.Sizes {
		if s.Label == label {
			return s, true
		}
	}
	return menu.Size{}, false
}

func fallbackRoute(tab, category string) menu.Route {
	if tab == "foods" {
		return menu.Route{Dept: menu.DeptKitchen, Course: menu.CourseForCategory(category)}
	}
	return menu.Route{Dept: menu.DeptBar}
}

func (h *Handler) loadOrCreate(ctx context.Context, room, table string) (*Order, error) {
	o, err := h.repo.Get(ctx, room, table)
	if err != nil {
		return nil, err
	}
	if o == nil {
		o = NewOrder(room, table)
		o.CreatedAt = time.Now()
	}
	if o.Items == nil {
		o.Items = make(map[string]*Line)
	}
	return o, nil
}

func (h *Handler) loadLine(w http.ResponseWriter, ctx context.Context, room, table, key string, log *slog.Logger) (*Order, *Line, bool) {
	o, err := h.repo.Get(ctx, room, table)
	if err != nil {
		log.Error("cannot load order", "error", err, "room", room, "table", table)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not load order")
		return nil, nil, false
	}
	if o == nil {
		pkg.RespondError(w, http.StatusNotFound, "No open order for table")
		return nil, nil, false
	}
	line, ok := o.Items[key]
	if !ok {
		pkg.RespondError(w, http.StatusNotFound, "Order line not found")
		return nil, nil, false
	}
	return o, line, true
}

func (h *Handler) persist(w http.ResponseWriter, ctx context.Context, o *Order, log *slog.Logger) bool {
	if err := h.repo.Save(ctx, o); err != nil {
		log.Error("cannot save order", "error", err, "id", o.ID)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not save order")
		return false
	}
	if _, err := h.cache.Refresh(ctx, o.Room, o.Table); err != nil {
		log.Info("order cache refresh after write failed", "error", err)
	}
	return true
}

// syncOccupied mirrors the order state onto the floor plan after every
// mutation, so the room view always matches the bills.
func (h *Handler) syncOccupied(ctx context.Context, o *Order, log *slog.Logger) {
	if h.tables == nil {
		return
	}
	occupied := o.Occupied()
	if err := h.tables.SetOccupied(ctx, o.Room, o.Table, occupied); err != nil {
		log.Info("cannot sync occupied flag", "error", err, "room", o.Room, "table", o.Table)
		return
	}
	h.publishTableStatus(ctx, o.Room, o.Table, occupied)
}

func (h *Handler) publishTableStatus(ctx context.Context, room, table string, occupied bool) {
	if h.publisher == nil {
		return
	}

	eventType := event.EventTableFreed
	if occupied {
		eventType = event.EventTableOccupied
	}
	evt := event.TableStatusEvent{
		EventType:  eventType,
		OccurredAt: time.Now(),
		Room:       room,
		Table:      table,
		Occupied:   occupied,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("cannot marshal table status event", "error", err)
		return
	}
	if err := h.publisher.Publish(ctx, event.TableStatusTopic, payload); err != nil {
		h.logger.Error("cannot publish table status event", "error", err)
	}
}

func (h *Handler) publishOrderChanged(ctx context.Context, eventType, room, table, lineKey string) {
	if h.publisher == nil {
		return
	}

	evt := event.OrderChangedEvent{
		EventType:  eventType,
		OccurredAt: time.Now(),
		Room:       room,
		Table:      table,
		LineKey:    lineKey,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("cannot marshal order change event", "error", err)
		return
	}
	if err := h.publisher.Publish(ctx, event.OrderItemsTopic, payload); err != nil {
		h.logger.Error("cannot publish order change event", "error", err)
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
