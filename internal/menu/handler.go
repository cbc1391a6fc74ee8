package menu

import (
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
	cache     *Cache
	repo      Repo
	publisher pkg.Publisher
	logger    *slog.Logger
}

func NewHandler(cache *Cache, repo Repo, publisher pkg.Publisher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Handler{cache: cache, repo: repo, publisher: publisher, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Get("/", h.GetCatalog)
		r.Put("/", h.ReplaceMenu)
		r.Get("/rows", h.GetRows)
	})
}

// GetCatalog returns the full display-ready catalog.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	pkg.RespondSuccess(w, h.cache.Catalog())
}

// GetRows returns the flattened accordion view for the given tab and open
// state. The accordion is client view state, passed in as query parameters.
func (h *Handler) GetRows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tab := Tab(q.Get("tab"))
	if tab == "" {
		tab = TabDrinks
	}
	if tab != TabDrinks && tab != TabFoods {
		pkg.RespondError(w, http.StatusBadRequest, "Invalid tab")
		return
	}

	acc := NewAccordion()
	acc.OpenCategory = q.Get("category")
	acc.OpenFoodGroup = q.Get("group")
	for _, p := range strings.Split(q.Get("paths"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			acc.OpenPaths[p] = struct{}{}
		}
	}

	rows := h.cache.Catalog().Rows(tab, acc)
	pkg.RespondCollection(w, rows, "menu-row")
}

// ReplaceMenu stores a new raw menu document and announces the change so every
// client rebuilds its catalog from the fresh snapshot.
func (h *Handler) ReplaceMenu(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()

	doc, ok := h.decodeMenuPayload(w, r, log)
	if !ok {
		return
	}

	if err := h.repo.Put(ctx, doc); err != nil {
		log.Error("cannot store menu document", "error", err)
		pkg.RespondError(w, http.StatusInternalServerError, "Could not store menu")
		return
	}

	h.publishMenuChanged(r)

	if err := h.cache.Refresh(ctx); err != nil {
		log.Info("menu cache refresh after write failed", "error", err)
	}

	pkg.RespondSuccess(w, h.cache.Catalog())
}

func (h *Handler) publishMenuChanged(r *http.Request) {
	if h.publisher == nil {
		return
	}

	evt := event.MenuChangedEvent{
		EventType:  event.EventMenuUpdated,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}
	if err := h.publisher.Publish(r.Context(), event.MenuTopic, payload); err != nil {
		h.log(r).Info("cannot publish menu change", "error", err)
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	return h.logger.With("request_id", middleware.GetReqID(r.Context()))
}

func (h *Handler) decodeMenuPayload(w http.ResponseWriter, r *http.Request, log *slog.Logger) (map[string]any, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		pkg.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return nil, false
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		pkg.RespondError(w, http.StatusBadRequest, "Request body is empty")
		return nil, false
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		log.Debug("error decoding JSON", "error", err)
		pkg.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return nil, false
	}

	return doc, true
}
