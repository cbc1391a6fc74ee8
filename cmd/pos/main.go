package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/muehlenhof/pos/internal/config"
	"github.com/muehlenhof/pos/internal/floorplan"
	"github.com/muehlenhof/pos/internal/menu"
	"github.com/muehlenhof/pos/internal/mongo"
	"github.com/muehlenhof/pos/internal/order"
	"github.com/muehlenhof/pos/internal/printing"
	"github.com/muehlenhof/pos/pkg"
	"github.com/muehlenhof/pos/pkg/logging"
)

const (
	appName    = "pos"
	appVersion = "0.1.0"
)

func main() {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logger := logging.New(cfg.GetStringOrDef("log.level", "info"))

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	baseRepo := mongo.NewBaseRepo(cfg, logger)
	if err := baseRepo.Start(ctx); err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}
	defer func() {
		if err := baseRepo.Stop(context.Background()); err != nil {
			logger.Error("cannot stop base repository", "error", err)
		}
	}()

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	menuRepo := mongo.NewMenuRepo(db)
	orderRepo := mongo.NewOrderRepo(db)
	historyRepo := mongo.NewHistoryRepo(db)
	roomRepo := mongo.NewRoomRepo(db)

	natsURL := cfg.GetStringOrDef("nats.url", "nats://localhost:4222")

	pub, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}
	defer pub.Close()

	sub, err := pkg.NewNATSSubscriber(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}
	defer sub.Close()

	menuCache := menu.NewCache(menuRepo, menu.DefaultSortRules(), logger)
	if err := menuCache.Warm(ctx); err != nil {
		logger.Warn("cannot warm menu cache, serving empty catalog until first update", "error", err)
	}
	menuSub := menu.NewChangeSubscriber(sub, menuCache, logger)
	if err := menuSub.Start(ctx); err != nil {
		log.Fatalf("%s(%s) cannot subscribe to menu events: %v", appName, appVersion, err)
	}

	orderCache := order.NewCache(orderRepo, logger)
	orderSub := order.NewChangeSubscriber(sub, orderCache, logger)
	if err := orderSub.Start(ctx); err != nil {
		log.Fatalf("%s(%s) cannot subscribe to order events: %v", appName, appVersion, err)
	}

	printer := buildPrinter(cfg, logger)

	menuHandler := menu.NewHandler(menuCache, menuRepo, pub, logger)
	floorHandler := floorplan.NewHandler(roomRepo, pub, logger)
	orderHandler := order.NewHandler(order.HandlerDeps{
		Repo:        orderRepo,
		HistoryRepo: historyRepo,
		Tables:      roomRepo,
		Cache:       orderCache,
		MenuCache:   menuCache,
		Printer:     printer,
		Publisher:   pub,
	}, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	menuHandler.RegisterRoutes(r)
	floorHandler.RegisterRoutes(r)
	orderHandler.RegisterRoutes(r)

	port := cfg.GetStringOrDef("web.port", "8080")
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", "app", appName, "version", appVersion, "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped with error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("cannot shut down server", "error", err)
	}

	logger.Info("stopped", "app", appName, "version", appVersion)
}

// buildPrinter assembles the department print router. Mode "spool" writes A4
// pages to a directory instead of talking to ESC/POS devices, which is how a
// workstation without the thermal printers runs.
func buildPrinter(cfg *config.Config, logger *slog.Logger) *printing.Router {
	router := printing.NewRouter(logger)

	if cfg.GetStringOrDef("printing.mode", "escpos") == "spool" {
		dir := cfg.GetStringOrDef("printing.spool.dir", "spool")
		router.Register(menu.DeptBar, printing.NewSpooler(dir, printing.SpoolPageBar, logger))
		router.Register(menu.DeptKitchen, printing.NewSpooler(dir, printing.SpoolPageKitchen, logger))
		return router
	}

	barAddr := cfg.GetStringOrDef("printing.printers.bar", "")
	if barAddr != "" {
		router.Register(menu.DeptBar, printing.NewTCPPrinter(barAddr, logger))
	} else {
		logger.Warn("no bar printer configured, bar tickets will fail")
	}

	kitchenAddr := cfg.GetStringOrDef("printing.printers.kitchen", "")
	if kitchenAddr != "" {
		router.Register(menu.DeptKitchen, printing.NewTCPPrinter(kitchenAddr, logger))
	} else {
		logger.Warn("no kitchen printer configured, kitchen tickets will fail")
	}

	return router
}
