package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"ueconsole/internal/auth"
	"ueconsole/internal/backend"
	"ueconsole/internal/channel"
	"ueconsole/internal/config"
	"ueconsole/internal/db"
	"ueconsole/internal/engine"
	"ueconsole/internal/journal"
	"ueconsole/internal/store"
	"ueconsole/internal/viewer"

	_ "ueconsole/docs"
)

// @title UE Console API
// @version 1.0
// @description Subscriber/line-test console for a telephony core
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg := config.Load(*cfgPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores and engine
	records := store.NewRecordStore()
	calls := store.NewCallStore()
	reconciler := engine.NewReconciler(records, calls)

	client := backend.New(cfg.Backend.BaseURL, cfg.BackendTimeout())
	dispatcher := engine.NewDispatcher(client, records, calls, reconciler)

	// Push channel
	ch := channel.New(cfg.Backend.ChannelURL, reconciler)
	ch.Backoff = cfg.ReconnectBackoff()
	ch.OnOpen = func(ctx context.Context) {
		// Missed pushes are not replayed; a fresh pull restores consistency.
		if _, err := dispatcher.Refresh(ctx); err != nil {
			log.Printf("snapshot after connect failed: %v", err)
		}
	}

	// Optional call journal
	if cfg.Journal.DSN != "" {
		pool, err := db.New(ctx, cfg.Journal.DSN)
		if err != nil {
			log.Fatalf("journal db: %v", err)
		}
		defer pool.Close()

		j := journal.New(pool, ch.InstanceID())
		ch.OnOutcome = func(ctx context.Context, out engine.Outcome) {
			if out.Kind == engine.CallInserted || out.Kind == engine.CallUpdated {
				j.RecordCall(ctx, out.Call, out.Kind)
			}
		}
	}

	go ch.Run(ctx)

	// Viewer API
	h := &viewer.Handler{
		Dispatcher: dispatcher,
		Records:    records,
		Calls:      calls,
	}

	authHandler := &auth.Handler{
		Username:     cfg.Operator.Username,
		PasswordHash: cfg.Operator.PasswordHash,
		Secret:       cfg.JWT.Secret,
		TTL:          time.Minute * time.Duration(cfg.JWT.TTLMinutes),
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
		AllowedMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	// Public routes
	r.Post("/api/auth/login", authHandler.Login)
	r.Get("/ws/monitor", viewer.Monitor(dispatcher, records, calls, cfg.JWT.Secret))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.JWT.Secret))

		r.Get("/api/state", h.GetState)
		r.Post("/api/refresh", h.Refresh)
		r.Post("/api/config", h.SaveConfig)

		r.Post("/api/subscribers", h.SaveSubscriber)
		r.Delete("/api/subscribers", h.DeleteSubscribers)
		r.Put("/api/register", h.Register(false))
		r.Put("/api/unregister", h.Register(true))
		r.Put("/api/call", h.PlaceCall)

		r.Get("/api/calls", h.GetCalls)
		r.Post("/api/calls/refresh", h.RefreshCalls)
		r.Post("/api/calls/clear", h.ClearCalls)
		r.Post("/api/callAction", h.CallAction)

		r.Get("/api/stats", h.Stats)
	})

	// Swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("console listening on %s", cfg.HTTP.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
