package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexhuynh/fit-outreach/internal/clock"
	"github.com/alexhuynh/fit-outreach/internal/config"
	"github.com/alexhuynh/fit-outreach/internal/infra/database"
	"github.com/alexhuynh/fit-outreach/internal/infra/http/handlers"
	"github.com/alexhuynh/fit-outreach/internal/infra/http/middleware"
	"github.com/alexhuynh/fit-outreach/internal/infra/integration/msgraph"
	"github.com/alexhuynh/fit-outreach/internal/infra/integration/twilio"
	"github.com/alexhuynh/fit-outreach/internal/infra/mail"
	"github.com/alexhuynh/fit-outreach/internal/infra/worker"
	"github.com/alexhuynh/fit-outreach/internal/leadstore"
	"github.com/alexhuynh/fit-outreach/internal/ratelimit"
	"github.com/alexhuynh/fit-outreach/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.Real{}

	graph := msgraph.NewClient(
		cfg.GraphTenantID, cfg.GraphClientID, cfg.GraphClientSecret,
		cfg.WorkbookID, cfg.WorksheetName, cfg.SenderEmail, cfg.SenderName,
	)

	needGraph := cfg.LeadStoreProvider != "postgres" || cfg.EmailProvider == "graph"
	if needGraph {
		if err := graph.Authenticate(ctx); err != nil {
			log.Fatalf("❌ Microsoft Graph authentication failed: %v", err)
		}
	}

	var (
		provider leadstore.RowProvider = graph
		db       *sql.DB
	)
	if cfg.LeadStoreProvider == "postgres" {
		db, err = database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Database connection failed: %v", err)
		}
		defer db.Close()
		provider = database.NewLeadRepository(db)
	}

	var emailTransport usecase.EmailTransport = graph
	var mailbox usecase.InboundSource = graph
	if cfg.EmailProvider == "smtp" {
		emailTransport = mail.NewSMTPSender(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
			cfg.SenderEmail, cfg.SenderName,
		)
		if !needGraph {
			mailbox = nil
		}
	}

	twilioClient := twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	var smsInbox usecase.InboundSource
	if cfg.TwilioAccountSID != "" {
		if err := twilioClient.Authenticate(ctx); err != nil {
			log.Fatalf("❌ Twilio authentication failed: %v", err)
		}
		smsInbox = twilioClient
	}

	store := leadstore.NewStore(provider, clk, cfg.FollowUpDelayDays, cfg.BackupDir)

	emailSender := usecase.NewEmailSender(emailTransport, ratelimit.NewLimiter(cfg.EmailRateLimit, clk), clk, cfg)
	smsSender := usecase.NewSMSSender(twilioClient, ratelimit.NewLimiter(cfg.SMSRateLimit, clk), clk, cfg)
	scanner := usecase.NewReplyScanner(mailbox, smsInbox, usecase.KeywordClassifier{}, clk)
	orch := usecase.NewOrchestrator(store, emailSender, smsSender, scanner, clk, cfg.LeadDelay)

	// Scheduled runs replace the external cron when an interval is set.
	if hours, _ := strconv.Atoi(os.Getenv("OUTREACH_INTERVAL_HOURS")); hours > 0 {
		w := worker.NewOutreachWorker(orch, usecase.Options{}, time.Duration(hours)*time.Hour)
		go w.Start(ctx)
	}

	leadHandler := handlers.NewLeadHandler(store)
	statusHandler := handlers.NewStatusHandler(orch)
	healthHandler := handlers.NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Post("/leads", leadHandler.CaptureLead)
	r.Get("/status", statusHandler.Handle)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("🔥 Outreach server listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("❌ %v", err)
	}
}
