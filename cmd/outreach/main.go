package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alexhuynh/fit-outreach/internal/clock"
	"github.com/alexhuynh/fit-outreach/internal/config"
	"github.com/alexhuynh/fit-outreach/internal/entity"
	"github.com/alexhuynh/fit-outreach/internal/infra/database"
	"github.com/alexhuynh/fit-outreach/internal/infra/integration/msgraph"
	"github.com/alexhuynh/fit-outreach/internal/infra/integration/twilio"
	"github.com/alexhuynh/fit-outreach/internal/infra/mail"
	"github.com/alexhuynh/fit-outreach/internal/leadstore"
	"github.com/alexhuynh/fit-outreach/internal/ratelimit"
	"github.com/alexhuynh/fit-outreach/internal/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		mode      string
		emailOnly bool
		smsOnly   bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:           "outreach",
		Short:         "Cold outreach automation for personal training leads",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if emailOnly && smsOnly {
				return fmt.Errorf("--email-only and --sms-only are mutually exclusive")
			}

			godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Interrupts cancel between leads; rows already written stay.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := buildApp(ctx, cfg, dryRun)
			if err != nil {
				return err
			}
			defer app.Close()

			opts := usecase.Options{EmailOnly: emailOnly, SMSOnly: smsOnly}
			return app.run(ctx, mode, opts)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "both", "new | follow-up | both | status | check-responses")
	cmd.Flags().BoolVar(&emailOnly, "email-only", false, "send emails only")
	cmd.Flags().BoolVar(&smsOnly, "sms-only", false, "send SMS only")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log what would happen without sending or writing")

	return cmd
}

type app struct {
	orch *usecase.Orchestrator
	db   *sql.DB
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

func buildApp(ctx context.Context, cfg *config.Config, dryRun bool) (*app, error) {
	// Previews skip the pacing sleeps; nothing is sent, so there is
	// nothing to throttle.
	var clk clock.Clock = clock.Real{}
	if dryRun {
		clk = clock.NoSleep{}
	}

	graph := msgraph.NewClient(
		cfg.GraphTenantID, cfg.GraphClientID, cfg.GraphClientSecret,
		cfg.WorkbookID, cfg.WorksheetName, cfg.SenderEmail, cfg.SenderName,
	)

	needGraph := cfg.LeadStoreProvider != "postgres" || cfg.EmailProvider == "graph"
	if needGraph {
		if err := graph.Authenticate(ctx); err != nil {
			return nil, fmt.Errorf("microsoft graph authentication failed: %w", err)
		}
	}

	var (
		provider leadstore.RowProvider = graph
		db       *sql.DB
	)
	if cfg.LeadStoreProvider == "postgres" {
		var err error
		db, err = database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
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
			// SMTP has no inbox to poll; email replies go unchecked.
			mailbox = nil
		}
	}

	twilioClient := twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	var smsInbox usecase.InboundSource
	if cfg.TwilioAccountSID != "" {
		if err := twilioClient.Authenticate(ctx); err != nil {
			return nil, fmt.Errorf("twilio authentication failed: %w", err)
		}
		smsInbox = twilioClient
	}

	var store usecase.LeadStore = leadstore.NewStore(provider, clk, cfg.FollowUpDelayDays, cfg.BackupDir)

	var email usecase.ChannelSender = usecase.NewEmailSender(
		emailTransport, ratelimit.NewLimiter(cfg.EmailRateLimit, clk), clk, cfg)
	var sms usecase.ChannelSender = usecase.NewSMSSender(
		twilioClient, ratelimit.NewLimiter(cfg.SMSRateLimit, clk), clk, cfg)

	if dryRun {
		log.Println("🔎 DRY RUN: no messages will be sent, no rows will be written")
		store = dryRunStore{store}
		email = dryRunSender{channel: entity.ChannelEmail}
		sms = dryRunSender{channel: entity.ChannelSMS}
	}

	scanner := usecase.NewReplyScanner(mailbox, smsInbox, usecase.KeywordClassifier{}, clk)
	orch := usecase.NewOrchestrator(store, email, sms, scanner, clk, cfg.LeadDelay)

	return &app{orch: orch, db: db}, nil
}

func (a *app) run(ctx context.Context, mode string, opts usecase.Options) error {
	switch mode {
	case "new":
		stats, err := a.orch.ProcessNewLeads(ctx, opts)
		if err != nil {
			return err
		}
		printRunStats("NEW LEAD RUN", stats)

	case "follow-up":
		stats, err := a.orch.ProcessFollowUps(ctx, opts)
		if err != nil {
			return err
		}
		printRunStats("FOLLOW-UP RUN", stats)

	case "both":
		stats, err := a.orch.ProcessNewLeads(ctx, opts)
		if err != nil {
			return err
		}
		printRunStats("NEW LEAD RUN", stats)

		if ctx.Err() == nil {
			stats, err = a.orch.ProcessFollowUps(ctx, opts)
			if err != nil {
				return err
			}
			printRunStats("FOLLOW-UP RUN", stats)
		}

	case "status":
		status, err := a.orch.GetSystemStatus(ctx)
		if err != nil {
			return err
		}
		printStatus(status)

	case "check-responses":
		printResponseStats(a.orch.CheckResponses(ctx))

	default:
		return fmt.Errorf("unknown mode %q (want new, follow-up, both, status or check-responses)", mode)
	}

	if ctx.Err() != nil {
		log.Println("⚠️ Interrupted, partial results above")
	}
	return nil
}

const divider = "=================================================="

func printRunStats(title string, stats usecase.RunStats) {
	fmt.Println(divider)
	fmt.Printf("%s COMPLETE\n", title)
	fmt.Println(divider)
	fmt.Printf("Leads processed: %d\n", stats.Processed)
	fmt.Printf("Emails sent:     %d\n", stats.EmailSent)
	fmt.Printf("SMS sent:        %d\n", stats.SMSSent)
	fmt.Printf("Errors:          %d\n", stats.Errors)
	fmt.Printf("Run id:          %s\n", stats.RunID)
}

func printResponseStats(stats usecase.ResponseStats) {
	fmt.Println(divider)
	fmt.Println("RESPONSE CHECK COMPLETE")
	fmt.Println(divider)
	fmt.Printf("Email replies: %d\n", stats.EmailReplies)
	fmt.Printf("SMS replies:   %d\n", stats.SMSReplies)
	fmt.Printf("Unsubscribes:  %d\n", stats.Unsubscribes)
}

func printStatus(status usecase.SystemStatus) {
	fmt.Println(divider)
	fmt.Println("SYSTEM STATUS")
	fmt.Println(divider)
	fmt.Printf("Time:        %s\n", status.Timestamp)
	fmt.Printf("Total leads: %d\n", status.TotalLeads)

	statuses := make([]string, 0, len(status.StatusBreakdown))
	for s := range status.StatusBreakdown {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Printf("  %-15s %d\n", s+":", status.StatusBreakdown[s])
	}

	fmt.Printf("Email: %d/%d this hour (can send more: %t)\n",
		status.EmailService.SentThisHour, status.EmailService.RateLimit, status.EmailService.CanSendMore)
	fmt.Printf("SMS:   %d/%d this hour (can send more: %t)\n",
		status.SMSService.SentThisHour, status.SMSService.RateLimit, status.SMSService.CanSendMore)
	fmt.Printf("Follow-ups pending: %d\n", status.FollowUpsPending)
}

// dryRunSender pretends every send succeeded.
type dryRunSender struct {
	channel string
}

func (d dryRunSender) Send(_ context.Context, to, templateType string, _ entity.Lead) (bool, error) {
	log.Printf("🔎 DRY RUN: would send %s (%s) to %s", d.channel, templateType, to)
	return true, nil
}

func (d dryRunSender) Stats() usecase.ChannelStats { return usecase.ChannelStats{} }

// dryRunStore passes reads through and swallows writes.
type dryRunStore struct {
	usecase.LeadStore
}

func (s dryRunStore) MarkContacted(_ context.Context, rowNumber int, channel string) error {
	log.Printf("🔎 DRY RUN: would mark row %d contacted via %s", rowNumber, channel)
	return nil
}

func (s dryRunStore) MarkFollowUpSent(_ context.Context, rowNumber int, channel string) error {
	log.Printf("🔎 DRY RUN: would mark row %d follow-up sent via %s", rowNumber, channel)
	return nil
}

func (s dryRunStore) MarkUnsubscribed(_ context.Context, rowNumber int, reason string) error {
	log.Printf("🔎 DRY RUN: would mark row %d unsubscribed (%s)", rowNumber, reason)
	return nil
}

func (s dryRunStore) CreateBackup(context.Context) (string, error) {
	log.Println("🔎 DRY RUN: skipping backup")
	return "dry-run", nil
}

func (s dryRunStore) AppendLead(_ context.Context, lead *entity.Lead) error {
	log.Printf("🔎 DRY RUN: would append lead %s", lead.Name)
	return nil
}
