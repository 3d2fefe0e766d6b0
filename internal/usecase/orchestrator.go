package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexhuynh/fit-outreach/internal/clock"
	"github.com/alexhuynh/fit-outreach/internal/entity"
)

// Message template types.
const (
	TemplateInitial  = "initial"
	TemplateFollowUp = "follow_up"
)

// ReplyChecker is what the orchestrator needs from the reply scanner.
type ReplyChecker interface {
	CheckReplies(ctx context.Context) (email, sms []entity.Reply)
}

// Orchestrator drives the lead lifecycle: new-lead pass, follow-up pass and
// response-check pass. Strictly sequential; per-lead failures are logged,
// tallied and never abort the batch.
type Orchestrator struct {
	store     LeadStore
	email     ChannelSender
	sms       ChannelSender
	scanner   ReplyChecker
	clk       clock.Clock
	leadDelay time.Duration
}

func NewOrchestrator(store LeadStore, email, sms ChannelSender, scanner ReplyChecker, clk clock.Clock, leadDelay time.Duration) *Orchestrator {
	return &Orchestrator{
		store:     store,
		email:     email,
		sms:       sms,
		scanner:   scanner,
		clk:       clk,
		leadDelay: leadDelay,
	}
}

// ProcessNewLeads sends initial outreach to every lead with status New.
// A backup snapshot is written first; if that fails the run aborts, since
// without a backup there is no safe recovery.
func (o *Orchestrator) ProcessNewLeads(ctx context.Context, opts Options) (RunStats, error) {
	log.Println("🚀 Starting new lead processing")
	stats := RunStats{RunID: uuid.New().String()}

	if _, err := o.store.CreateBackup(ctx); err != nil {
		return stats, &TechnicalError{Code: "backup_failed", Message: fmt.Sprintf("backup failed, aborting run: %v", err)}
	}

	leads, err := o.store.GetLeadsByStatus(ctx, entity.StatusNew)
	if err != nil {
		return stats, err
	}
	if len(leads) == 0 {
		log.Println("No new leads found")
		return stats, nil
	}
	log.Printf("Found %d new leads to process", len(leads))

	o.runPass(ctx, leads, TemplateInitial, opts, o.store.MarkContacted, &stats)

	log.Printf("✅ New lead pass done: processed=%d email=%d sms=%d errors=%d (run %s)",
		stats.Processed, stats.EmailSent, stats.SMSSent, stats.Errors, stats.RunID)
	return stats, nil
}

// ProcessFollowUps sends follow-up outreach to leads contacted at least the
// configured number of days ago with no response and no follow-up yet.
func (o *Orchestrator) ProcessFollowUps(ctx context.Context, opts Options) (RunStats, error) {
	log.Println("🔁 Starting follow-up processing")
	stats := RunStats{RunID: uuid.New().String()}

	if _, err := o.store.CreateBackup(ctx); err != nil {
		return stats, &TechnicalError{Code: "backup_failed", Message: fmt.Sprintf("backup failed, aborting run: %v", err)}
	}

	leads, err := o.store.GetLeadsForFollowUp(ctx)
	if err != nil {
		return stats, err
	}
	if len(leads) == 0 {
		log.Println("No leads need follow-up at this time")
		return stats, nil
	}
	log.Printf("Found %d leads needing follow-up", len(leads))

	o.runPass(ctx, leads, TemplateFollowUp, opts, o.store.MarkFollowUpSent, &stats)

	log.Printf("✅ Follow-up pass done: processed=%d email=%d sms=%d errors=%d (run %s)",
		stats.Processed, stats.EmailSent, stats.SMSSent, stats.Errors, stats.RunID)
	return stats, nil
}

// runPass walks one batch. An interrupt cancels between leads; whatever was
// already written stays written, there is no rollback.
func (o *Orchestrator) runPass(ctx context.Context, leads []entity.Lead, templateType string, opts Options, mark func(context.Context, int, string) error, stats *RunStats) {
	for _, lead := range leads {
		if ctx.Err() != nil {
			log.Printf("⚠️ Pass interrupted after %d of %d leads", stats.Processed, len(leads))
			return
		}

		o.contactLead(ctx, lead, templateType, opts, mark, stats)
		stats.Processed++

		o.clk.Sleep(o.leadDelay)
	}
}

// contactLead sends on every active channel the lead is reachable on and
// marks the lead through whichever channel succeeded, email preferred.
func (o *Orchestrator) contactLead(ctx context.Context, lead entity.Lead, templateType string, opts Options, mark func(context.Context, int, string) error, stats *RunStats) {
	name := lead.Name
	if name == "" {
		name = "Unknown"
	}
	log.Printf("Processing lead: %s (row %d)", name, lead.RowNumber)

	emailSent := false
	if !opts.SMSOnly && lead.Email != "" {
		sent, err := o.email.Send(ctx, lead.Email, templateType, lead)
		switch {
		case err != nil:
			log.Printf("❌ Email to %s failed: %v", name, err)
			stats.Errors++
		case sent:
			stats.EmailSent++
			emailSent = true
			if err := mark(ctx, lead.RowNumber, entity.ChannelEmail); err != nil {
				log.Printf("❌ Failed to mark %s (row %d): %v", name, lead.RowNumber, err)
				stats.Errors++
			}
		}
	}

	if !opts.EmailOnly && lead.Phone != "" {
		sent, err := o.sms.Send(ctx, lead.Phone, templateType, lead)
		switch {
		case err != nil:
			log.Printf("❌ SMS to %s failed: %v", name, err)
			stats.Errors++
		case sent:
			stats.SMSSent++
			if !emailSent {
				if err := mark(ctx, lead.RowNumber, entity.ChannelSMS); err != nil {
					log.Printf("❌ Failed to mark %s (row %d): %v", name, lead.RowNumber, err)
					stats.Errors++
				}
			}
		}
	}
}

// CheckResponses scans both channels and reconciles opt-outs into the
// store. Provider failures shrink the result instead of failing the pass.
func (o *Orchestrator) CheckResponses(ctx context.Context) ResponseStats {
	log.Println("📨 Checking for responses")

	email, sms := o.scanner.CheckReplies(ctx)
	stats := ResponseStats{
		EmailReplies: len(email),
		SMSReplies:   len(sms),
	}

	for _, reply := range append(append([]entity.Reply{}, email...), sms...) {
		if !reply.IsOptOut() {
			continue
		}
		stats.Unsubscribes++
		o.processUnsubscribe(ctx, reply)
	}

	log.Printf("✅ Response check done: email=%d sms=%d unsubscribes=%d",
		stats.EmailReplies, stats.SMSReplies, stats.Unsubscribes)
	return stats
}

// processUnsubscribe linear-scans the lead list for the reply's contact
// string and marks the first match. Fine at this scale; an index keyed by
// normalized contact would replace it if lead volume grows.
func (o *Orchestrator) processUnsubscribe(ctx context.Context, reply entity.Reply) {
	leads, err := o.store.GetAllLeads(ctx)
	if err != nil {
		log.Printf("❌ Could not load leads to process unsubscribe from %s: %v", reply.From, err)
		return
	}

	for _, lead := range leads {
		if !matchesContact(lead, reply.From) {
			continue
		}
		if err := o.store.MarkUnsubscribed(ctx, lead.RowNumber, "Via "+reply.Type); err != nil {
			log.Printf("❌ Failed to mark %s (row %d) unsubscribed: %v", lead.Name, lead.RowNumber, err)
			return
		}
		log.Printf("🚫 Marked %s (row %d) as unsubscribed", lead.Name, lead.RowNumber)
		return
	}

	log.Printf("⚠️ No lead matches unsubscribe request from %s", reply.From)
}

// matchesContact compares a reply sender against a lead's email and phone.
// Phones are compared on digits only, suffix-tolerant, so "+14155551234"
// still matches "(415) 555-1234".
func matchesContact(lead entity.Lead, contact string) bool {
	if contact == "" {
		return false
	}
	if lead.Email != "" && strings.EqualFold(lead.Email, contact) {
		return true
	}

	leadDigits := nonDigits.ReplaceAllString(lead.Phone, "")
	contactDigits := nonDigits.ReplaceAllString(contact, "")
	if leadDigits == "" || contactDigits == "" {
		return false
	}
	return strings.HasSuffix(contactDigits, leadDigits) || strings.HasSuffix(leadDigits, contactDigits)
}

// GetSystemStatus aggregates the store and rate-window view served by the
// status command and the /status endpoint.
func (o *Orchestrator) GetSystemStatus(ctx context.Context) (SystemStatus, error) {
	leads, err := o.store.GetAllLeads(ctx)
	if err != nil {
		return SystemStatus{}, err
	}

	breakdown := make(map[string]int)
	for _, lead := range leads {
		status := lead.Status
		if status == "" {
			status = "Unknown"
		}
		breakdown[status]++
	}

	followUps, err := o.store.GetLeadsForFollowUp(ctx)
	if err != nil {
		return SystemStatus{}, err
	}

	return SystemStatus{
		Timestamp:        o.clk.Now().Format(time.RFC3339),
		TotalLeads:       len(leads),
		StatusBreakdown:  breakdown,
		EmailService:     o.email.Stats(),
		SMSService:       o.sms.Stats(),
		FollowUpsPending: len(followUps),
	}, nil
}
