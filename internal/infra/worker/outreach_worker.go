package worker

import (
	"context"
	"log"
	"time"

	"github.com/alexhuynh/fit-outreach/internal/usecase"
)

// Runner is the orchestrator surface the worker drives.
type Runner interface {
	ProcessNewLeads(ctx context.Context, opts usecase.Options) (usecase.RunStats, error)
	ProcessFollowUps(ctx context.Context, opts usecase.Options) (usecase.RunStats, error)
	CheckResponses(ctx context.Context) usecase.ResponseStats
}

// OutreachWorker runs the full outreach cycle on a fixed interval when the
// service runs in server mode. Each tick does responses first so fresh
// opt-outs are honored before any sending, then follow-ups, then new leads.
type OutreachWorker struct {
	runner       Runner
	opts         usecase.Options
	tickInterval time.Duration
}

func NewOutreachWorker(runner Runner, opts usecase.Options, tickInterval time.Duration) *OutreachWorker {
	if tickInterval <= 0 {
		tickInterval = time.Hour
	}
	return &OutreachWorker{
		runner:       runner,
		opts:         opts,
		tickInterval: tickInterval,
	}
}

func (w *OutreachWorker) Start(ctx context.Context) {
	log.Printf("🕒 Outreach worker started (every %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Outreach worker stopped")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *OutreachWorker) runCycle(ctx context.Context) {
	responses := w.runner.CheckResponses(ctx)
	log.Printf("🕒 Cycle responses: email=%d sms=%d unsubscribes=%d",
		responses.EmailReplies, responses.SMSReplies, responses.Unsubscribes)

	if stats, err := w.runner.ProcessFollowUps(ctx, w.opts); err != nil {
		log.Printf("❌ Follow-up pass failed: %v", err)
	} else if stats.Processed > 0 {
		log.Printf("🕒 Cycle follow-ups: processed=%d errors=%d", stats.Processed, stats.Errors)
	}

	if stats, err := w.runner.ProcessNewLeads(ctx, w.opts); err != nil {
		log.Printf("❌ New lead pass failed: %v", err)
	} else if stats.Processed > 0 {
		log.Printf("🕒 Cycle new leads: processed=%d errors=%d", stats.Processed, stats.Errors)
	}
}
