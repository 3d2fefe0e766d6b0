package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/alexhuynh/fit-outreach/internal/clock"
	"github.com/alexhuynh/fit-outreach/internal/config"
	"github.com/alexhuynh/fit-outreach/internal/entity"
	"github.com/alexhuynh/fit-outreach/internal/infra/metrics"
	"github.com/alexhuynh/fit-outreach/internal/template"
)

// SMSSender wraps the SMS transport with templating, rate limiting, phone
// normalization and post-send pacing.
type SMSSender struct {
	transport SMSTransport
	limiter   RateLimiter
	clk       clock.Clock
	templates map[string]string
	sendDelay time.Duration

	trainerName  string
	businessName string
	phoneNumber  string
	websiteURL   string
}

func NewSMSSender(transport SMSTransport, limiter RateLimiter, clk clock.Clock, cfg *config.Config) *SMSSender {
	return &SMSSender{
		transport:    transport,
		limiter:      limiter,
		clk:          clk,
		templates:    cfg.Templates.SMS,
		sendDelay:    cfg.SMSSendDelay,
		trainerName:  cfg.TrainerName,
		businessName: cfg.BusinessName,
		phoneNumber:  cfg.PhoneNumber,
		websiteURL:   cfg.WebsiteURL,
	}
}

// Send delivers one templated SMS. The destination is normalized before
// any provider call; an unusable number fails fast with
// ErrInvalidPhoneNumber.
func (s *SMSSender) Send(ctx context.Context, to, templateType string, lead entity.Lead) (bool, error) {
	if !s.limiter.Allow() {
		log.Printf("⚠️ SMS rate limit reached (%d/hour), skipping %s", s.limiter.Limit(), to)
		metrics.RecordRateLimitSkip(entity.ChannelSMS)
		return false, nil
	}

	tmpl, ok := s.templates[templateType]
	if !ok {
		return false, fmt.Errorf("%w: sms template %q", ErrTemplateNotFound, templateType)
	}

	data := template.LeadData(lead.Name, s.trainerName, s.businessName, s.phoneNumber, s.websiteURL)
	body := template.Render(tmpl, data)

	formatted, err := NormalizePhoneNumber(to)
	if err != nil {
		return false, err
	}

	sid, err := s.transport.Send(ctx, formatted, body)
	if err != nil {
		metrics.RecordMessageSent(entity.ChannelSMS, templateType, "error")
		metrics.RecordIntegrationError("sms")
		return false, fmt.Errorf("sms send to %s failed: %w", formatted, err)
	}

	s.limiter.RecordSend()
	metrics.RecordMessageSent(entity.ChannelSMS, templateType, "sent")
	log.Printf("✅ SMS (%s) sent to %s (sid %s)", templateType, formatted, sid)

	s.clk.Sleep(s.sendDelay)

	return true, nil
}

func (s *SMSSender) Stats() ChannelStats {
	return ChannelStats{
		SentThisHour: s.limiter.SentThisHour(),
		RateLimit:    s.limiter.Limit(),
		CanSendMore:  s.limiter.Allow(),
	}
}
