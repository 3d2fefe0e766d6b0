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

// EmailSender wraps an email transport with templating, rate limiting,
// compliance headers and post-send pacing.
type EmailSender struct {
	transport EmailTransport
	limiter   RateLimiter
	clk       clock.Clock
	templates map[string]string
	sendDelay time.Duration

	senderEmail  string
	trainerName  string
	businessName string
	phoneNumber  string
	websiteURL   string
}

func NewEmailSender(transport EmailTransport, limiter RateLimiter, clk clock.Clock, cfg *config.Config) *EmailSender {
	return &EmailSender{
		transport:    transport,
		limiter:      limiter,
		clk:          clk,
		templates:    cfg.Templates.Email,
		sendDelay:    cfg.EmailSendDelay,
		senderEmail:  cfg.SenderEmail,
		trainerName:  cfg.TrainerName,
		businessName: cfg.BusinessName,
		phoneNumber:  cfg.PhoneNumber,
		websiteURL:   cfg.WebsiteURL,
	}
}

// Send delivers one templated email. Returns (false, nil) when the hourly
// limit is reached, (false, err) on any other failure; the provider is
// contacted at most once and never retried here.
func (s *EmailSender) Send(ctx context.Context, to, templateType string, lead entity.Lead) (bool, error) {
	if !s.limiter.Allow() {
		log.Printf("⚠️ Email rate limit reached (%d/hour), skipping %s", s.limiter.Limit(), to)
		metrics.RecordRateLimitSkip(entity.ChannelEmail)
		return false, nil
	}

	tmpl, ok := s.templates[templateType]
	if !ok {
		return false, fmt.Errorf("%w: email template %q", ErrTemplateNotFound, templateType)
	}

	data := template.LeadData(lead.Name, s.trainerName, s.businessName, s.phoneNumber, s.websiteURL)
	subject, body := template.SplitSubject(template.Render(tmpl, data))

	msg := entity.OutboundEmail{
		To:       to,
		Subject:  subject,
		HTMLBody: template.ToHTML(body),
		// CAN-SPAM: every outreach email carries one-click unsubscribe.
		Headers: map[string]string{
			"List-Unsubscribe":      fmt.Sprintf("<mailto:%s?subject=UNSUBSCRIBE>", s.senderEmail),
			"List-Unsubscribe-Post": "List-Unsubscribe=One-Click",
		},
	}

	if err := s.transport.Send(ctx, msg); err != nil {
		metrics.RecordMessageSent(entity.ChannelEmail, templateType, "error")
		metrics.RecordIntegrationError("email")
		return false, fmt.Errorf("email send to %s failed: %w", to, err)
	}

	s.limiter.RecordSend()
	metrics.RecordMessageSent(entity.ChannelEmail, templateType, "sent")
	log.Printf("✅ Email (%s) sent to %s", templateType, to)

	// Pacing between provider calls; bursts trip abuse detection.
	s.clk.Sleep(s.sendDelay)

	return true, nil
}

func (s *EmailSender) Stats() ChannelStats {
	return ChannelStats{
		SentThisHour: s.limiter.SentThisHour(),
		RateLimit:    s.limiter.Limit(),
		CanSendMore:  s.limiter.Allow(),
	}
}
