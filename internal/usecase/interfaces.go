package usecase

import (
	"context"
	"time"

	"github.com/alexhuynh/fit-outreach/internal/entity"
)

// LeadStore is the lead-level view over the backing store.
type LeadStore interface {
	GetAllLeads(ctx context.Context) ([]entity.Lead, error)
	GetLeadsByStatus(ctx context.Context, status string) ([]entity.Lead, error)
	GetLeadsForFollowUp(ctx context.Context) ([]entity.Lead, error)
	MarkContacted(ctx context.Context, rowNumber int, channel string) error
	MarkFollowUpSent(ctx context.Context, rowNumber int, channel string) error
	MarkUnsubscribed(ctx context.Context, rowNumber int, reason string) error
	CreateBackup(ctx context.Context) (string, error)
	AppendLead(ctx context.Context, lead *entity.Lead) error
}

// EmailTransport delivers one rendered email.
type EmailTransport interface {
	Send(ctx context.Context, msg entity.OutboundEmail) error
}

// SMSTransport delivers one SMS and returns the provider message id.
type SMSTransport interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// InboundSource lists messages received on a channel since a point in time.
type InboundSource interface {
	ListInbound(ctx context.Context, since time.Time) ([]entity.Reply, error)
}

// ReplyClassifier decides what kind of reply an inbound message is. The
// keyword heuristic lives behind this interface so it can be swapped for a
// better classifier without touching the scanner.
type ReplyClassifier interface {
	Classify(reply entity.Reply) string
}

// RateLimiter gates send volume per channel.
type RateLimiter interface {
	Allow() bool
	RecordSend()
	SentThisHour() int
	Limit() int
}

// ChannelSender is one outbound messaging channel. Send returns
// (false, nil) when the send was skipped by rate limiting — a normal
// outcome, not an error.
type ChannelSender interface {
	Send(ctx context.Context, to, templateType string, lead entity.Lead) (bool, error)
	Stats() ChannelStats
}
