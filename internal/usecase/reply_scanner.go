package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/alexhuynh/fit-outreach/internal/clock"
	"github.com/alexhuynh/fit-outreach/internal/entity"
	"github.com/alexhuynh/fit-outreach/internal/infra/metrics"
)

// ReplyLookback bounds how far back inbound messages are fetched.
const ReplyLookback = 7 * 24 * time.Hour

// KeywordClassifier is the keyword heuristic: opt-out keywords win over
// interest keywords, case-insensitive substring match over subject + body.
// Known precision limitation ("yes" inside an unrelated sentence matches);
// swap the ReplyClassifier implementation to do better.
type KeywordClassifier struct{}

var (
	optOutKeywords   = []string{"unsubscribe", "remove", "stop"}
	interestKeywords = []string{"yes", "interested", "tell me more", "info"}
)

func (KeywordClassifier) Classify(reply entity.Reply) string {
	text := strings.ToLower(reply.Subject + " " + reply.Body)

	for _, kw := range optOutKeywords {
		if strings.Contains(text, kw) {
			if reply.Channel == entity.ChannelSMS {
				return entity.ReplyOptOut
			}
			return entity.ReplyUnsubscribe
		}
	}
	for _, kw := range interestKeywords {
		if strings.Contains(text, kw) {
			return entity.ReplyInterested
		}
	}
	return entity.ReplyPlain
}

// ReplyScanner polls both channels for inbound messages and classifies
// them. Replies are ephemeral: fetched, classified, handed to the caller,
// never persisted.
type ReplyScanner struct {
	mailbox    InboundSource
	smsInbox   InboundSource
	classifier ReplyClassifier
	clk        clock.Clock
}

func NewReplyScanner(mailbox, smsInbox InboundSource, classifier ReplyClassifier, clk clock.Clock) *ReplyScanner {
	return &ReplyScanner{
		mailbox:    mailbox,
		smsInbox:   smsInbox,
		classifier: classifier,
		clk:        clk,
	}
}

// CheckReplies returns classified replies per channel. A channel whose
// provider fails yields an empty list; the other channel still reports.
func (s *ReplyScanner) CheckReplies(ctx context.Context) (email, sms []entity.Reply) {
	since := s.clk.Now().Add(-ReplyLookback)

	email = s.scan(ctx, s.mailbox, entity.ChannelEmail, since)
	sms = s.scan(ctx, s.smsInbox, entity.ChannelSMS, since)
	return email, sms
}

func (s *ReplyScanner) scan(ctx context.Context, source InboundSource, channel string, since time.Time) []entity.Reply {
	if source == nil {
		return nil
	}

	inbound, err := source.ListInbound(ctx, since)
	if err != nil {
		log.Printf("❌ Failed to check %s replies: %v", channel, err)
		metrics.RecordIntegrationError(strings.ToLower(channel))
		return nil
	}

	replies := make([]entity.Reply, 0, len(inbound))
	for _, reply := range inbound {
		reply.Type = s.classifier.Classify(reply)
		metrics.RecordReply(channel, reply.Type)
		replies = append(replies, reply)
	}

	log.Printf("📬 %d %s replies in the last 7 days", len(replies), channel)
	return replies
}
