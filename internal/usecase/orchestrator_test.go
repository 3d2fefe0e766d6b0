package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/alexhuynh/fit-outreach/internal/entity"
)

// MockLeadStore
type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) GetAllLeads(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadStore) GetLeadsByStatus(ctx context.Context, status string) ([]entity.Lead, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadStore) GetLeadsForFollowUp(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadStore) MarkContacted(ctx context.Context, rowNumber int, channel string) error {
	args := m.Called(ctx, rowNumber, channel)
	return args.Error(0)
}

func (m *MockLeadStore) MarkFollowUpSent(ctx context.Context, rowNumber int, channel string) error {
	args := m.Called(ctx, rowNumber, channel)
	return args.Error(0)
}

func (m *MockLeadStore) MarkUnsubscribed(ctx context.Context, rowNumber int, reason string) error {
	args := m.Called(ctx, rowNumber, reason)
	return args.Error(0)
}

func (m *MockLeadStore) CreateBackup(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockLeadStore) AppendLead(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// MockChannelSender
type MockChannelSender struct {
	mock.Mock
}

func (m *MockChannelSender) Send(ctx context.Context, to, templateType string, lead entity.Lead) (bool, error) {
	args := m.Called(ctx, to, templateType, lead)
	return args.Bool(0), args.Error(1)
}

func (m *MockChannelSender) Stats() ChannelStats {
	args := m.Called()
	return args.Get(0).(ChannelStats)
}

// MockReplyChecker
type MockReplyChecker struct {
	mock.Mock
}

func (m *MockReplyChecker) CheckReplies(ctx context.Context) (email, sms []entity.Reply) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		email = args.Get(0).([]entity.Reply)
	}
	if args.Get(1) != nil {
		sms = args.Get(1).([]entity.Reply)
	}
	return email, sms
}

func newTestOrchestrator(store *MockLeadStore, email, sms *MockChannelSender, scanner *MockReplyChecker) (*Orchestrator, *stubClock) {
	clk := &stubClock{now: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}
	return NewOrchestrator(store, email, sms, scanner, clk, 3*time.Second), clk
}

func TestProcessNewLeadsMixedChannels(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	email := new(MockChannelSender)
	sms := new(MockChannelSender)

	emailLead := entity.Lead{Name: "Sarah Chen", Email: "sarah@example.com", Status: entity.StatusNew, RowNumber: 2}
	phoneLead := entity.Lead{Name: "Tom Park", Phone: "(415) 555-1234", Status: entity.StatusNew, RowNumber: 3}

	store.On("CreateBackup", ctx).Return("snap-1", nil)
	store.On("GetLeadsByStatus", ctx, entity.StatusNew).Return([]entity.Lead{emailLead, phoneLead}, nil)
	email.On("Send", ctx, "sarah@example.com", TemplateInitial, emailLead).Return(true, nil)
	store.On("MarkContacted", ctx, 2, entity.ChannelEmail).Return(nil)
	sms.On("Send", ctx, "(415) 555-1234", TemplateInitial, phoneLead).Return(true, nil)
	store.On("MarkContacted", ctx, 3, entity.ChannelSMS).Return(nil)

	orch, clk := newTestOrchestrator(store, email, sms, new(MockReplyChecker))
	stats, err := orch.ProcessNewLeads(ctx, Options{})

	assert.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.EmailSent)
	assert.Equal(t, 1, stats.SMSSent)
	assert.Equal(t, 0, stats.Errors)
	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, clk.slept)
	store.AssertExpectations(t)
	email.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestProcessNewLeadsBackupFailureAborts(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	store.On("CreateBackup", ctx).Return("", errors.New("workbook unavailable"))

	orch, _ := newTestOrchestrator(store, new(MockChannelSender), new(MockChannelSender), new(MockReplyChecker))
	stats, err := orch.ProcessNewLeads(ctx, Options{})

	assert.Error(t, err)
	assert.True(t, IsTechnicalError(err))
	assert.Equal(t, 0, stats.Processed)
	store.AssertNotCalled(t, "GetLeadsByStatus", mock.Anything, mock.Anything)
}

func TestProcessNewLeadsEmailPreferredForMarking(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	email := new(MockChannelSender)
	sms := new(MockChannelSender)

	lead := entity.Lead{Name: "Sarah Chen", Email: "sarah@example.com", Phone: "(415) 555-1234", Status: entity.StatusNew, RowNumber: 2}

	store.On("CreateBackup", ctx).Return("snap-1", nil)
	store.On("GetLeadsByStatus", ctx, entity.StatusNew).Return([]entity.Lead{lead}, nil)
	email.On("Send", ctx, lead.Email, TemplateInitial, lead).Return(true, nil)
	sms.On("Send", ctx, lead.Phone, TemplateInitial, lead).Return(true, nil)
	store.On("MarkContacted", ctx, 2, entity.ChannelEmail).Return(nil)

	orch, _ := newTestOrchestrator(store, email, sms, new(MockReplyChecker))
	stats, err := orch.ProcessNewLeads(ctx, Options{})

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.EmailSent)
	assert.Equal(t, 1, stats.SMSSent)
	store.AssertNumberOfCalls(t, "MarkContacted", 1)
	store.AssertNotCalled(t, "MarkContacted", ctx, 2, entity.ChannelSMS)
}

func TestProcessNewLeadsSendErrorCounted(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	email := new(MockChannelSender)

	lead := entity.Lead{Name: "Sarah Chen", Email: "sarah@example.com", Status: entity.StatusNew, RowNumber: 2}

	store.On("CreateBackup", ctx).Return("snap-1", nil)
	store.On("GetLeadsByStatus", ctx, entity.StatusNew).Return([]entity.Lead{lead}, nil)
	email.On("Send", ctx, lead.Email, TemplateInitial, lead).Return(false, errors.New("send failed"))

	orch, _ := newTestOrchestrator(store, email, new(MockChannelSender), new(MockReplyChecker))
	stats, err := orch.ProcessNewLeads(ctx, Options{})

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 0, stats.EmailSent)
	assert.Equal(t, 1, stats.Errors)
	store.AssertNotCalled(t, "MarkContacted", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessNewLeadsRateLimitSkipIsNotAnError(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	email := new(MockChannelSender)

	lead := entity.Lead{Name: "Sarah Chen", Email: "sarah@example.com", Status: entity.StatusNew, RowNumber: 2}

	store.On("CreateBackup", ctx).Return("snap-1", nil)
	store.On("GetLeadsByStatus", ctx, entity.StatusNew).Return([]entity.Lead{lead}, nil)
	email.On("Send", ctx, lead.Email, TemplateInitial, lead).Return(false, nil)

	orch, _ := newTestOrchestrator(store, email, new(MockChannelSender), new(MockReplyChecker))
	stats, err := orch.ProcessNewLeads(ctx, Options{})

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 0, stats.EmailSent)
	assert.Equal(t, 0, stats.Errors)
	store.AssertNotCalled(t, "MarkContacted", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessNewLeadsChannelFilters(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	email := new(MockChannelSender)
	sms := new(MockChannelSender)

	lead := entity.Lead{Name: "Sarah Chen", Email: "sarah@example.com", Phone: "(415) 555-1234", Status: entity.StatusNew, RowNumber: 2}

	store.On("CreateBackup", ctx).Return("snap-1", nil)
	store.On("GetLeadsByStatus", ctx, entity.StatusNew).Return([]entity.Lead{lead}, nil)
	email.On("Send", ctx, lead.Email, TemplateInitial, lead).Return(true, nil)
	store.On("MarkContacted", ctx, 2, entity.ChannelEmail).Return(nil)

	orch, _ := newTestOrchestrator(store, email, sms, new(MockReplyChecker))
	stats, err := orch.ProcessNewLeads(ctx, Options{EmailOnly: true})

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.EmailSent)
	assert.Equal(t, 0, stats.SMSSent)
	sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessFollowUps(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	email := new(MockChannelSender)

	lead := entity.Lead{
		Name:          "Sarah Chen",
		Email:         "sarah@example.com",
		Status:        entity.StatusContacted,
		DateContacted: "2025-06-07 10:00:00",
		RowNumber:     4,
	}

	store.On("CreateBackup", ctx).Return("snap-2", nil)
	store.On("GetLeadsForFollowUp", ctx).Return([]entity.Lead{lead}, nil)
	email.On("Send", ctx, lead.Email, TemplateFollowUp, lead).Return(true, nil)
	store.On("MarkFollowUpSent", ctx, 4, entity.ChannelEmail).Return(nil)

	orch, _ := newTestOrchestrator(store, email, new(MockChannelSender), new(MockReplyChecker))
	stats, err := orch.ProcessFollowUps(ctx, Options{})

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, stats.EmailSent)
	store.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestCheckResponsesReconcilesUnsubscribes(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	scanner := new(MockReplyChecker)

	scanner.On("CheckReplies", ctx).Return(
		[]entity.Reply{
			{Type: entity.ReplyInterested, Channel: entity.ChannelEmail, From: "sarah@example.com"},
			{Type: entity.ReplyUnsubscribe, Channel: entity.ChannelEmail, From: "tom@example.com"},
		},
		[]entity.Reply{
			{Type: entity.ReplyOptOut, Channel: entity.ChannelSMS, From: "+14155551234"},
		},
	)
	store.On("GetAllLeads", ctx).Return([]entity.Lead{
		{Name: "Sarah Chen", Email: "sarah@example.com", RowNumber: 2},
		{Name: "Tom Park", Email: "tom@example.com", RowNumber: 3},
		{Name: "Maya Singh", Phone: "(415) 555-1234", RowNumber: 4},
	}, nil)
	store.On("MarkUnsubscribed", ctx, 3, "Via unsubscribe").Return(nil)
	store.On("MarkUnsubscribed", ctx, 4, "Via opt_out").Return(nil)

	orch, _ := newTestOrchestrator(store, new(MockChannelSender), new(MockChannelSender), scanner)
	stats := orch.CheckResponses(ctx)

	assert.Equal(t, 2, stats.EmailReplies)
	assert.Equal(t, 1, stats.SMSReplies)
	assert.Equal(t, 2, stats.Unsubscribes)
	store.AssertExpectations(t)
}

func TestMatchesContact(t *testing.T) {
	tests := []struct {
		name    string
		lead    entity.Lead
		contact string
		want    bool
	}{
		{"email exact", entity.Lead{Email: "sarah@example.com"}, "sarah@example.com", true},
		{"email case-insensitive", entity.Lead{Email: "sarah@example.com"}, "Sarah@Example.com", true},
		{"e164 against formatted phone", entity.Lead{Phone: "(415) 555-1234"}, "+14155551234", true},
		{"bare digits against formatted phone", entity.Lead{Phone: "(415) 555-1234"}, "4155551234", true},
		{"different phone", entity.Lead{Phone: "(415) 555-1234"}, "+14155559999", false},
		{"empty contact", entity.Lead{Email: "sarah@example.com"}, "", false},
		{"no fields", entity.Lead{}, "sarah@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesContact(tt.lead, tt.contact))
		})
	}
}

func TestGetSystemStatus(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	email := new(MockChannelSender)
	sms := new(MockChannelSender)

	store.On("GetAllLeads", ctx).Return([]entity.Lead{
		{Name: "Sarah Chen", Status: entity.StatusNew},
		{Name: "Tom Park", Status: entity.StatusContacted},
		{Name: "Maya Singh", Status: entity.StatusContacted},
		{Name: "No Status"},
	}, nil)
	store.On("GetLeadsForFollowUp", ctx).Return([]entity.Lead{{Name: "Tom Park"}}, nil)
	email.On("Stats").Return(ChannelStats{SentThisHour: 5, RateLimit: 50, CanSendMore: true})
	sms.On("Stats").Return(ChannelStats{SentThisHour: 30, RateLimit: 30, CanSendMore: false})

	orch, clk := newTestOrchestrator(store, email, sms, new(MockReplyChecker))
	status, err := orch.GetSystemStatus(ctx)

	assert.NoError(t, err)
	assert.Equal(t, clk.now.Format(time.RFC3339), status.Timestamp)
	assert.Equal(t, 4, status.TotalLeads)
	assert.Equal(t, 1, status.StatusBreakdown[entity.StatusNew])
	assert.Equal(t, 2, status.StatusBreakdown[entity.StatusContacted])
	assert.Equal(t, 1, status.StatusBreakdown["Unknown"])
	assert.Equal(t, 1, status.FollowUpsPending)
	assert.False(t, status.SMSService.CanSendMore)
}
