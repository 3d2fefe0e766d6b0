package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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

func captureRequest(body, ip string) *http.Request {
	req := httptest.NewRequest("POST", "/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-IP", ip)
	return req
}

func TestCaptureLead(t *testing.T) {
	store := new(MockLeadStore)
	store.On("AppendLead", mock.Anything, mock.MatchedBy(func(lead *entity.Lead) bool {
		return lead.Name == "Sarah Chen" &&
			lead.Email == "sarah@example.com" &&
			lead.Status == entity.StatusNew
	})).Return(nil)

	h := NewLeadHandler(store)
	rec := httptest.NewRecorder()
	h.CaptureLead(rec, captureRequest(`{"name":"Sarah Chen","email":"sarah@example.com"}`, "1.2.3.4"))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp CaptureLeadResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	store.AssertExpectations(t)
}

func TestCaptureLeadInvalidJSON(t *testing.T) {
	h := NewLeadHandler(new(MockLeadStore))
	rec := httptest.NewRecorder()
	h.CaptureLead(rec, captureRequest(`{not json`, "1.2.3.4"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCaptureLeadValidationFailure(t *testing.T) {
	store := new(MockLeadStore)
	h := NewLeadHandler(store)
	rec := httptest.NewRecorder()
	h.CaptureLead(rec, captureRequest(`{"name":"Sarah Chen"}`, "1.2.3.4"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp CaptureLeadResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Errors)
	store.AssertNotCalled(t, "AppendLead", mock.Anything, mock.Anything)
}

func TestCaptureLeadStoreFailure(t *testing.T) {
	store := new(MockLeadStore)
	store.On("AppendLead", mock.Anything, mock.Anything).Return(errors.New("workbook unavailable"))

	h := NewLeadHandler(store)
	rec := httptest.NewRecorder()
	h.CaptureLead(rec, captureRequest(`{"name":"Sarah Chen","email":"sarah@example.com"}`, "1.2.3.4"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCaptureLeadRateLimited(t *testing.T) {
	store := new(MockLeadStore)
	store.On("AppendLead", mock.Anything, mock.Anything).Return(nil)

	h := NewLeadHandler(store)

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.CaptureLead(rec, captureRequest(`{"name":"Sarah Chen","email":"sarah@example.com"}`, "9.9.9.9"))
		assert.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.CaptureLead(rec, captureRequest(`{"name":"Sarah Chen","email":"sarah@example.com"}`, "9.9.9.9"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different IP gets a fresh window.
	rec = httptest.NewRecorder()
	h.CaptureLead(rec, captureRequest(`{"name":"Sarah Chen","email":"sarah@example.com"}`, "8.8.8.8"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}
