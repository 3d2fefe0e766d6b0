// Package leadstore adapts a tabular backing store (OneDrive workbook,
// Postgres) into lead-level operations. Providers only need the small
// RowProvider capability set; everything else is shared here.
package leadstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexhuynh/fit-outreach/internal/clock"
	"github.com/alexhuynh/fit-outreach/internal/entity"
)

// TimestampFormat is used for every date field written to the store.
const TimestampFormat = "2006-01-02 15:04:05"

// FirstDataRow is the row number of the first lead. Row 1 is the header.
const FirstDataRow = 2

// RowProvider is the capability set a backing store must offer.
type RowProvider interface {
	// FetchRows returns all rows including the header row.
	FetchRows(ctx context.Context) ([][]string, error)
	// WriteFields writes the given column→value pairs to one row, leaving
	// other columns untouched.
	WriteFields(ctx context.Context, rowNumber int, fields map[int]string) error
	// AppendRow adds a row after the last data row.
	AppendRow(ctx context.Context, values []string) error
}

type Store struct {
	provider          RowProvider
	clk               clock.Clock
	followUpDelayDays int
	backupDir         string
}

func NewStore(provider RowProvider, clk clock.Clock, followUpDelayDays int, backupDir string) *Store {
	return &Store{
		provider:          provider,
		clk:               clk,
		followUpDelayDays: followUpDelayDays,
		backupDir:         backupDir,
	}
}

// GetAllLeads returns every lead in row order. Short rows are padded so a
// half-filled worksheet row still maps cleanly.
func (s *Store) GetAllLeads(ctx context.Context) ([]entity.Lead, error) {
	rows, err := s.provider.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("lead store unavailable: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	leads := make([]entity.Lead, 0, len(rows)-1)
	for i, row := range rows[1:] {
		padded := make([]string, entity.ColumnCount)
		copy(padded, row)

		leads = append(leads, entity.Lead{
			Name:             padded[entity.ColName],
			Email:            padded[entity.ColEmail],
			Phone:            padded[entity.ColPhone],
			Status:           padded[entity.ColStatus],
			DateContacted:    padded[entity.ColDateContacted],
			ResponseReceived: padded[entity.ColResponseReceived],
			FollowUpSent:     padded[entity.ColFollowUpSent],
			Notes:            padded[entity.ColNotes],
			RowNumber:        i + FirstDataRow,
		})
	}
	return leads, nil
}

// GetLeadsByStatus filters case-insensitively on the status column.
func (s *Store) GetLeadsByStatus(ctx context.Context, status string) ([]entity.Lead, error) {
	all, err := s.GetAllLeads(ctx)
	if err != nil {
		return nil, err
	}

	var filtered []entity.Lead
	for _, lead := range all {
		if strings.EqualFold(lead.Status, status) {
			filtered = append(filtered, lead)
		}
	}
	return filtered, nil
}

// UpdateLeadStatus writes only the fields set on upd. The workbook backend
// patches one field at a time, so a failure mid-update can leave a partial
// row; the store offers no transaction primitive.
func (s *Store) UpdateLeadStatus(ctx context.Context, rowNumber int, upd entity.LeadUpdate) error {
	fields := make(map[int]string)
	if upd.Status != nil {
		fields[entity.ColStatus] = *upd.Status
	}
	if upd.DateContacted != nil {
		fields[entity.ColDateContacted] = *upd.DateContacted
	}
	if upd.ResponseReceived != nil {
		fields[entity.ColResponseReceived] = *upd.ResponseReceived
	}
	if upd.FollowUpSent != nil {
		fields[entity.ColFollowUpSent] = *upd.FollowUpSent
	}
	if upd.Notes != nil {
		fields[entity.ColNotes] = *upd.Notes
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.provider.WriteFields(ctx, rowNumber, fields); err != nil {
		return fmt.Errorf("failed to update row %d: %w", rowNumber, err)
	}
	return nil
}

// MarkContacted sets status, contact timestamp and a note in one call.
func (s *Store) MarkContacted(ctx context.Context, rowNumber int, channel string) error {
	ts := s.clk.Now().Format(TimestampFormat)
	return s.UpdateLeadStatus(ctx, rowNumber, entity.LeadUpdate{
		Status:        entity.Str(entity.StatusContacted),
		DateContacted: entity.Str(ts),
		Notes:         entity.Str(fmt.Sprintf("%s sent at %s", channel, ts)),
	})
}

func (s *Store) MarkFollowUpSent(ctx context.Context, rowNumber int, channel string) error {
	ts := s.clk.Now().Format(TimestampFormat)
	return s.UpdateLeadStatus(ctx, rowNumber, entity.LeadUpdate{
		Status:       entity.Str(entity.StatusFollowUpSent),
		FollowUpSent: entity.Str(ts),
		Notes:        entity.Str(fmt.Sprintf("Follow-up %s sent at %s", channel, ts)),
	})
}

func (s *Store) MarkUnsubscribed(ctx context.Context, rowNumber int, reason string) error {
	ts := s.clk.Now().Format(TimestampFormat)
	return s.UpdateLeadStatus(ctx, rowNumber, entity.LeadUpdate{
		Status: entity.Str(entity.StatusUnsubscribed),
		Notes:  entity.Str(fmt.Sprintf("Unsubscribed: %s at %s", reason, ts)),
	})
}

// GetLeadsForFollowUp returns Contacted leads with no recorded response, no
// follow-up yet, and a contact date at least the configured number of days
// in the past. Leads with an unparseable date are logged and skipped rather
// than failing the batch.
func (s *Store) GetLeadsForFollowUp(ctx context.Context) ([]entity.Lead, error) {
	contacted, err := s.GetLeadsByStatus(ctx, entity.StatusContacted)
	if err != nil {
		return nil, err
	}

	var due []entity.Lead
	for _, lead := range contacted {
		if lead.ResponseReceived != "" || lead.FollowUpSent != "" {
			continue
		}
		if lead.DateContacted == "" {
			continue
		}

		datePart := strings.SplitN(lead.DateContacted, " ", 2)[0]
		contactDate, err := time.ParseInLocation("2006-01-02", datePart, time.Local)
		if err != nil {
			log.Printf("⚠️ Skipping lead %q (row %d): unparseable date_contacted %q",
				lead.Name, lead.RowNumber, lead.DateContacted)
			continue
		}

		days := int(s.clk.Now().Sub(contactDate).Hours() / 24)
		if days >= s.followUpDelayDays {
			due = append(due, lead)
		}
	}
	return due, nil
}

type backupSnapshot struct {
	ID        string        `json:"id"`
	CreatedAt string        `json:"created_at"`
	Leads     []entity.Lead `json:"leads"`
}

// CreateBackup serializes the full lead set to a timestamped snapshot file
// and returns its path. Callers abort the run when this fails: no backup
// means no safe recovery.
func (s *Store) CreateBackup(ctx context.Context) (string, error) {
	leads, err := s.GetAllLeads(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	now := s.clk.Now()
	path := filepath.Join(s.backupDir, fmt.Sprintf("leads_backup_%s.json", now.Format("20060102_150405")))

	snapshot := backupSnapshot{
		ID:        uuid.New().String(),
		CreatedAt: now.Format(TimestampFormat),
		Leads:     leads,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	log.Printf("✅ Backup created: %s (%d leads)", path, len(leads))
	return path, nil
}

// AppendLead adds a new lead row. Status defaults to New.
func (s *Store) AppendLead(ctx context.Context, lead *entity.Lead) error {
	if lead.Status == "" {
		lead.Status = entity.StatusNew
	}

	values := make([]string, entity.ColumnCount)
	values[entity.ColName] = lead.Name
	values[entity.ColEmail] = lead.Email
	values[entity.ColPhone] = lead.Phone
	values[entity.ColStatus] = lead.Status
	values[entity.ColNotes] = lead.Notes

	if err := s.provider.AppendRow(ctx, values); err != nil {
		return fmt.Errorf("failed to append lead: %w", err)
	}
	return nil
}
