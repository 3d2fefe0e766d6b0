package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexhuynh/fit-outreach/internal/leadstore"
)

// columnNames maps worksheet column positions onto table columns so the
// Postgres backend speaks the same row/field protocol as the workbook.
var columnNames = []string{
	"name", "email", "phone", "status",
	"date_contacted", "response_received", "follow_up_sent", "notes",
}

// LeadRepository is the Postgres-backed RowProvider. Rows are ordered by
// insertion id; the row number of the first lead is 2, mirroring the
// worksheet layout (row 1 being the header).
type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) FetchRows(ctx context.Context) ([][]string, error) {
	query := `
		SELECT name, email, phone, status,
		       date_contacted, response_received, follow_up_sent, notes
		FROM leads
		ORDER BY id
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := [][]string{append([]string(nil), columnNames...)}
	for rows.Next() {
		cells := make([]sql.NullString, len(columnNames))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make([]string, len(cells))
		for i, cell := range cells {
			row[i] = cell.String
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *LeadRepository) WriteFields(ctx context.Context, rowNumber int, fields map[int]string) error {
	if len(fields) == 0 {
		return nil
	}

	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for col, value := range fields {
		if col < 0 || col >= len(columnNames) {
			return fmt.Errorf("column index %d out of range", col)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", columnNames[col], len(args)+1))
		args = append(args, value)
	}

	// Ordinal position → id, keeping the worksheet's positional addressing.
	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = (SELECT id FROM leads ORDER BY id OFFSET $%d LIMIT 1)
	`, strings.Join(sets, ", "), len(args)+1)
	args = append(args, rowNumber-leadstore.FirstDataRow)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no lead at row %d", rowNumber)
	}
	return nil
}

func (r *LeadRepository) AppendRow(ctx context.Context, values []string) error {
	padded := make([]string, len(columnNames))
	copy(padded, values)

	query := `
		INSERT INTO leads (name, email, phone, status,
		                   date_contacted, response_received, follow_up_sent, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		padded[0], padded[1], padded[2], padded[3],
		padded[4], padded[5], padded[6], padded[7],
	)
	return err
}
