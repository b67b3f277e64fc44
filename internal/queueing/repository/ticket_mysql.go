package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"campus-queue-backend/internal/queueing/models"
)

type TicketMySQL struct {
	db *sql.DB
}

func NewTicketMySQL(db *sql.DB) TicketRepository {
	return &TicketMySQL{db: db}
}

const ticketColumns = `id_ticket, ticket_number, office, service, priority_class, customer_type,
	course_code, year_level, status, id_lane, assigned_staff, created_at, queued_at,
	processing_start_time, processing_end_time, completion_reason`

func (r *TicketMySQL) Insert(ctx context.Context, t *models.Ticket) error {
	query := `
		INSERT INTO Ticket (` + ticketColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.TicketNumber, t.Office, t.Service, t.PriorityClass, t.CustomerType,
		t.CourseCode, t.YearLevel, t.Status, t.LaneID, t.AssignedStaff, t.CreatedAt, t.QueuedAt,
		t.ProcessingStartTime, t.ProcessingEndTime, t.CompletionReason,
	)
	if err != nil {
		return fmt.Errorf("insert ticket: %v", err)
	}
	return nil
}

func (r *TicketMySQL) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM Ticket WHERE id_ticket = ?`
	t, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TicketMySQL) ListByLaneAndStatus(ctx context.Context, laneID string, statuses ...models.TicketStatus) ([]models.Ticket, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	query := `SELECT ` + ticketColumns + ` FROM Ticket WHERE id_lane = ? AND status IN (` + placeholders + `)
		ORDER BY queued_at ASC, created_at ASC`

	args := []interface{}{laneID}
	for _, s := range statuses {
		args = append(args, s)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func (r *TicketMySQL) QueueLengths(ctx context.Context, office string) (map[string]int, error) {
	query := `
		SELECT id_lane, COUNT(*)
		FROM Ticket
		WHERE office = ? AND status IN ('waiting', 'current', 'processing')
		GROUP BY id_lane
	`
	rows, err := r.db.QueryContext(ctx, query, office)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	loads := map[string]int{}
	for rows.Next() {
		var laneID string
		var n int
		if err := rows.Scan(&laneID, &n); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		loads[laneID] = n
	}
	return loads, rows.Err()
}

// NextTicketSequence bumps the office's per-day counter row in one
// statement. LAST_INSERT_ID carries the allocated value back on both
// the insert and the update path, so no two callers can read the same
// sequence the way a count-then-insert would.
func (r *TicketMySQL) NextTicketSequence(ctx context.Context, office string, day time.Time) (int, error) {
	query := `
		INSERT INTO Ticket_Counter (office, counter_date, seq)
		VALUES (?, DATE(?), LAST_INSERT_ID(1))
		ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)`
	res, err := r.db.ExecContext(ctx, query, office, day)
	if err != nil {
		return 0, fmt.Errorf("allocate ticket sequence: %v", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(seq), nil
}

// TransitionTx is the compare-and-set behind every state transition:
// the UPDATE only matches while the row still carries the status the
// caller read, so of two racing staff exactly one wins. The
// processing-time record rides in the same transaction so it appears
// exactly once.
func (r *TicketMySQL) TransitionTx(ctx context.Context, t *models.Ticket, expected models.TicketStatus, rec *models.ProcessingTimeRecord) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE Ticket
		SET status = ?, assigned_staff = ?, queued_at = ?,
			processing_start_time = ?, processing_end_time = ?, completion_reason = ?
		WHERE id_ticket = ? AND status = ?
	`, t.Status, t.AssignedStaff, t.QueuedAt,
		t.ProcessingStartTime, t.ProcessingEndTime, t.CompletionReason,
		t.ID, expected)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, tx.Commit()
	}

	if rec != nil {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO Processing_Time_Record
				(id_ticket, ticket_number, service, office, id_lane,
				 processing_start_time, processing_end_time, processing_time_minutes,
				 staff_member, completion_reason, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.TicketID, rec.TicketNumber, rec.Service, rec.Office, rec.LaneID,
			rec.ProcessingStartTime, rec.ProcessingEndTime, rec.ProcessingTimeMinutes,
			rec.StaffMember, rec.CompletionReason, rec.CreatedAt); err != nil {
			return false, err
		}
	}
	return true, tx.Commit()
}

func (r *TicketMySQL) ReassignLaneIfWaiting(ctx context.Context, id, laneID string, queuedAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE Ticket SET id_lane = ?, queued_at = ? WHERE id_ticket = ? AND status = 'waiting'
	`, laneID, queuedAt, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTicket(row rowScanner) (*models.Ticket, error) {
	var t models.Ticket
	var courseCode, yearLevel, assignedStaff, completionReason sql.NullString
	var start, end sql.NullTime

	err := row.Scan(
		&t.ID, &t.TicketNumber, &t.Office, &t.Service, &t.PriorityClass, &t.CustomerType,
		&courseCode, &yearLevel, &t.Status, &t.LaneID, &assignedStaff, &t.CreatedAt, &t.QueuedAt,
		&start, &end, &completionReason,
	)
	if err != nil {
		return nil, err
	}
	t.CourseCode = courseCode.String
	t.YearLevel = yearLevel.String
	t.AssignedStaff = assignedStaff.String
	t.CompletionReason = completionReason.String
	if start.Valid {
		s := start.Time
		t.ProcessingStartTime = &s
	}
	if end.Valid {
		e := end.Time
		t.ProcessingEndTime = &e
	}
	return &t, nil
}
