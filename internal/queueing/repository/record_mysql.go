package repository

import (
	"context"
	"database/sql"
	"fmt"

	"campus-queue-backend/internal/queueing/models"
)

type RecordMySQL struct {
	db *sql.DB
}

func NewRecordMySQL(db *sql.DB) RecordRepository {
	return &RecordMySQL{db: db}
}

func (r *RecordMySQL) Insert(ctx context.Context, rec *models.ProcessingTimeRecord) error {
	query := `
		INSERT INTO Processing_Time_Record
			(id_ticket, ticket_number, service, office, id_lane,
			 processing_start_time, processing_end_time, processing_time_minutes,
			 staff_member, completion_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.TicketID, rec.TicketNumber, rec.Service, rec.Office, rec.LaneID,
		rec.ProcessingStartTime, rec.ProcessingEndTime, rec.ProcessingTimeMinutes,
		rec.StaffMember, rec.CompletionReason, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert processing time record: %v", err)
	}
	return nil
}

func (r *RecordMySQL) List(ctx context.Context, office, service string) ([]models.ProcessingTimeRecord, error) {
	query := `
		SELECT id_ticket, ticket_number, service, office, id_lane,
			processing_start_time, processing_end_time, processing_time_minutes,
			staff_member, completion_reason, created_at
		FROM Processing_Time_Record
		WHERE 1=1
	`
	var args []interface{}
	if office != "" {
		query += " AND office = ?"
		args = append(args, office)
	}
	if service != "" {
		query += " AND service = ?"
		args = append(args, service)
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var records []models.ProcessingTimeRecord
	for rows.Next() {
		var rec models.ProcessingTimeRecord
		var staff, reason sql.NullString
		if err := rows.Scan(
			&rec.TicketID, &rec.TicketNumber, &rec.Service, &rec.Office, &rec.LaneID,
			&rec.ProcessingStartTime, &rec.ProcessingEndTime, &rec.ProcessingTimeMinutes,
			&staff, &reason, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		rec.StaffMember = staff.String
		rec.CompletionReason = reason.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
