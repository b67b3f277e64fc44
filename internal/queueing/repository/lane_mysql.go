package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"campus-queue-backend/internal/queueing/models"
)

type LaneMySQL struct {
	db *sql.DB
}

func NewLaneMySQL(db *sql.DB) LaneRepository {
	return &LaneMySQL{db: db}
}

const laneColumns = `id_lane, name, office, lane_order, lane_type, status,
	allowed_courses, allowed_year_levels, services_offered`

func (r *LaneMySQL) Insert(ctx context.Context, l *models.Lane) error {
	query := `
		INSERT INTO Lane (` + laneColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.Name, l.Office, l.Order, l.Type, l.Status,
		joinSet(l.AllowedCourses), joinSet(l.AllowedYearLevels), joinSet(l.ServicesOffered),
	)
	if err != nil {
		return fmt.Errorf("insert lane: %v", err)
	}
	return nil
}

func (r *LaneMySQL) GetByID(ctx context.Context, id string) (*models.Lane, error) {
	query := `SELECT ` + laneColumns + ` FROM Lane WHERE id_lane = ?`
	l, err := scanLane(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LaneMySQL) ListByOffice(ctx context.Context, office string) ([]models.Lane, error) {
	return r.list(ctx, `SELECT `+laneColumns+` FROM Lane WHERE office = ? ORDER BY lane_order ASC`, office)
}

func (r *LaneMySQL) ListActiveByOffice(ctx context.Context, office string) ([]models.Lane, error) {
	return r.list(ctx, `SELECT `+laneColumns+` FROM Lane WHERE office = ? AND status = 'active' ORDER BY lane_order ASC`, office)
}

func (r *LaneMySQL) SetStatus(ctx context.Context, id string, status models.LaneStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE Lane SET status = ? WHERE id_lane = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update lane status: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LaneMySQL) list(ctx context.Context, query string, args ...interface{}) ([]models.Lane, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var lanes []models.Lane
	for rows.Next() {
		l, err := scanLane(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		lanes = append(lanes, *l)
	}
	return lanes, rows.Err()
}

func scanLane(row rowScanner) (*models.Lane, error) {
	var l models.Lane
	var courses, yearLevels, services sql.NullString
	err := row.Scan(
		&l.ID, &l.Name, &l.Office, &l.Order, &l.Type, &l.Status,
		&courses, &yearLevels, &services,
	)
	if err != nil {
		return nil, err
	}
	l.AllowedCourses = splitSet(courses.String)
	l.AllowedYearLevels = splitSet(yearLevels.String)
	l.ServicesOffered = splitSet(services.String)
	return &l, nil
}

// Sets are stored as comma-separated columns; empty means unrestricted.
func joinSet(set []string) string {
	return strings.Join(set, ",")
}

func splitSet(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
