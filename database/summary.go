package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// SessionSummary aggregates the ledger for one session.
type SessionSummary struct {
	SessionID    uint  `json:"session_id"`
	TotalRecords int64 `json:"total_records"`
	PresentCount int64 `json:"present_count"`
	AbsentCount  int64 `json:"absent_count"`
}

// GetSessionSummary returns present/absent counts for a session's records.
func GetSessionSummary(db *sql.DB, sessionID uint) (*SessionSummary, error) {
	query, args, err := psql.
		Select(
			"COUNT(*)",
			"COALESCE(SUM(CASE WHEN status = 'PRESENT' THEN 1 ELSE 0 END), 0)",
			"COALESCE(SUM(CASE WHEN status = 'ABSENT' THEN 1 ELSE 0 END), 0)",
		).
		From("attendance_records").
		Where(sq.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build session summary query: %w", err)
	}

	summary := SessionSummary{SessionID: sessionID}
	err = db.QueryRow(query, args...).Scan(&summary.TotalRecords, &summary.PresentCount, &summary.AbsentCount)
	if err != nil {
		return nil, fmt.Errorf("failed to query session summary for session %d: %w", sessionID, err)
	}
	return &summary, nil
}

// GetDailySelfAttendanceCount returns how many staff check-ins exist for a date.
func GetDailySelfAttendanceCount(db *sql.DB, date string) (int64, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("self_attendance_records").
		Where(sq.Eq{"date": date}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build self attendance count query: %w", err)
	}

	var count int64
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count self attendance for %s: %w", date, err)
	}
	return count, nil
}
