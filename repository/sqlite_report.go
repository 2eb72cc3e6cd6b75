package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/database"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
)

type sqliteReportRepo struct {
	db database.TxQuerier
}

func NewSQLiteReportRepo(db database.TxQuerier) ReportRepository {
	return &sqliteReportRepo{db: db}
}

func (r *sqliteReportRepo) Create(ctx context.Context, report *models.Report) error {
	report.ID = uuid.NewString()
	report.Status = models.ReportStatusOpen

	query := `
		INSERT INTO reports (id, reporter_id, reported_id, reason, detail, status)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		report.ID, report.ReporterID, report.ReportedID,
		report.Reason, report.Detail, report.Status,
	).Scan(&report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

func (r *sqliteReportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `
		SELECT id, reporter_id, reported_id, reason, detail, status, created_at, resolved_at
		FROM reports WHERE id = ?`

	report := &models.Report{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&report.ID, &report.ReporterID, &report.ReportedID,
		&report.Reason, &report.Detail, &report.Status,
		&report.CreatedAt, &report.ResolvedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return report, nil
}

func (r *sqliteReportRepo) ListByStatus(ctx context.Context, status models.ReportStatus, limit int) ([]models.Report, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, reporter_id, reported_id, reason, detail, status, created_at, resolved_at
		FROM reports`
	args := []any{}

	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var report models.Report
		err := rows.Scan(&report.ID, &report.ReporterID, &report.ReportedID,
			&report.Reason, &report.Detail, &report.Status,
			&report.CreatedAt, &report.ResolvedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return reports, nil
}

func (r *sqliteReportRepo) Resolve(ctx context.Context, id string) error {
	query := `
		UPDATE reports SET status = ?, resolved_at = datetime('now')
		WHERE id = ? AND status = ?`

	result, err := r.db.ExecContext(ctx, query, models.ReportStatusResolved, id, models.ReportStatusOpen)
	if err != nil {
		return fmt.Errorf("failed to resolve report: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check resolve result: %w", err)
	}
	if rows == 0 {
		// Ya rapor yok ya da zaten kapatılmış
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteReportRepo) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports WHERE status = ?`, models.ReportStatusOpen,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open reports: %w", err)
	}
	return count, nil
}
