package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sar-academy/eval-api/internal/models"
)

// EvaluationRepository manages persistence for evaluation records. The table
// is append-only: submissions always insert, history is never rewritten.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository constructs a new repository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Insert persists a new evaluation record and fills in the generated ID and
// sequence number. The evaluation timestamp is always assigned here so a
// later save can never sort before an earlier one.
func (r *EvaluationRepository) Insert(ctx context.Context, record *models.EvaluationRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.EvaluatedAt = time.Now().UTC()
	query := `INSERT INTO evaluations (id, participant_name, area, evaluated_at, evaluator_name, items, conclusion)
VALUES (:id, :participant_name, :area, :evaluated_at, :evaluator_name, :items, :conclusion)
RETURNING seq`
	rows, err := r.db.NamedQueryContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&record.Seq); err != nil {
			return fmt.Errorf("scan evaluation seq: %w", err)
		}
	}
	return rows.Err()
}

// LatestByParticipantArea fetches the most recent record for a participant in
// an area. The insertion sequence breaks ties between records sharing the
// same evaluation timestamp.
func (r *EvaluationRepository) LatestByParticipantArea(ctx context.Context, participant, area string) (*models.EvaluationRecord, error) {
	query := `SELECT id, seq, participant_name, area, evaluated_at, evaluator_name, items, conclusion
FROM evaluations WHERE participant_name = $1 AND area = $2
ORDER BY evaluated_at DESC, seq DESC LIMIT 1`
	var record models.EvaluationRecord
	if err := r.db.GetContext(ctx, &record, query, participant, area); err != nil {
		return nil, fmt.Errorf("get latest evaluation: %w", err)
	}
	return &record, nil
}

// GetByID fetches a single evaluation record.
func (r *EvaluationRepository) GetByID(ctx context.Context, id string) (*models.EvaluationRecord, error) {
	query := `SELECT id, seq, participant_name, area, evaluated_at, evaluator_name, items, conclusion
FROM evaluations WHERE id = $1`
	var record models.EvaluationRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, fmt.Errorf("get evaluation: %w", err)
	}
	return &record, nil
}

// History lists evaluation records per provided filter, newest first.
func (r *EvaluationRepository) History(ctx context.Context, filter models.EvaluationFilter) ([]models.EvaluationRecord, int, error) {
	base := "FROM evaluations"
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.ParticipantName != "" {
		where = append(where, fmt.Sprintf("participant_name = $%d", len(args)+1))
		args = append(args, filter.ParticipantName)
	}
	if filter.Area != "" {
		where = append(where, fmt.Sprintf("area = $%d", len(args)+1))
		args = append(args, filter.Area)
	}
	whereClause := strings.Join(where, " AND ")
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size
	query := fmt.Sprintf(`SELECT id, seq, participant_name, area, evaluated_at, evaluator_name, items, conclusion
%s WHERE %s ORDER BY evaluated_at DESC, seq DESC LIMIT %d OFFSET %d`, base, whereClause, size, offset)
	var records []models.EvaluationRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list evaluations: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count evaluations: %w", err)
	}
	return records, total, nil
}
