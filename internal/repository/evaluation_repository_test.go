package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/sar-academy/eval-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEvaluationRepositoryInsertAssignsSeq(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO evaluations")).
		WithArgs(sqlmock.AnyArg(), "Juan Giraldo", "Coaching", sqlmock.AnyArg(), "Carlos Pérez", sqlmock.AnyArg(), "Buen desempeño").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(7)))

	stale := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	record := &models.EvaluationRecord{
		ParticipantName: "Juan Giraldo",
		Area:            "Coaching",
		// any pre-filled timestamp is replaced at save time
		EvaluatedAt:   stale,
		EvaluatorName: "Carlos Pérez",
		Items: models.EvaluationItems{
			{Description: "Feedback.", Score: 4, Observation: "ok"},
		},
		Conclusion: "Buen desempeño",
	}
	require.NoError(t, repo.Insert(context.Background(), record))
	require.NotEmpty(t, record.ID)
	require.Equal(t, int64(7), record.Seq)
	require.False(t, record.EvaluatedAt.IsZero())
	require.False(t, record.EvaluatedAt.Equal(stale))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepositoryLatest(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	rows := sqlmock.NewRows([]string{"id", "seq", "participant_name", "area", "evaluated_at", "evaluator_name", "items", "conclusion"}).
		AddRow("ev-2", int64(2), "Juan Giraldo", "Coaching", time.Now(), "Carlos Pérez", `[{"descripcion":"Feedback.","calificacion":5,"observaciones":""}]`, "")
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY evaluated_at DESC, seq DESC LIMIT 1")).
		WithArgs("Juan Giraldo", "Coaching").
		WillReturnRows(rows)

	record, err := repo.LatestByParticipantArea(context.Background(), "Juan Giraldo", "Coaching")
	require.NoError(t, err)
	require.Equal(t, "ev-2", record.ID)
	require.Len(t, record.Items, 1)
	require.Equal(t, 5, record.Items[0].Score)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepositoryLatestNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY evaluated_at DESC, seq DESC LIMIT 1")).
		WithArgs("Nadie", "Coaching").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.LatestByParticipantArea(context.Background(), "Nadie", "Coaching")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepositoryHistory(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	rows := sqlmock.NewRows([]string{"id", "seq", "participant_name", "area", "evaluated_at", "evaluator_name", "items", "conclusion"}).
		AddRow("ev-2", int64(2), "Juan Giraldo", "Coaching", time.Now(), "Carlos Pérez", `[]`, "").
		AddRow("ev-1", int64(1), "Juan Giraldo", "Coaching", time.Now().Add(-time.Hour), "Carlos Pérez", `[]`, "")
	mock.ExpectQuery(regexp.QuoteMeta("FROM evaluations WHERE 1=1 AND participant_name = $1 AND area = $2")).
		WithArgs("Juan Giraldo", "Coaching").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM evaluations WHERE 1=1 AND participant_name = $1 AND area = $2")).
		WithArgs("Juan Giraldo", "Coaching").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	records, total, err := repo.History(context.Background(), models.EvaluationFilter{
		ParticipantName: "Juan Giraldo",
		Area:            "Coaching",
		Page:            1,
		PageSize:        50,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 2, total)
	require.Equal(t, "ev-2", records[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
