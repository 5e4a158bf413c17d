package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sar-academy/eval-api/internal/dto"
	"github.com/sar-academy/eval-api/internal/models"
	"github.com/sar-academy/eval-api/internal/repository"
	appErrors "github.com/sar-academy/eval-api/pkg/errors"
	"github.com/sar-academy/eval-api/pkg/jobs"
	"github.com/sar-academy/eval-api/pkg/storage"
)

type exportRepoStub struct {
	jobs map[string]*models.ExportJob
}

func newExportRepoStub() *exportRepoStub {
	return &exportRepoStub{jobs: map[string]*models.ExportJob{}}
}

func (r *exportRepoStub) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *exportRepoStub) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return job, nil
}

func (r *exportRepoStub) Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error {
	job, ok := r.jobs[id]
	if !ok {
		return errors.New("not found")
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (r *exportRepoStub) ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error) {
	var queued []models.ExportJob
	for _, job := range r.jobs {
		if job.Status == models.ExportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

func (r *exportRepoStub) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	return nil, nil
}

type exportQueueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *exportQueueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type evaluationExporterStub struct {
	renderErr error
}

func (e *evaluationExporterStub) RenderPDF(ctx context.Context, id, lang string) ([]byte, string, error) {
	if e.renderErr != nil {
		return nil, "", e.renderErr
	}
	return []byte("%PDF-1.4 stub"), "evaluacion_stub.pdf", nil
}

func (e *evaluationExporterStub) History(ctx context.Context, filter models.EvaluationFilter) (*dto.EvaluationHistoryResponse, error) {
	return &dto.EvaluationHistoryResponse{
		Records: []models.EvaluationRecord{
			{
				ParticipantName: "Juan Giraldo",
				Area:            "Coaching",
				EvaluatedAt:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
				EvaluatorName:   "Carlos Pérez",
				Items: models.EvaluationItems{
					{Description: "Pregunta 1", Score: 4},
					{Description: "Pregunta 2", Score: 5, Observation: "bien"},
				},
				Conclusion:      "Bien",
			},
		},
		Pagination: models.Pagination{Page: 1, PageSize: 200, TotalCount: 1},
	}, nil
}

func newExportServiceForTest(t *testing.T) (*ExportService, *evaluationExporterStub) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	evaluations := &evaluationExporterStub{}
	svc := NewExportService(evaluations, store, signer, ExportConfig{
		APIPrefix: "/api/v1",
		ResultTTL: time.Hour,
	}, zap.NewNop(), nil)
	return svc, evaluations
}

func newExportJobServiceForTest(t *testing.T) (*ExportJobService, *exportRepoStub, *exportQueueStub, *ExportService) {
	t.Helper()
	repo := newExportRepoStub()
	queue := &exportQueueStub{}
	exportSvc, _ := newExportServiceForTest(t)
	svc := NewExportJobService(repo, queue, exportSvc, zap.NewNop(), ExportJobServiceConfig{
		ResultTTL:       time.Hour,
		CleanupInterval: time.Hour,
		MaxRetries:      3,
	})
	return svc, repo, queue, exportSvc
}

func TestExportJobServiceCreateJob(t *testing.T) {
	svc, repo, queue, _ := newExportJobServiceForTest(t)

	resp, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Type:         models.ExportTypeEvaluationPDF,
		EvaluationID: "ev-1",
		Language:     "es",
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, resp.Status)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, resp.ID, queue.jobs[0].ID)
	assert.Contains(t, repo.jobs, resp.ID)
}

func TestExportJobServiceCreateJobValidation(t *testing.T) {
	svc, _, _, _ := newExportJobServiceForTest(t)

	_, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Type: models.ExportTypeEvaluationPDF,
	}, "user-1")
	require.Error(t, err)

	_, err = svc.CreateJob(context.Background(), dto.ExportRequest{
		Type: "unknown",
	}, "user-1")
	require.Error(t, err)
}

func TestExportJobServiceCreateJobEnqueueFailure(t *testing.T) {
	svc, repo, queue, _ := newExportJobServiceForTest(t)
	queue.err = errors.New("queue full")

	_, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Type:         models.ExportTypeEvaluationPDF,
		EvaluationID: "ev-1",
	}, "user-1")
	require.Error(t, err)

	// single persisted job, marked failed
	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, models.ExportStatusFailed, job.Status)
	}
}

func TestExportJobServiceStatusOwnership(t *testing.T) {
	svc, repo, _, _ := newExportJobServiceForTest(t)
	repo.jobs["job-1"] = &models.ExportJob{ID: "job-1", Status: models.ExportStatusQueued, CreatedBy: "user-1"}

	_, err := svc.GetStatus(context.Background(), "job-1", "user-2", models.RoleEvaluator)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	status, err := svc.GetStatus(context.Background(), "job-1", "user-2", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, status.Status)
}

func TestExportWorkerHandleFinishesJob(t *testing.T) {
	_, repo, _, exportSvc := newExportJobServiceForTest(t)

	job := &models.ExportJob{
		Type:   models.ExportTypeEvaluationPDF,
		Params: models.ExportJobParams{EvaluationID: "ev-1", Language: "es"},
		Status: models.ExportStatusQueued,
	}
	require.NoError(t, repo.Create(context.Background(), job))

	worker := NewExportWorker(repo, exportSvc, 3, zap.NewNop())
	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 1}))

	stored := repo.jobs[job.ID]
	assert.Equal(t, models.ExportStatusFinished, stored.Status)
	assert.Equal(t, 100, stored.Progress)
	require.NotNil(t, stored.ResultURL)
	assert.Contains(t, *stored.ResultURL, "/api/v1/exports/download/")
}

func TestExportWorkerRequeuesOnFailure(t *testing.T) {
	repo := newExportRepoStub()
	exportSvc, evaluations := newExportServiceForTest(t)
	evaluations.renderErr = errors.New("render boom")

	job := &models.ExportJob{
		Type:   models.ExportTypeEvaluationPDF,
		Params: models.ExportJobParams{EvaluationID: "ev-1"},
		Status: models.ExportStatusQueued,
	}
	require.NoError(t, repo.Create(context.Background(), job))

	worker := NewExportWorker(repo, exportSvc, 3, zap.NewNop())
	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 1}))
	assert.Equal(t, models.ExportStatusQueued, repo.jobs[job.ID].Status)

	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 3}))
	assert.Equal(t, models.ExportStatusFailed, repo.jobs[job.ID].Status)
}

func TestResolveDownloadRoundTrip(t *testing.T) {
	svc, repo, _, exportSvc := newExportJobServiceForTest(t)

	job := &models.ExportJob{
		Type:   models.ExportTypeEvaluationPDF,
		Params: models.ExportJobParams{EvaluationID: "ev-1"},
		Status: models.ExportStatusQueued,
	}
	require.NoError(t, repo.Create(context.Background(), job))

	worker := NewExportWorker(repo, exportSvc, 3, zap.NewNop())
	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 1}))

	url := *repo.jobs[job.ID].ResultURL
	token := url[strings.LastIndex(url, "/")+1:]

	download, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	defer download.File.Close()

	data, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Equal(t, models.ExportFormatPDF, download.Format)
}

func TestResolveDownloadBadToken(t *testing.T) {
	svc, _, _, _ := newExportJobServiceForTest(t)

	_, err := svc.ResolveDownload(context.Background(), "garbage")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestGenerateHistoryCSV(t *testing.T) {
	exportSvc, _ := newExportServiceForTest(t)

	job := &models.ExportJob{
		ID:     "job-1",
		Type:   models.ExportTypeHistoryCSV,
		Params: models.ExportJobParams{ParticipantName: "Juan Giraldo", Area: "Coaching"},
	}
	result, err := exportSvc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatCSV, result.Format)
	assert.Contains(t, result.RelativePath, "historial_Juan_Giraldo_Coaching_")

	file, err := exportSvc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Evaluador")
	assert.Contains(t, string(data), "Calificacion")
	// one line per item plus the header
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Pregunta 1")
	assert.Contains(t, lines[2], "Pregunta 2")
	assert.Contains(t, lines[1], "Juan Giraldo")
}
