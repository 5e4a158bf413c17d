package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sar-academy/eval-api/internal/dto"
	"github.com/sar-academy/eval-api/internal/models"
	"github.com/sar-academy/eval-api/pkg/export"
	"github.com/sar-academy/eval-api/pkg/storage"
)

type evaluationExporter interface {
	RenderPDF(ctx context.Context, id, lang string) ([]byte, string, error)
	History(ctx context.Context, filter models.EvaluationFilter) (*dto.EvaluationHistoryResponse, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders export payloads and persists the generated files.
type ExportService struct {
	evaluations evaluationExporter
	storage     fileStorage
	csv         csvRenderer
	signer      *storage.SignedURLSigner
	logger      *zap.Logger
	metrics     *MetricsService
	cfg         ExportConfig
}

// WithMetrics attaches instrumentation. Optional; nil metrics are a no-op.
func (s *ExportService) WithMetrics(m *MetricsService) *ExportService {
	s.metrics = m
	return s
}

// NewExportService constructs an ExportService.
func NewExportService(evaluations evaluationExporter, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	return &ExportService{
		evaluations: evaluations,
		storage:     store,
		csv:         csv,
		signer:      signer,
		logger:      logger,
		cfg:         cfg,
	}
}

// Generate renders the export according to the job definition and stores the
// resulting file under a signed download token.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}

	var payload []byte
	var filename string
	var err error
	switch job.Type {
	case models.ExportTypeEvaluationPDF:
		payload, filename, err = s.evaluations.RenderPDF(ctx, job.Params.EvaluationID, job.Params.Language)
	case models.ExportTypeHistoryCSV:
		payload, filename, err = s.buildHistoryCSV(ctx, job.Params)
	default:
		err = fmt.Errorf("unsupported export type %s", job.Type)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	signedURL := fmt.Sprintf("%s/exports/download/%s", prefix, token)

	s.metrics.RecordExportGenerated(string(job.Type))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Format(),
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildHistoryCSV(ctx context.Context, params models.ExportJobParams) ([]byte, string, error) {
	history, err := s.evaluations.History(ctx, models.EvaluationFilter{
		ParticipantName: params.ParticipantName,
		Area:            params.Area,
		Page:            1,
		PageSize:        200,
	})
	if err != nil {
		return nil, "", err
	}

	// one row per answered question, so a record spans as many rows as it
	// has items
	rows := make([]map[string]string, 0, len(history.Records))
	for _, record := range history.Records {
		for _, item := range record.Items {
			rows = append(rows, map[string]string{
				"Fecha":         record.EvaluatedAt.UTC().Format("2006-01-02"),
				"Nombre":        record.ParticipantName,
				"Area":          record.Area,
				"Evaluador":     record.EvaluatorName,
				"Pregunta":      item.Description,
				"Calificacion":  fmt.Sprintf("%d", item.Score),
				"Observaciones": item.Observation,
				"Total":         fmt.Sprintf("%d", record.Items.Total()),
				"Conclusion":    record.Conclusion,
			})
		}
	}
	dataset := export.Dataset{
		Headers: []string{"Fecha", "Nombre", "Area", "Evaluador", "Pregunta", "Calificacion", "Observaciones", "Total", "Conclusion"},
		Rows:    rows,
	}
	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, "", err
	}

	timestamp := time.Now().UTC().Format("20060102_150405")
	filename := fmt.Sprintf("historial_%s_%s_%s.csv",
		sanitizeFilename(params.ParticipantName), sanitizeFilename(params.Area), timestamp)
	return payload, filename, nil
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
