package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sar-academy/eval-api/internal/dto"
	"github.com/sar-academy/eval-api/internal/models"
	appErrors "github.com/sar-academy/eval-api/pkg/errors"
	"github.com/sar-academy/eval-api/pkg/export"
)

type evaluationStore interface {
	Insert(ctx context.Context, record *models.EvaluationRecord) error
	LatestByParticipantArea(ctx context.Context, participant, area string) (*models.EvaluationRecord, error)
	GetByID(ctx context.Context, id string) (*models.EvaluationRecord, error)
	History(ctx context.Context, filter models.EvaluationFilter) ([]models.EvaluationRecord, int, error)
}

type areaCatalog interface {
	Questions(area string) ([]string, error)
	Evaluator(area string) (string, error)
	Participant(area, name string) (*models.Participant, error)
}

type latestCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type textTranslator interface {
	TranslateAll(ctx context.Context, texts []string, source, target string) []string
}

type documentRenderer interface {
	Render(doc export.EvaluationDocument) ([]byte, error)
}

// EvaluationServiceConfig tunes caching and rendering.
type EvaluationServiceConfig struct {
	LatestCacheTTL  time.Duration
	HeaderImagePath string
}

// EvaluationService orchestrates submission, retrieval and rendering of
// evaluation records.
type EvaluationService struct {
	repo       evaluationStore
	catalog    areaCatalog
	cache      latestCache
	translator textTranslator
	renderer   documentRenderer
	validator  *validator.Validate
	logger     *zap.Logger
	metrics    *MetricsService
	cfg        EvaluationServiceConfig
}

// WithMetrics attaches instrumentation. Optional; nil metrics are a no-op.
func (s *EvaluationService) WithMetrics(m *MetricsService) *EvaluationService {
	s.metrics = m
	return s
}

// NewEvaluationService constructs the service.
func NewEvaluationService(repo evaluationStore, catalog areaCatalog, cache latestCache, translator textTranslator, renderer documentRenderer, validate *validator.Validate, logger *zap.Logger, cfg EvaluationServiceConfig) *EvaluationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if renderer == nil {
		renderer = export.NewPDFExporter()
	}
	if cfg.LatestCacheTTL <= 0 {
		cfg.LatestCacheTTL = 5 * time.Minute
	}
	return &EvaluationService{
		repo:       repo,
		catalog:    catalog,
		cache:      cache,
		translator: translator,
		renderer:   renderer,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
	}
}

// Submit validates and persists a new evaluation. Items with scores outside
// the accepted range are dropped and reported as warnings; the remaining
// items are merged against the area question set so the stored record always
// covers the full catalog. Saving never overwrites: each submission becomes
// a new row and the previous history stays intact.
func (s *EvaluationService) Submit(ctx context.Context, req dto.SubmitEvaluationRequest) (*dto.SubmitEvaluationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation payload")
	}

	questions, err := s.catalog.Questions(req.Area)
	if err != nil {
		return nil, err
	}

	accepted := make([]models.EvaluationItem, 0, len(req.Items))
	warnings := make([]models.ItemWarning, 0)
	for _, item := range req.Items {
		if !models.ValidScore(item.Score) {
			warnings = append(warnings, models.ItemWarning{
				Description: item.Description,
				Reason:      fmt.Sprintf("%s, got score %d", appErrors.ErrScoreOutOfRange.Message, item.Score),
			})
			continue
		}
		accepted = append(accepted, models.EvaluationItem{
			Description: item.Description,
			Score:       item.Score,
			Observation: item.Observation,
		})
	}

	evaluator, err := s.catalog.Evaluator(req.Area)
	if err != nil {
		return nil, err
	}

	record := &models.EvaluationRecord{
		ParticipantName: strings.TrimSpace(req.ParticipantName),
		Area:            req.Area,
		EvaluatorName:   evaluator,
		Items:           CompleteItems(questions, accepted),
		Conclusion:      req.Conclusion,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save evaluation")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, latestCacheKey(record.ParticipantName, record.Area)); err != nil {
			s.logger.Sugar().Warnw("failed to invalidate latest evaluation cache", "error", err)
		}
	}
	s.metrics.RecordEvaluationSaved()

	return &dto.SubmitEvaluationResponse{Record: record, Warnings: warnings}, nil
}

// Latest returns the most recent evaluation for a participant in an area.
func (s *EvaluationService) Latest(ctx context.Context, participant, area string) (*models.EvaluationRecord, error) {
	key := latestCacheKey(participant, area)
	if s.cache != nil {
		var cached models.EvaluationRecord
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	record, err := s.repo.LatestByParticipantArea(ctx, participant, area)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no evaluation found for participant in area")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest evaluation")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, record, s.cfg.LatestCacheTTL); err != nil {
			s.logger.Sugar().Warnw("failed to cache latest evaluation", "error", err)
		}
	}
	return record, nil
}

// GetByID returns a single evaluation record.
func (s *EvaluationService) GetByID(ctx context.Context, id string) (*models.EvaluationRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}
	return record, nil
}

// History lists stored evaluations matching the filter, newest first.
func (s *EvaluationService) History(ctx context.Context, filter models.EvaluationFilter) (*dto.EvaluationHistoryResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 200 {
		filter.PageSize = 50
	}
	records, total, err := s.repo.History(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evaluations")
	}
	if records == nil {
		records = []models.EvaluationRecord{}
	}
	return &dto.EvaluationHistoryResponse{
		Records: records,
		Pagination: models.Pagination{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalCount: total,
		},
	}, nil
}

// RenderPDF builds the printable document for one evaluation. When the
// English language is requested the text content is translated best effort;
// failures fall back to the stored Spanish text.
func (s *EvaluationService) RenderPDF(ctx context.Context, id, lang string) ([]byte, string, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc := s.buildDocument(ctx, record, lang)
	payload, err := s.renderer.Render(doc)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render evaluation document")
	}
	filename := fmt.Sprintf("evaluacion_%s_%s.pdf",
		sanitizeFilename(record.ParticipantName),
		record.EvaluatedAt.UTC().Format("20060102"))
	return payload, filename, nil
}

func (s *EvaluationService) buildDocument(ctx context.Context, record *models.EvaluationRecord, lang string) export.EvaluationDocument {
	if lang != export.LangEnglish {
		lang = export.LangSpanish
	}

	doc := export.EvaluationDocument{
		ParticipantName: record.ParticipantName,
		Area:            record.Area,
		EvaluationDate:  record.EvaluatedAt,
		Conclusion:      record.Conclusion,
		EvaluatorName:   record.EvaluatorName,
		Language:        lang,
		HeaderImagePath: s.cfg.HeaderImagePath,
	}

	if participant, err := s.catalog.Participant(record.Area, record.ParticipantName); err == nil {
		doc.ContactEmail = participant.Email
		doc.ContactPhone = participant.Phone
		doc.Union = participant.Union
	}

	items := record.Items
	conclusion := record.Conclusion
	if lang == export.LangEnglish && s.translator != nil {
		items, conclusion = s.translateContent(ctx, record.Items, record.Conclusion)
		doc.Conclusion = conclusion
	}
	doc.Items = make([]export.EvaluationRow, len(items))
	for i, item := range items {
		doc.Items[i] = export.EvaluationRow{
			Description: item.Description,
			Score:       item.Score,
			Observation: item.Observation,
		}
	}
	return doc
}

func (s *EvaluationService) translateContent(ctx context.Context, items models.EvaluationItems, conclusion string) (models.EvaluationItems, string) {
	texts := make([]string, 0, len(items)*2+1)
	for _, item := range items {
		texts = append(texts, item.Description, item.Observation)
	}
	texts = append(texts, conclusion)

	translated := s.translator.TranslateAll(ctx, texts, export.LangSpanish, export.LangEnglish)
	if len(translated) != len(texts) {
		return items, conclusion
	}

	out := make(models.EvaluationItems, len(items))
	for i, item := range items {
		out[i] = models.EvaluationItem{
			Description: translated[i*2],
			Score:       item.Score,
			Observation: translated[i*2+1],
		}
	}
	return out, translated[len(translated)-1]
}

func latestCacheKey(participant, area string) string {
	return fmt.Sprintf("eval:latest:%s:%s", strings.ToLower(area), strings.ToLower(participant))
}
