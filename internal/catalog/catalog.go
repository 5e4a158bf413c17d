// Package catalog holds the year-scoped question bank, evaluator assignments
// and participant roster, loaded once at startup from tabular files.
package catalog

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sar-academy/eval-api/internal/models"
	"github.com/sar-academy/eval-api/pkg/config"
	appErrors "github.com/sar-academy/eval-api/pkg/errors"
)

// UnassignedEvaluator is returned when an area has no evaluator row.
const UnassignedEvaluator = "Evaluador no asignado"

// Catalog is an immutable snapshot of the configured catalogs. Areas present
// in the question bank are the validated identifier set: lookups for any
// other area fail explicitly.
type Catalog struct {
	year         int
	questions    map[string][]string
	evaluators   map[string]string
	participants map[string][]models.Participant
	areas        []string
}

// Load builds a catalog from the configured CSV paths. Year 0 means the
// current year; when no rows exist for the requested year, the most recent
// year present is used instead and a warning is logged.
func Load(cfg config.CatalogConfig, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	questions, year, err := loadQuestions(cfg.QuestionsPath, cfg.Year, logger)
	if err != nil {
		return nil, err
	}
	evaluators, err := loadEvaluators(cfg.EvaluatorsPath, year, logger)
	if err != nil {
		return nil, err
	}
	participants, err := loadParticipants(cfg.ParticipantsPath)
	if err != nil {
		return nil, err
	}

	areas := make([]string, 0, len(questions))
	for area := range questions {
		areas = append(areas, area)
	}
	sort.Strings(areas)

	logger.Sugar().Infow("catalog loaded", "year", year, "areas", len(areas))

	return &Catalog{
		year:         year,
		questions:    questions,
		evaluators:   evaluators,
		participants: participants,
		areas:        areas,
	}, nil
}

// Year returns the catalog year actually in effect.
func (c *Catalog) Year() int {
	return c.year
}

// Areas lists the known evaluation areas in sorted order.
func (c *Catalog) Areas() []string {
	out := make([]string, len(c.areas))
	copy(out, c.areas)
	return out
}

// HasArea reports whether the area exists in the question bank.
func (c *Catalog) HasArea(area string) bool {
	_, ok := c.questions[area]
	return ok
}

// Questions returns the ordered question descriptions for an area.
func (c *Catalog) Questions(area string) ([]string, error) {
	qs, ok := c.questions[area]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownArea, "unknown evaluation area: "+area)
	}
	out := make([]string, len(qs))
	copy(out, qs)
	return out, nil
}

// Evaluator returns the evaluator assigned to an area.
func (c *Catalog) Evaluator(area string) (string, error) {
	if !c.HasArea(area) {
		return "", appErrors.Clone(appErrors.ErrUnknownArea, "unknown evaluation area: "+area)
	}
	if name, ok := c.evaluators[area]; ok && name != "" {
		return name, nil
	}
	return UnassignedEvaluator, nil
}

// Participants returns the roster for an area.
func (c *Catalog) Participants(area string) ([]models.Participant, error) {
	if !c.HasArea(area) {
		return nil, appErrors.Clone(appErrors.ErrUnknownArea, "unknown evaluation area: "+area)
	}
	out := make([]models.Participant, len(c.participants[area]))
	copy(out, c.participants[area])
	return out, nil
}

// Participant returns one roster entry by exact name match.
func (c *Catalog) Participant(area, name string) (*models.Participant, error) {
	roster, err := c.Participants(area)
	if err != nil {
		return nil, err
	}
	for i := range roster {
		if strings.EqualFold(roster[i].Name, name) {
			p := roster[i]
			return &p, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "participant not found in area roster")
}

// AreaCatalog bundles questions and evaluator for one area.
func (c *Catalog) AreaCatalog(area string) (*models.AreaCatalog, error) {
	qs, err := c.Questions(area)
	if err != nil {
		return nil, err
	}
	evaluator, err := c.Evaluator(area)
	if err != nil {
		return nil, err
	}
	return &models.AreaCatalog{
		Area:      area,
		Year:      c.year,
		Evaluator: evaluator,
		Questions: qs,
	}, nil
}
