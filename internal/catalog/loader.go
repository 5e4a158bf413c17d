package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sar-academy/eval-api/internal/models"
)

type questionRow struct {
	year   int
	area   string
	number int
	text   string
}

func loadQuestions(path string, year int, logger *zap.Logger) (map[string][]string, int, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, 0, err
	}

	yearIdx, err := columnIndex(header, "Year")
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	areaIdx, err := columnIndex(header, "Area")
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	numIdx, err := columnIndex(header, "Numero_Pregunta")
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	textIdx, err := columnIndex(header, "Pregunta")
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	rows := make([]questionRow, 0, len(records))
	maxYear := 0
	for _, rec := range records {
		y, err := strconv.Atoi(strings.TrimSpace(rec[yearIdx]))
		if err != nil {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(rec[numIdx]))
		if err != nil {
			continue
		}
		if y > maxYear {
			maxYear = y
		}
		rows = append(rows, questionRow{year: y, area: strings.TrimSpace(rec[areaIdx]), number: n, text: strings.TrimSpace(rec[textIdx])})
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%s: no usable question rows", path)
	}

	effective := resolveYear(year, rows, maxYear, logger, "questions")

	byArea := make(map[string][]questionRow)
	for _, row := range rows {
		if row.year != effective {
			continue
		}
		byArea[row.area] = append(byArea[row.area], row)
	}

	questions := make(map[string][]string, len(byArea))
	for area, qs := range byArea {
		sort.Slice(qs, func(i, j int) bool { return qs[i].number < qs[j].number })
		texts := make([]string, len(qs))
		for i, q := range qs {
			texts[i] = q.text
		}
		questions[area] = texts
	}
	return questions, effective, nil
}

func loadEvaluators(path string, year int, logger *zap.Logger) (map[string]string, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	yearIdx, err := columnIndex(header, "Year")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	areaIdx, err := columnIndex(header, "Area")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	nameIdx, err := columnIndex(header, "Evaluador")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	evaluators := make(map[string]string)
	available := make(map[int]bool)
	maxYear := 0
	for _, rec := range records {
		y, err := strconv.Atoi(strings.TrimSpace(rec[yearIdx]))
		if err != nil {
			continue
		}
		available[y] = true
		if y > maxYear {
			maxYear = y
		}
	}

	effective := year
	if !available[effective] && maxYear > 0 {
		logger.Sugar().Warnw("no evaluators for requested year, falling back", "requested", year, "using", maxYear)
		effective = maxYear
	}

	for _, rec := range records {
		y, err := strconv.Atoi(strings.TrimSpace(rec[yearIdx]))
		if err != nil || y != effective {
			continue
		}
		evaluators[strings.TrimSpace(rec[areaIdx])] = strings.TrimSpace(rec[nameIdx])
	}
	return evaluators, nil
}

func loadParticipants(path string) (map[string][]models.Participant, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	areaIdx, err := columnIndex(header, "AREA")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	nameIdx, err := columnIndex(header, "NOMBRE")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	emailIdx, err := columnIndex(header, "EMAIL")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	phoneIdx, err := columnIndex(header, "CONTACTO")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	unionIdx, err := columnIndex(header, "UNION/FEDERACION")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dateIdx, err := columnIndex(header, "FECHA")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	participants := make(map[string][]models.Participant)
	for _, rec := range records {
		area := strings.TrimSpace(rec[areaIdx])
		if area == "" {
			continue
		}
		p := models.Participant{
			Area:  area,
			Name:  strings.TrimSpace(rec[nameIdx]),
			Email: strings.TrimSpace(rec[emailIdx]),
			Phone: strings.TrimSpace(rec[phoneIdx]),
			Union: strings.TrimSpace(rec[unionIdx]),
		}
		if raw := strings.TrimSpace(rec[dateIdx]); raw != "" {
			if joined, err := time.Parse("02/01/2006", raw); err == nil {
				p.Joined = &joined
			}
		}
		participants[area] = append(participants[area], p)
	}
	return participants, nil
}

func resolveYear(requested int, rows []questionRow, maxYear int, logger *zap.Logger, what string) int {
	if requested == 0 {
		requested = time.Now().Year()
	}
	for _, row := range rows {
		if row.year == requested {
			return requested
		}
	}
	logger.Sugar().Warnw("no "+what+" for requested year, falling back", "requested", requested, "using", maxYear)
	return maxYear
}

func readCSV(path string) ([][]string, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog file %s: %w", path, err)
	}
	if len(all) < 1 {
		return nil, nil, fmt.Errorf("catalog file %s is empty", path)
	}
	return all[1:], all[0], nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing column %q", name)
}
