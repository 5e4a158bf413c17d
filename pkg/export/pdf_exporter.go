package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Supported document languages.
const (
	LangSpanish = "es"
	LangEnglish = "en"
)

// EvaluationRow is one rendered question line.
type EvaluationRow struct {
	Description string
	Score       int
	Observation string
}

// EvaluationDocument is the render request for a single evaluation.
type EvaluationDocument struct {
	ParticipantName string
	Area            string
	ContactEmail    string
	ContactPhone    string
	Union           string
	EvaluationDate  time.Time
	Items           []EvaluationRow
	Conclusion      string
	EvaluatorName   string
	Language        string
	HeaderImagePath string
}

type labels struct {
	title       string
	area        string
	name        string
	contact     string
	phone       string
	union       string
	description string
	score       string
	observation string
	total       string
	conclusion  string
	date        string
	footer      string
	pages       string
	noHeader    string
}

var spanishLabels = labels{
	title:       "EVALUACIÓN",
	area:        "Área",
	name:        "Nombre",
	contact:     "Contacto",
	phone:       "Celular",
	union:       "Unión/Federación",
	description: "Descripción",
	score:       "Calificación",
	observation: "Observaciones",
	total:       "Total Calificaciones",
	conclusion:  "Conclusión",
	date:        "FECHA",
	footer:      "Generado por el sistema de Evaluación SAR |",
	pages:       "Páginas: %d de {nb}",
	noHeader:    "[Encabezado no disponible]",
}

var englishLabels = labels{
	title:       "EVALUATION",
	area:        "Area",
	name:        "Name",
	contact:     "Contact",
	phone:       "Phone",
	union:       "Union/Federation",
	description: "Description",
	score:       "Score",
	observation: "Observations",
	total:       "Total Score",
	conclusion:  "Conclusion",
	date:        "DATE",
	footer:      "Generated by the SAR Evaluation system |",
	pages:       "Pages: %d of {nb}",
	noHeader:    "[Header not available]",
}

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// PDFExporter renders evaluations into paginated A4 documents.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

const (
	descColWidth  = 80.0
	scoreColWidth = 25.0
	obsColWidth   = 85.0
	lineHeight    = 5.0
)

// Render produces the evaluation document as PDF bytes.
func (e *PDFExporter) Render(doc EvaluationDocument) ([]byte, error) {
	l := labelsFor(doc.Language)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(85, 85, 85)
		pdf.CellFormat(95, 8, tr(l.footer), "", 0, "C", false, 0, "")
		pdf.CellFormat(95, 8, tr(fmt.Sprintf(l.pages, pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	e.drawHeader(pdf, tr, doc, l)
	e.drawInfoBlock(pdf, tr, doc, l)
	e.drawItemTable(pdf, tr, doc.Items, l)
	e.drawClosing(pdf, tr, doc, l)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render evaluation pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) drawHeader(pdf *gofpdf.Fpdf, tr func(string) string, doc EvaluationDocument, l labels) {
	if doc.HeaderImagePath != "" {
		if _, err := os.Stat(doc.HeaderImagePath); err == nil {
			opts := gofpdf.ImageOptions{ImageType: "", ReadDpi: true}
			pdf.ImageOptions(doc.HeaderImagePath, 10, 10, 190, 0, true, opts, 0, "")
			pdf.Ln(4)
		} else {
			e.drawHeaderPlaceholder(pdf, tr, l)
		}
	} else {
		e.drawHeaderPlaceholder(pdf, tr, l)
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(10, 10, 69)
	pdf.CellFormat(0, 10, tr(l.title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(51, 51, 51)
	pdf.Ln(2)
}

func (e *PDFExporter) drawHeaderPlaceholder(pdf *gofpdf.Fpdf, tr func(string) string, l labels) {
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 14, tr(l.noHeader), "1", 1, "C", false, 0, "")
	pdf.SetTextColor(51, 51, 51)
	pdf.Ln(4)
}

func (e *PDFExporter) drawInfoBlock(pdf *gofpdf.Fpdf, tr func(string) string, doc EvaluationDocument, l labels) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s: %s", l.area, doc.Area)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %s", l.name, doc.ParticipantName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %s | %s: %s", l.contact, doc.ContactEmail, l.phone, doc.ContactPhone)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %s", l.union, doc.Union)), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (e *PDFExporter) drawItemTable(pdf *gofpdf.Fpdf, tr func(string) string, items []EvaluationRow, l labels) {
	e.drawTableHeader(pdf, tr, l)

	pdf.SetFont("Arial", "", 9)
	fill := false
	total := 0
	for _, item := range items {
		total += item.Score
		descLines := pdf.SplitText(tr(item.Description), descColWidth-2)
		obsLines := pdf.SplitText(tr(item.Observation), obsColWidth-2)
		rows := len(descLines)
		if len(obsLines) > rows {
			rows = len(obsLines)
		}
		if rows == 0 {
			rows = 1
		}
		height := float64(rows)*lineHeight + 2

		if pdf.GetY()+height > 265 {
			pdf.AddPage()
			e.drawTableHeader(pdf, tr, l)
			pdf.SetFont("Arial", "", 9)
		}

		x, y := pdf.GetXY()
		if fill {
			pdf.SetFillColor(249, 249, 249)
			pdf.Rect(x, y, descColWidth+scoreColWidth+obsColWidth, height, "F")
		}
		e.drawWrappedCell(pdf, x, y, descColWidth, height, descLines)
		pdf.Rect(x+descColWidth, y, scoreColWidth, height, "D")
		pdf.SetXY(x+descColWidth, y+1)
		pdf.CellFormat(scoreColWidth, lineHeight, fmt.Sprintf("%d", item.Score), "", 0, "C", false, 0, "")
		e.drawWrappedCell(pdf, x+descColWidth+scoreColWidth, y, obsColWidth, height, obsLines)
		pdf.SetXY(x, y+height)
		fill = !fill
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s: %d", l.total, total)), "", 1, "R", false, 0, "")
}

func (e *PDFExporter) drawTableHeader(pdf *gofpdf.Fpdf, tr func(string) string, l labels) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(10, 10, 69)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(descColWidth, 8, tr(l.description), "1", 0, "L", true, 0, "")
	pdf.CellFormat(scoreColWidth, 8, tr(l.score), "1", 0, "C", true, 0, "")
	pdf.CellFormat(obsColWidth, 8, tr(l.observation), "1", 1, "L", true, 0, "")
	pdf.SetTextColor(51, 51, 51)
}

func (e *PDFExporter) drawWrappedCell(pdf *gofpdf.Fpdf, x, y, width, height float64, lines []string) {
	pdf.Rect(x, y, width, height, "D")
	for i, line := range lines {
		pdf.SetXY(x+1, y+1+float64(i)*lineHeight)
		pdf.CellFormat(width-2, lineHeight, line, "", 0, "L", false, 0, "")
	}
}

func (e *PDFExporter) drawClosing(pdf *gofpdf.Fpdf, tr func(string) string, doc EvaluationDocument, l labels) {
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, tr(l.conclusion+":"), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, tr(doc.Conclusion), "", "L", false)
	pdf.Ln(4)
	pdf.CellFormat(0, 6, tr(doc.EvaluatorName), "", 1, "R", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %s", l.date, FormatMonthYear(doc.EvaluationDate, doc.Language))), "", 1, "R", false, 0, "")
}

// FormatMonthYear renders "Month, Year" with locale-aware month names.
func FormatMonthYear(t time.Time, lang string) string {
	if lang == LangSpanish {
		return fmt.Sprintf("%s, %d", spanishMonths[t.Month()-1], t.Year())
	}
	return fmt.Sprintf("%s, %d", t.Month().String(), t.Year())
}

func labelsFor(lang string) labels {
	if strings.EqualFold(lang, LangEnglish) {
		return englishLabels
	}
	return spanishLabels
}
