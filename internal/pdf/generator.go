package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"go.uber.org/zap"
)

// maxReadings caps the readings table
const maxReadings = 60

// PDFGenerator renders vital-sign reports
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportData contains all data needed for report generation
type ReportData struct {
	Title       string
	Trend       vitals.Trend
	GeneratedAt time.Time
	Location    *time.Location
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	loc := data.Location
	if loc == nil {
		loc = time.UTC
	}
	title := data.Title
	if title == "" {
		title = "Vital Signs Report"
	}

	g.logger.Info("generating PDF report",
		zap.String("window", string(data.Trend.Window)),
		zap.Int("readings", len(data.Trend.Records)),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	period := fmt.Sprintf("Last %s (since %s)", data.Trend.Window.Label(), data.Trend.Cutoff.In(loc).Format("2006-01-02 15:04"))
	g.addTitle(pdf, title, period, data.GeneratedAt.In(loc))
	g.addSummary(pdf, data.Trend.Stats)
	g.addFlagDays(pdf, data.Trend.Stats)
	g.addReadings(pdf, data.Trend, loc)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title, period string, generated time.Time) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s", period), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", generated.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

func (g *PDFGenerator) addSummary(pdf *gofpdf.Fpdf, stats vitals.Statistics) {
	g.addSectionHeader(pdf, "Summary Statistics")

	if stats.Count == 0 {
		pdf.CellFormat(0, 8, "No readings recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	rows := []struct {
		label string
		m     vitals.Metric
		unit  string
	}{
		{"Systolic", stats.Systolic, "mmHg"},
		{"Diastolic", stats.Diastolic, "mmHg"},
		{"Pulse", stats.Pulse, "bpm"},
	}

	pdf.SetFont("Arial", "B", 10)
	for _, h := range []string{"Metric", "Average", "Range", "Unit"} {
		pdf.CellFormat(40, 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		pdf.CellFormat(40, 6, r.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, r.m.AverageText(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, r.m.RangeText(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, r.unit, "1", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Total readings: %d", stats.Count), "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

func (g *PDFGenerator) addFlagDays(pdf *gofpdf.Fpdf, stats vitals.Statistics) {
	g.addSectionHeader(pdf, "Daily Factors")

	days := stats.Days
	pdf.CellFormat(0, 6, fmt.Sprintf("Medication taken: %d of %d", days.MedicationTaken, stats.Count), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Symptoms reported: %d of %d", days.HadSymptoms, stats.Count), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Exercised: %d of %d", days.ExercisedToday, stats.Count), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("High stress: %d of %d", days.HighStressLevel, stats.Count), "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

func (g *PDFGenerator) addReadings(pdf *gofpdf.Fpdf, trend vitals.Trend, loc *time.Location) {
	g.addSectionHeader(pdf, "Readings")

	if trend.Empty() {
		pdf.CellFormat(0, 8, "No readings recorded during this period.", "", 1, "L", false, 0, "")
		return
	}

	widths := []float64{38, 30, 30, 22, 50}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range []string{"Date", "Blood Pressure", "BP Status", "Pulse", "Pulse Status"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)

	n := len(trend.Records)
	if n > maxReadings {
		n = maxReadings
	}
	for _, r := range trend.Records[:n] {
		bp := r.BloodPressure
		pdf.CellFormat(widths[0], 6, r.Timestamp.In(loc).Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d/%d", bp.Systolic, bp.Diastolic), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, string(vitals.ClassifyBloodPressure(bp.Systolic, bp.Diastolic)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%d", r.Pulse), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, string(vitals.ClassifyPulse(r.Pulse)), "1", 1, "C", false, 0, "")
		if r.Notes != "" {
			pdf.MultiCell(0, 5, "Notes: "+r.Notes, "", "L", false)
		}
	}
	if len(trend.Records) > n {
		pdf.CellFormat(0, 6, fmt.Sprintf("... %d older readings omitted", len(trend.Records)-n), "", 1, "L", false, 0, "")
	}
}
