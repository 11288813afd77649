package reports

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/fdg312/nutrilog/internal/aggregate"
	"github.com/fdg312/nutrilog/internal/goals"
	"github.com/fdg312/nutrilog/internal/timeseries"
	"github.com/fdg312/nutrilog/internal/tracker"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// Generator generates PDF/CSV weekly reports
type Generator struct {
	store   *tracker.Store
	builder *timeseries.Builder
	goals   goals.Goals
	now     func() time.Time
}

func NewGenerator(store *tracker.Store, builder *timeseries.Builder, g goals.Goals) *Generator {
	return &Generator{
		store:   store,
		builder: builder,
		goals:   g,
		now:     time.Now,
	}
}

// Collect snapshots the store and builds the week.
func (g *Generator) Collect() WeeklyReport {
	now := g.now()
	meals := g.store.Meals()
	workouts := g.store.Workouts()
	stats := g.store.Stats()

	return WeeklyReport{
		GeneratedAt: now,
		Points:      g.builder.Build(now, meals, workouts, stats),
		Meals:       aggregate.Summarize(meals, g.goals),
		Stats:       stats,
		Goals:       g.goals,
		Workouts:    workouts,
	}
}

// Generate renders the weekly report and returns the data with its content type.
func (g *Generator) Generate(format string) ([]byte, string, error) {
	report := g.Collect()

	switch format {
	case FormatPDF:
		data, err := generatePDF(report)
		return data, "application/pdf", err
	case FormatCSV:
		data, err := generateCSV(report)
		return data, "text/csv", err
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// generateCSV writes one row per chart point.
func generateCSV(report WeeklyReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"label", "steps", "calories_in", "calories_burned", "active_minutes", "weight_kg", "synthetic"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, p := range report.Points {
		row := []string{
			p.Label,
			strconv.Itoa(p.Steps),
			formatFloat(p.CaloriesIn),
			formatFloat(p.CaloriesBurned),
			strconv.Itoa(p.ActiveMinutes),
			fmt.Sprintf("%.2f", p.Weight),
			strconv.FormatBool(p.Synthetic),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func generatePDF(report WeeklyReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	fontName := "Arial"

	pdf.AddPage()

	pdf.SetFont(fontName, "B", 16)
	pdf.Cell(0, 10, "Weekly Activity Report")
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 10)
	pdf.Cell(0, 6, "Generated: "+report.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	// Today
	pdf.SetFont(fontName, "B", 14)
	pdf.Cell(0, 8, "Today")
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 10)
	t := report.Meals.Totals
	pdf.Cell(0, 6, fmt.Sprintf("Calories eaten: %s of %s kcal (%s kcal remaining)",
		formatFloat(t.Calories), formatFloat(report.Goals.Calories), formatFloat(report.Meals.CaloriesRemaining)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Protein %sg  Carbs %sg  Fats %sg",
		formatFloat(t.Protein), formatFloat(t.Carbs), formatFloat(t.Fats)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Steps: %d of %d", report.Stats.Steps, report.Goals.Steps))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Active: %d min, %s kcal burned, %d workouts",
		report.Stats.ActiveMinutes, formatFloat(report.Stats.CaloriesBurned), len(report.Workouts)))
	pdf.Ln(12)

	// Week
	pdf.SetFont(fontName, "B", 14)
	pdf.Cell(0, 8, "This Week")
	pdf.Ln(8)

	drawWeekTable(pdf, report.Points, fontName)

	pdf.Ln(4)
	pdf.SetFont(fontName, "I", 8)
	pdf.Cell(0, 5, "* estimated values, not measured history")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func drawWeekTable(pdf *gofpdf.Fpdf, points []timeseries.Point, fontName string) {
	headers := []string{"Day", "Steps", "Kcal in", "Kcal out", "Active min", "Weight"}
	widths := []float64{25, 28, 28, 28, 28, 28}

	pdf.SetFont(fontName, "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontName, "", 9)
	for _, p := range points {
		label := p.Label
		if p.Synthetic {
			label += "*"
		}
		cells := []string{
			label,
			strconv.Itoa(p.Steps),
			formatFloat(p.CaloriesIn),
			formatFloat(p.CaloriesBurned),
			strconv.Itoa(p.ActiveMinutes),
			fmt.Sprintf("%.1f", p.Weight),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
