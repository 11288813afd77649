package reports

import (
	"time"

	"github.com/fdg312/nutrilog/internal/aggregate"
	"github.com/fdg312/nutrilog/internal/goals"
	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/timeseries"
)

// Constants for validation
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// WeeklyReport is the data behind one export.
type WeeklyReport struct {
	GeneratedAt time.Time
	Points      []timeseries.Point
	Meals       aggregate.Summary
	Stats       storage.UserStats
	Goals       goals.Goals
	Workouts    []storage.WorkoutEntry
}
