package dashboard

import (
	"github.com/fdg312/nutrilog/internal/aggregate"
	"github.com/fdg312/nutrilog/internal/goals"
	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/timeseries"
)

type Response struct {
	Stats        storage.UserStats `json:"stats"`
	StepProgress float64           `json:"step_progress"`
	Meals        aggregate.Summary `json:"meals"`
	Goals        goals.Goals       `json:"goals"`
}

type ChartResponse struct {
	Points []timeseries.Point `json:"points"`
}

type StepsRequest struct {
	Delta int `json:"delta"`
}
