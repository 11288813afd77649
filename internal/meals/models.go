package meals

import (
	"github.com/fdg312/nutrilog/internal/aggregate"
	"github.com/fdg312/nutrilog/internal/goals"
	"github.com/fdg312/nutrilog/internal/storage"
)

// ManualMealRequest — ручной ввод. Макросы необязательны (по умолчанию 0).
type ManualMealRequest struct {
	Name     string   `json:"name"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fats     *float64 `json:"fats,omitempty"`
}

type EstimateRequest struct {
	Description string `json:"description"`
}

type ListResponse struct {
	Meals []storage.MealEntry `json:"meals"`
}

type SummaryResponse struct {
	aggregate.Summary
	Goals goals.Goals `json:"goals"`
}
