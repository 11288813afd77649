package workouts

import "github.com/fdg312/nutrilog/internal/storage"

const DefaultDuration = "30 minutes"

type SuggestRequest struct {
	Type     string `json:"type"`
	Duration string `json:"duration"`
}

// CompleteRequest records a finished workout. Duration is free text such as
// "45 mins"; its leading number is taken as minutes.
type CompleteRequest struct {
	Title          string  `json:"title"`
	Duration       string  `json:"duration"`
	CaloriesBurned float64 `json:"calories_burned"`
}

type CompleteResponse struct {
	Workout storage.WorkoutEntry `json:"workout"`
	Stats   storage.UserStats    `json:"stats"`
}

type ListResponse struct {
	Workouts []storage.WorkoutEntry `json:"workouts"`
}
