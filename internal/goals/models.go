package goals

import "github.com/fdg312/nutrilog/internal/config"

// Goals are the static daily targets.
type Goals struct {
	Calories     float64 `json:"calories"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatsG        float64 `json:"fats_g"`
	Steps        int     `json:"steps"`
	WaterGlasses int     `json:"water_glasses"`
}

func Default() Goals {
	return Goals{
		Calories:     2500,
		ProteinG:     150,
		CarbsG:       300,
		FatsG:        70,
		Steps:        8000,
		WaterGlasses: 8,
	}
}

// FromConfig takes configured targets, keeping defaults for non-positive values.
func FromConfig(c config.GoalsConfig) Goals {
	g := Default()
	if c.Calories > 0 {
		g.Calories = c.Calories
	}
	if c.ProteinG > 0 {
		g.ProteinG = c.ProteinG
	}
	if c.CarbsG > 0 {
		g.CarbsG = c.CarbsG
	}
	if c.FatsG > 0 {
		g.FatsG = c.FatsG
	}
	if c.Steps > 0 {
		g.Steps = c.Steps
	}
	if c.WaterGlasses > 0 {
		g.WaterGlasses = c.WaterGlasses
	}
	return g
}
