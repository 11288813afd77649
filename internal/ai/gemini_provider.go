package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/fdg312/nutrilog/internal/config"
)

// GeminiProvider asks Gemini for structured JSON answers.
type GeminiProvider struct {
	client  *genai.Client
	meal    *genai.GenerativeModel
	workout *genai.GenerativeModel
	timeout time.Duration
}

func NewGeminiProvider(ctx context.Context, cfg *config.Config) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}

	return &GeminiProvider{
		client:  client,
		meal:    newJSONModel(client, cfg, mealSchema()),
		workout: newJSONModel(client, cfg, workoutSchema()),
		timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func newJSONModel(client *genai.Client, cfg *config.Config, schema *genai.Schema) *genai.GenerativeModel {
	model := client.GenerativeModel(cfg.GeminiModel)
	model.SetTemperature(float32(cfg.AITemperature))
	model.SetMaxOutputTokens(int32(cfg.AIMaxOutputTokens))
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema
	return model
}

func mealSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":     {Type: genai.TypeString, Description: "A short, concise name for the meal"},
			"calories": {Type: genai.TypeNumber, Description: "Estimated calories (kcal)"},
			"protein":  {Type: genai.TypeNumber, Description: "Estimated protein (g)"},
			"carbs":    {Type: genai.TypeNumber, Description: "Estimated carbohydrates (g)"},
			"fats":     {Type: genai.TypeNumber, Description: "Estimated fats (g)"},
		},
		Required: []string{"name", "calories", "protein", "carbs", "fats"},
	}
}

func workoutSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":             {Type: genai.TypeString, Description: "Catchy title for the workout"},
			"estimatedCalories": {Type: genai.TypeNumber, Description: "Estimated total calories burned"},
			"exercises": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name": {Type: genai.TypeString},
						"sets": {Type: genai.TypeString, Description: "e.g., '3 sets'"},
						"reps": {Type: genai.TypeString, Description: "e.g., '12 reps' or '45 secs'"},
					},
				},
			},
		},
		Required: []string{"title", "estimatedCalories", "exercises"},
	}
}

func (p *GeminiProvider) EstimateMeal(ctx context.Context, description string) (*MealEstimate, error) {
	text, err := p.generate(ctx, p.meal, mealPrompt(description))
	if err != nil {
		return nil, err
	}
	return decodeMealEstimate(text)
}

func (p *GeminiProvider) SuggestWorkout(ctx context.Context, workoutType, duration string) (*WorkoutSuggestion, error) {
	text, err := p.generate(ctx, p.workout, workoutPrompt(workoutType, duration))
	if err != nil {
		return nil, err
	}
	return decodeWorkoutSuggestion(text)
}

func (p *GeminiProvider) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}
