package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fdg312/nutrilog/internal/config"
)

const openAIChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

type OpenAIProvider struct {
	apiKey      string
	model       string
	endpoint    string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}

	return &OpenAIProvider{
		apiKey:      cfg.OpenAIAPIKey,
		model:       cfg.OpenAIModel,
		endpoint:    openAIChatCompletionsURL,
		maxTokens:   cfg.AIMaxOutputTokens,
		temperature: cfg.AITemperature,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (p *OpenAIProvider) EstimateMeal(ctx context.Context, description string) (*MealEstimate, error) {
	content, err := p.complete(ctx,
		"You are a nutrition assistant. Reply with a single JSON object "+
			`{"name":string,"calories":number,"protein":number,"carbs":number,"fats":number}. `+
			"name is a short, concise name for the meal; calories in kcal; protein, carbs and fats in grams.",
		mealPrompt(description),
	)
	if err != nil {
		return nil, err
	}
	return decodeMealEstimate(content)
}

func (p *OpenAIProvider) SuggestWorkout(ctx context.Context, workoutType, duration string) (*WorkoutSuggestion, error) {
	content, err := p.complete(ctx,
		"You are a fitness coach. Reply with a single JSON object "+
			`{"title":string,"estimatedCalories":number,"exercises":[{"name":string,"sets":string,"reps":string}]}. `+
			`sets looks like "3 sets", reps like "12 reps" or "45 secs".`,
		workoutPrompt(workoutType, duration),
	)
	if err != nil {
		return nil, err
	}
	return decodeWorkoutSuggestion(content)
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user string) (string, error) {
	requestPayload := chatCompletionsRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages: []chatMessageRequest{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response does not contain choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

type chatCompletionsRequest struct {
	Model          string               `json:"model"`
	Messages       []chatMessageRequest `json:"messages"`
	Temperature    float64              `json:"temperature"`
	MaxTokens      int                  `json:"max_tokens"`
	ResponseFormat *responseFormat      `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
