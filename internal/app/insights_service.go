/**
 * @description
 * Secondary model-backed features: body-fat estimation from a physique
 * photo, voice-note transcription, and diet plan generation. Each follows
 * the same contract as the food scanner: fixed instruction, strict JSON
 * (or plain text for transcription), local validation of whatever comes
 * back.
 */
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/aigateway"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

var (
	ErrNoAudio            = errors.New("an audio payload is required")
	ErrUnsupportedAudio   = errors.New("unsupported audio format")
	ErrInvalidDietRequest = errors.New("meals per day must be between 2 and 5")
)

// audioFormats are the container formats the gateway accepts.
var audioFormats = map[string]bool{"webm": true, "mp4": true, "wav": true, "mp3": true, "m4a": true}

// InsightsService bundles the non-scan model features.
type InsightsService struct {
	repo        store.Repository
	gateway     Completer
	visionModel string
	audioModel  string
	textModel   string
	logger      *slog.Logger
}

// NewInsightsService creates an InsightsService.
func NewInsightsService(repo store.Repository, gateway Completer, visionModel, audioModel, textModel string, logger *slog.Logger) *InsightsService {
	return &InsightsService{
		repo:        repo,
		gateway:     gateway,
		visionModel: visionModel,
		audioModel:  audioModel,
		textModel:   textModel,
		logger:      logger,
	}
}

// BodyFatContext carries the subject details that sharpen the estimate.
// Any zero field is simply omitted from the prompt.
type BodyFatContext struct {
	Sex      domain.Sex `json:"sex,omitempty"`
	WeightKg float64    `json:"weight_kg,omitempty"`
	HeightCm float64    `json:"height_cm,omitempty"`
}

func (c *BodyFatContext) promptLine() string {
	if c == nil {
		return ""
	}
	var parts []string
	if c.Sex != "" {
		parts = append(parts, fmt.Sprintf("sexo %s", c.Sex))
	}
	if c.WeightKg > 0 {
		parts = append(parts, fmt.Sprintf("peso %.1f kg", c.WeightKg))
	}
	if c.HeightCm > 0 {
		parts = append(parts, fmt.Sprintf("estatura %.0f cm", c.HeightCm))
	}
	if len(parts) == 0 {
		return ""
	}
	return "\n\nDatos del usuario: " + strings.Join(parts, ", ") + "."
}

// EstimateBodyFat analyzes a physique photo and returns the model's
// estimate with its written analysis.
func (s *InsightsService) EstimateBodyFat(ctx context.Context, imageDataURL string, subject *BodyFatContext) (*domain.BodyFatEstimate, error) {
	if strings.TrimSpace(imageDataURL) == "" {
		return nil, ErrNoImage
	}

	content, err := s.gateway.Complete(ctx, s.visionModel, []aigateway.Message{
		{Role: "user", Content: []interface{}{
			aigateway.NewTextPart(bodyFatPrompt + subject.promptLine()),
			aigateway.NewImagePart(imageDataURL),
		}},
	})
	if err != nil {
		return nil, err
	}

	var estimate domain.BodyFatEstimate
	if err := json.Unmarshal([]byte(ExtractJSON(content)), &estimate); err != nil {
		s.logger.Warn("body-fat response was not valid JSON", "err", err)
		return nil, ErrUnreadableImage
	}
	if estimate.BodyFatPercent <= 0 || estimate.BodyFatPercent >= 70 {
		return nil, ErrInvalidAIResponse
	}
	return &estimate, nil
}

// TranscribeAudio turns a recorded voice note into text.
func (s *InsightsService) TranscribeAudio(ctx context.Context, base64Audio, format string) (string, error) {
	if strings.TrimSpace(base64Audio) == "" {
		return "", ErrNoAudio
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if !audioFormats[format] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAudio, format)
	}

	content, err := s.gateway.Complete(ctx, s.audioModel, []aigateway.Message{
		{Role: "user", Content: []interface{}{
			aigateway.NewTextPart(transcribePrompt),
			aigateway.NewAudioPart(base64Audio, format),
		}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// DietRequest parameterizes a generated plan.
type DietRequest struct {
	TargetCalories int    `json:"target_calories"`
	ProteinG       int    `json:"protein_g"`
	CarbsG         int    `json:"carbs_g"`
	FatG           int    `json:"fat_g"`
	MealsPerDay    int    `json:"meals_per_day"`
	Preferences    string `json:"preferences"`
}

// GenerateDiet asks the model for a day plan hitting the user's targets
// and validates the returned structure before handing it back.
func (s *InsightsService) GenerateDiet(ctx context.Context, req DietRequest) (json.RawMessage, error) {
	names, ok := dietMealNames[req.MealsPerDay]
	if !ok {
		return nil, ErrInvalidDietRequest
	}

	userPrompt := fmt.Sprintf(
		"Genera un plan de %d comidas (%s) con meta diaria: %d kcal, %dg proteína, %dg carbohidratos, %dg grasas.",
		req.MealsPerDay, strings.Join(names, ", "),
		req.TargetCalories, req.ProteinG, req.CarbsG, req.FatG,
	)
	if p := strings.TrimSpace(req.Preferences); p != "" {
		userPrompt += " Preferencias del usuario: " + p
	}

	content, err := s.gateway.Complete(ctx, s.textModel, []aigateway.Message{
		{Role: "system", Content: dietSystemPrompt},
		{Role: "user", Content: userPrompt},
	})
	if err != nil {
		return nil, err
	}

	payload := ExtractJSON(content)
	var parsed struct {
		Meals []json.RawMessage `json:"meals"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		s.logger.Warn("diet response was not valid JSON", "err", err)
		return nil, ErrInvalidAIResponse
	}
	if len(parsed.Meals) == 0 {
		return nil, ErrInvalidAIResponse
	}
	return json.RawMessage(payload), nil
}

// SaveDiet persists a generated plan under a user-chosen name.
func (s *InsightsService) SaveDiet(ctx context.Context, userID, name string, plan json.RawMessage) (*domain.SavedDiet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Mi dieta"
	}
	if !json.Valid(plan) {
		return nil, ErrInvalidAIResponse
	}
	return s.repo.SaveDiet(ctx, &domain.SavedDiet{UserID: userID, Name: name, Plan: plan})
}

// ListDiets returns the user's saved plans.
func (s *InsightsService) ListDiets(ctx context.Context, userID string) ([]domain.SavedDiet, error) {
	return s.repo.ListDiets(ctx, userID)
}
