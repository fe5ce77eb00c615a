/**
 * @description
 * Food-scan orchestration: send the photo to the vision model with the fixed
 * nutritionist instruction, parse the strict-JSON reply, and recompute the
 * totals locally as a trust-but-verify step. The model's own totals are
 * never used.
 */
package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/aigateway"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

var (
	// ErrUnreadableImage means the model's reply was not parseable JSON;
	// the user should try another photo.
	ErrUnreadableImage = errors.New("could not interpret the image")
	// ErrInvalidAIResponse means the reply parsed but lacked the required
	// foods array.
	ErrInvalidAIResponse = errors.New("invalid model response structure")
	// ErrNoImage means the caller sent an empty image payload.
	ErrNoImage = errors.New("an image is required")
)

// ScanService runs photo-based food recognition.
type ScanService struct {
	gateway Completer
	model   string
	logger  *slog.Logger
}

// NewScanService creates a ScanService using the given vision model id.
func NewScanService(gateway Completer, model string, logger *slog.Logger) *ScanService {
	return &ScanService{gateway: gateway, model: model, logger: logger}
}

// rawScanFood matches the model's response contract; grams may come back
// with decimals.
type rawScanFood struct {
	Name     string  `json:"name"`
	Grams    float64 `json:"grams"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Analyze sends the encoded image to the vision model and returns the
// validated scan result. Gateway quota errors pass through untouched so the
// caller can distinguish 429 from 402.
func (s *ScanService) Analyze(ctx context.Context, imageDataURL string) (*domain.ScanResult, error) {
	if strings.TrimSpace(imageDataURL) == "" {
		return nil, ErrNoImage
	}

	content, err := s.gateway.Complete(ctx, s.model, []aigateway.Message{
		{Role: "system", Content: scanSystemPrompt},
		{Role: "user", Content: []interface{}{
			aigateway.NewTextPart(scanUserPrompt),
			aigateway.NewImagePart(imageDataURL),
		}},
	})
	if err != nil {
		return nil, err
	}

	// Malformed JSON means the model could not read the image; valid JSON
	// with a missing or non-array foods field is a malformed reply.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(ExtractJSON(content)), &fields); err != nil {
		s.logger.Warn("scan response was not valid JSON", "err", err)
		return nil, ErrUnreadableImage
	}
	rawFoods, ok := fields["foods"]
	if !ok {
		return nil, ErrInvalidAIResponse
	}
	var foods []rawScanFood
	if err := json.Unmarshal(rawFoods, &foods); err != nil || foods == nil {
		return nil, ErrInvalidAIResponse
	}

	result := &domain.ScanResult{Foods: make([]domain.FoodItem, 0, len(foods))}
	for _, f := range foods {
		result.Foods = append(result.Foods, domain.FoodItem{
			Name:          f.Name,
			Grams:         f.Grams,
			OriginalGrams: f.Grams, // scan-time weight is the rescale baseline
			Calories:      int(f.Calories),
			Protein:       f.Protein,
			Carbs:         f.Carbs,
			Fat:           f.Fat,
		})
	}
	result.Totals = domain.SumFoods(result.Foods)
	return result, nil
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON pulls the JSON payload out of a model reply, tolerating
// markdown fences and leading/trailing prose around the outermost braces.
func ExtractJSON(content string) string {
	if m := fencedJSON.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end != -1 && end > start {
		return content[start : end+1]
	}
	return content
}
