package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/aigateway"
)

type completerStub struct {
	content string
	err     error
	got     []aigateway.Message
}

func (c *completerStub) Complete(ctx context.Context, model string, messages []aigateway.Message) (string, error) {
	c.got = messages
	return c.content, c.err
}

func (c *completerStub) StreamCompletion(ctx context.Context, model string, messages []aigateway.Message, onDelta func(string) error) (string, error) {
	return c.content, c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScanService_RecomputesTotalsFromFoods(t *testing.T) {
	// The model reports deliberately wrong totals; they must be ignored.
	stub := &completerStub{content: `{
		"foods": [
			{"name": "arroz blanco", "grams": 180, "calories": 234, "protein": 4.9, "carbs": 50.4, "fat": 0.5},
			{"name": "pechuga de pollo", "grams": 150, "calories": 248, "protein": 46.5, "carbs": 0, "fat": 5.4}
		],
		"totals": {"calories": 9999, "protein": 1, "carbs": 1, "fat": 1}
	}`}

	svc := NewScanService(stub, "vision-model", discardLogger())
	result, err := svc.Analyze(context.Background(), "data:image/jpeg;base64,xxx")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.Totals.Calories != 234+248 {
		t.Fatalf("expected recomputed calories %d, got %d", 234+248, result.Totals.Calories)
	}
	if math.Abs(result.Totals.Protein-(4.9+46.5)) > 0.001 {
		t.Fatalf("expected recomputed protein %.1f, got %.1f", 4.9+46.5, result.Totals.Protein)
	}
	if math.Abs(result.Totals.Fat-(0.5+5.4)) > 0.001 {
		t.Fatalf("expected recomputed fat %.1f, got %.1f", 0.5+5.4, result.Totals.Fat)
	}
}

func TestScanService_CapturesOriginalGramsBaseline(t *testing.T) {
	stub := &completerStub{content: `{"foods": [{"name": "camote", "grams": 120, "calories": 103, "protein": 1.9, "carbs": 24, "fat": 0.1}]}`}

	svc := NewScanService(stub, "vision-model", discardLogger())
	result, err := svc.Analyze(context.Background(), "data:image/jpeg;base64,xxx")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.Foods[0].OriginalGrams != 120 {
		t.Fatalf("expected original grams baseline 120, got %v", result.Foods[0].OriginalGrams)
	}
}

func TestScanService_UnwrapsMarkdownFencedJSON(t *testing.T) {
	stub := &completerStub{content: "Claro, aquí está:\n```json\n{\"foods\": [{\"name\": \"palta\", \"grams\": 50, \"calories\": 80, \"protein\": 1, \"carbs\": 4.3, \"fat\": 7.4}]}\n```"}

	svc := NewScanService(stub, "vision-model", discardLogger())
	result, err := svc.Analyze(context.Background(), "data:image/jpeg;base64,xxx")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if len(result.Foods) != 1 || result.Foods[0].Name != "palta" {
		t.Fatalf("unexpected foods: %+v", result.Foods)
	}
}

func TestScanService_NonJSONIsUnreadableImage(t *testing.T) {
	stub := &completerStub{content: "lo siento, no puedo ver nada en esa foto"}

	svc := NewScanService(stub, "vision-model", discardLogger())
	_, err := svc.Analyze(context.Background(), "data:image/jpeg;base64,xxx")
	if !errors.Is(err, ErrUnreadableImage) {
		t.Fatalf("expected ErrUnreadableImage, got %v", err)
	}
}

func TestScanService_MissingFoodsIsInvalidResponse(t *testing.T) {
	stub := &completerStub{content: `{"totals": {"calories": 500}}`}

	svc := NewScanService(stub, "vision-model", discardLogger())
	_, err := svc.Analyze(context.Background(), "data:image/jpeg;base64,xxx")
	if !errors.Is(err, ErrInvalidAIResponse) {
		t.Fatalf("expected ErrInvalidAIResponse, got %v", err)
	}
}

func TestScanService_NonArrayFoodsIsInvalidResponse(t *testing.T) {
	// Valid JSON, wrong shape: the model answered but not with a food list.
	stub := &completerStub{content: `{"foods": {"name": "arroz", "grams": 180}}`}

	svc := NewScanService(stub, "vision-model", discardLogger())
	_, err := svc.Analyze(context.Background(), "data:image/jpeg;base64,xxx")
	if !errors.Is(err, ErrInvalidAIResponse) {
		t.Fatalf("expected ErrInvalidAIResponse, got %v", err)
	}
}

func TestScanService_QuotaErrorsPassThrough(t *testing.T) {
	stub := &completerStub{err: aigateway.ErrRateLimited}

	svc := NewScanService(stub, "vision-model", discardLogger())
	_, err := svc.Analyze(context.Background(), "data:image/jpeg;base64,xxx")
	if !errors.Is(err, aigateway.ErrRateLimited) {
		t.Fatalf("expected gateway rate-limit error to pass through, got %v", err)
	}
}

func TestScanService_EmptyImageRejected(t *testing.T) {
	svc := NewScanService(&completerStub{}, "vision-model", discardLogger())
	_, err := svc.Analyze(context.Background(), "  ")
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}
