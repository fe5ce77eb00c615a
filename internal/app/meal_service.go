/**
 * @description
 * Meal logging: confirming a scan into the daily log, deleting a logged
 * scan, and reading a day back. Totals submitted by the client are never
 * trusted; they are recomputed from the foods array on every save, and the
 * daily aggregate is maintained transactionally by the store.
 */
package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

var (
	ErrInvalidMealType = errors.New("meal type must be breakfast, lunch, dinner or snack")
	ErrNoFoods         = errors.New("a meal needs at least one food item")
	ErrInvalidDate     = errors.New("date must be formatted YYYY-MM-DD")
)

// MealService owns the daily-log write and read paths.
type MealService struct {
	repo   store.Repository
	events Publisher
	logger *slog.Logger
}

// NewMealService creates a MealService.
func NewMealService(repo store.Repository, events Publisher, logger *slog.Logger) *MealService {
	return &MealService{repo: repo, events: events, logger: logger}
}

// DayLog is a daily aggregate together with the scans that produced it.
type DayLog struct {
	Log   *domain.DailyLog  `json:"daily_log"`
	Meals []domain.MealScan `json:"meals"`
}

// LogMeal persists a confirmed scan under the given calendar date. The
// scan's totals and the parent log's totals are both derived server-side
// from the foods array.
func (s *MealService) LogMeal(ctx context.Context, userID, date string, mealType domain.MealType, photoURL *string, foods []domain.FoodItem) (*domain.MealScan, *domain.DailyLog, error) {
	if !domain.ValidMealType(mealType) {
		return nil, nil, ErrInvalidMealType
	}
	if len(foods) == 0 {
		return nil, nil, ErrNoFoods
	}
	if err := validateDate(date); err != nil {
		return nil, nil, err
	}

	for i := range foods {
		if foods[i].OriginalGrams == 0 {
			foods[i].OriginalGrams = foods[i].Grams
		}
	}
	totals := domain.SumFoods(foods)

	scan := &domain.MealScan{
		UserID:        userID,
		MealType:      mealType,
		PhotoURL:      photoURL,
		Foods:         foods,
		TotalCalories: totals.Calories,
		TotalProtein:  totals.Protein,
		TotalCarbs:    totals.Carbs,
		TotalFat:      totals.Fat,
	}

	saved, log, err := s.repo.SaveMealScan(ctx, scan, date)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, "meal.logged", map[string]interface{}{
		"user_id":  userID,
		"scan_id":  saved.ID,
		"date":     date,
		"calories": totals.Calories,
	})
	return saved, log, nil
}

// DeleteMeal removes one logged scan and returns the day's corrected
// aggregate. Ownership is enforced by the store.
func (s *MealService) DeleteMeal(ctx context.Context, userID, scanID string) (*domain.DailyLog, error) {
	log, err := s.repo.DeleteMealScan(ctx, userID, scanID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "meal.deleted", map[string]interface{}{
		"user_id": userID,
		"scan_id": scanID,
	})
	return log, nil
}

// GetDay returns the aggregate and scans for one calendar date. A day the
// user never logged anything on reads back as an empty zero-total log, not
// an error.
func (s *MealService) GetDay(ctx context.Context, userID, date string) (*DayLog, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	log, err := s.repo.GetDailyLog(ctx, userID, date)
	if errors.Is(err, store.ErrDailyLogNotFound) {
		return &DayLog{
			Log:   &domain.DailyLog{UserID: userID, Date: date},
			Meals: []domain.MealScan{},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	meals, err := s.repo.ListMealScans(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return &DayLog{Log: log, Meals: meals}, nil
}

func (s *MealService) publish(ctx context.Context, routingKey string, body interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventsExchange, routingKey, body); err != nil {
		s.logger.Warn("failed to publish event", "routing_key", routingKey, "err", err)
	}
}

func validateDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return ErrInvalidDate
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
