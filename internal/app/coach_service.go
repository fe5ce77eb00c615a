/**
 * @description
 * Coach chat orchestration: builds the persona prompt with the caller's
 * numeric day appended, replays the stored transcript, streams the model's
 * reply delta by delta, and persists both sides of the exchange once the
 * stream has fully concluded. A stream that dies midway persists nothing,
 * so the transcript never contains half an answer.
 */
package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/aigateway"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

var ErrEmptyMessage = errors.New("message must not be empty")

const conversationTitleMax = 60

// CoachService runs the streamed chat surface.
type CoachService struct {
	repo    store.Repository
	gateway Completer
	model   string
	logger  *slog.Logger
}

// NewCoachService creates a CoachService using the given chat model id.
func NewCoachService(repo store.Repository, gateway Completer, model string, logger *slog.Logger) *CoachService {
	return &CoachService{repo: repo, gateway: gateway, model: model, logger: logger}
}

// ChatResult is the outcome of one streamed exchange.
type ChatResult struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

// Chat streams one exchange. An empty conversationID starts a new
// conversation titled after the opening message. onDelta receives each
// text fragment as it arrives; returning an error from it aborts the
// stream.
func (s *CoachService) Chat(ctx context.Context, userID, conversationID, message string, coachCtx *domain.CoachContext, onDelta func(delta string) error) (*ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	var history []domain.CoachMessage
	if conversationID == "" {
		conv, err := s.repo.CreateConversation(ctx, userID, titleFrom(message))
		if err != nil {
			return nil, err
		}
		conversationID = conv.ID
	} else {
		if _, err := s.repo.GetConversation(ctx, userID, conversationID); err != nil {
			return nil, err
		}
		var err error
		history, err = s.repo.ListMessages(ctx, conversationID)
		if err != nil {
			return nil, err
		}
	}

	messages := make([]aigateway.Message, 0, len(history)+2)
	messages = append(messages, aigateway.Message{
		Role:    "system",
		Content: coachSystemPrompt + buildCoachContextLine(coachCtx),
	})
	for _, m := range history {
		messages = append(messages, aigateway.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, aigateway.Message{Role: "user", Content: message})

	reply, err := s.gateway.StreamCompletion(ctx, s.model, messages, onDelta)
	if err != nil {
		return nil, err
	}

	// Transcript writes happen strictly after the stream ends.
	if err := s.repo.AppendMessages(ctx, conversationID, []domain.CoachMessage{
		{ConversationID: conversationID, Role: "user", Content: message},
		{ConversationID: conversationID, Role: "assistant", Content: reply},
	}); err != nil {
		// The user already saw the reply; losing the transcript row is
		// logged, not surfaced as a failed chat.
		s.logger.Error("failed to persist coach transcript", "conversation_id", conversationID, "err", err)
	}

	return &ChatResult{ConversationID: conversationID, Reply: reply}, nil
}

// Conversations lists the user's conversations, most recent first.
func (s *CoachService) Conversations(ctx context.Context, userID string) ([]domain.CoachConversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// Messages returns a conversation's transcript after an ownership check.
func (s *CoachService) Messages(ctx context.Context, userID, conversationID string) ([]domain.CoachMessage, error) {
	if _, err := s.repo.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID)
}

func titleFrom(message string) string {
	if utf8.RuneCountInString(message) <= conversationTitleMax {
		return message
	}
	runes := []rune(message)
	return string(runes[:conversationTitleMax]) + "..."
}
