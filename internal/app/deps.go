/**
 * @description
 * Shared dependency interfaces for the service layer. Services depend on
 * these narrow interfaces instead of the concrete gateway/broker clients so
 * every orchestration path is testable with hand-rolled stubs.
 */
package app

import (
	"context"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/aigateway"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

// Completer is the slice of the model gateway client the services consume.
type Completer interface {
	Complete(ctx context.Context, model string, messages []aigateway.Message) (string, error)
	StreamCompletion(ctx context.Context, model string, messages []aigateway.Message, onDelta func(delta string) error) (string, error)
}

// Publisher publishes audit/domain events to the message broker. A nil
// Publisher value is tolerated everywhere: event publication is best-effort
// and never blocks the user-facing mutation.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

// BillingClient queries the external payment processor for an account's
// subscription status.
type BillingClient interface {
	CheckSubscription(ctx context.Context, email string) (*domain.BillingStatus, error)
}

// eventsExchange is the topic exchange all audit events are published to.
const eventsExchange = "fitscan.events"
