/*
Package chat contains the real-time messaging core.

This file defines the delivery queue: per-recipient FIFO records for messages
awaiting delivery or acknowledgment. The queue is the single writer of
delivery state; the router only reads connections and rooms and writes here.
*/
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"shutterchat/internal/pkg/logx"
	"shutterchat/internal/pkg/metrics"
)

// DeliveryState is the retained state of a queued message for one recipient.
type DeliveryState string

const (
	// StatePending means the message awaits the recipient coming online.
	StatePending DeliveryState = "pending"

	// StateDelivered means the message was pushed but not yet acknowledged.
	StateDelivered DeliveryState = "delivered"

	// StateAcknowledged is terminal; acknowledged records are removed.
	StateAcknowledged DeliveryState = "acknowledged"
)

// DeliveryRecord tracks one (message, recipient) pair. A record exists only
// while the recipient has not acknowledged receipt.
type DeliveryRecord struct {
	MessageID   string
	RecipientID string
	State       DeliveryState
	Message     Message
	EnqueuedAt  time.Time
}

// Journal is the optional durable write-behind for delivery records. The
// in-memory queue stays authoritative; journal failures are logged, not
// surfaced, and retried by the surrounding layer.
type Journal interface {
	Append(ctx context.Context, rec DeliveryRecord) error
	MarkDelivered(ctx context.Context, messageID, recipientID string) error
	Remove(ctx context.Context, messageID, recipientID string) error
}

// recipientQueue holds one recipient's records in creation order. Each
// recipient has its own lock so different recipients never contend.
type recipientQueue struct {
	mu      sync.Mutex
	records []*DeliveryRecord
}

// DeliveryQueue holds pending and delivered records per recipient, FIFO
// within a recipient, unordered across recipients. Growth is unbounded by
// design; capacity bounds belong to the surrounding system.
type DeliveryQueue struct {
	mu         sync.RWMutex
	recipients map[string]*recipientQueue

	journal Journal
	logger  zerolog.Logger
}

// NewDeliveryQueue constructs a DeliveryQueue. journal may be nil for a
// purely in-memory queue.
func NewDeliveryQueue(journal Journal) *DeliveryQueue {
	return &DeliveryQueue{
		recipients: make(map[string]*recipientQueue),
		journal:    journal,
		logger:     logx.Logger().With().Str("component", "DeliveryQueue").Logger(),
	}
}

// forRecipient returns the recipient's sub-queue, creating it if needed.
func (q *DeliveryQueue) forRecipient(recipientID string) *recipientQueue {
	q.mu.RLock()
	rq, ok := q.recipients[recipientID]
	q.mu.RUnlock()

	if !ok {
		q.mu.Lock()
		rq, ok = q.recipients[recipientID]
		if !ok {
			rq = &recipientQueue{}
			q.recipients[recipientID] = rq
		}
		q.mu.Unlock()
	}

	return rq
}

// Enqueue appends a pending delivery record for the recipient.
func (q *DeliveryQueue) Enqueue(msg Message, recipientID string) {
	rec := &DeliveryRecord{
		MessageID:   msg.ID,
		RecipientID: recipientID,
		State:       StatePending,
		Message:     msg,
		EnqueuedAt:  time.Now(),
	}

	rq := q.forRecipient(recipientID)
	rq.mu.Lock()
	rq.records = append(rq.records, rec)
	rq.mu.Unlock()

	metrics.DeliveriesPending.Inc()

	if q.journal != nil {
		if err := q.journal.Append(context.Background(), *rec); err != nil {
			q.logger.Error().Err(err).
				Str("message_id", msg.ID).
				Str("recipient_id", recipientID).
				Msg("Journal append failed; in-memory record remains authoritative.")
		}
	}
}

// Drain returns the recipient's pending messages in creation order. Read-only:
// the caller confirms each push separately via MarkDelivered.
func (q *DeliveryQueue) Drain(recipientID string) []Message {
	rq := q.forRecipient(recipientID)

	rq.mu.Lock()
	defer rq.mu.Unlock()

	var pending []Message
	for _, rec := range rq.records {
		if rec.State == StatePending {
			pending = append(pending, rec.Message)
		}
	}
	return pending
}

// MarkDelivered transitions a record from pending to delivered. A missing or
// already-delivered record is a silent no-op; idempotence, not an error.
func (q *DeliveryQueue) MarkDelivered(messageID, recipientID string) {
	rq := q.forRecipient(recipientID)

	rq.mu.Lock()
	defer rq.mu.Unlock()

	for _, rec := range rq.records {
		if rec.MessageID == messageID && rec.State == StatePending {
			rec.State = StateDelivered

			if q.journal != nil {
				if err := q.journal.MarkDelivered(context.Background(), messageID, recipientID); err != nil {
					q.logger.Error().Err(err).
						Str("message_id", messageID).
						Msg("Journal delivered-transition failed.")
				}
			}
			return
		}
	}
}

// MarkAcknowledged transitions a delivered record to acknowledged and removes
// it; acknowledged records are not retained. Acknowledging a missing,
// pending, or already-acknowledged record is a silent no-op.
func (q *DeliveryQueue) MarkAcknowledged(messageID, recipientID string) {
	rq := q.forRecipient(recipientID)

	rq.mu.Lock()
	defer rq.mu.Unlock()

	for i, rec := range rq.records {
		if rec.MessageID == messageID {
			if rec.State != StateDelivered {
				return
			}

			rq.records = append(rq.records[:i], rq.records[i+1:]...)

			metrics.DeliveriesPending.Dec()
			metrics.AcksTotal.Inc()

			if q.journal != nil {
				if err := q.journal.Remove(context.Background(), messageID, recipientID); err != nil {
					q.logger.Error().Err(err).
						Str("message_id", messageID).
						Msg("Journal record removal failed.")
				}
			}
			return
		}
	}
}

// Record returns a copy of the record for a (message, recipient) pair.
func (q *DeliveryQueue) Record(messageID, recipientID string) (DeliveryRecord, bool) {
	rq := q.forRecipient(recipientID)

	rq.mu.Lock()
	defer rq.mu.Unlock()

	for _, rec := range rq.records {
		if rec.MessageID == messageID {
			return *rec, true
		}
	}
	return DeliveryRecord{}, false
}

// OutstandingCount returns the number of unacknowledged records across all
// recipients. Feeds the dashboard snapshot.
func (q *DeliveryQueue) OutstandingCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	total := 0
	for _, rq := range q.recipients {
		rq.mu.Lock()
		total += len(rq.records)
		rq.mu.Unlock()
	}
	return total
}
