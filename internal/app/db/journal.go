package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shutterchat/internal/app/chat"
)

const journalOpTimeout = 5 * time.Second

// DeliveryJournal is the PostgreSQL implementation of chat.Journal. It
// mirrors delivery-record transitions write-behind; the in-memory queue
// remains the authoritative copy.
type DeliveryJournal struct {
	pool *pgxpool.Pool
}

// NewDeliveryJournal constructs a DeliveryJournal over the given pool.
func NewDeliveryJournal(pool *pgxpool.Pool) *DeliveryJournal {
	return &DeliveryJournal{pool: pool}
}

// Append inserts a pending delivery record.
func (j *DeliveryJournal) Append(ctx context.Context, rec chat.DeliveryRecord) error {
	ctx, cancel := context.WithTimeout(ctx, journalOpTimeout)
	defer cancel()

	_, err := j.pool.Exec(ctx, `
		INSERT INTO delivery_records (message_id, recipient_id, sender_id, room_id, body, state, enqueued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (message_id, recipient_id) DO NOTHING`,
		rec.MessageID,
		rec.RecipientID,
		rec.Message.SenderID,
		rec.Message.RoomID,
		rec.Message.Body,
		string(rec.State),
		rec.EnqueuedAt,
	)
	return err
}

// MarkDelivered transitions a journaled record from pending to delivered.
func (j *DeliveryJournal) MarkDelivered(ctx context.Context, messageID, recipientID string) error {
	ctx, cancel := context.WithTimeout(ctx, journalOpTimeout)
	defer cancel()

	_, err := j.pool.Exec(ctx, `
		UPDATE delivery_records
		SET state = 'delivered', delivered_at = now()
		WHERE message_id = $1 AND recipient_id = $2 AND state = 'pending'`,
		messageID, recipientID,
	)
	return err
}

// Remove deletes an acknowledged record; acknowledged records are not retained.
func (j *DeliveryJournal) Remove(ctx context.Context, messageID, recipientID string) error {
	ctx, cancel := context.WithTimeout(ctx, journalOpTimeout)
	defer cancel()

	_, err := j.pool.Exec(ctx, `
		DELETE FROM delivery_records
		WHERE message_id = $1 AND recipient_id = $2`,
		messageID, recipientID,
	)
	return err
}
