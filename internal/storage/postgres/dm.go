package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/prime-studio/studio-backend/internal/models"
)

// DMStore implements storage.ConversationStore on PostgreSQL.
//
// The schema carries a unique index on conversations.dm_key, which is what
// makes CreateDM safe under concurrent first contact: the loser of the
// insert race gets a unique violation and re-fetches the winner's row.
type DMStore struct {
	pool *pgxpool.Pool
}

// NewDMStore creates a DMStore on top of a shared connection pool.
func NewDMStore(pool *pgxpool.Pool) *DMStore {
	return &DMStore{pool: pool}
}

// GetByDMKey returns the dm conversation for a pair key, or (nil, nil).
func (s *DMStore) GetByDMKey(ctx context.Context, dmKey string) (*models.Conversation, error) {
	conv := &models.Conversation{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, kind, dm_key, last_message_at, created_at
		FROM conversations
		WHERE kind = 'dm' AND dm_key = $1
	`, dmKey).Scan(&conv.ID, &conv.Kind, &conv.DMKey, &conv.LastMessageAt, &conv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation by dm_key: %w", err)
	}
	return conv, nil
}

// CreateDM creates a conversation plus its two member rows in one
// transaction. A unique violation on dm_key means a concurrent caller
// created it first; their conversation is returned with created=false.
func (s *DMStore) CreateDM(ctx context.Context, dmKey, userA, userB string) (*models.Conversation, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin conversation create: %w", err)
	}
	defer tx.Rollback(ctx)

	conv := &models.Conversation{}
	err = tx.QueryRow(ctx, `
		INSERT INTO conversations (id, kind, dm_key)
		VALUES ($1, 'dm', $2)
		RETURNING id, kind, dm_key, last_message_at, created_at
	`, uuid.NewString(), dmKey).Scan(&conv.ID, &conv.Kind, &conv.DMKey, &conv.LastMessageAt, &conv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			existing, err := s.GetByDMKey(ctx, dmKey)
			return existing, false, err
		}
		return nil, false, fmt.Errorf("insert conversation: %w", err)
	}

	for _, userID := range []string{userA, userB} {
		if _, err := tx.Exec(ctx, `
			INSERT INTO conversation_participants (conversation_id, user_id, role)
			VALUES ($1, $2, 'member')
		`, conv.ID, userID); err != nil {
			return nil, false, fmt.Errorf("insert participant: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("commit conversation create: %w", err)
	}
	return conv, true, nil
}

// Messages returns all messages of a conversation, oldest first.
func (s *DMStore) Messages(ctx context.Context, conversationID string) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, conversation_id, sender_id, body, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}

// AddMessage appends a message and bumps the conversation's
// last_message_at. A failed bump is logged, not fatal: the message is
// already committed and recency ordering can lag.
func (s *DMStore) AddMessage(ctx context.Context, conversationID, senderID, body string) (*models.Message, error) {
	msg := &models.Message{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, conversation_id, sender_id, body, created_at
	`, uuid.NewString(), conversationID, senderID, body).Scan(
		&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Body, &msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	if _, err := s.pool.Exec(ctx, `
		UPDATE conversations SET last_message_at = NOW() WHERE id = $1
	`, conversationID); err != nil {
		log.Warn().Err(err).Str("conversation_id", conversationID).
			Msg("failed to update conversation last_message_at")
	}

	return msg, nil
}
