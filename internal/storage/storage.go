package storage

import (
	"context"
	"time"

	"github.com/prime-studio/studio-backend/internal/models"
)

// The store interfaces are implemented by both the postgres and the memory
// packages. Handlers and services hold the interface, never a concrete
// store, so tests can substitute the in-memory implementation.
//
// Lookups that find nothing return (nil, nil); errors are reserved for
// store failures.

// FollowStore reads and writes directed follow edges.
type FollowStore interface {
	// Exists reports whether the edge follower -> following is present.
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	// Following returns the IDs the given user follows.
	Following(ctx context.Context, userID string) ([]string, error)
	// Followers returns the IDs following the given user.
	Followers(ctx context.Context, userID string) ([]string, error)
}

// ConversationStore persists dm conversations, their participants and
// their messages.
type ConversationStore interface {
	// GetByDMKey returns the dm conversation for the derived pair key, or
	// (nil, nil) when none exists.
	GetByDMKey(ctx context.Context, dmKey string) (*models.Conversation, error)
	// CreateDM creates the conversation row plus one member participant row
	// per user, atomically. If a concurrent caller created the same dm_key
	// first, the existing conversation is returned instead; created reports
	// whether this call inserted the row.
	CreateDM(ctx context.Context, dmKey, userA, userB string) (conv *models.Conversation, created bool, err error)
	// Messages returns all messages of a conversation ordered by created_at
	// ascending.
	Messages(ctx context.Context, conversationID string) ([]models.Message, error)
	// AddMessage appends a message and bumps the conversation's
	// last_message_at to the insert time.
	AddMessage(ctx context.Context, conversationID, senderID, body string) (*models.Message, error)
}

// ProfileStore persists user accounts.
type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Profile, error)
	// Update rewrites the mutable display fields of a profile.
	Update(ctx context.Context, id, displayName, username, avatarURL string) (*models.Profile, error)
}

// PhotoStore persists gallery photos.
type PhotoStore interface {
	Insert(ctx context.Context, p *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	// List returns photos newest first. Empty category/userID mean no
	// filter; activeOnly restricts to published photos.
	List(ctx context.Context, category, userID string, activeOnly bool) ([]models.Photo, error)
	Delete(ctx context.Context, id string) error
}

// SocialStore persists likes, comments and saved-photo marks.
type SocialStore interface {
	LikeExists(ctx context.Context, photoID, userID string) (bool, error)
	AddLike(ctx context.Context, photoID, userID string) error
	RemoveLike(ctx context.Context, photoID, userID string) error
	LikeCount(ctx context.Context, photoID string) (int, error)

	AddComment(ctx context.Context, photoID, userID, content string) (*models.Comment, error)
	// Comments returns a photo's comments newest first.
	Comments(ctx context.Context, photoID string) ([]models.Comment, error)
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error

	SavedExists(ctx context.Context, photoID, userID string) (bool, error)
	AddSaved(ctx context.Context, photoID, userID string) error
	RemoveSaved(ctx context.Context, photoID, userID string) error
}

// SessionStore holds server-side login sessions so tokens can be revoked.
type SessionStore interface {
	Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	// Get returns the user ID for a session, or "" when the session is
	// absent or expired.
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
