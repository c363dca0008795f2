package models

import "time"

// Photo is a published gallery image. ImageURL points at the external
// image host; HostPublicID is the host-side handle used for cleanup.
type Photo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	Category     string    `json:"category"`
	ModelName    string    `json:"model_name,omitempty"`
	ImageURL     string    `json:"image_url"`
	HostPublicID string    `json:"host_public_id,omitempty"`
	Active       bool      `json:"active"`
	UserID       string    `json:"user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Comment on a photo. AuthorEmail is joined in on reads for display.
type Comment struct {
	ID          string    `json:"id"`
	PhotoID     string    `json:"photo_id"`
	UserID      string    `json:"user_id"`
	Content     string    `json:"content"`
	AuthorEmail string    `json:"author_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
