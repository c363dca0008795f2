package models

import "time"

// Profile is a user account row. PasswordHash never leaves the server.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name,omitempty"`
	Username     string    `json:"username,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Peer is the public subset of a profile returned by peer discovery.
type Peer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Username    string `json:"username,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// AsPeer strips a profile down to its public fields.
func (p *Profile) AsPeer() Peer {
	return Peer{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Username:    p.Username,
		AvatarURL:   p.AvatarURL,
	}
}
