package models

import "time"

// Notification is one entry of the admin notification feed
type Notification struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	IsRead    bool       `json:"isRead"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
