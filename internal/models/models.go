package models

import "time"

type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Password string `json:"-"`
}

type Chat struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsGroup   bool      `json:"is_group"`
	CreatedAt time.Time `json:"created_at"`
	// Participants is deduplicated and excludes the user the listing was
	// produced for.
	Participants []string `json:"participants"`
}

// Message is both the stored row and the wire envelope pushed to live
// connections. SendAt is always server-assigned.
type Message struct {
	ID       int64     `json:"id"`
	ChatID   int64     `json:"chat_id"`
	FromUser string    `json:"from_user"`
	Msg      string    `json:"msg"`
	IsAuto   bool      `json:"is_auto"`
	SendAt   time.Time `json:"send_at"`
}

// Request is a pending invitation to a group chat, distinct from membership.
type Request struct {
	ChatID   int64  `json:"chat_id"`
	FromUser string `json:"from"`
	ChatName string `json:"name"`
}
