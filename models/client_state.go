package models

import "time"

// ClientState is one durable key/value pair owned by this client installation
// (session identifier, cart reference).
type ClientState struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ClientState) TableName() string {
	return "client_state"
}
