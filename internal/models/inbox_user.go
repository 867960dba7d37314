// Package models holds the persisted records of the inbox service.
package models

import "time"

// InboxUser is the stored credential set of one provisioned inbox account.
type InboxUser struct {
	UserID       string
	PasswordHash string
	PubKey       string
	SecKey       string
	UpdatedAt    time.Time
}
