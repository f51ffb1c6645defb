package models

import (
	"time"

	"github.com/google/uuid"
)

// Access log actions.
const (
	AccessLogin          = "login"
	AccessCreateMember   = "create_member"
	AccessUpdateMember   = "update_member"
	AccessChangePassword = "change_password"
)

// AccessEntry records one login or admin mutation.
type AccessEntry struct {
	ID        uuid.UUID `json:"id"`
	CPF       string    `json:"cpf"`
	Nome      string    `json:"nome"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
