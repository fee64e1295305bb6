package model

import (
	"time"

	"github.com/google/uuid"
)

type Agent struct {
	ID                uuid.UUID `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Fullname          string    `json:"fullname"`
	Email             string    `json:"email"`
	PhoneNumber       string    `json:"phone_number"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	Role              AgentRole `json:"role"`
	Instagram         *string   `json:"instagram,omitempty"`
	Description       *string   `json:"description,omitempty"`
}

// Identity is the authenticated caller: the agent's user id plus resolved role.
// A nil *Identity means an anonymous public caller.
type Identity struct {
	UserID uuid.UUID
	Role   AgentRole
}
