package db

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a company keyed by its domain
type Company struct {
	ID        uuid.UUID `json:"id"`
	Domain    string    `json:"domain"`
	Name      string    `json:"name"`
	Industry  *string   `json:"industry,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
