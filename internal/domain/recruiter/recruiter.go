package recruiter

import "time"

// Mapping routes a vacancy direction to the recruiter that owns it.
// The direction is the key: at most one active mapping per direction.
type Mapping struct {
	Direction string    `json:"direction"`
	TgID      int64     `json:"recruiter_tg_id"`
	Username  string    `json:"recruiter_username"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}
