package journal

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a compensating delete that failed to apply during registration
// and is waiting to be retried.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`

	bucketKey []byte
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
}
