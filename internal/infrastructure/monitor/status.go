package monitor

import "time"

type Status struct {
	PostgreSQL     bool      `json:"postgresql"`
	Redis          bool      `json:"redis"`
	Journal        bool      `json:"journal"`
	PendingDeletes int       `json:"pending_deletes"`
	LastCheck      time.Time `json:"last_check"`
}
