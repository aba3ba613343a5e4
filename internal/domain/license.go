package domain

import "time"

// License tracks the number of user accounts the installation may hold.
type License struct {
	CurrentUsers int       `json:"current_users"`
	MaxUsers     int       `json:"max_users"`
	LastUpdated  time.Time `json:"last_updated"`
}

// HasSeat reports whether another account can be created.
func (l *License) HasSeat() bool {
	return l.CurrentUsers < l.MaxUsers
}
