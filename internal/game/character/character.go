// Package character defines the persistent character model.
package character

import "time"

// Character is a player character. Currency is stored in copper, the
// smallest coin denomination.
type Character struct {
	ID        int64
	Name      string
	Currency  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
