package entities

import (
	"fmt"
	"time"
)

const (
	// StartingStatPoints is the budget distributed during registration
	StartingStatPoints = 5

	// StatPointsPerLevel is granted by every level-up
	StatPointsPerLevel = 1
)

// Character is the one-per-user role-playing character
type Character struct {
	OwnerID           string
	Name              string
	Profession        string
	Level             int
	Nature            string
	UnspentStatPoints int
	Stats             Stats
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewCharacter builds a level 1 character whose starting points are already spent
func NewCharacter(ownerID, name, profession, nature string, stats Stats) *Character {
	return &Character{
		OwnerID:    ownerID,
		Name:       name,
		Profession: profession,
		Level:      1,
		Nature:     nature,
		Stats:      stats.Clone(),
	}
}

// GrantedStatPoints is the number of points the character has ever received
func (c *Character) GrantedStatPoints() int {
	return StartingStatPoints + (c.Level-1)*StatPointsPerLevel
}

// Validate checks the invariants a stored character must hold
func (c *Character) Validate() error {
	if c.OwnerID == "" {
		return fmt.Errorf("owner id is required")
	}
	if c.Level < 1 {
		return fmt.Errorf("level must be at least 1, got %d", c.Level)
	}
	if c.UnspentStatPoints < 0 {
		return fmt.Errorf("unspent stat points cannot be negative, got %d", c.UnspentStatPoints)
	}
	for cat := range c.Stats {
		if !cat.Valid() {
			return fmt.Errorf("unknown stat category %q", cat)
		}
	}
	return nil
}

// Clone returns a deep copy
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Stats = c.Stats.Clone()
	return &clone
}
