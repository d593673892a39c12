// ABOUTME: Player model and Position enum for the team roster.
// ABOUTME: Positions are canonical tokens; display labels are derived.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Position is a player's playing position.
type Position string

const (
	PositionOutsideHitter Position = "outside_hitter"
	PositionMiddleBlocker Position = "middle_blocker"
	PositionOpposite      Position = "opposite"
	PositionSetter        Position = "setter"
	PositionLibero        Position = "libero"
	PositionUnset         Position = ""
)

// AllPositions lists every assignable position.
var AllPositions = []Position{
	PositionOutsideHitter, PositionMiddleBlocker, PositionOpposite,
	PositionSetter, PositionLibero,
}

// IsValidPosition checks if a string is a valid position token. The empty
// string (unset) is valid.
func IsValidPosition(s string) bool {
	if s == "" {
		return true
	}
	for _, p := range AllPositions {
		if string(p) == s {
			return true
		}
	}
	return false
}

// Label returns the human readable form of the position.
func (p Position) Label() string {
	return strings.ReplaceAll(string(p), "_", " ")
}

// Player represents a rostered player.
type Player struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Position  Position  `json:"position,omitempty" yaml:"position,omitempty"`
	ClassYear string    `json:"class_year,omitempty" yaml:"class_year,omitempty"`
	Jersey    *int      `json:"jersey,omitempty" yaml:"jersey,omitempty"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewPlayer creates a new Player with generated UUID and current timestamp.
func NewPlayer(name string) *Player {
	return &Player{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// WithPosition sets the playing position.
func (p *Player) WithPosition(pos Position) *Player {
	p.Position = pos
	return p
}

// WithClassYear sets the class-year label.
func (p *Player) WithClassYear(year string) *Player {
	p.ClassYear = year
	return p
}

// WithJersey sets the jersey number.
func (p *Player) WithJersey(n int) *Player {
	p.Jersey = &n
	return p
}

// WithNotes sets notes on the player.
func (p *Player) WithNotes(notes string) *Player {
	p.Notes = notes
	return p
}

// Label formats the player for pick-lists: "Name (position | year)".
func (p *Player) Label() string {
	var parts []string
	if p.Position != PositionUnset {
		parts = append(parts, p.Position.Label())
	}
	if y := strings.TrimSpace(p.ClassYear); y != "" {
		parts = append(parts, y)
	}
	if len(parts) == 0 {
		return p.Name
	}
	return p.Name + " (" + strings.Join(parts, " | ") + ")"
}
