// ABOUTME: Drill model and the canonical drill Category enum.
// ABOUTME: Category aliases are resolved once, at the entry boundary.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SummaryDrillName names the sentinel drill that holds per-session
// qualitative results. It never appears in pick-lists or drill analytics.
const SummaryDrillName = "Session Summary"

// Category is the technical focus of a drill.
type Category string

const (
	CategoryAttack       Category = "attack"
	CategoryServeReceive Category = "serve_receive"
	CategoryDefense      Category = "defense"
	CategoryServe        Category = "serve"
	CategorySet          Category = "set"
	CategoryBlock        Category = "block"
	CategoryMixed        Category = "mixed"
)

// AllCategories lists every canonical category.
var AllCategories = []Category{
	CategoryAttack, CategoryServeReceive, CategoryDefense,
	CategoryServe, CategorySet, CategoryBlock, CategoryMixed,
}

var categoryAliases = map[string]Category{
	"attack":        CategoryAttack,
	"attack_chain":  CategoryAttack,
	"attacking":     CategoryAttack,
	"hitting":       CategoryAttack,
	"spike":         CategoryAttack,
	"serve_receive": CategoryServeReceive,
	"receive":       CategoryServeReceive,
	"reception":     CategoryServeReceive,
	"passing":       CategoryServeReceive,
	"pass":          CategoryServeReceive,
	"defense":       CategoryDefense,
	"defence":       CategoryDefense,
	"dig":           CategoryDefense,
	"digging":       CategoryDefense,
	"serve":         CategoryServe,
	"serving":       CategoryServe,
	"set":           CategorySet,
	"setting":       CategorySet,
	"block":         CategoryBlock,
	"blocking":      CategoryBlock,
	"mixed":         CategoryMixed,
	"combo":         CategoryMixed,
	"game":          CategoryMixed,
	"scrimmage":     CategoryMixed,
}

// ParseCategory resolves a user supplied category (any case, with spaces,
// hyphens or underscores) to its canonical value.
func ParseCategory(s string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	c, ok := categoryAliases[key]
	return c, ok
}

// Drill represents a named training exercise.
type Drill struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Category   Category  `json:"category" yaml:"category"`
	Objective  string    `json:"objective,omitempty" yaml:"objective,omitempty"`
	Difficulty int       `json:"difficulty" yaml:"difficulty"`
	MinPlayers *int      `json:"min_players,omitempty" yaml:"min_players,omitempty"`
	NeuroLoad  *int      `json:"neuro_load,omitempty" yaml:"neuro_load,omitempty"`
	Hidden     bool      `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// NewDrill creates a new Drill with generated UUID and current timestamp.
func NewDrill(name string, category Category, difficulty int) *Drill {
	return &Drill{
		ID:         uuid.New(),
		Name:       name,
		Category:   category,
		Difficulty: difficulty,
		CreatedAt:  time.Now(),
	}
}

// WithObjective sets the drill purpose.
func (d *Drill) WithObjective(objective string) *Drill {
	d.Objective = objective
	return d
}

// WithMinPlayers sets the minimum number of players.
func (d *Drill) WithMinPlayers(n int) *Drill {
	d.MinPlayers = &n
	return d
}

// WithNeuroLoad sets the neuromuscular load rating.
func (d *Drill) WithNeuroLoad(n int) *Drill {
	d.NeuroLoad = &n
	return d
}

// IsSummary reports whether d is the session summary sentinel.
func (d *Drill) IsSummary() bool {
	return d.Name == SummaryDrillName
}
