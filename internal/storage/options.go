// ABOUTME: Pick-list queries returning id and display label pairs.
// ABOUTME: Feed the tally screen player cycle, session show and the list_options MCP tool.
package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/models"
)

// PlayerOptions lists every player by name.
func (d *DB) PlayerOptions(ctx context.Context) ([]models.Option, error) {
	players, err := d.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	sortByName(players, func(p *models.Player) string { return p.Name })
	opts := make([]models.Option, 0, len(players))
	for _, p := range players {
		opts = append(opts, models.Option{ID: p.ID, Label: p.Label()})
	}
	return opts, nil
}

// EligiblePlayerOptions lists the players whose results may be recorded for
// the session.
func (d *DB) EligiblePlayerOptions(ctx context.Context, sessionID uuid.UUID) ([]models.Option, error) {
	all, err := d.PlayerOptions(ctx)
	if err != nil {
		return nil, err
	}
	var opts []models.Option
	for _, o := range all {
		ok, err := d.IsEligible(ctx, sessionID, o.ID)
		if err != nil {
			return nil, fmt.Errorf("player options: %w", err)
		}
		if ok {
			opts = append(opts, o)
		}
	}
	return opts, nil
}

// DrillOptions lists visible drills by name. The summary sentinel is never
// offered.
func (d *DB) DrillOptions(ctx context.Context) ([]models.Option, error) {
	drills, err := d.ListDrills(ctx, false)
	if err != nil {
		return nil, err
	}
	sortByName(drills, func(dr *models.Drill) string { return dr.Name })
	opts := make([]models.Option, 0, len(drills))
	for _, dr := range drills {
		opts = append(opts, models.Option{ID: dr.ID, Label: dr.Name})
	}
	return opts, nil
}

// SessionOptions lists sessions most recent first.
func (d *DB) SessionOptions(ctx context.Context, limit int) ([]models.Option, error) {
	sessions, err := d.ListSessions(ctx, limit)
	if err != nil {
		return nil, err
	}
	opts := make([]models.Option, 0, len(sessions))
	for _, s := range sessions {
		opts = append(opts, models.Option{ID: s.ID, Label: s.Label()})
	}
	return opts, nil
}

func sortByName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return name(items[i]) < name(items[j])
	})
}
