// ABOUTME: Repository interface for volleyball training storage.
// ABOUTME: Defines the contract for players, drills, sessions and results.
package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/models"
)

// Repository defines the storage interface for training records.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Player operations
	CreatePlayer(ctx context.Context, p *models.Player) error
	GetPlayer(ctx context.Context, idOrPrefix string) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]*models.Player, error)
	UpdatePlayer(ctx context.Context, p *models.Player) error
	DeletePlayer(ctx context.Context, idOrPrefix string) error

	// Drill operations
	CreateDrill(ctx context.Context, dr *models.Drill) error
	GetDrill(ctx context.Context, idOrPrefix string) (*models.Drill, error)
	ListDrills(ctx context.Context, includeHidden bool) ([]*models.Drill, error)
	UpdateDrill(ctx context.Context, dr *models.Drill) error
	SetDrillHidden(ctx context.Context, idOrPrefix string, hidden bool) error
	DeleteDrill(ctx context.Context, idOrPrefix string) error
	EnsureSummaryDrill(ctx context.Context) (*models.Drill, error)

	// Session operations
	CreateSession(ctx context.Context, s *models.Session) error
	CreateSessions(ctx context.Context, sessions []*models.Session) error
	GetSession(ctx context.Context, idOrPrefix string) (*models.Session, error)
	ListSessions(ctx context.Context, limit int) ([]*models.Session, error)
	UpdateSession(ctx context.Context, s *models.Session) error
	DeleteSession(ctx context.Context, idOrPrefix string) error

	// Session plan and attendance operations
	UpsertSessionDrill(ctx context.Context, sd *models.SessionDrill) error
	ListSessionDrills(ctx context.Context, sessionID uuid.UUID) ([]*models.SessionDrill, error)
	NextSequence(ctx context.Context, sessionID uuid.UUID) (int, error)
	DeleteSessionDrill(ctx context.Context, sessionID, drillID uuid.UUID) error
	UpsertAttendance(ctx context.Context, a *models.Attendance) error
	ListAttendance(ctx context.Context, sessionID uuid.UUID) ([]*models.Attendance, error)
	IsEligible(ctx context.Context, sessionID, playerID uuid.UUID) (bool, error)

	// Result operations
	CreateResult(ctx context.Context, r *models.DrillResult) error
	GetResult(ctx context.Context, idOrPrefix string) (*models.DrillResult, error)
	ListResults(ctx context.Context, filter ResultFilter) ([]*models.DrillResult, error)
	DeleteResult(ctx context.Context, idOrPrefix string) error

	// Pick-lists
	PlayerOptions(ctx context.Context) ([]models.Option, error)
	EligiblePlayerOptions(ctx context.Context, sessionID uuid.UUID) ([]models.Option, error)
	DrillOptions(ctx context.Context) ([]models.Option, error)
	SessionOptions(ctx context.Context, limit int) ([]models.Option, error)

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) error

	// Administration
	Reset(ctx context.Context) error
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// Lifecycle
	Close() error
}
