// ABOUTME: SQLite schema definition as an ordered list of versioned migrations.
// ABOUTME: Defines players, drills, sessions, session_drills, attendance and results.
package storage

// migration is one schema step. Versions are applied in order and recorded
// in PRAGMA user_version.
type migration struct {
	version int
	name    string
	script  string
}

var migrations = []migration{
	{
		version: 1,
		name:    "base tables",
		script: `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL CHECK (length(trim(name)) > 0),
		position TEXT NOT NULL DEFAULT ''
			CHECK (position IN ('', 'outside_hitter', 'middle_blocker', 'opposite', 'setter', 'libero')),
		class_year TEXT NOT NULL DEFAULT '',
		jersey INTEGER CHECK (jersey IS NULL OR jersey BETWEEN 1 AND 99),
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS drills (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL CHECK (length(trim(name)) > 0),
		category TEXT NOT NULL,
		objective TEXT NOT NULL DEFAULT '',
		difficulty INTEGER NOT NULL CHECK (difficulty BETWEEN 1 AND 5),
		hidden INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		session_date TEXT NOT NULL,
		duration_min INTEGER NOT NULL DEFAULT 0 CHECK (duration_min >= 0),
		theme TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session_drills (
		session_id TEXT NOT NULL,
		drill_id TEXT NOT NULL,
		sequence_no INTEGER NOT NULL CHECK (sequence_no >= 1),
		planned_minutes INTEGER,
		planned_reps TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (session_id, drill_id),
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
		FOREIGN KEY (drill_id) REFERENCES drills(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS drill_results (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		drill_id TEXT NOT NULL,
		player_id TEXT NOT NULL,
		success_count INTEGER NOT NULL CHECK (success_count >= 0),
		total_count INTEGER NOT NULL CHECK (total_count >= 0),
		primary_target TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		CHECK (success_count <= total_count),
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE RESTRICT,
		FOREIGN KEY (drill_id) REFERENCES drills(id) ON DELETE RESTRICT,
		FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE RESTRICT
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(session_date DESC);
	CREATE INDEX IF NOT EXISTS idx_session_drills_session ON session_drills(session_id, sequence_no);
	CREATE INDEX IF NOT EXISTS idx_results_session ON drill_results(session_id);
	CREATE INDEX IF NOT EXISTS idx_results_drill ON drill_results(drill_id);
	CREATE INDEX IF NOT EXISTS idx_results_player_drill ON drill_results(player_id, drill_id);
	`,
	},
	{
		version: 2,
		name:    "attendance, load ratings, phases, secondary targets",
		script: `
	ALTER TABLE drills ADD COLUMN min_players INTEGER CHECK (min_players IS NULL OR min_players >= 1);
	ALTER TABLE drills ADD COLUMN neuro_load INTEGER CHECK (neuro_load IS NULL OR neuro_load BETWEEN 1 AND 5);
	ALTER TABLE sessions ADD COLUMN target_min INTEGER CHECK (target_min IS NULL OR target_min >= 0);
	ALTER TABLE sessions ADD COLUMN phase TEXT NOT NULL DEFAULT ''
		CHECK (phase IN ('', 'base', 'build', 'peak', 'recovery'));

	CREATE TABLE IF NOT EXISTS attendance (
		session_id TEXT NOT NULL,
		player_id TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('present', 'excused', 'late', 'absent')),
		PRIMARY KEY (session_id, player_id),
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
		FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS result_targets (
		result_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		target TEXT NOT NULL CHECK (length(trim(target)) > 0),
		PRIMARY KEY (result_id, position),
		UNIQUE (result_id, target),
		FOREIGN KEY (result_id) REFERENCES drill_results(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_player ON attendance(player_id);
	`,
	},
}

// SchemaVersion is the version a fully migrated store reports.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}
