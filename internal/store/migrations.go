package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per run of the capture pipeline
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Poses table - one row per face analyzed in a frame
		`CREATE TABLE IF NOT EXISTS poses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			frame_index INTEGER NOT NULL,
			face_index INTEGER NOT NULL,
			pos_x INTEGER NOT NULL,
			pos_y INTEGER NOT NULL,
			width REAL NOT NULL,
			tilt_rads REAL NOT NULL,
			left_x INTEGER NOT NULL,
			left_y INTEGER NOT NULL,
			right_x INTEGER NOT NULL,
			right_y INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_poses_session_frame ON poses(session_id, frame_index)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
