package store

import (
	"database/sql"
	"image"
	"time"

	"github.com/ayusman/tiltcam/internal/pose"
)

// PoseRecord is a stored face pose with its frame position.
type PoseRecord struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	FrameIndex int       `json:"frame_index"`
	FaceIndex  int       `json:"face_index"`
	Face       pose.Face `json:"face"`
	CreatedAt  time.Time `json:"created_at"`
}

// PoseRepository provides operations for recorded poses.
type PoseRepository struct {
	db *sql.DB
}

// Poses returns the pose repository for this store.
func (s *Store) Poses() *PoseRepository {
	return &PoseRepository{db: s.db}
}

// Record inserts every face of one frame in a single transaction.
// A frame without faces records nothing.
func (r *PoseRepository) Record(sessionID string, frameIndex int, faces []pose.Face) error {
	if len(faces) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO poses
		(session_id, frame_index, face_index, pos_x, pos_y, width, tilt_rads, left_x, left_y, right_x, right_y, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, f := range faces {
		_, err := stmt.Exec(
			sessionID, frameIndex, i,
			f.Pos.X, f.Pos.Y, f.Width, f.TiltRads,
			f.LeftEye.X, f.LeftEye.Y, f.RightEye.X, f.RightEye.Y,
			now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListBySession retrieves all poses of a session in frame order.
func (r *PoseRepository) ListBySession(sessionID string) ([]PoseRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, frame_index, face_index, pos_x, pos_y, width, tilt_rads,
		        left_x, left_y, right_x, right_y, created_at
		 FROM poses
		 WHERE session_id = ?
		 ORDER BY frame_index, face_index`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PoseRecord
	for rows.Next() {
		var p PoseRecord
		var pos, left, right image.Point
		err := rows.Scan(
			&p.ID, &p.SessionID, &p.FrameIndex, &p.FaceIndex,
			&pos.X, &pos.Y, &p.Face.Width, &p.Face.TiltRads,
			&left.X, &left.Y, &right.X, &right.Y,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		p.Face.Pos = pos
		p.Face.LeftEye = left
		p.Face.RightEye = right
		records = append(records, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// CountBySession returns how many poses a session recorded.
func (r *PoseRepository) CountBySession(sessionID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM poses WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}
