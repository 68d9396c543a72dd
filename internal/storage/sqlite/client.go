package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/storage/models"
	"github.com/skillmap/engine/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		token TEXT UNIQUE NOT NULL,
		user_id TEXT,
		target_role TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		started_at INTEGER NOT NULL,
		ended_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);

	CREATE TABLE IF NOT EXISTS responses (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		question_id TEXT NOT NULL,
		question_type TEXT NOT NULL,
		response_text TEXT,
		response_choice TEXT,
		response_scale INTEGER,
		think_time_seconds INTEGER,
		total_time_seconds INTEGER,
		char_count INTEGER,
		word_count INTEGER,
		typing_speed_wpm REAL,
		edit_count INTEGER,
		paste_detected INTEGER DEFAULT 0,
		confidence_level REAL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_responses_session ON responses(session_id);
	CREATE INDEX IF NOT EXISTS idx_responses_created ON responses(created_at);

	CREATE TABLE IF NOT EXISTS gap_reports (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		target_role TEXT,
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_gap_reports_session ON gap_reports(session_id);

	CREATE TABLE IF NOT EXISTS suggestions (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		source TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_suggestions_session ON suggestions(session_id);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) UpsertSession(s *models.Session) error {
	query := `
		INSERT INTO sessions (id, token, user_id, target_role, status, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			target_role = excluded.target_role,
			status = excluded.status,
			ended_at = excluded.ended_at
	`

	var endedAt interface{}
	if s.EndedAt != nil {
		endedAt = s.EndedAt.Unix()
	}

	_, err := c.db.Exec(query, s.ID, s.Token, s.UserID, s.TargetRole, s.Status, s.StartedAt.Unix(), endedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	return nil
}

func (c *Client) GetSessionByToken(token string) (*models.Session, error) {
	query := `
		SELECT id, token, user_id, target_role, status, started_at, ended_at
		FROM sessions WHERE token = ?
	`

	var s models.Session
	var startedAt int64
	var endedAt sql.NullInt64

	err := c.db.QueryRow(query, token).Scan(&s.ID, &s.Token, &s.UserID, &s.TargetRole, &s.Status, &startedAt, &endedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	s.StartedAt = time.Unix(startedAt, 0)
	if endedAt.Valid {
		t := time.Unix(endedAt.Int64, 0)
		s.EndedAt = &t
	}

	return &s, nil
}

func (c *Client) InsertResponse(r *models.ResponseRecord) error {
	query := `
		INSERT INTO responses (
			id, session_id, question_id, question_type, response_text,
			response_choice, response_scale, think_time_seconds, total_time_seconds,
			char_count, word_count, typing_speed_wpm, edit_count, paste_detected,
			confidence_level, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var scale interface{}
	if r.ResponseScale != nil {
		scale = *r.ResponseScale
	}
	var wpm interface{}
	if r.TypingSpeedWpm != nil {
		wpm = *r.TypingSpeedWpm
	}

	_, err := c.db.Exec(query,
		r.ID, r.SessionID, r.QuestionID, r.QuestionType, r.ResponseText,
		r.ResponseChoice, scale, r.ThinkTimeSeconds, r.TotalTimeSeconds,
		r.CharCount, r.WordCount, wpm, r.EditCount, boolToInt(r.PasteDetected),
		r.ConfidenceLevel, r.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}

	return nil
}

func (c *Client) ListSessionResponses(sessionID string) ([]models.ResponseRecord, error) {
	query := `
		SELECT id, session_id, question_id, question_type, response_text,
			response_choice, response_scale, think_time_seconds, total_time_seconds,
			char_count, word_count, typing_speed_wpm, edit_count, paste_detected,
			confidence_level, created_at
		FROM responses WHERE session_id = ? ORDER BY created_at ASC
	`

	rows, err := c.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	defer rows.Close()

	var records []models.ResponseRecord
	for rows.Next() {
		var r models.ResponseRecord
		var scale sql.NullInt64
		var wpm sql.NullFloat64
		var paste int
		var createdAt int64

		err := rows.Scan(&r.ID, &r.SessionID, &r.QuestionID, &r.QuestionType,
			&r.ResponseText, &r.ResponseChoice, &scale, &r.ThinkTimeSeconds,
			&r.TotalTimeSeconds, &r.CharCount, &r.WordCount, &wpm, &r.EditCount,
			&paste, &r.ConfidenceLevel, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}

		if scale.Valid {
			v := int(scale.Int64)
			r.ResponseScale = &v
		}
		if wpm.Valid {
			v := wpm.Float64
			r.TypingSpeedWpm = &v
		}
		r.PasteDetected = paste != 0
		r.CreatedAt = time.Unix(createdAt, 0)

		records = append(records, r)
	}

	return records, rows.Err()
}

func (c *Client) InsertGapReport(r *models.GapReport) error {
	query := `
		INSERT INTO gap_reports (id, session_id, target_role, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(query, r.ID, r.SessionID, r.TargetRole, r.Payload, r.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert gap report: %w", err)
	}

	return nil
}

func (c *Client) GetLatestGapReport(sessionID string) (*models.GapReport, error) {
	query := `
		SELECT id, session_id, target_role, payload, created_at
		FROM gap_reports WHERE session_id = ?
		ORDER BY created_at DESC LIMIT 1
	`

	var r models.GapReport
	var createdAt int64

	err := c.db.QueryRow(query, sessionID).Scan(&r.ID, &r.SessionID, &r.TargetRole, &r.Payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gap report: %w", err)
	}

	r.CreatedAt = time.Unix(createdAt, 0)
	return &r, nil
}

func (c *Client) InsertSuggestion(s *models.SuggestionRecord) error {
	query := `
		INSERT INTO suggestions (id, session_id, source, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(query, s.ID, s.SessionID, s.Source, s.Content, s.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert suggestion: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
