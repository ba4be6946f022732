package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/aiwuxian/life-path/internal/models"
)

type Storage struct {
	db *sqlx.DB
}

func New(dbPath string) (*Storage, error) {
	// 确保目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}

	db, err := sqlx.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化数据库结构失败: %w", err)
	}

	return s, nil
}

func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT DEFAULT 'active',
		age INTEGER DEFAULT 0,
		life_stage TEXT,
		data TEXT NOT NULL, -- JSON session
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS save_games (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		session_id TEXT NOT NULL,
		age INTEGER,
		life_stage TEXT,
		description TEXT,
		data TEXT NOT NULL, -- JSON session snapshot
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_session_status ON sessions(status);
	CREATE INDEX IF NOT EXISTS idx_save_session ON save_games(session_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// SessionInfo 会话列表中的一行
type SessionInfo struct {
	ID        string           `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Status    string           `json:"status" db:"status"`
	Age       int              `json:"age" db:"age"`
	LifeStage models.LifeStage `json:"life_stage" db:"life_stage"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// Session operations
func (s *Storage) CreateSession(session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (id, name, status, age, life_stage, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.Name, session.Status, session.Character.Age,
		session.Character.LifeStage, string(data), session.CreatedAt, session.UpdatedAt)

	return err
}

func (s *Storage) UpdateSession(session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE sessions
		SET name=?, status=?, age=?, life_stage=?, data=?, updated_at=?
		WHERE id=?
	`, session.Name, session.Status, session.Character.Age, session.Character.LifeStage,
		string(data), time.Now(), session.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("会话 %s: %w", session.ID, models.ErrNotFound)
	}
	return nil
}

func (s *Storage) GetSession(id string) (*models.Session, error) {
	var data string
	err := s.db.Get(&data, `SELECT data FROM sessions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("会话 %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return decodeSession(data)
}

func (s *Storage) ListSessions() ([]SessionInfo, error) {
	var sessions []SessionInfo
	err := s.db.Select(&sessions, `
		SELECT id, name, status, age, life_stage, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC
	`)
	return sessions, err
}

func (s *Storage) DeleteSession(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM save_games WHERE session_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("会话 %s: %w", id, models.ErrNotFound)
	}
	return tx.Commit()
}

// SaveGame operations
func (s *Storage) CreateSaveGame(save *models.SaveGame, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化存档失败: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO save_games (id, name, session_id, age, life_stage, description, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, save.ID, save.Name, save.SessionID, save.Age, save.LifeStage,
		save.Description, string(data), save.CreatedAt)

	return err
}

func (s *Storage) GetSaveGamesBySession(sessionID string) ([]models.SaveGame, error) {
	var saves []models.SaveGame
	err := s.db.Select(&saves, `
		SELECT id, name, session_id, age, life_stage, description, created_at
		FROM save_games WHERE session_id = ?
		ORDER BY created_at DESC
	`, sessionID)
	return saves, err
}

// GetSaveGame 读取存档及其保存的会话状态
func (s *Storage) GetSaveGame(id string) (*models.SaveGame, *models.Session, error) {
	var row struct {
		models.SaveGame
		Data string `db:"data"`
	}
	err := s.db.Get(&row, `
		SELECT id, name, session_id, age, life_stage, description, data, created_at
		FROM save_games WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("存档 %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}

	session, err := decodeSession(row.Data)
	if err != nil {
		return nil, nil, err
	}
	save := row.SaveGame
	return &save, session, nil
}

func (s *Storage) DeleteSaveGame(id string) error {
	res, err := s.db.Exec(`DELETE FROM save_games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("存档 %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func decodeSession(data string) (*models.Session, error) {
	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("解析会话数据失败: %w", err)
	}
	if session.Flags == nil {
		session.Flags = models.SpecialFlags{}
	}
	return &session, nil
}
