package models

import "time"

const (
	SessionActive = "active"
	SessionEnded  = "ended"
)

// Session 一局游戏（一段人生）
type Session struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Seed      int64        `json:"seed"`
	Turn      int          `json:"turn"`
	Ops       int          `json:"ops"` // 已执行的操作数，参与随机数派生
	Status    string       `json:"status"` // active, ended
	Character *Character   `json:"character"`
	Flags     SpecialFlags `json:"flags"`
	Pending   []string     `json:"pending_events"` // 本回合待选择的事件ID
	Log       []LifeLog    `json:"log"`
	Snapshots []Snapshot   `json:"snapshots"` // 历史快照（用于回退）
	Biography string       `json:"biography,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Snapshot 年度推进前的状态快照
type Snapshot struct {
	Turn      int          `json:"turn"`
	Ops       int          `json:"ops"`
	Status    string       `json:"status"`
	Character *Character   `json:"character"`
	Flags     SpecialFlags `json:"flags"`
	Pending   []string     `json:"pending_events"`
	LogLen    int          `json:"log_len"`
	Timestamp time.Time    `json:"timestamp"`
}

// IsPending 事件是否在待选择列表中
func (s *Session) IsPending(eventID string) bool {
	for _, id := range s.Pending {
		if id == eventID {
			return true
		}
	}
	return false
}

// Resolve 从待选择列表移除事件
func (s *Session) Resolve(eventID string) {
	for i, id := range s.Pending {
		if id == eventID {
			s.Pending = append(s.Pending[:i], s.Pending[i+1:]...)
			return
		}
	}
}

// AddLog 追加人生日志
func (s *Session) AddLog(kind, content string) {
	s.Log = append(s.Log, LifeLog{
		Age:       s.Character.Age,
		Type:      kind,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// TakeSnapshot 保存当前状态
func (s *Session) TakeSnapshot() {
	s.Snapshots = append(s.Snapshots, Snapshot{
		Turn:      s.Turn,
		Ops:       s.Ops,
		Status:    s.Status,
		Character: s.Character.Clone(),
		Flags:     s.Flags.Clone(),
		Pending:   append([]string{}, s.Pending...),
		LogLen:    len(s.Log),
		Timestamp: time.Now(),
	})
}

// Restore 回退到最后一个快照
func (s *Session) Restore() error {
	if len(s.Snapshots) == 0 {
		return ErrNothingToUndo
	}

	snap := s.Snapshots[len(s.Snapshots)-1]
	s.Snapshots = s.Snapshots[:len(s.Snapshots)-1]

	s.Turn = snap.Turn
	s.Ops = snap.Ops
	s.Status = snap.Status
	s.Character = snap.Character
	s.Flags = snap.Flags
	s.Pending = snap.Pending
	if snap.LogLen <= len(s.Log) {
		s.Log = s.Log[:snap.LogLen]
	}
	s.UpdatedAt = time.Now()
	return nil
}

// SaveGame 存档
type SaveGame struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	SessionID   string    `json:"session_id" db:"session_id"`
	Age         int       `json:"age" db:"age"`
	LifeStage   LifeStage `json:"life_stage" db:"life_stage"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
