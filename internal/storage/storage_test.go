package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aiwuxian/life-path/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "lifesim.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newSession(id string) *models.Session {
	now := time.Now()
	c := models.NewCharacter("测试", 10)
	c.Skills["academicBasics"] = &models.Skill{Level: 1, Experience: 20}
	return &models.Session{
		ID:        id,
		Name:      "测试",
		Seed:      7,
		Status:    models.SessionActive,
		Character: c,
		Flags:     models.SpecialFlags{"collegeTier": "good"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	s := newSession("s1")
	if err := store.CreateSession(s); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := store.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Seed != 7 || got.Character.Skills["academicBasics"].Experience != 20 {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.Flags.Get("collegeTier") != "good" {
		t.Fatalf("flags not persisted: %+v", got.Flags)
	}

	got.Character.Age = 11
	got.Status = models.SessionEnded
	if err := store.UpdateSession(got); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	list, err := store.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(list) != 1 || list[0].Age != 11 || list[0].Status != models.SessionEnded || list[0].LifeStage != models.StageCompulsory {
		t.Fatalf("unexpected session list: %+v", list)
	}
}

func TestMissingRecords(t *testing.T) {
	store := newTestStorage(t)

	if _, err := store.GetSession("missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateSession(newSession("missing")); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if _, _, err := store.GetSaveGame("missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for save, got %v", err)
	}
	if err := store.DeleteSession("missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting session, got %v", err)
	}
	if err := store.DeleteSaveGame("missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting save, got %v", err)
	}
}

func TestSaveGames(t *testing.T) {
	store := newTestStorage(t)
	s := newSession("s1")
	if err := store.CreateSession(s); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	save := &models.SaveGame{
		ID:          "save1",
		Name:        "第一档",
		SessionID:   "s1",
		Age:         10,
		LifeStage:   models.StageCompulsory,
		Description: "10岁 - 义务教育",
		CreatedAt:   time.Now(),
	}
	if err := store.CreateSaveGame(save, s); err != nil {
		t.Fatalf("CreateSaveGame: %v", err)
	}

	saves, err := store.GetSaveGamesBySession("s1")
	if err != nil {
		t.Fatalf("GetSaveGamesBySession: %v", err)
	}
	if len(saves) != 1 || saves[0].Name != "第一档" || saves[0].LifeStage != models.StageCompulsory {
		t.Fatalf("unexpected saves: %+v", saves)
	}

	gotSave, snapshot, err := store.GetSaveGame("save1")
	if err != nil {
		t.Fatalf("GetSaveGame: %v", err)
	}
	if gotSave.SessionID != "s1" || snapshot.Character.Age != 10 {
		t.Fatalf("unexpected save: %+v age=%d", gotSave, snapshot.Character.Age)
	}

	if err := store.DeleteSaveGame("save1"); err != nil {
		t.Fatalf("DeleteSaveGame: %v", err)
	}
	if saves, _ := store.GetSaveGamesBySession("s1"); len(saves) != 0 {
		t.Fatalf("expected save deleted, got %+v", saves)
	}

	save.ID = "save2"
	if err := store.CreateSaveGame(save, s); err != nil {
		t.Fatalf("CreateSaveGame: %v", err)
	}
	if err := store.DeleteSession("s1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if saves, _ := store.GetSaveGamesBySession("s1"); len(saves) != 0 {
		t.Fatalf("expected saves deleted with session, got %+v", saves)
	}
}
