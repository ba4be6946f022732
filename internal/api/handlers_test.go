package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/aiwuxian/life-path/internal/content"
	"github.com/aiwuxian/life-path/internal/models"
	"github.com/aiwuxian/life-path/internal/services"
	"github.com/aiwuxian/life-path/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.New(filepath.Join(t.TempDir(), "lifesim.db"))
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	catalog, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}

	cfg := models.DefaultGameConfig()
	cfg.StartAge = 17
	cfg.Seed = 42

	r := gin.New()
	NewHandler(services.NewGameService(store, catalog, cfg, nil)).Register(r.Group("/api"))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func newSession(t *testing.T, r http.Handler) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/sessions", gin.H{"name": "小明"})
	if w.Code != http.StatusOK {
		t.Fatalf("create session: status=%d body=%s", w.Code, w.Body.String())
	}
	s := decode[models.Session](t, w)
	if s.ID == "" || s.Character.Age != 17 {
		t.Fatalf("unexpected session: id=%q age=%d", s.ID, s.Character.Age)
	}
	return s.ID
}

func TestAdvanceAndChooseExam(t *testing.T) {
	r := newTestRouter(t)
	id := newSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/advance", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("advance: status=%d body=%s", w.Code, w.Body.String())
	}
	result := decode[models.TurnResult](t, w)
	if result.NewAge != 18 {
		t.Fatalf("expected age 18, got %d", result.NewAge)
	}
	found := false
	for _, offer := range result.FiredEvents {
		if offer.EventID == "high_school_exam" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected high_school_exam to fire, got %+v", result.FiredEvents)
	}

	// 初始智力不足以选择第一个选项
	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events/choose",
		gin.H{"event_id": "high_school_exam", "option_index": 0})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for ineligible option, got %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events/choose",
		gin.H{"event_id": "high_school_exam", "option_index": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("choose: status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/sessions/"+id, nil)
	s := decode[models.Session](t, w)
	if s.Flags.Get("collegeTier") != "normal" {
		t.Fatalf("expected collegeTier normal, got %v", s.Flags.Get("collegeTier"))
	}
	if s.IsPending("high_school_exam") {
		t.Fatalf("exam should no longer be pending")
	}

	// 已解决的事件不能再选
	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events/choose",
		gin.H{"event_id": "high_school_exam", "option_index": 2})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for resolved event, got %d", w.Code)
	}
}

func TestErrorStatusCodes(t *testing.T) {
	r := newTestRouter(t)
	id := newSession(t, r)

	if w := doJSON(t, r, http.MethodGet, "/api/sessions/missing", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events/choose", gin.H{"event_id": "high_school_exam"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing option_index, got %d", w.Code)
	}
	if body := decode[map[string]string](t, w); body["error"] != "参数错误" {
		t.Fatalf("unexpected error body: %+v", body)
	}

	w = doJSON(t, r, http.MethodPut, "/api/sessions/"+id+"/time",
		models.TimeAllocation{Study: 80, Entertainment: 30})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for over-allocation, got %d body=%s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/undo", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 with nothing to undo, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/shop/buy", gin.H{"item_id": "computer"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without money, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestSetTimeAllocation(t *testing.T) {
	r := newTestRouter(t)
	id := newSession(t, r)

	w := doJSON(t, r, http.MethodPut, "/api/sessions/"+id+"/time",
		models.TimeAllocation{Study: 50, Entertainment: 10, Fitness: 10, Social: 10})
	if w.Code != http.StatusOK {
		t.Fatalf("set time: status=%d body=%s", w.Code, w.Body.String())
	}
	alloc := decode[models.TimeAllocation](t, w)
	if alloc.Study != 50 || alloc.Remaining != 20 {
		t.Fatalf("unexpected allocation: %+v", alloc)
	}
}

func TestSaveAndLoad(t *testing.T) {
	r := newTestRouter(t)
	id := newSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/saves", gin.H{"name": "高考前"})
	if w.Code != http.StatusOK {
		t.Fatalf("save: status=%d body=%s", w.Code, w.Body.String())
	}
	save := decode[models.SaveGame](t, w)

	if w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/advance", nil); w.Code != http.StatusOK {
		t.Fatalf("advance: status=%d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/saves/load", gin.H{"save_id": save.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("load: status=%d body=%s", w.Code, w.Body.String())
	}
	if s := decode[models.Session](t, w); s.Character.Age != 17 {
		t.Fatalf("expected restored age 17, got %d", s.Character.Age)
	}

	w = doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/saves", nil)
	list := decode[map[string][]models.SaveGame](t, w)
	if len(list["saves"]) != 1 {
		t.Fatalf("expected one save, got %+v", list)
	}
}

func TestDeleteRoutes(t *testing.T) {
	r := newTestRouter(t)
	id := newSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/saves", gin.H{"name": "存档"})
	if w.Code != http.StatusOK {
		t.Fatalf("save: status=%d body=%s", w.Code, w.Body.String())
	}
	save := decode[models.SaveGame](t, w)

	if w := doJSON(t, r, http.MethodDelete, "/api/saves/"+save.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete save: status=%d body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodDelete, "/api/saves/"+save.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting a missing save, got %d", w.Code)
	}

	if w := doJSON(t, r, http.MethodDelete, "/api/sessions/"+id, nil); w.Code != http.StatusOK {
		t.Fatalf("delete session: status=%d body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodGet, "/api/sessions/"+id, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/api/sessions/"+id, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", w.Code)
	}
}
