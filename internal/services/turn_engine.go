package services

import (
	"fmt"
	"log"
	"time"

	"github.com/aiwuxian/life-path/internal/content"
	"github.com/aiwuxian/life-path/internal/models"
)

// TurnEngine 年度推进
type TurnEngine struct {
	catalog   *content.Catalog
	evaluator *RequirementEvaluator
	cfg       models.GameConfig
}

func NewTurnEngine(catalog *content.Catalog, evaluator *RequirementEvaluator, cfg models.GameConfig) *TurnEngine {
	return &TurnEngine{
		catalog:   catalog,
		evaluator: evaluator,
		cfg:       cfg,
	}
}

// AdvanceYear 推进一年：
// 年龄+1 → 重新计算阶段 → 更新学业 → 时间分配结算 → 必发事件 → 技能解锁 → 随机事件 → 自然成长 → 终局检查
func (te *TurnEngine) AdvanceYear(s *models.Session, rules *RuleEngine) (*models.TurnResult, error) {
	if s.Status == models.SessionEnded {
		return nil, models.ErrSessionEnded
	}

	c := s.Character
	result := &models.TurnResult{PreviousStage: c.LifeStage}
	record := func(kind, line string) {
		result.Log = append(result.Log, line)
		s.AddLog(kind, line)
	}

	// 上一年没有处理的事件作废
	for _, id := range s.Pending {
		title := id
		if e, ok := te.catalog.Event(id); ok {
			title = e.Title
		}
		record("system", fmt.Sprintf("错过了事件: %s", title))
	}
	s.Pending = nil

	c.Age++
	s.Turn++
	record("system", fmt.Sprintf("年龄增长到 %d 岁", c.Age))

	c.LifeStage = ResolveLifeStage(c, s.Flags)
	if c.LifeStage != result.PreviousStage {
		record("system", fmt.Sprintf("进入新的人生阶段: %s", c.LifeStage.Label()))
	}
	UpdateEducation(c)

	c.ResetTimeBudget()
	for _, line := range ApplyTimeEffects(c, te.cfg.Rates) {
		record("effect", line)
	}

	offered := map[string]bool{}
	for _, e := range te.catalog.MandatoryEvents(c.Age, c.LifeStage) {
		if !te.evaluator.IsEligible(e.Gate(), c, s.Flags) {
			continue
		}
		te.fire(s, result, e, offered)
	}

	for _, name := range TryUnlockSkills(te.evaluator, te.catalog, c, s.Flags) {
		result.UnlockedSkills = append(result.UnlockedSkills, name)
		record("system", fmt.Sprintf("解锁了技能: %s", name))
	}

	if e, ok := te.pickRandomEvent(s, rules, offered); ok {
		te.fire(s, result, e, offered)
	}

	if te.cfg.NaturalGrowth {
		for _, line := range ApplyNaturalGrowth(c, te.cfg.Rates) {
			record("effect", line)
		}
	}

	if te.cfg.MaxAge > 0 && c.Age >= te.cfg.MaxAge {
		s.Status = models.SessionEnded
		result.Ended = true
		record("system", fmt.Sprintf("人生在 %d 岁落下帷幕", c.Age))
		log.Printf("🏁 [终局] 会话 %s 在 %d 岁结束\n", s.ID, c.Age)
	}

	result.NewAge = c.Age
	result.NewLifeStage = c.LifeStage
	s.UpdatedAt = time.Now()

	log.Printf("📅 [年度] %s %d 岁（%s），触发事件 %d 个\n", c.Name, c.Age, c.LifeStage.Label(), len(result.FiredEvents))
	return result, nil
}

func (te *TurnEngine) fire(s *models.Session, result *models.TurnResult, e models.Event, offered map[string]bool) {
	if offered[e.ID] {
		return
	}
	offered[e.ID] = true
	s.Pending = append(s.Pending, e.ID)
	result.FiredEvents = append(result.FiredEvents, offer(te.evaluator, e, s.Character, s.Flags))
	s.AddLog("event", fmt.Sprintf("事件: %s", e.Title))
	result.Log = append(result.Log, fmt.Sprintf("事件: %s", e.Title))
}

// pickRandomEvent 每个候选事件独立做一次概率检定，通过的事件中均匀选一个
func (te *TurnEngine) pickRandomEvent(s *models.Session, rules *RuleEngine, offered map[string]bool) (models.Event, bool) {
	pool := Eligible(te.evaluator, te.catalog.RandomPool(s.Character.LifeStage), s.Character, s.Flags)

	var candidates []models.Event
	for _, e := range pool {
		if offered[e.ID] {
			continue
		}
		p := e.Probability
		if p == 0 {
			p = te.cfg.DefaultEventProbability
		}
		if rules.Chance(p) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return models.Event{}, false
	}
	return candidates[rules.Pick(len(candidates))], true
}
