package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aiwuxian/life-path/internal/content"
	"github.com/aiwuxian/life-path/internal/models"
	"github.com/aiwuxian/life-path/internal/storage"
)

// GameService 会话编排：读取会话 → 结算 → 写回存储。同一会话的操作串行执行。
type GameService struct {
	storage   *storage.Storage
	catalog   *content.Catalog
	cfg       models.GameConfig
	evaluator *RequirementEvaluator
	resolver  *EffectResolver
	turns     *TurnEngine
	llm       *LLMService

	// rulesFor 为一次操作提供随机源，测试时可替换
	rulesFor func(s *models.Session) *RuleEngine

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewGameService(storage *storage.Storage, catalog *content.Catalog, cfg models.GameConfig, llm *LLMService) *GameService {
	evaluator := NewRequirementEvaluator(catalog)
	return &GameService{
		storage:   storage,
		catalog:   catalog,
		cfg:       cfg,
		evaluator: evaluator,
		resolver:  NewEffectResolver(catalog, cfg),
		turns:     NewTurnEngine(catalog, evaluator, cfg),
		llm:       llm,
		rulesFor: func(s *models.Session) *RuleEngine {
			return NewSessionRuleEngine(s.Seed, s.Ops)
		},
		locks: map[string]*sync.Mutex{},
	}
}

// Catalog 当前使用的游戏内容
func (gs *GameService) Catalog() *content.Catalog {
	return gs.catalog
}

func (gs *GameService) lock(id string) func() {
	gs.mu.Lock()
	l, ok := gs.locks[id]
	if !ok {
		l = &sync.Mutex{}
		gs.locks[id] = l
	}
	gs.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// update 加锁读取会话，执行修改并写回
func (gs *GameService) update(id string, fn func(s *models.Session) error) (*models.Session, error) {
	defer gs.lock(id)()

	s, err := gs.storage.GetSession(id)
	if err != nil {
		return nil, fmt.Errorf("获取会话失败: %w", err)
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now()
	if err := gs.storage.UpdateSession(s); err != nil {
		return nil, fmt.Errorf("更新会话失败: %w", err)
	}
	return s, nil
}

func (gs *GameService) rules(s *models.Session) *RuleEngine {
	re := gs.rulesFor(s)
	s.Ops++
	return re
}

func ineligible(reasons []string) error {
	if len(reasons) == 0 {
		return models.ErrIneligible
	}
	return fmt.Errorf("%w: %s", models.ErrIneligible, strings.Join(reasons, "；"))
}

// NewGame 开始新的人生
func (gs *GameService) NewGame(name string) (*models.Session, error) {
	if name == "" {
		name = "主角"
	}
	seed := gs.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	c := models.NewCharacter(name, gs.cfg.StartAge)
	c.Money = gs.cfg.StartingMoney
	if gs.cfg.LegacyFloors {
		c.Bounds = map[string]models.Bound{
			models.AttrHealth:    {Min: 1, Max: 100},
			models.AttrHappiness: {Min: 1, Max: 100},
		}
	}
	SeedSkills(c, gs.catalog)
	for _, npc := range gs.catalog.NPCs {
		c.SeedRelationship(npc.ID, npc.Relationship)
	}

	now := time.Now()
	s := &models.Session{
		ID:        uuid.New().String(),
		Name:      name,
		Seed:      seed,
		Status:    models.SessionActive,
		Character: c,
		Flags:     models.SpecialFlags{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	c.LifeStage = ResolveLifeStage(c, s.Flags)
	UpdateEducation(c)
	TryUnlockSkills(gs.evaluator, gs.catalog, c, s.Flags)
	s.AddLog("system", fmt.Sprintf("游戏开始！你现在是一个%d岁的%s学生。", c.Age, c.Education.CurrentSchool))

	if err := gs.storage.CreateSession(s); err != nil {
		return nil, fmt.Errorf("创建会话失败: %w", err)
	}

	log.Printf("✅ 新的人生开始: %s (%s)\n", name, s.ID)
	return s, nil
}

// GetSession 获取会话
func (gs *GameService) GetSession(id string) (*models.Session, error) {
	return gs.storage.GetSession(id)
}

// ListSessions 列出所有会话
func (gs *GameService) ListSessions() ([]storage.SessionInfo, error) {
	return gs.storage.ListSessions()
}

// AdvanceYear 推进一年，推进前保存快照用于回退
func (gs *GameService) AdvanceYear(id string) (*models.TurnResult, error) {
	var result *models.TurnResult
	_, err := gs.update(id, func(s *models.Session) error {
		if s.Status == models.SessionEnded {
			return models.ErrSessionEnded
		}

		s.TakeSnapshot()
		if gs.cfg.MaxSnapshots > 0 && len(s.Snapshots) > gs.cfg.MaxSnapshots {
			s.Snapshots = s.Snapshots[len(s.Snapshots)-gs.cfg.MaxSnapshots:]
		}

		var err error
		result, err = gs.turns.AdvanceYear(s, gs.rules(s))
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PendingEvents 本回合待选择的事件
func (gs *GameService) PendingEvents(id string) ([]models.EventOffer, error) {
	s, err := gs.storage.GetSession(id)
	if err != nil {
		return nil, err
	}

	offers := []models.EventOffer{}
	for _, eventID := range s.Pending {
		e, ok := gs.catalog.Event(eventID)
		if !ok {
			continue
		}
		offers = append(offers, offer(gs.evaluator, e, s.Character, s.Flags))
	}
	return offers, nil
}

// ChooseOption 选择待处理事件的一个选项。人生结束后仍可处理最后一年的事件。
func (gs *GameService) ChooseOption(id, eventID string, index int) (*models.ChoiceResult, error) {
	var result *models.ChoiceResult
	_, err := gs.update(id, func(s *models.Session) error {
		if !s.IsPending(eventID) {
			return fmt.Errorf("%w: %s", models.ErrNoPendingEvent, eventID)
		}
		e, ok := gs.catalog.Event(eventID)
		if !ok {
			return fmt.Errorf("事件 %s: %w", eventID, models.ErrNotFound)
		}
		if index < 0 || index >= len(e.Options) {
			return fmt.Errorf("选项 %d: %w", index, models.ErrNotFound)
		}

		option := e.Options[index]
		c := s.Character
		if reasons := gs.evaluator.Explain(option.Requirement, c, s.Flags); len(reasons) > 0 {
			return ineligible(reasons)
		}

		effects := gs.resolver.Apply(EffectScope{Character: c, Flags: s.Flags, Rules: gs.rules(s)}, option.Effects)
		s.Resolve(eventID)

		s.AddLog("choice", fmt.Sprintf("选择: %s", option.Text))
		if len(effects) > 0 {
			s.AddLog("effect", fmt.Sprintf("效果: %s", strings.Join(effects, ", ")))
		}

		log.Printf("🎯 [选择] %s → %s\n", e.Title, option.Text)
		result = &models.ChoiceResult{
			Message:   fmt.Sprintf("%s: %s", e.Title, option.Text),
			Effects:   effects,
			LifeStage: c.LifeStage,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeclineEvent 放弃待处理的事件，不产生任何效果
func (gs *GameService) DeclineEvent(id, eventID string) error {
	_, err := gs.update(id, func(s *models.Session) error {
		if !s.IsPending(eventID) {
			return fmt.Errorf("%w: %s", models.ErrNoPendingEvent, eventID)
		}
		s.Resolve(eventID)

		title := eventID
		if e, ok := gs.catalog.Event(eventID); ok {
			title = e.Title
		}
		s.AddLog("choice", fmt.Sprintf("放弃了事件: %s", title))
		return nil
	})
	return err
}

// Interact 与NPC互动
func (gs *GameService) Interact(id, npcID, interactionID string) (*models.ChoiceResult, error) {
	var result *models.ChoiceResult
	_, err := gs.update(id, func(s *models.Session) error {
		if s.Status == models.SessionEnded {
			return models.ErrSessionEnded
		}
		npc, ok := gs.catalog.NPC(npcID)
		if !ok {
			return fmt.Errorf("NPC %s: %w", npcID, models.ErrNotFound)
		}
		c := s.Character
		if reasons := gs.evaluator.Explain(npc.Gate(), c, s.Flags); len(reasons) > 0 {
			return ineligible(reasons)
		}
		action, ok := npc.FindInteraction(interactionID)
		if !ok {
			return fmt.Errorf("互动 %s: %w", interactionID, models.ErrNotFound)
		}
		if reasons := gs.evaluator.Explain(action.Requirement.ForNPC(npcID), c, s.Flags); len(reasons) > 0 {
			return ineligible(reasons)
		}

		c.SeedRelationship(npcID, npc.Relationship)
		effects := gs.resolver.Apply(EffectScope{Character: c, Flags: s.Flags, Rules: gs.rules(s), NPCID: npcID}, action.Effects)

		message := action.ResultText
		if message == "" {
			message = fmt.Sprintf("你与%s进行了%s", npc.Name, action.Name)
		}
		s.AddLog("interaction", fmt.Sprintf("与%s: %s", npc.Name, action.Name))
		if len(effects) > 0 {
			s.AddLog("effect", fmt.Sprintf("效果: %s", strings.Join(effects, ", ")))
		}

		result = &models.ChoiceResult{Message: message, Effects: effects, LifeStage: c.LifeStage}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PerformSceneAction 执行场景操作
func (gs *GameService) PerformSceneAction(id, sceneID, actionID string) (*models.ChoiceResult, error) {
	var result *models.ChoiceResult
	_, err := gs.update(id, func(s *models.Session) error {
		if s.Status == models.SessionEnded {
			return models.ErrSessionEnded
		}
		scene, ok := gs.catalog.Scene(sceneID)
		if !ok {
			return fmt.Errorf("场景 %s: %w", sceneID, models.ErrNotFound)
		}
		c := s.Character
		if reasons := gs.evaluator.Explain(scene.Gate(), c, s.Flags); len(reasons) > 0 {
			return ineligible(reasons)
		}
		action, ok := scene.FindAction(actionID)
		if !ok {
			return fmt.Errorf("场景操作 %s: %w", actionID, models.ErrNotFound)
		}
		if reasons := gs.evaluator.Explain(action.Requirement, c, s.Flags); len(reasons) > 0 {
			return ineligible(reasons)
		}

		effects := gs.resolver.Apply(EffectScope{Character: c, Flags: s.Flags, Rules: gs.rules(s)}, action.Effects)

		message := action.ResultText
		if message == "" {
			message = fmt.Sprintf("你在%s%s", scene.Name, action.Name)
		}
		s.AddLog("scene", fmt.Sprintf("%s: %s", scene.Name, action.Name))
		if len(effects) > 0 {
			s.AddLog("effect", fmt.Sprintf("效果: %s", strings.Join(effects, ", ")))
		}

		result = &models.ChoiceResult{Message: message, Effects: effects, LifeStage: c.LifeStage}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BuyItem 购买物品放入物品栏
func (gs *GameService) BuyItem(id, itemID string) (*models.ItemInstance, error) {
	var bought models.ItemInstance
	_, err := gs.update(id, func(s *models.Session) error {
		if s.Status == models.SessionEnded {
			return models.ErrSessionEnded
		}
		item, ok := gs.catalog.Item(itemID)
		if !ok {
			return fmt.Errorf("物品 %s: %w", itemID, models.ErrNotFound)
		}
		c := s.Character
		if reasons := gs.evaluator.Explain(item.Gate(), c, s.Flags); len(reasons) > 0 {
			return ineligible(reasons)
		}
		if c.Money < item.Price {
			return fmt.Errorf("%w: 需要 %s，当前 %s", models.ErrInsufficientFunds,
				models.FormatNumber(item.Price), models.FormatNumber(c.Money))
		}

		c.Money -= item.Price
		bought = models.ItemInstance{
			InstanceID:  uuid.New().String(),
			ItemID:      item.ID,
			Name:        item.Name,
			Description: item.Description,
			Effects:     item.Effects,
			Requirement: item.Requirement,
			Reusable:    item.Reusable,
			AcquiredAge: c.Age,
		}
		c.AddItem(bought)
		s.AddLog("item", fmt.Sprintf("购买了%s，花费 %s", item.Name, models.FormatNumber(item.Price)))

		log.Printf("🛒 [商店] %s 购买了 %s\n", c.Name, item.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bought, nil
}

// UseItem 使用物品。先检查条件再移除，一次性物品用后消失。
func (gs *GameService) UseItem(id, instanceID string) (*models.ChoiceResult, error) {
	var result *models.ChoiceResult
	_, err := gs.update(id, func(s *models.Session) error {
		if s.Status == models.SessionEnded {
			return models.ErrSessionEnded
		}
		c := s.Character
		item, ok := c.FindItem(instanceID)
		if !ok {
			return fmt.Errorf("物品 %s: %w", instanceID, models.ErrNotFound)
		}
		if reasons := gs.evaluator.Explain(item.Requirement, c, s.Flags); len(reasons) > 0 {
			return ineligible(reasons)
		}

		if !item.Reusable {
			c.RemoveItem(instanceID)
		}
		effects := gs.resolver.Apply(EffectScope{Character: c, Flags: s.Flags, Rules: gs.rules(s)}, item.Effects)

		s.AddLog("item", fmt.Sprintf("使用了%s", item.Name))
		if len(effects) > 0 {
			s.AddLog("effect", fmt.Sprintf("效果: %s", strings.Join(effects, ", ")))
		}

		result = &models.ChoiceResult{
			Message:   fmt.Sprintf("使用了%s", item.Name),
			Effects:   effects,
			LifeStage: c.LifeStage,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetTimeAllocation 设置时间分配，超过100%时保留原分配
func (gs *GameService) SetTimeAllocation(id string, alloc models.TimeAllocation) (*models.TimeAllocation, error) {
	s, err := gs.update(id, func(s *models.Session) error {
		if s.Status == models.SessionEnded {
			return models.ErrSessionEnded
		}
		return s.Character.SetTimeAllocation(alloc)
	})
	if err != nil {
		return nil, err
	}
	return &s.Character.TimeAllocation, nil
}

// ShopItems 当前可以购买的物品
func (gs *GameService) ShopItems(id string) ([]models.ItemView, error) {
	s, err := gs.storage.GetSession(id)
	if err != nil {
		return nil, err
	}
	c := s.Character

	views := []models.ItemView{}
	for _, item := range Eligible(gs.evaluator, gs.catalog.Items, c, s.Flags) {
		views = append(views, models.ItemView{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Type:        item.Type,
			Price:       item.Price,
			Affordable:  c.Money >= item.Price,
		})
	}
	return views, nil
}

// AvailableNPCs 当前能见到的NPC及其互动
func (gs *GameService) AvailableNPCs(id string) ([]models.NPCView, error) {
	s, err := gs.storage.GetSession(id)
	if err != nil {
		return nil, err
	}
	c := s.Character

	views := []models.NPCView{}
	for _, npc := range Eligible(gs.evaluator, gs.catalog.NPCs, c, s.Flags) {
		value, ok := c.RelationshipValue(npc.ID)
		if !ok {
			value = npc.Relationship
		}
		views = append(views, models.NPCView{
			ID:           npc.ID,
			Name:         npc.Name,
			Description:  npc.Description,
			Relationship: value,
			Label:        models.RelationshipLabel(value),
			Interactions: actionViews(gs.evaluator, npc.Interactions, npc.ID, c, s.Flags),
		})
	}
	return views, nil
}

// AvailableScenes 当前可以进入的场景及其操作
func (gs *GameService) AvailableScenes(id string) ([]models.SceneView, error) {
	s, err := gs.storage.GetSession(id)
	if err != nil {
		return nil, err
	}

	views := []models.SceneView{}
	for _, scene := range Eligible(gs.evaluator, gs.catalog.Scenes, s.Character, s.Flags) {
		views = append(views, models.SceneView{
			ID:          scene.ID,
			Name:        scene.Name,
			Description: scene.Description,
			Actions:     actionViews(gs.evaluator, scene.Actions, "", s.Character, s.Flags),
		})
	}
	return views, nil
}

// Skills 技能面板
func (gs *GameService) Skills(id string) ([]models.SkillView, error) {
	s, err := gs.storage.GetSession(id)
	if err != nil {
		return nil, err
	}
	return SkillViews(gs.catalog, s.Character), nil
}

// EligibleEvents 当前随机事件池中满足条件的事件
func (gs *GameService) EligibleEvents(id string) ([]models.Event, error) {
	s, err := gs.storage.GetSession(id)
	if err != nil {
		return nil, err
	}
	return Eligible(gs.evaluator, gs.catalog.RandomPool(s.Character.LifeStage), s.Character, s.Flags), nil
}

// UndoYear 回退到上一次年度推进之前
func (gs *GameService) UndoYear(id string) (*models.Session, error) {
	s, err := gs.update(id, func(s *models.Session) error {
		return s.Restore()
	})
	if err != nil {
		return nil, err
	}

	log.Printf("⏪ [回退] 已回退到 %d 岁\n", s.Character.Age)
	return s, nil
}

// SaveGame 创建存档
func (gs *GameService) SaveGame(id, name, description string) (*models.SaveGame, error) {
	defer gs.lock(id)()

	s, err := gs.storage.GetSession(id)
	if err != nil {
		return nil, fmt.Errorf("获取会话失败: %w", err)
	}

	c := s.Character
	if description == "" {
		description = fmt.Sprintf("%d岁 - %s", c.Age, c.LifeStage.Label())
	}
	if name == "" {
		name = fmt.Sprintf("%s的人生 %d岁", c.Name, c.Age)
	}

	save := &models.SaveGame{
		ID:          uuid.New().String(),
		Name:        name,
		SessionID:   id,
		Age:         c.Age,
		LifeStage:   c.LifeStage,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := gs.storage.CreateSaveGame(save, s); err != nil {
		return nil, fmt.Errorf("创建存档失败: %w", err)
	}

	log.Printf("💾 [存档] 已创建存档: %s (%d岁)\n", name, c.Age)
	return save, nil
}

// ListSaves 列出会话的所有存档
func (gs *GameService) ListSaves(id string) ([]models.SaveGame, error) {
	return gs.storage.GetSaveGamesBySession(id)
}

// LoadGame 读档，把存档状态恢复到原会话
func (gs *GameService) LoadGame(saveID string) (*models.Session, error) {
	save, snapshot, err := gs.storage.GetSaveGame(saveID)
	if err != nil {
		return nil, fmt.Errorf("获取存档失败: %w", err)
	}

	defer gs.lock(save.SessionID)()

	snapshot.ID = save.SessionID
	snapshot.UpdatedAt = time.Now()
	if err := gs.storage.UpdateSession(snapshot); err != nil {
		return nil, fmt.Errorf("恢复会话失败: %w", err)
	}

	log.Printf("📂 [读档] 已加载存档: %s (%d岁)\n", save.Name, save.Age)
	return snapshot, nil
}

// DeleteSession 删除会话及其全部存档
func (gs *GameService) DeleteSession(id string) error {
	unlock := gs.lock(id)
	err := gs.storage.DeleteSession(id)
	unlock()
	if err != nil {
		return fmt.Errorf("删除会话失败: %w", err)
	}

	gs.mu.Lock()
	delete(gs.locks, id)
	gs.mu.Unlock()

	log.Printf("🗑️ [会话] 已删除会话: %s\n", id)
	return nil
}

// DeleteSave 删除一个存档，不影响会话本身
func (gs *GameService) DeleteSave(saveID string) error {
	if err := gs.storage.DeleteSaveGame(saveID); err != nil {
		return fmt.Errorf("删除存档失败: %w", err)
	}
	log.Printf("🗑️ [存档] 已删除存档: %s\n", saveID)
	return nil
}

// Biography 生成人生小传。llm 为 nil 时使用默认配置，模型不可用或调用失败时使用模板。
func (gs *GameService) Biography(ctx context.Context, id string, llm *LLMService) (string, error) {
	s, err := gs.storage.GetSession(id)
	if err != nil {
		return "", fmt.Errorf("获取会话失败: %w", err)
	}
	if llm == nil {
		llm = gs.llm
	}

	bio := TemplateBiography(s)
	if llm.Enabled() {
		text, err := llm.NarrateBiography(ctx, s)
		if err != nil {
			log.Printf("⚠️ 生成人生小传失败，使用模板: %v\n", err)
		} else if text != "" {
			bio = text
		}
	}

	if _, err := gs.update(id, func(s *models.Session) error {
		s.Biography = bio
		return nil
	}); err != nil {
		return "", err
	}
	return bio, nil
}
