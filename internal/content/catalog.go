package content

import (
	_ "embed"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aiwuxian/life-path/internal/models"
)

//go:embed default.yml
var defaultCatalog []byte

// Catalog 游戏内容（事件、物品、NPC、场景、技能），只有数据没有行为
type Catalog struct {
	Skills []models.SkillDef `yaml:"skills"`
	Events []models.Event    `yaml:"events"`
	Items  []models.Item     `yaml:"items"`
	NPCs   []models.NPC      `yaml:"npcs"`
	Scenes []models.Scene    `yaml:"scenes"`

	skills map[string]int
	events map[string]int
	items  map[string]int
	npcs   map[string]int
	scenes map[string]int
}

// Default 内置内容
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load 从文件加载内容，路径为空时使用内置内容
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取内容文件失败: %w", err)
	}
	return Parse(data)
}

// Parse 解析YAML内容并校验
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("解析内容失败: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.buildIndex(); err != nil {
		return nil, err
	}
	for _, w := range c.Warnings() {
		log.Printf("⚠️ 内容引用警告: %s", w)
	}
	return &c, nil
}

func (c *Catalog) normalize() {
	norm := func(r *models.Requirement) {
		r.Normalize()
	}
	normActions := func(actions []models.Action) {
		for i := range actions {
			norm(&actions[i].Requirement)
			models.NormalizeEffects(actions[i].Effects)
		}
	}

	for i := range c.Skills {
		if c.Skills[i].Unlock != nil {
			norm(c.Skills[i].Unlock)
		}
	}
	for i := range c.Events {
		e := &c.Events[i]
		norm(&e.Requirement)
		for j := range e.Options {
			norm(&e.Options[j].Requirement)
			models.NormalizeEffects(e.Options[j].Effects)
		}
	}
	for i := range c.Items {
		norm(&c.Items[i].Requirement)
		models.NormalizeEffects(c.Items[i].Effects)
	}
	for i := range c.NPCs {
		norm(&c.NPCs[i].Requirement)
		normActions(c.NPCs[i].Interactions)
	}
	for i := range c.Scenes {
		norm(&c.Scenes[i].Requirement)
		normActions(c.Scenes[i].Actions)
	}
}

// Validate 校验效果类型、阶段值和必填字段。
// 未知效果类型在加载时拒绝，运行时不会出现。
func (c *Catalog) Validate() error {
	checkStage := func(where string, stage models.LifeStage) error {
		if !stage.Valid() {
			return fmt.Errorf("%s: 未知的人生阶段 %q", where, stage)
		}
		return nil
	}
	checkReq := func(where string, r models.Requirement) error {
		for _, s := range r.Stages {
			if err := checkStage(where, s); err != nil {
				return err
			}
		}
		return nil
	}
	checkOwnStage := func(where string, stage models.LifeStage, r models.Requirement) error {
		if stage == "" || stage == models.StageAll {
			return nil
		}
		if !r.AllowsStage(stage) {
			return fmt.Errorf("%s: 条件中的阶段 %v 不包含记录自身阶段 %s", where, r.Stages, stage)
		}
		return nil
	}

	for _, s := range c.Skills {
		if s.ID == "" {
			return fmt.Errorf("技能缺少 id")
		}
		if s.Unlock != nil {
			if err := checkReq("技能 "+s.ID, *s.Unlock); err != nil {
				return err
			}
		}
	}

	for _, e := range c.Events {
		where := "事件 " + e.ID
		if e.ID == "" {
			return fmt.Errorf("事件缺少 id")
		}
		if err := checkStage(where, e.Stage); err != nil {
			return err
		}
		if err := checkReq(where, e.Requirement); err != nil {
			return err
		}
		if err := checkOwnStage(where, e.Stage, e.Requirement); err != nil {
			return err
		}
		if e.MaxAge > 0 && e.MinAge > e.MaxAge {
			return fmt.Errorf("%s: 年龄区间 [%d,%d] 无效", where, e.MinAge, e.MaxAge)
		}
		if e.Probability < 0 || e.Probability > 1 {
			return fmt.Errorf("%s: 概率 %v 超出 [0,1]", where, e.Probability)
		}
		if len(e.Options) == 0 {
			return fmt.Errorf("%s: 没有选项", where)
		}
		for i, o := range e.Options {
			if err := checkReq(where, o.Requirement); err != nil {
				return err
			}
			if err := models.ValidateEffects(o.Effects); err != nil {
				return fmt.Errorf("%s 选项%d: %w", where, i+1, err)
			}
		}
	}

	for _, it := range c.Items {
		where := "物品 " + it.ID
		if it.ID == "" {
			return fmt.Errorf("物品缺少 id")
		}
		if it.Price < 0 {
			return fmt.Errorf("%s: 价格不能为负", where)
		}
		if err := checkReq(where, it.Requirement); err != nil {
			return err
		}
		if err := models.ValidateEffects(it.Effects); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
	}

	checkActions := func(where string, actions []models.Action) error {
		for _, a := range actions {
			if a.ID == "" {
				return fmt.Errorf("%s: 操作缺少 id", where)
			}
			if err := checkReq(where+"/"+a.ID, a.Requirement); err != nil {
				return err
			}
			if err := models.ValidateEffects(a.Effects); err != nil {
				return fmt.Errorf("%s/%s: %w", where, a.ID, err)
			}
		}
		return nil
	}

	for _, n := range c.NPCs {
		where := "NPC " + n.ID
		if n.ID == "" {
			return fmt.Errorf("NPC缺少 id")
		}
		if err := checkStage(where, n.Stage); err != nil {
			return err
		}
		if err := checkReq(where, n.Requirement); err != nil {
			return err
		}
		if err := checkOwnStage(where, n.Stage, n.Requirement); err != nil {
			return err
		}
		if err := checkActions(where, n.Interactions); err != nil {
			return err
		}
	}

	for _, s := range c.Scenes {
		where := "场景 " + s.ID
		if s.ID == "" {
			return fmt.Errorf("场景缺少 id")
		}
		if err := checkStage(where, s.Stage); err != nil {
			return err
		}
		if err := checkReq(where, s.Requirement); err != nil {
			return err
		}
		if err := checkOwnStage(where, s.Stage, s.Requirement); err != nil {
			return err
		}
		if err := checkActions(where, s.Actions); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) buildIndex() error {
	c.skills = map[string]int{}
	c.events = map[string]int{}
	c.items = map[string]int{}
	c.npcs = map[string]int{}
	c.scenes = map[string]int{}

	add := func(kind string, idx map[string]int, id string, i int) error {
		if _, dup := idx[id]; dup {
			return fmt.Errorf("%s id 重复: %s", kind, id)
		}
		idx[id] = i
		return nil
	}
	for i, s := range c.Skills {
		if err := add("技能", c.skills, s.ID, i); err != nil {
			return err
		}
	}
	for i, e := range c.Events {
		if err := add("事件", c.events, e.ID, i); err != nil {
			return err
		}
	}
	for i, it := range c.Items {
		if err := add("物品", c.items, it.ID, i); err != nil {
			return err
		}
	}
	for i, n := range c.NPCs {
		if err := add("NPC", c.npcs, n.ID, i); err != nil {
			return err
		}
	}
	for i, s := range c.Scenes {
		if err := add("场景", c.scenes, s.ID, i); err != nil {
			return err
		}
	}
	return nil
}

// Skill 按ID查找技能定义
func (c *Catalog) Skill(id string) (models.SkillDef, bool) {
	i, ok := c.skills[id]
	if !ok {
		return models.SkillDef{}, false
	}
	return c.Skills[i], true
}

// Event 按ID查找事件
func (c *Catalog) Event(id string) (models.Event, bool) {
	i, ok := c.events[id]
	if !ok {
		return models.Event{}, false
	}
	return c.Events[i], true
}

// Item 按ID查找物品
func (c *Catalog) Item(id string) (models.Item, bool) {
	i, ok := c.items[id]
	if !ok {
		return models.Item{}, false
	}
	return c.Items[i], true
}

// NPC 按ID查找NPC
func (c *Catalog) NPC(id string) (models.NPC, bool) {
	i, ok := c.npcs[id]
	if !ok {
		return models.NPC{}, false
	}
	return c.NPCs[i], true
}

// Scene 按ID查找场景
func (c *Catalog) Scene(id string) (models.Scene, bool) {
	i, ok := c.scenes[id]
	if !ok {
		return models.Scene{}, false
	}
	return c.Scenes[i], true
}

// RandomPool 当前阶段的随机事件池加上通用事件池（不含必发事件）
func (c *Catalog) RandomPool(stage models.LifeStage) []models.Event {
	var pool []models.Event
	for _, e := range c.Events {
		if e.Mandatory {
			continue
		}
		if e.Stage.Matches(stage) {
			pool = append(pool, e)
		}
	}
	return pool
}

// MandatoryEvents 精确匹配年龄和阶段的必发事件
func (c *Catalog) MandatoryEvents(age int, stage models.LifeStage) []models.Event {
	var out []models.Event
	for _, e := range c.Events {
		if !e.Mandatory || !e.Stage.Matches(stage) {
			continue
		}
		if e.MinAge == age && (e.MaxAge == 0 || e.MaxAge == age) {
			out = append(out, e)
		}
	}
	return out
}
