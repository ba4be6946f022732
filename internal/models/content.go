package models

// Gated 带有资格条件的内容记录
type Gated interface {
	Gate() Requirement
}

// Event 随机或必发事件
type Event struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Stage       LifeStage   `json:"stage" yaml:"stage"` // 空值或 all 表示通用事件池
	MinAge      int         `json:"min_age,omitempty" yaml:"min_age,omitempty"`
	MaxAge      int         `json:"max_age,omitempty" yaml:"max_age,omitempty"`
	Probability float64     `json:"probability,omitempty" yaml:"probability,omitempty"` // 0 表示使用默认概率
	Mandatory   bool        `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
	Requirement Requirement `json:"requirement,omitempty" yaml:"requirement,omitempty"`
	Options     []Option    `json:"options" yaml:"options"`
}

// Gate 事件可见条件（阶段 + 年龄 + 额外条件）
func (e Event) Gate() Requirement {
	return e.Requirement.WithStage(e.Stage).WithAges(e.MinAge, e.MaxAge)
}

// Option 事件选项
type Option struct {
	Text        string       `json:"text" yaml:"text"`
	Requirement Requirement  `json:"requirement,omitempty" yaml:"requirement,omitempty"`
	Effects     []EffectSpec `json:"effects" yaml:"effects"`
}

// Item 商店物品定义
type Item struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Price       float64      `json:"price" yaml:"price"`
	Type        string       `json:"type" yaml:"type"` // 书籍、电子产品、食品、装备等
	Effects     []EffectSpec `json:"effects" yaml:"effects"`
	Requirement Requirement  `json:"requirement,omitempty" yaml:"requirement,omitempty"`
	Reusable    bool         `json:"reusable,omitempty" yaml:"reusable,omitempty"`
}

// Gate 物品购买条件
func (i Item) Gate() Requirement {
	return i.Requirement
}

// Action NPC互动或场景操作
type Action struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Requirement Requirement  `json:"requirement,omitempty" yaml:"requirement,omitempty"`
	Effects     []EffectSpec `json:"effects" yaml:"effects"`
	ResultText  string       `json:"result_text,omitempty" yaml:"result_text,omitempty"`
}

// NPC 非玩家角色
type NPC struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Description  string      `json:"description" yaml:"description"`
	Stage        LifeStage   `json:"stage" yaml:"stage"`
	Relationship int         `json:"relationship" yaml:"relationship"` // 初始关系值
	Requirement  Requirement `json:"requirement,omitempty" yaml:"requirement,omitempty"`
	Interactions []Action    `json:"interactions" yaml:"interactions"`
}

// Gate NPC出现条件，关系条件默认指向该NPC自己
func (n NPC) Gate() Requirement {
	return n.Requirement.WithStage(n.Stage).ForNPC(n.ID)
}

// FindInteraction 按ID查找互动
func (n NPC) FindInteraction(id string) (Action, bool) {
	for _, a := range n.Interactions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// Scene 场景
type Scene struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Stage       LifeStage   `json:"stage" yaml:"stage"`
	Requirement Requirement `json:"requirement,omitempty" yaml:"requirement,omitempty"`
	Actions     []Action    `json:"actions" yaml:"actions"`
}

// Gate 场景解锁条件
func (s Scene) Gate() Requirement {
	return s.Requirement.WithStage(s.Stage)
}

// FindAction 按ID查找场景操作
func (s Scene) FindAction(id string) (Action, bool) {
	for _, a := range s.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// SkillLevel 技能等级说明
type SkillLevel struct {
	Requirement int    `json:"requirement" yaml:"requirement"` // 累计经验
	Effect      string `json:"effect" yaml:"effect"`
}

// SkillDef 技能定义
type SkillDef struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Levels      []SkillLevel `json:"levels" yaml:"levels"`
	Unlock      *Requirement `json:"unlock,omitempty" yaml:"unlock,omitempty"` // nil 表示默认解锁
}

// Gate 技能解锁条件
func (s SkillDef) Gate() Requirement {
	if s.Unlock == nil {
		return Requirement{}
	}
	return *s.Unlock
}

// LevelDescription 当前等级的效果说明
func (s SkillDef) LevelDescription(level int) string {
	if len(s.Levels) == 0 {
		return ""
	}
	for i := len(s.Levels) - 1; i >= 0; i-- {
		if level >= s.Levels[i].Requirement/100 {
			return s.Levels[i].Effect
		}
	}
	return s.Levels[0].Effect
}
