package models

import "time"

// LifeStage 人生阶段
type LifeStage string

const (
	StageCompulsory LifeStage = "compulsory" // 义务教育
	StageUniversity LifeStage = "university" // 大学
	StageGraduate   LifeStage = "graduate"   // 硕博
	StageSociety    LifeStage = "society"    // 社会

	// StageAll 只用于内容数据，表示不限阶段
	StageAll LifeStage = "all"
)

var stageLabels = map[LifeStage]string{
	StageCompulsory: "义务教育",
	StageUniversity: "大学",
	StageGraduate:   "硕博",
	StageSociety:    "社会",
	StageAll:        "通用",
}

// Label 返回阶段的中文名称
func (s LifeStage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// Rank 返回阶段的先后顺序，未知阶段为-1
func (s LifeStage) Rank() int {
	switch s {
	case StageCompulsory:
		return 0
	case StageUniversity:
		return 1
	case StageGraduate:
		return 2
	case StageSociety:
		return 3
	}
	return -1
}

// Valid 内容数据中允许出现的阶段值
func (s LifeStage) Valid() bool {
	return s == "" || s == StageAll || s.Rank() >= 0
}

// Matches 内容记录的阶段是否覆盖角色当前阶段
func (s LifeStage) Matches(current LifeStage) bool {
	return s == "" || s == StageAll || s == current
}

// 属性名
const (
	AttrHealth       = "health"       // 体力
	AttrIntelligence = "intelligence" // 智力
	AttrCharm        = "charm"        // 魅力
	AttrFitness      = "fitness"      // 体质
	AttrHappiness    = "happiness"    // 幸福感
)

// AttributeNames 固定的属性顺序（用于展示和遍历）
var AttributeNames = []string{AttrHealth, AttrIntelligence, AttrCharm, AttrFitness, AttrHappiness}

var attributeLabels = map[string]string{
	AttrHealth:       "体力",
	AttrIntelligence: "智力",
	AttrCharm:        "魅力",
	AttrFitness:      "体质",
	AttrHappiness:    "幸福感",
}

// AttributeLabel 属性的中文名称，未知属性原样返回
func AttributeLabel(attr string) string {
	if label, ok := attributeLabels[attr]; ok {
		return label
	}
	return attr
}

// Bound 属性取值区间
type Bound struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Clamp 将数值限制在区间内
func (b Bound) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// DefaultBound 默认属性区间 [0,100]
var DefaultBound = Bound{Min: 0, Max: 100}

// Skill 角色身上的技能进度
type Skill struct {
	Level      int     `json:"level"`
	Experience float64 `json:"experience"` // [0,100)
	Locked     bool    `json:"locked"`
}

// TimeAllocation 一年的时间分配（百分比）
type TimeAllocation struct {
	Study         int `json:"study"`
	Entertainment int `json:"entertainment"`
	Fitness       int `json:"fitness"`
	Social        int `json:"social"`
	Work          int `json:"work"`
	Remaining     int `json:"remaining"`
}

// Allocated 已分配的时间总和（不含剩余）
func (t TimeAllocation) Allocated() int {
	return t.Study + t.Entertainment + t.Fitness + t.Social + t.Work
}

// Education 教育状态
type Education struct {
	CurrentSchool                   string `json:"current_school"`
	Grade                           int    `json:"grade"`
	HasCompletedCompulsoryEducation bool   `json:"has_completed_compulsory_education"`
	HasCompletedHighSchool          bool   `json:"has_completed_high_school"`
	HasCompletedCollege             bool   `json:"has_completed_college"`
	HasMasterDegree                 bool   `json:"has_master_degree"`
	HasPhDDegree                    bool   `json:"has_phd_degree"`
	SkippedCollege                  bool   `json:"skipped_college"`
}

// Career 职业状态
type Career struct {
	HasJob         bool    `json:"has_job"`
	JobTitle       string  `json:"job_title"`
	Company        string  `json:"company"`
	Salary         float64 `json:"salary"`
	WorkExperience int     `json:"work_experience"`
}

// Relationship 与某个NPC的关系
type Relationship struct {
	Value int `json:"value"` // [0,100]
}

// ItemInstance 物品栏中的一件物品，自带效果列表
type ItemInstance struct {
	InstanceID  string       `json:"instance_id"`
	ItemID      string       `json:"item_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Effects     []EffectSpec `json:"effects"`
	Requirement Requirement  `json:"requirement"`
	Reusable    bool         `json:"reusable"`
	AcquiredAge int          `json:"acquired_age"`
}

// Character 角色（唯一的可变聚合）
type Character struct {
	Name           string                  `json:"name"`
	Age            int                     `json:"age"`
	LifeStage      LifeStage               `json:"life_stage"`
	Money          float64                 `json:"money"`
	Attributes     map[string]float64      `json:"attributes"`
	Bounds         map[string]Bound        `json:"bounds,omitempty"` // 未配置的属性使用默认区间
	Education      Education               `json:"education"`
	Career         Career                  `json:"career"`
	TimeAllocation TimeAllocation          `json:"time_allocation"`
	Skills         map[string]*Skill       `json:"skills"`
	Relationships  map[string]Relationship `json:"relationships"`
	Inventory      []ItemInstance          `json:"inventory"`
}

// LifeLog 人生日志条目
type LifeLog struct {
	Age       int       `json:"age"`
	Type      string    `json:"type"` // system, event, choice, effect, interaction, scene, item
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// OptionView 提供给界面的选项视图（不可选时附带原因）
type OptionView struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Enabled bool     `json:"enabled"`
	Reasons []string `json:"reasons,omitempty"`
}

// EventOffer 本回合提供给玩家的事件
type EventOffer struct {
	EventID     string       `json:"event_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Mandatory   bool         `json:"mandatory"`
	Options     []OptionView `json:"options"`
}

// TurnResult 一次年度推进的结果
type TurnResult struct {
	NewAge         int          `json:"new_age"`
	PreviousStage  LifeStage    `json:"previous_stage"`
	NewLifeStage   LifeStage    `json:"new_life_stage"`
	FiredEvents    []EventOffer `json:"fired_events"`
	UnlockedSkills []string     `json:"unlocked_skills,omitempty"`
	Log            []string     `json:"log"`
	Ended          bool         `json:"ended"`
}

// ChoiceResult 选择选项、互动、场景操作或使用物品的结果
type ChoiceResult struct {
	Message   string    `json:"message"`
	Effects   []string  `json:"effects"`
	LifeStage LifeStage `json:"life_stage"`
}

// ActionView NPC互动或场景操作的视图
type ActionView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
	Reasons     []string `json:"reasons,omitempty"`
}

// NPCView 当前可见的NPC
type NPCView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Relationship int          `json:"relationship"`
	Label        string       `json:"label"`
	Interactions []ActionView `json:"interactions"`
}

// SceneView 当前可进入的场景
type SceneView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Actions     []ActionView `json:"actions"`
}

// ItemView 商店中的物品
type ItemView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	Affordable  bool    `json:"affordable"`
}

// SkillView 技能面板
type SkillView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Level       int     `json:"level"`
	Experience  float64 `json:"experience"`
	Locked      bool    `json:"locked"`
	Description string  `json:"description"`
}
