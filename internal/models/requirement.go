package models

// Requirement 声明式的资格条件，所有出现的子条件同时满足才有资格。
// 数值字段为0表示未设置。
type Requirement struct {
	MinAge int         `json:"min_age,omitempty" yaml:"min_age,omitempty"`
	MaxAge int         `json:"max_age,omitempty" yaml:"max_age,omitempty"`
	Stages []LifeStage `json:"stages,omitempty" yaml:"stages,omitempty"`

	Attribute  string             `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	MinValue   float64            `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	Attributes map[string]float64 `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	Skill    string         `json:"skill,omitempty" yaml:"skill,omitempty"`
	MinLevel int            `json:"min_level,omitempty" yaml:"min_level,omitempty"`
	Skills   map[string]int `json:"skills,omitempty" yaml:"skills,omitempty"`

	// Special 为空值期望时按 true 处理
	Special  string         `json:"special,omitempty" yaml:"special,omitempty"`
	Value    any            `json:"value,omitempty" yaml:"value,omitempty"`
	Specials map[string]any `json:"specials,omitempty" yaml:"specials,omitempty"`

	// NPC 为空时由调用方指定当前互动对象
	NPC             string `json:"npc,omitempty" yaml:"npc,omitempty"`
	MinRelationship int    `json:"min_relationship,omitempty" yaml:"min_relationship,omitempty"`

	Time  int     `json:"time,omitempty" yaml:"time,omitempty"`
	Money float64 `json:"money,omitempty" yaml:"money,omitempty"`
}

// ForNPC 返回限定了互动对象的条件副本
func (r Requirement) ForNPC(npcID string) Requirement {
	if r.NPC == "" {
		r.NPC = npcID
	}
	return r
}

// WithStage 把记录自身的阶段并入条件。
// 条件已列出阶段时取交集，加载校验保证交集非空。
func (r Requirement) WithStage(stage LifeStage) Requirement {
	if stage == "" || stage == StageAll {
		return r
	}
	r.Stages = []LifeStage{stage}
	return r
}

// AllowsStage 条件是否允许该阶段（未限制阶段时总是允许）
func (r Requirement) AllowsStage(stage LifeStage) bool {
	if len(r.Stages) == 0 {
		return true
	}
	for _, s := range r.Stages {
		if s == StageAll || s == stage {
			return true
		}
	}
	return false
}

// WithAges 合并年龄区间（0 表示不限）
func (r Requirement) WithAges(minAge, maxAge int) Requirement {
	if minAge > r.MinAge {
		r.MinAge = minAge
	}
	if maxAge > 0 && (r.MaxAge == 0 || maxAge < r.MaxAge) {
		r.MaxAge = maxAge
	}
	return r
}

// Normalize 统一期望值的数值类型
func (r *Requirement) Normalize() {
	r.Value = NormalizeValue(r.Value)
	for k, v := range r.Specials {
		r.Specials[k] = NormalizeValue(v)
	}
}
