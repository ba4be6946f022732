package models

import (
	"fmt"
	"math"
	"strconv"
)

// EffectKind 效果类型（封闭集合，解码时校验）
type EffectKind string

const (
	EffectAttribute    EffectKind = "attribute"
	EffectSkill        EffectKind = "skill"
	EffectMoney        EffectKind = "money"
	EffectTime         EffectKind = "time"
	EffectRelationship EffectKind = "relationship"
	EffectSpecial      EffectKind = "special"
	EffectUnlockSkill  EffectKind = "unlockSkill"
	EffectRandom       EffectKind = "random"
)

// EffectKinds 全部效果类型
var EffectKinds = []EffectKind{
	EffectAttribute, EffectSkill, EffectMoney, EffectTime,
	EffectRelationship, EffectSpecial, EffectUnlockSkill, EffectRandom,
}

// Valid 是否为已知的效果类型
func (k EffectKind) Valid() bool {
	for _, known := range EffectKinds {
		if k == known {
			return true
		}
	}
	return false
}

// EffectSpec 声明式的效果
type EffectSpec struct {
	Kind     EffectKind `json:"type" yaml:"type"`
	Target   string     `json:"target,omitempty" yaml:"target,omitempty"`
	Value    any        `json:"value,omitempty" yaml:"value,omitempty"`
	Outcomes []Outcome  `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
}

// Outcome 随机效果的一个分支
type Outcome struct {
	Probability float64      `json:"probability" yaml:"probability"`
	Effect      *EffectSpec  `json:"effect,omitempty" yaml:"effect,omitempty"`
	Effects     []EffectSpec `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// All 返回分支包含的全部效果
func (o Outcome) All() []EffectSpec {
	var all []EffectSpec
	if o.Effect != nil {
		all = append(all, *o.Effect)
	}
	return append(all, o.Effects...)
}

// Amount 数值型效果的数值
func (e EffectSpec) Amount() float64 {
	f, _ := toFloat(e.Value)
	return f
}

// Normalize 统一数值类型（YAML 整数 → float64），递归处理随机分支
func (e *EffectSpec) Normalize() {
	e.Value = NormalizeValue(e.Value)
	for i := range e.Outcomes {
		if e.Outcomes[i].Effect != nil {
			e.Outcomes[i].Effect.Normalize()
		}
		for j := range e.Outcomes[i].Effects {
			e.Outcomes[i].Effects[j].Normalize()
		}
	}
}

// Validate 校验效果定义
func (e EffectSpec) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("未知的效果类型 %q", e.Kind)
	}

	switch e.Kind {
	case EffectAttribute, EffectSkill:
		if e.Target == "" {
			return fmt.Errorf("%s 效果缺少 target", e.Kind)
		}
		if _, ok := toFloat(e.Value); !ok {
			return fmt.Errorf("%s 效果 %s 的 value 不是数值", e.Kind, e.Target)
		}
	case EffectMoney, EffectTime, EffectRelationship:
		v, ok := toFloat(e.Value)
		if !ok {
			return fmt.Errorf("%s 效果的 value 不是数值", e.Kind)
		}
		// 时间百分比和关系值是整数
		if e.Kind != EffectMoney && v != math.Trunc(v) {
			return fmt.Errorf("%s 效果的 value 必须是整数: %v", e.Kind, v)
		}
	case EffectSpecial, EffectUnlockSkill:
		if e.Target == "" {
			return fmt.Errorf("%s 效果缺少 target", e.Kind)
		}
	case EffectRandom:
		if len(e.Outcomes) == 0 {
			return fmt.Errorf("random 效果没有分支")
		}
		total := 0.0
		for _, o := range e.Outcomes {
			if o.Probability < 0 || o.Probability > 1 {
				return fmt.Errorf("random 分支概率 %v 超出 [0,1]", o.Probability)
			}
			total += o.Probability
			for _, sub := range o.All() {
				if err := sub.Validate(); err != nil {
					return err
				}
			}
		}
		if total > 1.000001 {
			return fmt.Errorf("random 分支概率总和 %v 超过1", total)
		}
	}
	return nil
}

// ValidateEffects 校验效果列表
func ValidateEffects(effects []EffectSpec) error {
	for i, e := range effects {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("第%d个效果: %w", i+1, err)
		}
	}
	return nil
}

// NormalizeEffects 统一效果列表中的数值
func NormalizeEffects(effects []EffectSpec) {
	for i := range effects {
		effects[i].Normalize()
	}
}

// FormatNumber 最多保留两位小数并去掉多余的0
func FormatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// FormatSigned 正数带+号，负数自带-号
func FormatSigned(v float64) string {
	if v > 0 {
		return "+" + FormatNumber(v)
	}
	return FormatNumber(v)
}

func toFloat(v any) (float64, bool) {
	switch n := NormalizeValue(v).(type) {
	case float64:
		return n, true
	}
	return 0, false
}
