package models

import (
	"fmt"
	"math"
)

// NewCharacter 按默认值创建角色
func NewCharacter(name string, startAge int) *Character {
	return &Character{
		Name:      name,
		Age:       startAge,
		LifeStage: StageCompulsory,
		Attributes: map[string]float64{
			AttrHealth:       100,
			AttrIntelligence: 10,
			AttrCharm:        10,
			AttrFitness:      10,
			AttrHappiness:    50,
		},
		Education: Education{CurrentSchool: "小学", Grade: 1},
		TimeAllocation: TimeAllocation{
			Study:         20,
			Entertainment: 20,
			Fitness:       10,
			Social:        10,
			Work:          0,
			Remaining:     40,
		},
		Skills:        map[string]*Skill{},
		Relationships: map[string]Relationship{},
		Inventory:     []ItemInstance{},
	}
}

// Bound 返回属性的取值区间
func (c *Character) Bound(attr string) Bound {
	if b, ok := c.Bounds[attr]; ok {
		return b
	}
	return DefaultBound
}

// Attribute 读取属性值
func (c *Character) Attribute(attr string) (float64, bool) {
	v, ok := c.Attributes[attr]
	return v, ok
}

// AdjustAttribute 增减属性并在最后一步限制到区间内
func (c *Character) AdjustAttribute(attr string, delta float64) (float64, error) {
	v, ok := c.Attributes[attr]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAttribute, attr)
	}
	v = c.Bound(attr).Clamp(v + delta)
	c.Attributes[attr] = v
	return v, nil
}

// ClampAttributes 把所有属性限制到各自区间
func (c *Character) ClampAttributes() {
	for attr, v := range c.Attributes {
		c.Attributes[attr] = c.Bound(attr).Clamp(v)
	}
}

// GrantExperience 增加技能经验，每满100升一级。
// 技能未定义或未解锁时静默忽略，返回false。
func (c *Character) GrantExperience(skillID string, amount float64) bool {
	s, ok := c.Skills[skillID]
	if !ok || s.Locked {
		return false
	}

	s.Experience += amount
	if s.Experience < 0 {
		s.Experience = 0
	}
	if s.Experience >= 100 {
		levels := math.Floor(s.Experience / 100)
		s.Level += int(levels)
		s.Experience -= levels * 100
	}
	return true
}

// UnlockSkill 解锁技能；已解锁时直接成功
func (c *Character) UnlockSkill(skillID string) error {
	s, ok := c.Skills[skillID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSkillNotFound, skillID)
	}
	s.Locked = false
	return nil
}

// SetTimeAllocation 设置时间分配，总和超过100时保留原分配
func (c *Character) SetTimeAllocation(a TimeAllocation) error {
	for _, v := range []int{a.Study, a.Entertainment, a.Fitness, a.Social, a.Work} {
		if v < 0 {
			return ErrInvalidAllocation
		}
	}

	total := a.Allocated()
	if total > 100 {
		return fmt.Errorf("%w: %d%%", ErrOverAllocation, total)
	}

	a.Remaining = 100 - total
	c.TimeAllocation = a
	return nil
}

// ResetTimeBudget 新的一年重新计算剩余时间
func (c *Character) ResetTimeBudget() {
	c.TimeAllocation.Remaining = 100 - c.TimeAllocation.Allocated()
}

// AddItem 添加物品到物品栏
func (c *Character) AddItem(item ItemInstance) {
	c.Inventory = append(c.Inventory, item)
}

// FindItem 按实例ID查找物品
func (c *Character) FindItem(instanceID string) (ItemInstance, bool) {
	for _, item := range c.Inventory {
		if item.InstanceID == instanceID {
			return item, true
		}
	}
	return ItemInstance{}, false
}

// RemoveItem 从物品栏移除物品
func (c *Character) RemoveItem(instanceID string) (ItemInstance, bool) {
	for i, item := range c.Inventory {
		if item.InstanceID == instanceID {
			c.Inventory = append(c.Inventory[:i], c.Inventory[i+1:]...)
			return item, true
		}
	}
	return ItemInstance{}, false
}

// RelationshipValue 读取关系值
func (c *Character) RelationshipValue(npcID string) (int, bool) {
	r, ok := c.Relationships[npcID]
	return r.Value, ok
}

// SeedRelationship 初始化关系值（已存在时不覆盖）
func (c *Character) SeedRelationship(npcID string, value int) {
	if c.Relationships == nil {
		c.Relationships = map[string]Relationship{}
	}
	if _, ok := c.Relationships[npcID]; ok {
		return
	}
	c.Relationships[npcID] = Relationship{Value: clampRelationship(value)}
}

// ChangeRelationship 调整关系值，限制在 [0,100]
func (c *Character) ChangeRelationship(npcID string, delta int) (int, bool) {
	r, ok := c.Relationships[npcID]
	if !ok {
		return 0, false
	}
	r.Value = clampRelationship(r.Value + delta)
	c.Relationships[npcID] = r
	return r.Value, true
}

func clampRelationship(v int) int {
	return max(0, min(100, v))
}

// RelationshipLabel 关系值对应的描述
func RelationshipLabel(value int) string {
	switch {
	case value >= 90:
		return "亲密无间"
	case value >= 70:
		return "亲密"
	case value >= 50:
		return "友好"
	case value >= 30:
		return "一般"
	case value >= 10:
		return "疏远"
	default:
		return "陌生"
	}
}

// Clone 深拷贝角色（用于快照）
func (c *Character) Clone() *Character {
	cp := *c

	cp.Attributes = make(map[string]float64, len(c.Attributes))
	for k, v := range c.Attributes {
		cp.Attributes[k] = v
	}
	if c.Bounds != nil {
		cp.Bounds = make(map[string]Bound, len(c.Bounds))
		for k, v := range c.Bounds {
			cp.Bounds[k] = v
		}
	}
	cp.Skills = make(map[string]*Skill, len(c.Skills))
	for k, v := range c.Skills {
		s := *v
		cp.Skills[k] = &s
	}
	cp.Relationships = make(map[string]Relationship, len(c.Relationships))
	for k, v := range c.Relationships {
		cp.Relationships[k] = v
	}
	cp.Inventory = append([]ItemInstance{}, c.Inventory...)

	return &cp
}
