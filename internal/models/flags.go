package models

import "fmt"

// SpecialFlags 会话级特殊状态值，由 special 效果写入、由条件检查读取
type SpecialFlags map[string]any

// Get 读取特殊状态值，不存在时为 false
func (f SpecialFlags) Get(key string) any {
	if v, ok := f[key]; ok {
		return v
	}
	return false
}

// Set 写入特殊状态值，数值统一为 float64
func (f SpecialFlags) Set(key string, value any) {
	f[key] = NormalizeValue(value)
}

// Matches 特殊状态值是否等于期望值
func (f SpecialFlags) Matches(key string, expected any) bool {
	return ValuesEqual(f.Get(key), expected)
}

// Clone 拷贝一份
func (f SpecialFlags) Clone() SpecialFlags {
	cp := make(SpecialFlags, len(f))
	for k, v := range f {
		cp[k] = v
	}
	return cp
}

// NormalizeValue 把各种数值类型统一为 float64，其余原样返回
func NormalizeValue(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v
}

// ValuesEqual 按值比较布尔、字符串和数值
func ValuesEqual(a, b any) bool {
	a, b = NormalizeValue(a), NormalizeValue(b)
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Truthy 特殊值是否视为"真"
func Truthy(v any) bool {
	switch t := NormalizeValue(v).(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	}
	return true
}
