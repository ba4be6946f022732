package models

import "errors"

var (
	ErrUnknownAttribute  = errors.New("未知属性")
	ErrSkillNotFound     = errors.New("技能不存在")
	ErrOverAllocation    = errors.New("时间分配总和不能超过100%")
	ErrInvalidAllocation = errors.New("时间分配不能为负数")
	ErrSessionEnded      = errors.New("人生已经结束")
	ErrIneligible        = errors.New("不满足条件")
	ErrNotFound          = errors.New("记录不存在")
	ErrInsufficientFunds = errors.New("金钱不足")
	ErrNoPendingEvent    = errors.New("没有待处理的事件")
	ErrNothingToUndo     = errors.New("无法回退：没有历史记录")
)
