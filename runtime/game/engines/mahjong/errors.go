package mahjong

import (
	"errors"
	"fmt"
)

// ErrorClass 错误分类，决定调用方如何处理
type ErrorClass int

const (
	ClassIllegalAction ErrorClass = iota // 当前状态不允许该操作，可重试
	ClassRuleViolation                   // 违反规则，附带原因码，可重试
	ClassEvaluator                       // 和牌判定器返回的结构化错误
	ClassFatal                           // 引擎缺陷，对局中止
)

func (c ErrorClass) String() string {
	switch c {
	case ClassIllegalAction:
		return "illegal_action"
	case ClassRuleViolation:
		return "rule_violation"
	case ClassEvaluator:
		return "evaluator"
	case ClassFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// GameError 引擎错误，errors.Is 按 Code 匹配
type GameError struct {
	Code    string
	Class   ErrorClass
	Message string
	Cause   error
	Context map[string]any
}

func (e *GameError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GameError) Unwrap() error {
	return e.Cause
}

func (e *GameError) Is(target error) bool {
	var t *GameError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithCause 返回带原因的副本，哨兵值本身不被修改
func (e *GameError) WithCause(cause error) *GameError {
	cp := e.clone()
	cp.Cause = cause
	return cp
}

// WithContext 返回附加上下文的副本
func (e *GameError) WithContext(key string, value any) *GameError {
	cp := e.clone()
	cp.Context[key] = value
	return cp
}

func (e *GameError) clone() *GameError {
	cp := *e
	cp.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	return &cp
}

func defineError(code string, class ErrorClass, message string) *GameError {
	return &GameError{Code: code, Class: class, Message: message}
}

// newError 以哨兵为模板，生成带具体描述的错误
func newError(base *GameError, format string, args ...any) *GameError {
	cp := base.clone()
	cp.Message = base.Message + ": " + fmt.Sprintf(format, args...)
	return cp
}

// ClassOf 取错误分类，非 GameError 视为 fatal
func ClassOf(err error) ErrorClass {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Class
	}
	return ClassFatal
}

// 非法操作
var (
	ErrIllegalState    = defineError("ILLEGAL_STATE", ClassIllegalAction, "当前状态不允许此操作")
	ErrNotYourTurn     = defineError("NOT_YOUR_TURN", ClassIllegalAction, "不是该玩家的回合")
	ErrTileNotInHand   = defineError("TILE_NOT_IN_HAND", ClassIllegalAction, "手牌中没有指定的牌")
	ErrEngineHalted    = defineError("ENGINE_HALTED", ClassIllegalAction, "引擎已中止")
	ErrStaleCallWindow = defineError("STALE_CALL_WINDOW", ClassIllegalAction, "鸣牌窗口已关闭")
	ErrInvalidSeat     = defineError("INVALID_SEAT", ClassIllegalAction, "无效的座位")
)

// 规则违反
var (
	ErrInsufficientPoints = defineError("INSUFFICIENT_POINTS", ClassRuleViolation, "点数不足以立直")
	ErrAlreadyRiichi      = defineError("ALREADY_RIICHI", ClassRuleViolation, "已经立直")
	ErrNotConcealed       = defineError("NOT_CONCEALED", ClassRuleViolation, "非门清不能立直")
	ErrNotTenpai          = defineError("NOT_TENPAI", ClassRuleViolation, "打出后未听牌")
	ErrRiichiLocked       = defineError("RIICHI_LOCKED", ClassRuleViolation, "立直后不能改变手牌")
	ErrFuriten            = defineError("FURITEN", ClassRuleViolation, "振听中不能荣和")
	ErrCallNotAvailable   = defineError("CALL_NOT_AVAILABLE", ClassRuleViolation, "没有该鸣牌资格")
	ErrMalformedCall      = defineError("MALFORMED_CALL", ClassRuleViolation, "鸣牌组合不合法")
	ErrKanLimit           = defineError("KAN_LIMIT", ClassRuleViolation, "杠的次数已达上限")
	ErrWallTooShort       = defineError("WALL_TOO_SHORT", ClassRuleViolation, "牌山剩余不足")
)

// 和牌判定器的结构化结果
var (
	ErrNoYaku             = defineError("NO_YAKU", ClassEvaluator, "无役")
	ErrNotWinning         = defineError("NOT_WINNING", ClassEvaluator, "未和牌")
	ErrIllegalDeclaration = defineError("ILLEGAL_DECLARATION", ClassEvaluator, "非法的和牌宣言")
)

// 构造期错误与致命错误
var (
	ErrInvalidTile      = defineError("INVALID_TILE", ClassIllegalAction, "非法的牌")
	ErrInvalidTable     = defineError("INVALID_TABLE", ClassIllegalAction, "非法的牌桌配置")
	ErrInvalidWall      = defineError("INVALID_WALL", ClassFatal, "牌山构成错误")
	ErrIndicatorLimit   = defineError("INDICATOR_LIMIT", ClassRuleViolation, "宝牌指示牌已达上限")
	ErrLedgerCorruption = defineError("LEDGER_CORRUPTION", ClassFatal, "点数守恒校验失败")
)
