package mahjong

import (
	"github.com/Senmiao-vhp/majsoul/runtime/game/engines"
)

type TurnState int

const (
	TurnStateIdle            TurnState = iota // 等待开始
	TurnStateDealing                          // 配牌，可能等待九种九牌选择
	TurnStateAwaitingDraw                     // 等待当前玩家摸牌
	TurnStateAwaitingDiscard                  // 等待打牌、立直、杠、自摸
	TurnStateAwaitingCalls                    // 等待其他玩家响应(吃碰杠和)
	TurnStateResolving                        // 结算中
	TurnStateFinished                         // 本局结束
)

func (s TurnState) String() string {
	switch s {
	case TurnStateIdle:
		return "idle"
	case TurnStateDealing:
		return "dealing"
	case TurnStateAwaitingDraw:
		return "awaiting_draw"
	case TurnStateAwaitingDiscard:
		return "awaiting_discard"
	case TurnStateAwaitingCalls:
		return "awaiting_calls"
	case TurnStateResolving:
		return "resolving"
	case TurnStateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Phase 映射到对局阶段
func (s TurnState) Phase() engines.GameState {
	switch s {
	case TurnStateIdle:
		return engines.GameWaiting
	case TurnStateDealing:
		return engines.GameDealing
	case TurnStateFinished:
		return engines.GameFinished
	default:
		return engines.GameInProgress
	}
}

// TurnManager 回合状态；行动座位直接记在 Table.Current 上
type TurnManager struct {
	State TurnState
	table *Table
}

func NewTurnManager(t *Table) *TurnManager {
	return &TurnManager{State: TurnStateIdle, table: t}
}

func (tm *TurnManager) TurnPointer() int {
	return tm.table.Current
}

// NextTurn 轮到下家
func (tm *TurnManager) NextTurn() int {
	tm.table.Current = tm.table.NextSeat(tm.table.Current)
	return tm.table.Current
}

func (tm *TurnManager) EnterDealPhase(dealer int) {
	tm.table.Current = dealer
	tm.State = TurnStateDealing
}

func (tm *TurnManager) EnterDrawPhase(seat int) {
	tm.table.Current = seat
	tm.State = TurnStateAwaitingDraw
}

func (tm *TurnManager) EnterDiscardPhase(seat int) {
	tm.table.Current = seat
	tm.State = TurnStateAwaitingDiscard
}

func (tm *TurnManager) EnterCallPhase() {
	tm.State = TurnStateAwaitingCalls
}

func (tm *TurnManager) EnterResolving() {
	tm.State = TurnStateResolving
}

func (tm *TurnManager) Finish() {
	tm.State = TurnStateFinished
}

// Expect 校验当前状态
func (tm *TurnManager) Expect(states ...TurnState) error {
	for _, s := range states {
		if tm.State == s {
			return nil
		}
	}
	return newError(ErrIllegalState, "当前状态 %s", tm.State)
}

// ExpectTurn 校验状态与行动座位
func (tm *TurnManager) ExpectTurn(seat int, state TurnState) error {
	if err := tm.Expect(state); err != nil {
		return err
	}
	if seat != tm.table.Current {
		return newError(ErrNotYourTurn, "seat=%d, 当前行动座位=%d", seat, tm.table.Current)
	}
	return nil
}
