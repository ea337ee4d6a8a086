package mahjong

import (
	"github.com/Senmiao-vhp/majsoul/common/log"
)

// settleWin 和了：立直者翻开里宝牌，交给 Ledger 结算
func (eg *RiichiMahjong4p) settleWin(winner, loser int, tile Tile, req EvalRequest, res *EvalResult) error {
	t := eg.table
	var ura []Tile
	if t.Players[winner].Riichi {
		for range req.UraDoraIndicators {
			indicator, err := t.Wall.RevealNextUraDora()
			if err != nil {
				return eg.halt(err)
			}
			ura = append(ura, indicator)
			eg.events.emit(DoraRevealed{Indicator: indicator, Ura: true})
		}
	}
	eg.events.emit(Win{Winner: winner, Loser: loser, Tile: tile, Result: *res, UraDora: ura})

	s, err := eg.ledger.SettleWin(t, winner, loser, *res)
	if err != nil {
		return eg.halt(err)
	}
	eg.finishHand(&HandResult{Settlement: *s, Winner: winner, Loser: loser, WinTile: tile, Eval: res})
	return nil
}

// settleExhaustiveDraw 荒牌流局，按最后一次打牌后的听牌判定
func (eg *RiichiMahjong4p) settleExhaustiveDraw() error {
	eg.turns.EnterResolving()
	var tenpai [SeatCount]bool
	for seat, p := range eg.table.Players {
		tenpai[seat] = p.IsTenpai()
	}
	eg.events.emit(ExhaustiveDraw{Tenpai: tenpai})

	s, err := eg.ledger.SettleExhaustiveDraw(eg.table, tenpai, eg.Rules.NotenPenalty)
	if err != nil {
		return eg.halt(err)
	}
	eg.finishHand(&HandResult{Settlement: *s, Winner: -1, Loser: -1})
	return nil
}

func (eg *RiichiMahjong4p) settleSpecialDraw(kind SpecialDrawKind) error {
	eg.turns.EnterResolving()
	eg.window = nil
	eg.pendingKan = nil
	eg.events.emit(SpecialDraw{Reason: kind})

	s, err := eg.ledger.SettleSpecialDraw(eg.table, kind)
	if err != nil {
		return eg.halt(err)
	}
	eg.finishHand(&HandResult{Settlement: *s, Winner: -1, Loser: -1})
	return nil
}

func (eg *RiichiMahjong4p) finishHand(r *HandResult) {
	eg.result = r
	eg.window = nil
	log.Info("本局结束 hand=%d kind=%s deltas=%v", eg.handCount, r.Settlement.Kind, r.Settlement.Deltas)
	eg.events.emit(LedgerSettled{Settlement: r.Settlement})
	eg.turns.Finish()
}

// SeatView 一个座位的公开信息
type SeatView struct {
	Name         string
	Points       int
	Riichi       bool
	DoubleRiichi bool
	Discards     []Discard
	Melds        []Meld
	HandSize     int
}

// Snapshot 牌桌的公开状态，可以安全地交给其他 goroutine
type Snapshot struct {
	State          TurnState
	Current        int
	Dealer         int
	RoundWind      Wind
	RoundNumber    int
	Honba          int
	RiichiSticks   int
	LiveLeft       int
	DoraIndicators []Tile
	CallWindow     uint64
	Seats          [SeatCount]SeatView
}

func (eg *RiichiMahjong4p) Snapshot() Snapshot {
	t := eg.table
	s := Snapshot{
		State:        eg.turns.State,
		Current:      eg.turns.TurnPointer(),
		Dealer:       t.Dealer,
		RoundWind:    t.RoundWind,
		RoundNumber:  t.RoundNumber,
		Honba:        eg.ledger.Honba,
		RiichiSticks: eg.ledger.RiichiSticks,
		CallWindow:   eg.CallWindowID(),
	}
	if t.Wall != nil {
		s.LiveLeft = t.Wall.LiveCount()
		s.DoraIndicators = t.Wall.DoraIndicators()
	}
	for seat, p := range t.Players {
		s.Seats[seat] = SeatView{
			Name:         p.Name,
			Points:       p.Points,
			Riichi:       p.Riichi,
			DoubleRiichi: p.DoubleRiichi,
			Discards:     append([]Discard(nil), p.Discards...),
			Melds:        p.Hand.Melds(),
			HandSize:     p.Hand.ConcealedCount(),
		}
	}
	return s
}
