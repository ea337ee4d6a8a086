package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Senmiao-vhp/majsoul/common/config"
	"github.com/Senmiao-vhp/majsoul/common/log"
	"github.com/Senmiao-vhp/majsoul/runtime/game"
	"github.com/Senmiao-vhp/majsoul/runtime/game/engines/mahjong"
	"github.com/Senmiao-vhp/majsoul/runtime/game/engines/mahjong/shape"
)

var seatNames = [mahjong.SeatCount]string{"东家", "南家", "西家", "北家"}

// simulator 按顺序开桌；规则热更新只影响之后开的桌
type simulator struct {
	mu    sync.Mutex
	rules config.Rules
}

func newSimulator(rules config.Rules) *simulator {
	return &simulator{rules: rules}
}

func (s *simulator) setSeed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules.Seed = seed
}

func (s *simulator) updateRules(rules config.Rules) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seed := s.rules.Seed
	s.rules = rules
	if rules.Seed == 0 {
		s.rules.Seed = seed
	}
}

func (s *simulator) currentRules() config.Rules {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rules
	r.PlacementBonus = append([]int(nil), s.rules.PlacementBonus...)
	return r
}

func (s *simulator) run(ctx context.Context, out io.Writer, tables, hands int) error {
	ev, err := shape.NewEvaluator()
	if err != nil {
		return err
	}
	defer ev.Close()
	rm := game.NewRoomManager(ev)
	defer rm.CloseAll()

	for i := 0; i < tables; i++ {
		room, err := rm.CreateRoom(seatNames, s.currentRules(), mahjong.WithSink(mahjong.NewLogSink()))
		if err != nil {
			return err
		}
		ranking, err := playTable(ctx, room, hands)
		if err != nil {
			return fmt.Errorf("room %s: %w", room.ID, err)
		}
		printRanking(out, room.ID, ranking)
		if err := rm.DeleteRoom(room.ID); err != nil {
			return err
		}
	}
	return nil
}

// playTable 在房间的 actor 上逐局推进，返回终局顺位
func playTable(ctx context.Context, room *game.Room, hands int) ([]mahjong.Placement, error) {
	for i := 0; i < hands; i++ {
		err := room.Do(ctx, func(eg *mahjong.RiichiMahjong4p) error {
			if err := playHand(eg); err != nil {
				return err
			}
			if r := eg.Result(); r != nil {
				log.Info("第 %d 局: %s winner=%d loser=%d deltas=%v",
					i+1, r.Settlement.Kind, r.Winner, r.Loser, r.Settlement.Deltas)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	var ranking []mahjong.Placement
	err := room.Do(ctx, func(eg *mahjong.RiichiMahjong4p) error {
		ranking = eg.FinalRanking()
		return nil
	})
	return ranking, err
}

// playHand 摸切策略：能自摸就自摸，能荣和就荣和，其余一律放弃
func playHand(eg *mahjong.RiichiMahjong4p) error {
	if err := eg.StartHand(); err != nil {
		return err
	}
	for eg.State() != mahjong.TurnStateFinished {
		var err error
		switch eg.State() {
		case mahjong.TurnStateDealing:
			for seat := 0; seat < mahjong.SeatCount && eg.State() == mahjong.TurnStateDealing; seat++ {
				if e := eg.ResolveNineTerminals(seat, false); e != nil && !errors.Is(e, mahjong.ErrCallNotAvailable) {
					err = e
				}
			}
		case mahjong.TurnStateAwaitingDraw:
			_, _, err = eg.Draw()
		case mahjong.TurnStateAwaitingDiscard:
			err = discardTurn(eg)
		case mahjong.TurnStateAwaitingCalls:
			err = answerCalls(eg)
		default:
			err = fmt.Errorf("意外的状态 %s", eg.State())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func discardTurn(eg *mahjong.RiichiMahjong4p) error {
	seat := eg.Current()
	if eg.CanTsumo(seat) {
		return eg.Tsumo(seat)
	}
	p := eg.Table().Players[seat]
	if drawn, ok := p.Drawn(); ok {
		return eg.Discard(seat, drawn)
	}
	return eg.DiscardAt(seat, p.Hand.ConcealedCount()-1)
}

func answerCalls(eg *mahjong.RiichiMahjong4p) error {
	for seat := 0; seat < mahjong.SeatCount && eg.State() == mahjong.TurnStateAwaitingCalls; seat++ {
		ops := eg.Options(seat)
		if len(ops) == 0 {
			continue
		}
		if canRon(ops) {
			if err := eg.Claim(seat, mahjong.ActionRon, nil); err != nil {
				return err
			}
			continue
		}
		if err := eg.Pass(seat); err != nil {
			return err
		}
	}
	return nil
}

func canRon(ops []mahjong.CallOption) bool {
	for _, op := range ops {
		if op.Kind == mahjong.ActionRon {
			return true
		}
	}
	return false
}

func printRanking(w io.Writer, roomID string, ranking []mahjong.Placement) {
	fmt.Fprintf(w, "room %s\n", roomID)
	for _, p := range ranking {
		fmt.Fprintf(w, "  %d. %s  %6d -> %6d\n", p.Rank, p.Name, p.Points, p.Final)
	}
}

func printRules(w io.Writer, r config.Rules) {
	fmt.Fprintf(w, "startingPoints: %d\n", r.StartingPoints)
	fmt.Fprintf(w, "openTanyao:     %t\n", r.OpenTanyao)
	fmt.Fprintf(w, "redFives:       %t\n", r.RedFives)
	fmt.Fprintf(w, "doubleYakuman:  %t\n", r.DoubleYakuman)
	fmt.Fprintf(w, "notenPenalty:   %d\n", r.NotenPenalty)
	fmt.Fprintf(w, "placementBonus: %v\n", r.PlacementBonus)
	fmt.Fprintf(w, "callTimeout:    %s\n", r.CallTimeout)
	fmt.Fprintf(w, "seed:           %d\n", r.Seed)
}
