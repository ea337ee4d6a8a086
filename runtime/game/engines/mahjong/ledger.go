package mahjong

import (
	"sort"

	"github.com/Senmiao-vhp/majsoul/common/log"
)

const (
	RiichiDeposit  = 1000
	HonbaRonBonus  = 300 // 荣和每本场
	HonbaTsumoEach = 100 // 自摸每本场每家
)

type SettlementKind int

const (
	SettleTsumo SettlementKind = iota
	SettleRon
	SettleExhaustiveDraw
	SettleSpecialDraw
)

func (k SettlementKind) String() string {
	switch k {
	case SettleTsumo:
		return "tsumo"
	case SettleRon:
		return "ron"
	case SettleExhaustiveDraw:
		return "exhaustive_draw"
	case SettleSpecialDraw:
		return "special_draw"
	default:
		return "unknown"
	}
}

type SpecialDrawKind int

const (
	SpecialDrawFourRiichi    SpecialDrawKind = iota // 四家立直
	SpecialDrawFourKans                             // 四杠散了
	SpecialDrawNineTerminals                        // 九种九牌
)

func (k SpecialDrawKind) String() string {
	switch k {
	case SpecialDrawFourRiichi:
		return "four_riichi"
	case SpecialDrawFourKans:
		return "four_kans"
	case SpecialDrawNineTerminals:
		return "nine_terminals"
	default:
		return "unknown"
	}
}

// Settlement 一次结算的结果。Before/After 为守恒量，在本场/庄家推进之前记录
type Settlement struct {
	Kind           SettlementKind
	Winner         int // 流局为 -1
	Loser          int // 自摸、流局为 -1
	Deltas         [SeatCount]int
	StickPayout    int
	Tenpai         [SeatCount]bool
	SpecialDraw    SpecialDrawKind
	Before         int
	After          int
	Honba          int // 推进后
	RiichiSticks   int // 推进后
	DealerRetained bool
}

// Placement 终局顺位
type Placement struct {
	Rank   int
	Seat   int
	Name   string
	Points int
	Final  int // 加上顺位马
}

// Ledger 供托、本场与本局守恒基准，跨局保留
type Ledger struct {
	RiichiSticks int
	Honba        int
	DealerWin    bool

	reference      int
	rankingSettled bool // 终局的本场 +1 已计入
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Audit 守恒量：全员点数 + 300×本场 + 1000×供托
func (l *Ledger) Audit(t *Table) int {
	return t.TotalPoints() + HonbaRonBonus*l.Honba + RiichiDeposit*l.RiichiSticks
}

// BeginHand 记录本局守恒基准
func (l *Ledger) BeginHand(t *Table) {
	l.DealerWin = false
	l.rankingSettled = false
	l.reference = l.Audit(t)
}

func (l *Ledger) Reference() int {
	return l.reference
}

// DepositRiichi 立直棒入供托
func (l *Ledger) DepositRiichi(p *Player) error {
	if p.Points < RiichiDeposit {
		return newError(ErrInsufficientPoints, "%s 只有 %d 点", p.Name, p.Points)
	}
	p.Points -= RiichiDeposit
	l.RiichiSticks++
	return nil
}

func roundUpTo100(v int) int {
	return (v + 99) / 100 * 100
}

// WinPayments 和了的点数移动(不含供托)
func WinPayments(dealer, winner, loser int, base, honba int) [SeatCount]int {
	var delta [SeatCount]int
	if loser >= 0 {
		mult := 4
		if winner == dealer {
			mult = 6
		}
		pay := roundUpTo100(base*mult) + HonbaRonBonus*honba
		delta[loser] -= pay
		delta[winner] += pay
		return delta
	}
	for seat := 0; seat < SeatCount; seat++ {
		if seat == winner {
			continue
		}
		// 庄家自摸三家均摊 2 倍；闲家自摸时庄家付 2 倍，闲家付 1 倍
		mult := 1
		if winner == dealer || seat == dealer {
			mult = 2
		}
		pay := roundUpTo100(base*mult) + HonbaTsumoEach*honba
		delta[seat] -= pay
		delta[winner] += pay
	}
	return delta
}

func (l *Ledger) apply(t *Table, s *Settlement) error {
	s.Before = l.reference
	for seat, d := range s.Deltas {
		t.Players[seat].Points += d
	}
	s.After = l.Audit(t)
	if s.After != s.Before {
		log.Error("点数守恒校验失败 kind=%s before=%d after=%d deltas=%v sticks=%d honba=%d",
			s.Kind, s.Before, s.After, s.Deltas, l.RiichiSticks, l.Honba)
		return newError(ErrLedgerCorruption, "before=%d after=%d", s.Before, s.After).
			WithContext("settlement", *s)
	}
	return nil
}

func (l *Ledger) finish(s *Settlement) {
	s.Honba = l.Honba
	s.RiichiSticks = l.RiichiSticks
}

// SettleWin 和了结算；loser 为 -1 表示自摸
func (l *Ledger) SettleWin(t *Table, winner, loser int, result EvalResult) (*Settlement, error) {
	s := &Settlement{Kind: SettleTsumo, Winner: winner, Loser: loser}
	if loser >= 0 {
		s.Kind = SettleRon
	}
	s.Deltas = WinPayments(t.Dealer, winner, loser, result.BaseScore, l.Honba)
	s.StickPayout = RiichiDeposit * l.RiichiSticks
	s.Deltas[winner] += s.StickPayout
	l.RiichiSticks = 0

	if err := l.apply(t, s); err != nil {
		return nil, err
	}

	if winner == t.Dealer {
		l.DealerWin = true
		l.Honba++
		s.DealerRetained = true
	} else {
		l.Honba = 0
		t.RotateDealer()
	}
	l.finish(s)
	return s, nil
}

// SettleExhaustiveDraw 荒牌流局：供托由听牌者均分，除不尽的留在供托；不听罚符可选
func (l *Ledger) SettleExhaustiveDraw(t *Table, tenpai [SeatCount]bool, notenPenalty int) (*Settlement, error) {
	s := &Settlement{Kind: SettleExhaustiveDraw, Winner: -1, Loser: -1, Tenpai: tenpai}

	nTenpai := 0
	for _, ok := range tenpai {
		if ok {
			nTenpai++
		}
	}

	if notenPenalty > 0 && nTenpai > 0 && nTenpai < SeatCount {
		receive := notenPenalty / nTenpai
		pay := notenPenalty / (SeatCount - nTenpai)
		for seat, ok := range tenpai {
			if ok {
				s.Deltas[seat] += receive
			} else {
				s.Deltas[seat] -= pay
			}
		}
	}

	if nTenpai > 0 && l.RiichiSticks > 0 {
		share := l.RiichiSticks / nTenpai
		for seat, ok := range tenpai {
			if ok {
				s.Deltas[seat] += share * RiichiDeposit
			}
		}
		l.RiichiSticks -= share * nTenpai
		s.StickPayout = share * nTenpai * RiichiDeposit
	}

	if err := l.apply(t, s); err != nil {
		return nil, err
	}

	l.Honba++
	if tenpai[t.Dealer] {
		s.DealerRetained = true
	} else {
		t.RotateDealer()
	}
	l.finish(s)
	return s, nil
}

// SettleSpecialDraw 途中流局：无点数移动，供托保留，本场 +1，庄家连庄
func (l *Ledger) SettleSpecialDraw(t *Table, kind SpecialDrawKind) (*Settlement, error) {
	s := &Settlement{Kind: SettleSpecialDraw, Winner: -1, Loser: -1, SpecialDraw: kind}
	if err := l.apply(t, s); err != nil {
		return nil, err
	}
	l.Honba++
	s.DealerRetained = true
	l.finish(s)
	return s, nil
}

// SettleFinalRanking 终局顺位：点数降序，同分按座位顺序；庄家和了且位列第一时本场 +1。
// 本场只在一局之后的第一次调用时推进，重复读取顺位不改变账目
func (l *Ledger) SettleFinalRanking(t *Table, bonus []int) []Placement {
	out := make([]Placement, 0, SeatCount)
	for seat, p := range t.Players {
		out = append(out, Placement{Seat: seat, Name: p.Name, Points: p.Points})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	for i := range out {
		out[i].Rank = i + 1
		out[i].Final = out[i].Points
		if i < len(bonus) {
			out[i].Final += bonus[i]
		}
	}
	if l.DealerWin && out[0].Seat == t.Dealer && !l.rankingSettled {
		l.Honba++
		l.rankingSettled = true
	}
	return out
}
