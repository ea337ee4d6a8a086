package shape

import (
	"time"

	"github.com/Senmiao-vhp/majsoul/common/cache"
	"github.com/Senmiao-vhp/majsoul/runtime/game/engines/mahjong"
)

const (
	defaultCacheItems = 1 << 16
	defaultCacheTTL   = 10 * time.Minute
)

// Evaluator 默认的和牌判定器：牌型搜索 + 常见役 + 宝牌 + 满贯以上封顶
type Evaluator struct {
	searcher *Searcher
	cache    *cache.GeneralCache
}

var _ mahjong.HandEvaluator = (*Evaluator)(nil)

// NewEvaluator 使用独立的本地缓存
func NewEvaluator() (*Evaluator, error) {
	c, err := cache.NewGeneralCache(defaultCacheItems, defaultCacheTTL)
	if err != nil {
		return nil, err
	}
	return &Evaluator{searcher: NewSearcher(c), cache: c}, nil
}

// NewEvaluatorWithCache 多张桌子共用一份缓存
func NewEvaluatorWithCache(c *cache.GeneralCache) *Evaluator {
	return &Evaluator{searcher: NewSearcher(c)}
}

func (e *Evaluator) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

func (e *Evaluator) Waits(concealed []mahjong.Tile, melds []mahjong.Meld) []mahjong.TileType {
	return e.searcher.Waits(Hand34FromTiles(concealed), len(melds))
}

func (e *Evaluator) Evaluate(req mahjong.EvalRequest) (*mahjong.EvalResult, error) {
	fixed := len(req.Melds)
	if fixed > 4 || len(req.Concealed)+1 != 14-3*fixed || !req.WinTile.IsValid() {
		return nil, mahjong.ErrIllegalDeclaration
	}

	tiles := append(append([]mahjong.Tile(nil), req.Concealed...), req.WinTile)
	ctx := &winContext{req: req, full: Hand34FromTiles(tiles), concealed: true}
	ctx.all = ctx.full
	for _, m := range req.Melds {
		if m.IsOpen() {
			ctx.concealed = false
		}
		for _, t := range m.Tiles {
			ctx.all[t.Type()]++
		}
		tiles = append(tiles, m.Tiles...)
	}

	decomps := decompose(ctx.full, fixed)
	if fixed == 0 {
		ctx.kokushi = IsAgariKokushi(ctx.full)
		ctx.chiitoi = len(decomps) == 0 && IsAgariChiitoi(ctx.full)
	}
	if len(decomps) == 0 && !ctx.chiitoi && !ctx.kokushi {
		return nil, mahjong.ErrNotWinning
	}

	if mult, names := yakuman(ctx); mult > 0 {
		if !req.Rules.DoubleYakuman && mult > 1 {
			mult = 1
		}
		return &mahjong.EvalResult{Yaku: names, Han: 13 * mult, BaseScore: 8000 * mult}, nil
	}

	hits := situationalYaku(ctx)
	best := bestInterpretation(ctx, decomps, hits)
	if len(best.hits) == 0 {
		return nil, mahjong.ErrNoYaku
	}

	res := &mahjong.EvalResult{Fu: best.fu}
	for _, h := range best.hits {
		res.Yaku = append(res.Yaku, h.name)
		res.Han += h.han
	}
	dora, aka, ura := doraCount(ctx, tiles)
	for _, d := range []struct {
		name string
		n    int
	}{{YakuDora, dora}, {YakuAkaDora, aka}, {YakuUraDora, ura}} {
		if d.n > 0 {
			res.Yaku = append(res.Yaku, d.name)
			res.Han += d.n
		}
	}
	res.BaseScore = BaseScore(res.Han, res.Fu)
	return res, nil
}

type interpretation struct {
	hits []yakuHit
	han  int
	fu   int
}

// bestInterpretation 在所有拆法和和了牌位置中取基本点最高的
func bestInterpretation(ctx *winContext, decomps []decomposition, hits []yakuHit) interpretation {
	han := 0
	for _, h := range hits {
		han += h.han
	}
	if ctx.chiitoi {
		return interpretation{hits: hits, han: han, fu: 25}
	}

	best := interpretation{hits: hits, han: han, fu: 30}
	bestScore := -1
	win := int(ctx.req.WinTile.Type())
	for _, d := range decomps {
		for _, slot := range winSlots(d, win) {
			fu, pinfu := calculateFu(ctx, d, slot)
			cand := interpretation{hits: hits, han: han, fu: fu}
			if pinfu {
				cand.hits = append(append([]yakuHit(nil), hits...), yakuHit{name: YakuPinfu, han: 1})
				cand.han++
			}
			if len(cand.hits) == 0 {
				continue
			}
			if score := BaseScore(cand.han, cand.fu); score > bestScore {
				best, bestScore = cand, score
			}
		}
	}
	return best
}

// winSlots 和了牌可能所在的位置：-1 为雀头，其余为 groups 下标
func winSlots(d decomposition, win int) []int {
	var slots []int
	if d.pair == win {
		slots = append(slots, -1)
	}
	for i, g := range d.groups {
		switch g.kind {
		case groupTriplet:
			if g.start == win {
				slots = append(slots, i)
			}
		case groupSequence:
			if win >= g.start && win <= g.start+2 {
				slots = append(slots, i)
			}
		}
	}
	return slots
}

// calculateFu 按拆法和听牌位置算符，同时判断平和
func calculateFu(ctx *winContext, d decomposition, slot int) (int, bool) {
	req := ctx.req
	tsumo := req.Flags.Tsumo
	fu := 20

	setFu := 0
	for _, m := range req.Melds {
		yaochu := m.Type().IsTerminalOrHonor()
		switch {
		case m.Kan == mahjong.KanClosed:
			setFu += scale(16, yaochu)
		case m.IsKan():
			setFu += scale(8, yaochu)
		case m.Kind == mahjong.MeldPon:
			setFu += scale(2, yaochu)
		}
	}
	allSequences := true
	for i, g := range d.groups {
		if g.kind != groupTriplet {
			continue
		}
		allSequences = false
		yaochu := mahjong.TileType(g.start).IsTerminalOrHonor()
		if i == slot && !tsumo {
			setFu += scale(2, yaochu) // 荣和成刻算明刻
		} else {
			setFu += scale(4, yaochu)
		}
	}

	pairFu := 0
	pair := mahjong.TileType(d.pair)
	if pair.IsDragon() {
		pairFu += 2
	}
	if pair == req.SeatWind.TileType() {
		pairFu += 2
	}
	if pair == req.RoundWind.TileType() {
		pairFu += 2
	}

	waitFu := 0
	win := int(req.WinTile.Type())
	if slot == -1 {
		waitFu = 2
	} else if g := d.groups[slot]; g.kind == groupSequence {
		rank := mahjong.TileType(g.start).Rank()
		switch {
		case win == g.start+1:
			waitFu = 2 // 嵌张
		case win == g.start+2 && rank == 1:
			waitFu = 2 // 边张 12+3
		case win == g.start && rank == 7:
			waitFu = 2 // 边张 7+89
		}
	}

	pinfu := ctx.concealed && len(req.Melds) == 0 && allSequences && pairFu == 0 && waitFu == 0 && slot != -1
	if pinfu {
		if tsumo {
			return 20, true
		}
		return 30, true
	}

	fu += setFu + pairFu + waitFu
	if tsumo {
		fu += 2
	} else if ctx.concealed {
		fu += 10
	}
	if fu == 20 {
		fu = 30 // 副露平和型
	}
	return (fu + 9) / 10 * 10, false
}

func scale(base int, yaochu bool) int {
	if yaochu {
		return base * 2
	}
	return base
}

// BaseScore 基本点：符×2^(番+2)，满贯以上按番数封顶
func BaseScore(han, fu int) int {
	switch {
	case han >= 13:
		return 8000 // 累计役满
	case han >= 11:
		return 6000
	case han >= 8:
		return 4000
	case han >= 6:
		return 3000
	case han == 5:
		return 2000
	}
	base := fu * (1 << (2 + han))
	if base > 2000 {
		return 2000
	}
	return base
}
