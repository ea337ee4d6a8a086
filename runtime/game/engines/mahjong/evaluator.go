package mahjong

import (
	"errors"
	"fmt"

	"github.com/Senmiao-vhp/majsoul/common/log"
)

// WinFlags 和牌时的场况
type WinFlags struct {
	Tsumo        bool
	Riichi       bool
	Ippatsu      bool
	Rinshan      bool
	Chankan      bool
	Haitei       bool
	Houtei       bool
	DoubleRiichi bool
	Tenhou       bool
	Chiihou      bool
	Renhou       bool
	OpenRiichi   bool
}

// RuleFlags 影响役判定的可选规则
type RuleFlags struct {
	RedFives      bool
	OpenTanyao    bool
	DoubleYakuman bool
}

// EvalRequest 交给和牌判定器的输入，Concealed 不含和了牌
type EvalRequest struct {
	Concealed         []Tile
	Melds             []Meld
	WinTile           Tile
	Flags             WinFlags
	SeatWind          Wind
	RoundWind         Wind
	RiichiSticks      int
	Honba             int
	DoraIndicators    []Tile
	UraDoraIndicators []Tile
	Rules             RuleFlags
}

// EvalResult 役、番、符和基本点
type EvalResult struct {
	Yaku      []string
	Han       int
	Fu        int
	BaseScore int
}

// HandEvaluator 和牌判定/算番，引擎只区分"和了并有结果"与"不计分"
//
// Evaluate 失败时应返回 ErrNoYaku / ErrNotWinning / ErrIllegalDeclaration。
// Waits 返回 3n+1 张手牌的听牌种，未听牌为空。
type HandEvaluator interface {
	Evaluate(req EvalRequest) (*EvalResult, error)
	Waits(concealed []Tile, melds []Meld) []TileType
}

// safeEvaluate 判定器异常、返回格式错误都按无役处理并记录日志，绝不当成和了
func safeEvaluate(ev HandEvaluator, req EvalRequest) (res *EvalResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("和牌判定器异常, win=%s, panic=%v", req.WinTile, r)
			res, err = nil, ErrNoYaku.WithCause(fmt.Errorf("evaluator panic: %v", r))
		}
	}()

	res, err = ev.Evaluate(req)
	if err != nil {
		if errors.Is(err, ErrNoYaku) || errors.Is(err, ErrNotWinning) || errors.Is(err, ErrIllegalDeclaration) {
			return nil, err
		}
		log.Warn("和牌判定器返回未知错误, win=%s, err=%v", req.WinTile, err)
		return nil, ErrNoYaku.WithCause(err)
	}
	if res == nil || res.Han <= 0 || res.BaseScore <= 0 {
		log.Warn("和牌判定器返回非法结果, win=%s, result=%+v", req.WinTile, res)
		return nil, ErrNoYaku.WithCause(errors.New("malformed evaluator result"))
	}
	out := *res
	out.Yaku = append([]string(nil), res.Yaku...)
	return &out, nil
}

// safeWaits 判定器异常时视为未听牌
func safeWaits(ev HandEvaluator, h *Hand) (waits []TileType) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("听牌计算异常, hand=%s, panic=%v", FormatTiles(h.concealed), r)
			waits = nil
		}
	}()
	for _, w := range h.Waits(ev) {
		if w.Valid() {
			waits = append(waits, w)
		}
	}
	return waits
}
