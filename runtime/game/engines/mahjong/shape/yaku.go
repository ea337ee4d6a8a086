package shape

import (
	"sort"

	"github.com/Senmiao-vhp/majsoul/runtime/game/engines/mahjong"
)

// 役名，按判定顺序出现在结果里
const (
	YakuTenhou       = "tenhou"
	YakuChiihou      = "chiihou"
	YakuKokushi      = "kokushi"
	YakuKokushi13    = "kokushi_13"
	YakuDaisangen    = "daisangen"
	YakuRenhou       = "renhou"
	YakuRiichi       = "riichi"
	YakuDoubleRiichi = "double_riichi"
	YakuIppatsu      = "ippatsu"
	YakuMenzenTsumo  = "menzen_tsumo"
	YakuHaitei       = "haitei"
	YakuHoutei       = "houtei"
	YakuRinshan      = "rinshan"
	YakuChankan      = "chankan"
	YakuTanyao       = "tanyao"
	YakuPinfu        = "pinfu"
	YakuChiitoi      = "chiitoitsu"
	YakuHonitsu      = "honitsu"
	YakuChinitsu     = "chinitsu"
	YakuHaku         = "yakuhai_haku"
	YakuHatsu        = "yakuhai_hatsu"
	YakuChun         = "yakuhai_chun"
	YakuSeatWind     = "yakuhai_seat_wind"
	YakuRoundWind    = "yakuhai_round_wind"

	YakuDora    = "dora"
	YakuAkaDora = "aka_dora"
	YakuUraDora = "ura_dora"
)

// winContext 一次判定的整理结果
type winContext struct {
	req       mahjong.EvalRequest
	full      Hand34 // 门前 + 和了牌
	all       Hand34 // 再加上副露
	concealed bool
	chiitoi   bool
	kokushi   bool
}

type yakuHit struct {
	name string
	han  int
}

// yakuman 役满倍数
func yakuman(ctx *winContext) (int, []string) {
	var (
		mult  int
		names []string
	)
	f := ctx.req.Flags
	if f.Tenhou {
		mult++
		names = append(names, YakuTenhou)
	}
	if f.Chiihou {
		mult++
		names = append(names, YakuChiihou)
	}
	if ctx.kokushi {
		// 十三面：和了前已经凑齐十三种
		before := Hand34FromTiles(ctx.req.Concealed)
		thirteen := true
		for _, idx := range kokushiTiles {
			if before[idx] != 1 {
				thirteen = false
				break
			}
		}
		if thirteen && ctx.req.Rules.DoubleYakuman {
			mult += 2
			names = append(names, YakuKokushi13)
		} else {
			mult++
			names = append(names, YakuKokushi)
		}
	}
	if ctx.all[mahjong.White] >= 3 && ctx.all[mahjong.Green] >= 3 && ctx.all[mahjong.Red] >= 3 {
		mult++
		names = append(names, YakuDaisangen)
	}
	return mult, names
}

// situationalYaku 只依赖场况和整手牌计数的役
func situationalYaku(ctx *winContext) []yakuHit {
	var hits []yakuHit
	f := ctx.req.Flags
	add := func(name string, han int) {
		hits = append(hits, yakuHit{name: name, han: han})
	}

	if f.Renhou {
		add(YakuRenhou, 5)
	}
	switch {
	case f.DoubleRiichi:
		add(YakuDoubleRiichi, 2)
	case f.Riichi:
		add(YakuRiichi, 1)
	}
	if f.Ippatsu && (f.Riichi || f.DoubleRiichi) {
		add(YakuIppatsu, 1)
	}
	if f.Tsumo && ctx.concealed {
		add(YakuMenzenTsumo, 1)
	}
	if f.Haitei {
		add(YakuHaitei, 1)
	}
	if f.Houtei {
		add(YakuHoutei, 1)
	}
	if f.Rinshan {
		add(YakuRinshan, 1)
	}
	if f.Chankan {
		add(YakuChankan, 1)
	}
	if isTanyao(ctx.all) && (ctx.concealed || ctx.req.Rules.OpenTanyao) {
		add(YakuTanyao, 1)
	}
	if ctx.chiitoi {
		add(YakuChiitoi, 2)
	}

	switch flushKind(ctx.all) {
	case flushHalf:
		add(YakuHonitsu, openPenalty(3, ctx.concealed))
	case flushFull:
		add(YakuChinitsu, openPenalty(6, ctx.concealed))
	}

	if !ctx.chiitoi {
		for _, yh := range yakuhai(ctx) {
			add(yh, 1)
		}
	}
	return hits
}

func openPenalty(han int, concealed bool) int {
	if concealed {
		return han
	}
	return han - 1
}

func isTanyao(all Hand34) bool {
	for i, c := range all {
		if c > 0 && mahjong.TileType(i).IsTerminalOrHonor() {
			return false
		}
	}
	return true
}

type flush int

const (
	flushNone flush = iota
	flushHalf
	flushFull
)

func flushKind(all Hand34) flush {
	suit := -1
	honors := false
	for i, c := range all {
		if c == 0 {
			continue
		}
		if !isNumberTile(i) {
			honors = true
			continue
		}
		if suit == -1 {
			suit = suitOf(i)
		} else if suit != suitOf(i) {
			return flushNone
		}
	}
	switch {
	case suit == -1:
		return flushNone
	case honors:
		return flushHalf
	default:
		return flushFull
	}
}

// yakuhai 三元牌、自风、场风的刻子；连风牌计两次
func yakuhai(ctx *winContext) []string {
	var out []string
	for tt, name := range map[mahjong.TileType]string{
		mahjong.White: YakuHaku,
		mahjong.Green: YakuHatsu,
		mahjong.Red:   YakuChun,
	} {
		if ctx.all[tt] >= 3 {
			out = append(out, name)
		}
	}
	if ctx.all[ctx.req.SeatWind.TileType()] >= 3 {
		out = append(out, YakuSeatWind)
	}
	if ctx.all[ctx.req.RoundWind.TileType()] >= 3 {
		out = append(out, YakuRoundWind)
	}
	sort.Strings(out)
	return out
}

// doraCount 宝牌、赤宝牌、里宝牌
func doraCount(ctx *winContext, tiles []mahjong.Tile) (dora, aka, ura int) {
	req := ctx.req
	for _, ind := range req.DoraIndicators {
		dora += int(ctx.all[mahjong.DoraValueFor(ind).Type()])
	}
	if req.Rules.RedFives {
		for _, t := range tiles {
			if t.IsRed() {
				aka++
			}
		}
	}
	if req.Flags.Riichi || req.Flags.DoubleRiichi {
		for _, ind := range req.UraDoraIndicators {
			ura += int(ctx.all[mahjong.DoraValueFor(ind).Type()])
		}
	}
	return dora, aka, ura
}
