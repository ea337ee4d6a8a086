package mahjong

import (
	"math/rand"
)

const (
	TileLimit     = 136
	DeadWallSize  = 14
	MaxIndicators = 5
	MaxKans       = 4
	InitialHand   = 13

	doraBase        = 8 // 首张宝牌指示牌在王牌中的下标
	uraDoraBase     = 9 // 首张里宝牌指示牌
	indicatorStride = 2
	rinshanBase     = 13 // 岭上牌从王牌末尾往前取
)

// Wall 一局的牌山：可摸的牌墙 + 固定 14 张王牌
//
// 王牌布局：下标 8,6,4,2,0 依次为宝牌指示牌，9,7,5,3,1 为里宝牌指示牌，
// 13,12,11,10 为岭上牌。每摸一张岭上牌，就从牌墙远端补一张进王牌，王牌始终为 14 张。
type Wall struct {
	live              []Tile // 摸牌从末尾弹出
	dead              [DeadWallSize]Tile
	rinshanDrawn      int
	doraIndicators    []Tile
	uraDoraIndicators []Tile
}

// NewTileSet 生成 136 张牌，redFives 为真时每种花色的一张 5 为赤牌
func NewTileSet(redFives bool) []Tile {
	tiles := make([]Tile, 0, TileLimit)
	for tt := Man1; tt <= Red; tt++ {
		for i := 0; i < 4; i++ {
			t := TileOf(tt)
			if redFives && i == 0 && t.IsFive() {
				t = MustTile(t.Suit(), 5, true)
			}
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// NewWall 洗牌并切出王牌
func NewWall(rng *rand.Rand, redFives bool) (*Wall, error) {
	tiles := NewTileSet(redFives)
	rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
	return WallFromTiles(tiles)
}

// WallFromTiles 按给定顺序建牌山：最后 14 张为王牌，其余为牌墙(末尾先摸)
func WallFromTiles(tiles []Tile) (*Wall, error) {
	if len(tiles) != TileLimit {
		return nil, newError(ErrInvalidWall, "牌数 %d", len(tiles))
	}
	var counts [TileTypeCount]int
	var reds [3]int
	for _, t := range tiles {
		if !t.IsValid() {
			return nil, newError(ErrInvalidWall, "存在空牌")
		}
		counts[t.Type()]++
		if t.IsRed() {
			reds[t.Suit()]++
		}
	}
	for tt, c := range counts {
		if c != 4 {
			return nil, newError(ErrInvalidWall, "%s 有 %d 张", TileType(tt), c)
		}
	}
	for s, c := range reds {
		if c > 1 {
			return nil, newError(ErrInvalidWall, "%s 有 %d 张赤五", Suit(s), c)
		}
	}

	deadStart := TileLimit - DeadWallSize
	w := &Wall{
		live:              make([]Tile, deadStart),
		doraIndicators:    make([]Tile, 0, MaxIndicators),
		uraDoraIndicators: make([]Tile, 0, MaxIndicators),
	}
	copy(w.live, tiles[:deadStart])
	copy(w.dead[:], tiles[deadStart:])
	return w, nil
}

// Draw 摸牌，牌墙为空时返回 false（触发荒牌流局，不是错误）
func (w *Wall) Draw() (Tile, bool) {
	n := len(w.live)
	if n == 0 {
		return Tile{}, false
	}
	t := w.live[n-1]
	w.live = w.live[:n-1]
	return t, true
}

// CanDrawReplacement 是否还能摸岭上牌（需要从牌墙补一张进王牌）
func (w *Wall) CanDrawReplacement() bool {
	return w.rinshanDrawn < MaxKans && len(w.live) > 0
}

// DrawReplacement 摸岭上牌，并从牌墙远端补充王牌
func (w *Wall) DrawReplacement() (Tile, error) {
	if w.rinshanDrawn >= MaxKans {
		return Tile{}, newError(ErrKanLimit, "岭上牌已摸 %d 张", w.rinshanDrawn)
	}
	if len(w.live) == 0 {
		return Tile{}, newError(ErrWallTooShort, "牌墙为空，无法补充王牌")
	}
	idx := rinshanBase - w.rinshanDrawn
	t := w.dead[idx]
	w.dead[idx] = w.live[0]
	w.live = w.live[1:]
	w.rinshanDrawn++
	return t, nil
}

// RevealNextDora 翻开下一张宝牌指示牌
func (w *Wall) RevealNextDora() (Tile, error) {
	if len(w.doraIndicators) >= MaxIndicators {
		return Tile{}, newError(ErrIndicatorLimit, "宝牌指示牌已翻 %d 张", len(w.doraIndicators))
	}
	t := w.dead[doraBase-indicatorStride*len(w.doraIndicators)]
	w.doraIndicators = append(w.doraIndicators, t)
	return t, nil
}

// RevealNextUraDora 翻开下一张里宝牌指示牌
func (w *Wall) RevealNextUraDora() (Tile, error) {
	if len(w.uraDoraIndicators) >= MaxIndicators {
		return Tile{}, newError(ErrIndicatorLimit, "里宝牌指示牌已翻 %d 张", len(w.uraDoraIndicators))
	}
	t := w.dead[uraDoraBase-indicatorStride*len(w.uraDoraIndicators)]
	w.uraDoraIndicators = append(w.uraDoraIndicators, t)
	return t, nil
}

// PeekUraDora 不翻开，只查看与当前宝牌数相同数量的里宝牌指示牌
func (w *Wall) PeekUraDora() []Tile {
	n := len(w.doraIndicators)
	out := make([]Tile, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, w.dead[uraDoraBase-indicatorStride*i])
	}
	return out
}

func (w *Wall) LiveCount() int {
	return len(w.live)
}

func (w *Wall) DeadWallCount() int {
	return len(w.dead)
}

func (w *Wall) RinshanDrawn() int {
	return w.rinshanDrawn
}

func (w *Wall) DoraIndicators() []Tile {
	return append([]Tile(nil), w.doraIndicators...)
}

func (w *Wall) UraDoraIndicators() []Tile {
	return append([]Tile(nil), w.uraDoraIndicators...)
}
