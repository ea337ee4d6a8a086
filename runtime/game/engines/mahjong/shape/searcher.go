package shape

import (
	"github.com/Senmiao-vhp/majsoul/common/cache"
	"github.com/Senmiao-vhp/majsoul/runtime/game/engines/mahjong"
)

// Hand34 按牌种计数的手牌
type Hand34 [mahjong.TileTypeCount]uint8

func Hand34FromTiles(tiles []mahjong.Tile) Hand34 {
	var h Hand34
	for _, t := range tiles {
		h[t.Type()]++
	}
	return h
}

func (h Hand34) Total() int {
	n := 0
	for _, c := range h {
		n += int(c)
	}
	return n
}

func (h Hand34) keyWithFixedMelds(fixedMelds int) string {
	var b [mahjong.TileTypeCount + 1]byte
	for i := 0; i < mahjong.TileTypeCount; i++ {
		b[i] = byte(h[i])
	}
	b[mahjong.TileTypeCount] = byte(fixedMelds)
	return string(b[:])
}

// Searcher 和牌与听牌搜索，结果放进本地缓存
type Searcher struct {
	cache *cache.GeneralCache
}

func NewSearcher(c *cache.GeneralCache) *Searcher {
	return &Searcher{cache: c}
}

// IsAgariAll 是否和牌；有副露时只看一般型
func (s *Searcher) IsAgariAll(h Hand34, fixedMelds int) bool {
	key := "agari:" + h.keyWithFixedMelds(fixedMelds)
	if s.cache != nil {
		if v, ok := s.cache.GetBool(key); ok {
			return v
		}
	}

	var ok bool
	if fixedMelds > 0 {
		ok = IsAgariNormal(h, fixedMelds)
	} else {
		ok = IsAgariNormal(h, 0) || IsAgariChiitoi(h) || IsAgariKokushi(h)
	}

	if s.cache != nil {
		s.cache.Set(key, ok)
	}
	return ok
}

// Waits 3n+1 张手牌的听牌种
func (s *Searcher) Waits(h13 Hand34, fixedMelds int) []mahjong.TileType {
	key := "waits:" + h13.keyWithFixedMelds(fixedMelds)
	if s.cache != nil {
		if v, ok := s.cache.GetInts(key); ok {
			waits := make([]mahjong.TileType, len(v))
			for i, w := range v {
				waits[i] = mahjong.TileType(w)
			}
			return waits
		}
	}

	var (
		waits []mahjong.TileType
		raw   []int
	)
	if h13.Total()%3 == 1 {
		for t := 0; t < mahjong.TileTypeCount; t++ {
			if h13[t] >= 4 {
				continue
			}
			work := h13
			work[t]++
			if s.IsAgariAll(work, fixedMelds) {
				waits = append(waits, mahjong.TileType(t))
				raw = append(raw, t)
			}
		}
	}

	if s.cache != nil {
		s.cache.Set(key, raw)
	}
	return waits
}

// IsAgariNormal 一般型：找雀头，剩下的组成面子
func IsAgariNormal(h Hand34, fixedMelds int) bool {
	need := 4 - fixedMelds
	if need < 0 || h.Total() != need*3+2 {
		return false
	}
	for j := 0; j < mahjong.TileTypeCount; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		if canFormMelds(&work, need) {
			return true
		}
	}
	return false
}

// IsAgariChiitoi 七对子，同种四张不算两对
func IsAgariChiitoi(h Hand34) bool {
	if h.Total() != 14 {
		return false
	}
	pairs := 0
	for i := 0; i < mahjong.TileTypeCount; i++ {
		if h[i] == 2 {
			pairs++
		}
	}
	return pairs == 7
}

// IsAgariKokushi 国士无双
func IsAgariKokushi(h Hand34) bool {
	if h.Total() != 14 {
		return false
	}
	unique := 0
	pair := false
	for _, idx := range kokushiTiles {
		if h[idx] > 0 {
			unique++
			if h[idx] >= 2 {
				pair = true
			}
		}
	}
	return unique == 13 && pair
}

func canFormMelds(h *Hand34, need int) bool {
	if need == 0 {
		for i := 0; i < mahjong.TileTypeCount; i++ {
			if (*h)[i] != 0 {
				return false
			}
		}
		return true
	}

	i := firstNonZero(h)
	if i == -1 {
		return false
	}
	// 刻子
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		ok := canFormMelds(h, need-1)
		(*h)[i] += 3
		if ok {
			return true
		}
	}
	// 顺子
	if canSequence(h, i) {
		takeSequence(h, i, -1)
		ok := canFormMelds(h, need-1)
		takeSequence(h, i, 1)
		if ok {
			return true
		}
	}
	return false
}

type groupKind int

const (
	groupTriplet groupKind = iota
	groupSequence
)

// group 门前的一组面子，start 为刻子牌种或顺子的最小牌
type group struct {
	kind  groupKind
	start int
}

// decomposition 一般型的一种拆法
type decomposition struct {
	pair   int
	groups []group
}

// decompose 列出一般型的全部拆法，用于算符和平和
func decompose(h Hand34, fixedMelds int) []decomposition {
	need := 4 - fixedMelds
	if need < 0 || h.Total() != need*3+2 {
		return nil
	}
	var out []decomposition
	for j := 0; j < mahjong.TileTypeCount; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		collectGroups(&work, need, nil, func(gs []group) {
			out = append(out, decomposition{pair: j, groups: append([]group(nil), gs...)})
		})
	}
	return out
}

func collectGroups(h *Hand34, need int, acc []group, emit func([]group)) {
	if need == 0 {
		if firstNonZero(h) == -1 {
			emit(acc)
		}
		return
	}
	i := firstNonZero(h)
	if i == -1 {
		return
	}
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		collectGroups(h, need-1, append(acc, group{kind: groupTriplet, start: i}), emit)
		(*h)[i] += 3
	}
	if canSequence(h, i) {
		takeSequence(h, i, -1)
		collectGroups(h, need-1, append(acc, group{kind: groupSequence, start: i}), emit)
		takeSequence(h, i, 1)
	}
}

func firstNonZero(h *Hand34) int {
	for k := 0; k < mahjong.TileTypeCount; k++ {
		if (*h)[k] > 0 {
			return k
		}
	}
	return -1
}

func canSequence(h *Hand34, i int) bool {
	if !isNumberTile(i) || i+2 >= mahjong.TileTypeCount {
		return false
	}
	if suitOf(i) != suitOf(i+1) || suitOf(i) != suitOf(i+2) {
		return false
	}
	return (*h)[i] > 0 && (*h)[i+1] > 0 && (*h)[i+2] > 0
}

func takeSequence(h *Hand34, i int, delta int) {
	(*h)[i] = uint8(int((*h)[i]) + delta)
	(*h)[i+1] = uint8(int((*h)[i+1]) + delta)
	(*h)[i+2] = uint8(int((*h)[i+2]) + delta)
}

func isNumberTile(i int) bool { return mahjong.TileType(i).IsNumbered() }

func suitOf(i int) int {
	if !isNumberTile(i) {
		return -1
	}
	return i / 9
}

var kokushiTiles = [13]int{
	int(mahjong.Man1), int(mahjong.Man9),
	int(mahjong.Pin1), int(mahjong.Pin9),
	int(mahjong.So1), int(mahjong.So9),
	int(mahjong.East), int(mahjong.South), int(mahjong.West), int(mahjong.North),
	int(mahjong.White), int(mahjong.Green), int(mahjong.Red),
}
