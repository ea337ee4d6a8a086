package mahjong

type MeldKind int

const (
	MeldChi MeldKind = iota // 吃
	MeldPon                 // 碰
	MeldKan                 // 杠
)

func (k MeldKind) String() string {
	switch k {
	case MeldChi:
		return "chi"
	case MeldPon:
		return "pon"
	case MeldKan:
		return "kan"
	default:
		return "unknown"
	}
}

type KanKind int

const (
	KanNone   KanKind = iota
	KanOpen           // 明杠(大明杠)
	KanClosed         // 暗杠
	KanAdded          // 加杠
)

// Meld 副露。From 为被鸣牌者座位，暗杠为自己
type Meld struct {
	Kind   MeldKind
	Kan    KanKind
	Tiles  []Tile
	From   int
	Called Tile // 鸣入的那张牌，暗杠为空
}

func (m Meld) IsKan() bool {
	return m.Kind == MeldKan
}

// IsOpen 暗杠以外的副露都算开门
func (m Meld) IsOpen() bool {
	return m.Kan != KanClosed
}

func (m Meld) Type() TileType {
	return m.Tiles[0].Type()
}

func (m Meld) clone() Meld {
	m.Tiles = append([]Tile(nil), m.Tiles...)
	return m
}

// Hand 门前手牌(保持有序) + 副露
type Hand struct {
	concealed []Tile
	melds     []Meld
}

func NewHand() *Hand {
	return &Hand{
		concealed: make([]Tile, 0, 14),
		melds:     make([]Meld, 0, 4),
	}
}

// Add 插入并保持有序
func (h *Hand) Add(t Tile) {
	i := len(h.concealed)
	for i > 0 && t.Less(h.concealed[i-1]) {
		i--
	}
	h.concealed = append(h.concealed, Tile{})
	copy(h.concealed[i+1:], h.concealed[i:])
	h.concealed[i] = t
}

// Remove 按值(含赤牌标记)移除一张
func (h *Hand) Remove(t Tile) bool {
	for i := range h.concealed {
		if h.concealed[i] == t {
			h.concealed = append(h.concealed[:i], h.concealed[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAll 原子地移除一组牌，任一缺失则不做任何修改
func (h *Hand) RemoveAll(tiles []Tile) bool {
	if !h.ContainsAll(tiles) {
		return false
	}
	for _, t := range tiles {
		h.Remove(t)
	}
	return true
}

func (h *Hand) Contains(t Tile) bool {
	for _, c := range h.concealed {
		if c == t {
			return true
		}
	}
	return false
}

// ContainsAll 按多重集判断
func (h *Hand) ContainsAll(tiles []Tile) bool {
	need := make(map[Tile]int, len(tiles))
	for _, t := range tiles {
		need[t]++
	}
	for _, c := range h.concealed {
		if need[c] > 0 {
			need[c]--
		}
	}
	for _, n := range need {
		if n > 0 {
			return false
		}
	}
	return true
}

// CountType 门前同种牌数量(赤牌计入)
func (h *Hand) CountType(tt TileType) int {
	n := 0
	for _, c := range h.concealed {
		if c.Type() == tt {
			n++
		}
	}
	return n
}

// TilesOfType 门前该牌种的牌，普通牌在赤牌前
func (h *Hand) TilesOfType(tt TileType) []Tile {
	var out []Tile
	for _, c := range h.concealed {
		if c.Type() == tt {
			out = append(out, c)
		}
	}
	return out
}

func (h *Hand) Concealed() []Tile {
	return append([]Tile(nil), h.concealed...)
}

func (h *Hand) Melds() []Meld {
	out := make([]Meld, len(h.melds))
	for i, m := range h.melds {
		out[i] = m.clone()
	}
	return out
}

func (h *Hand) AddMeld(m Meld) {
	h.melds = append(h.melds, m.clone())
}

// UpgradePon 把同种的碰升级为加杠
func (h *Hand) UpgradePon(t Tile) bool {
	for i := range h.melds {
		m := &h.melds[i]
		if m.Kind == MeldPon && m.Type() == t.Type() {
			m.Kind = MeldKan
			m.Kan = KanAdded
			m.Tiles = append(m.Tiles, t)
			return true
		}
	}
	return false
}

func (h *Hand) HasPon(tt TileType) bool {
	for _, m := range h.melds {
		if m.Kind == MeldPon && m.Type() == tt {
			return true
		}
	}
	return false
}

// IsConcealed 门清：只有暗杠不破门清
func (h *Hand) IsConcealed() bool {
	for _, m := range h.melds {
		if m.IsOpen() {
			return false
		}
	}
	return true
}

func (h *Hand) KanCount() int {
	n := 0
	for _, m := range h.melds {
		if m.IsKan() {
			n++
		}
	}
	return n
}

func (h *Hand) ConcealedCount() int {
	return len(h.concealed)
}

// EffectiveCount 门前张数 + 每组副露按 3 张计；合法检查点上为 13 或 14
func (h *Hand) EffectiveCount() int {
	return len(h.concealed) + 3*len(h.melds)
}

// TotalTiles 实际持有的牌数(杠计 4 张)，用于 136 张守恒
func (h *Hand) TotalTiles() int {
	n := len(h.concealed)
	for _, m := range h.melds {
		n += len(m.Tiles)
	}
	return n
}

// Waits 听牌种，委托给和牌判定器
func (h *Hand) Waits(ev HandEvaluator) []TileType {
	return ev.Waits(h.Concealed(), h.Melds())
}

// without 返回去掉一张牌后的门前牌副本
func (h *Hand) without(t Tile) []Tile {
	out := make([]Tile, 0, len(h.concealed))
	removed := false
	for _, c := range h.concealed {
		if !removed && c == t {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out
}

func (h *Hand) clone() *Hand {
	cp := &Hand{
		concealed: append(make([]Tile, 0, 14), h.concealed...),
		melds:     make([]Meld, 0, len(h.melds)),
	}
	for _, m := range h.melds {
		cp.melds = append(cp.melds, m.clone())
	}
	return cp
}
