package mahjong

import (
	"fmt"
	"sort"
	"strings"
)

type Suit uint8

const (
	SuitMan   Suit = iota // 万子
	SuitPin               // 筒子
	SuitSou               // 索子
	SuitHonor             // 字牌
)

func (s Suit) String() string {
	switch s {
	case SuitMan:
		return "m"
	case SuitPin:
		return "p"
	case SuitSou:
		return "s"
	case SuitHonor:
		return "z"
	default:
		return "?"
	}
}

// TileType 牌种，0-33，不区分赤牌
type TileType int

const (
	// 万子 (0-8)
	Man1 TileType = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9

	// 筒子 (9-17)
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9

	// 索子 (18-26)
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9

	// 字牌 (27-33)
	East
	South
	West
	North
	White
	Green
	Red
)

const TileTypeCount = 34

func (t TileType) Valid() bool {
	return t >= Man1 && t <= Red
}

func (t TileType) IsNumbered() bool {
	return t >= Man1 && t <= So9
}

func (t TileType) IsHonor() bool {
	return t >= East && t <= Red
}

func (t TileType) IsWind() bool {
	return t >= East && t <= North
}

func (t TileType) IsDragon() bool {
	return t >= White && t <= Red
}

// IsTerminalOrHonor 幺九牌
func (t TileType) IsTerminalOrHonor() bool {
	if t.IsHonor() {
		return true
	}
	r := t.Rank()
	return r == 1 || r == 9
}

func (t TileType) Suit() Suit {
	if t.IsHonor() {
		return SuitHonor
	}
	return Suit(int(t) / 9)
}

// Rank 数牌 1-9，字牌 1-7(东南西北白发中)
func (t TileType) Rank() int {
	if t.IsHonor() {
		return int(t-East) + 1
	}
	return int(t)%9 + 1
}

func (t TileType) String() string {
	if !t.Valid() {
		return "??"
	}
	return fmt.Sprintf("%d%s", t.Rank(), t.Suit())
}

// Tile 不可变的牌值，按 (花色, 点数, 是否赤) 比较
type Tile struct {
	suit Suit
	rank uint8
	red  bool
}

// NewTile 构造并校验一张牌
func NewTile(suit Suit, rank int, red bool) (Tile, error) {
	switch {
	case suit > SuitHonor:
		return Tile{}, newError(ErrInvalidTile, "未知花色 %d", suit)
	case suit == SuitHonor && (rank < 1 || rank > 7):
		return Tile{}, newError(ErrInvalidTile, "字牌点数越界 %d", rank)
	case suit != SuitHonor && (rank < 1 || rank > 9):
		return Tile{}, newError(ErrInvalidTile, "数牌点数越界 %d", rank)
	case red && (suit == SuitHonor || rank != 5):
		return Tile{}, newError(ErrInvalidTile, "只有数牌 5 可以是赤牌: %d%s", rank, suit)
	}
	return Tile{suit: suit, rank: uint8(rank), red: red}, nil
}

// MustTile 用于常量表构造，非法参数直接 panic
func MustTile(suit Suit, rank int, red bool) Tile {
	t, err := NewTile(suit, rank, red)
	if err != nil {
		panic(err)
	}
	return t
}

// TileOf 由牌种构造非赤牌
func TileOf(tt TileType) Tile {
	return MustTile(tt.Suit(), tt.Rank(), false)
}

func (t Tile) Suit() Suit     { return t.suit }
func (t Tile) Rank() int      { return int(t.rank) }
func (t Tile) IsRed() bool    { return t.red }
func (t Tile) IsValid() bool  { return t.rank != 0 }
func (t Tile) IsHonor() bool  { return t.suit == SuitHonor }
func (t Tile) IsFive() bool   { return t.suit != SuitHonor && t.rank == 5 }
func (t Tile) Type() TileType { return tileType(t.suit, int(t.rank)) }

func tileType(s Suit, rank int) TileType {
	if s == SuitHonor {
		return East + TileType(rank-1)
	}
	return TileType(int(s)*9 + rank - 1)
}

// SameKind 忽略赤牌标记比较
func (t Tile) SameKind(o Tile) bool {
	return t.suit == o.suit && t.rank == o.rank
}

// Less 全序：花色、点数，同点数普通牌在赤牌前
func (t Tile) Less(o Tile) bool {
	if t.suit != o.suit {
		return t.suit < o.suit
	}
	if t.rank != o.rank {
		return t.rank < o.rank
	}
	return !t.red && o.red
}

func (t Tile) String() string {
	if !t.IsValid() {
		return "--"
	}
	if t.red {
		return "0" + t.suit.String()
	}
	return fmt.Sprintf("%d%s", t.rank, t.suit)
}

// DoraValueFor 指示牌的下一张即为宝牌：数牌 9→1，风牌东南西北循环，三元牌白发中循环
func DoraValueFor(indicator Tile) Tile {
	r := int(indicator.rank)
	switch {
	case indicator.suit != SuitHonor:
		r = r%9 + 1
	case r <= 4:
		r = r%4 + 1
	default:
		r = (r-5+1)%3 + 5
	}
	return Tile{suit: indicator.suit, rank: uint8(r)}
}

func SortTiles(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].Less(tiles[j]) })
}

// ParseTiles 解析 "123m406p11z" 形式的牌串，0 表示赤五
func ParseTiles(s string) ([]Tile, error) {
	var (
		out     []Tile
		pending []int
	)
	for _, c := range strings.ReplaceAll(s, " ", "") {
		switch {
		case c >= '0' && c <= '9':
			pending = append(pending, int(c-'0'))
		case c == 'm' || c == 'p' || c == 's' || c == 'z':
			if len(pending) == 0 {
				return nil, newError(ErrInvalidTile, "花色 %c 前没有点数: %q", c, s)
			}
			suit := map[rune]Suit{'m': SuitMan, 'p': SuitPin, 's': SuitSou, 'z': SuitHonor}[c]
			for _, r := range pending {
				red := r == 0
				if red {
					r = 5
				}
				t, err := NewTile(suit, r, red)
				if err != nil {
					return nil, err
				}
				out = append(out, t)
			}
			pending = pending[:0]
		default:
			return nil, newError(ErrInvalidTile, "非法字符 %q: %q", c, s)
		}
	}
	if len(pending) > 0 {
		return nil, newError(ErrInvalidTile, "牌串缺少花色结尾: %q", s)
	}
	return out, nil
}

// MustParseTiles 测试和工具使用
func MustParseTiles(s string) []Tile {
	tiles, err := ParseTiles(s)
	if err != nil {
		panic(err)
	}
	return tiles
}

func FormatTiles(tiles []Tile) string {
	var b strings.Builder
	for i, t := range tiles {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

// Wind 场风/自风
type Wind int

const (
	WindEast  Wind = iota // 东风
	WindSouth             // 南风
	WindWest              // 西风
	WindNorth             // 北风
)

func (w Wind) String() string {
	switch w {
	case WindEast:
		return "东"
	case WindSouth:
		return "南"
	case WindWest:
		return "西"
	case WindNorth:
		return "北"
	default:
		return "未知"
	}
}

func (w Wind) Next() Wind {
	return (w + 1) % 4
}

func (w Wind) TileType() TileType {
	return East + TileType(w)
}
