package mahjong

// Discard 牌河中的一张
type Discard struct {
	Tile      Tile
	Riichi    bool // 立直宣言牌
	Tsumogiri bool // 摸切
	Called    bool // 已被他家鸣走，仍计入振听
}

// Player 玩家的对局状态，跨局保留名字、座位和点数
type Player struct {
	Name         string
	Seat         int
	Points       int
	Hand         *Hand
	Discards     []Discard
	Furiten      FuritenState
	Riichi       bool
	DoubleRiichi bool
	Ippatsu      bool

	drawn *Tile      // 本巡摸到的牌，鸣牌后为空
	draws int        // 本局摸牌次数(含岭上)
	waits []TileType // 最近一次打牌后的听牌
}

func NewPlayer(name string, seat int, points int) *Player {
	p := &Player{Name: name, Seat: seat, Points: points}
	p.resetForHand()
	return p
}

func (p *Player) resetForHand() {
	p.Hand = NewHand()
	p.Discards = make([]Discard, 0, 24)
	p.Furiten = FuritenState{}
	p.Riichi = false
	p.DoubleRiichi = false
	p.Ippatsu = false
	p.drawn = nil
	p.draws = 0
	p.waits = nil
}

// DiscardTiles 全部舍牌(含被鸣走的)，用于振听判断
func (p *Player) DiscardTiles() []Tile {
	out := make([]Tile, len(p.Discards))
	for i, d := range p.Discards {
		out[i] = d.Tile
	}
	return out
}

// RiverCount 仍留在牌河里的张数
func (p *Player) RiverCount() int {
	n := 0
	for _, d := range p.Discards {
		if !d.Called {
			n++
		}
	}
	return n
}

func (p *Player) Drawn() (Tile, bool) {
	if p.drawn == nil {
		return Tile{}, false
	}
	return *p.drawn, true
}

func (p *Player) Waits() []TileType {
	return append([]TileType(nil), p.waits...)
}

func (p *Player) IsTenpai() bool {
	return len(p.waits) > 0
}

func (p *Player) waitsOn(tt TileType) bool {
	for _, w := range p.waits {
		if w == tt {
			return true
		}
	}
	return false
}
