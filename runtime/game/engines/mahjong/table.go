package mahjong

const SeatCount = 4

// Table 座位、庄家、场风和局数；玩家只通过座位下标引用
type Table struct {
	Players     [SeatCount]*Player
	Dealer      int
	Current     int
	RoundWind   Wind
	RoundNumber int // 1-4
	Wall        *Wall
}

// NewTable 玩家名即身份，桌内必须唯一
func NewTable(names [SeatCount]string, startingPoints int) (*Table, error) {
	seen := make(map[string]struct{}, SeatCount)
	t := &Table{RoundWind: WindEast, RoundNumber: 1}
	for seat, name := range names {
		if name == "" {
			return nil, newError(ErrInvalidTable, "座位 %d 玩家名为空", seat)
		}
		if _, dup := seen[name]; dup {
			return nil, newError(ErrInvalidTable, "玩家名重复: %s", name)
		}
		seen[name] = struct{}{}
		t.Players[seat] = NewPlayer(name, seat, startingPoints)
	}
	return t, nil
}

func (t *Table) NextSeat(seat int) int {
	return (seat + 1) % SeatCount
}

// Distance 从 from 往下家方向数到 to 的步数
func (t *Table) Distance(from, to int) int {
	return (to - from + SeatCount) % SeatCount
}

func (t *Table) IsDealer(seat int) bool {
	return seat == t.Dealer
}

// SeatWind 庄家为东，依次南西北
func (t *Table) SeatWind(seat int) Wind {
	return Wind(t.Distance(t.Dealer, seat))
}

// RotateDealer 下庄：庄家轮到下家，局数推进，四局后场风推进
func (t *Table) RotateDealer() {
	t.Dealer = t.NextSeat(t.Dealer)
	t.RoundNumber++
	if t.RoundNumber > SeatCount {
		t.RoundNumber = 1
		t.RoundWind = t.RoundWind.Next()
	}
}

func (t *Table) SeatOf(name string) (int, bool) {
	for seat, p := range t.Players {
		if p.Name == name {
			return seat, true
		}
	}
	return -1, false
}

func (t *Table) TotalPoints() int {
	sum := 0
	for _, p := range t.Players {
		sum += p.Points
	}
	return sum
}

// TileCount 牌墙 + 王牌 + 手牌副露 + 牌河，始终为 136
func (t *Table) TileCount() int {
	n := 0
	if t.Wall != nil {
		n += t.Wall.LiveCount() + t.Wall.DeadWallCount()
	}
	for _, p := range t.Players {
		n += p.Hand.TotalTiles() + p.RiverCount()
	}
	return n
}

func validSeat(seat int) bool {
	return seat >= 0 && seat < SeatCount
}
