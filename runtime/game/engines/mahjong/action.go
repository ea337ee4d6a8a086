package mahjong

// ActionKind 玩家动作，按优先级全序：None < Chi < Pon < Kan < Ron < Tsumo
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionChi
	ActionPon
	ActionKan
	ActionRon
	ActionTsumo
)

func (a ActionKind) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionChi:
		return "chi"
	case ActionPon:
		return "pon"
	case ActionKan:
		return "kan"
	case ActionRon:
		return "ron"
	case ActionTsumo:
		return "tsumo"
	default:
		return "unknown"
	}
}

func (a ActionKind) Priority() int {
	return int(a)
}

func (a ActionKind) Outranks(b ActionKind) bool {
	return a.Priority() > b.Priority()
}

// CallOption 鸣牌窗口中某座位可选的操作，Tiles 为需要从手牌拿出的牌
type CallOption struct {
	Kind  ActionKind
	Tiles []Tile
}
