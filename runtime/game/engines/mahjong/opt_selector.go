package mahjong

// meldOptions 计算某座位对一张打出牌的吃、碰、明杠选项(荣和另行判定)
func meldOptions(p *Player, seat, discarder int, tile Tile, kanAvailable bool) []CallOption {
	if p.Riichi {
		return nil
	}
	var ops []CallOption
	same := p.Hand.TilesOfType(tile.Type())

	if kanAvailable && len(same) >= 3 {
		ops = append(ops, CallOption{Kind: ActionKan, Tiles: same[:3]})
	}
	if len(same) >= 2 {
		ops = append(ops, CallOption{Kind: ActionPon, Tiles: same[:2]})
	}
	// 只有下家可以吃
	if (discarder+1)%SeatCount == seat {
		ops = append(ops, chiOptions(p.Hand, tile)...)
	}
	return ops
}

// chiOptions 三种吃法：两面/边张(低位)、嵌张、两面/边张(高位)
func chiOptions(h *Hand, tile Tile) []CallOption {
	if tile.IsHonor() {
		return nil
	}
	var ops []CallOption
	r := tile.Rank()
	for _, pair := range [3][2]int{{-2, -1}, {-1, 1}, {1, 2}} {
		a, b := r+pair[0], r+pair[1]
		if a < 1 || b > 9 {
			continue
		}
		ta := h.TilesOfType(tileType(tile.Suit(), a))
		tb := h.TilesOfType(tileType(tile.Suit(), b))
		if len(ta) == 0 || len(tb) == 0 {
			continue
		}
		ops = append(ops, CallOption{Kind: ActionChi, Tiles: []Tile{ta[0], tb[0]}})
	}
	return ops
}

// validMeldTiles 校验鸣牌时手里拿出的牌能否与被鸣的牌组成合法副露
func validMeldTiles(kind ActionKind, called Tile, tiles []Tile) bool {
	switch kind {
	case ActionPon, ActionKan:
		want := 2
		if kind == ActionKan {
			want = 3
		}
		if len(tiles) != want {
			return false
		}
		for _, t := range tiles {
			if t.Type() != called.Type() {
				return false
			}
		}
		return true
	case ActionChi:
		if len(tiles) != 2 || called.IsHonor() {
			return false
		}
		var ranks [10]bool
		ranks[called.Rank()] = true
		for _, t := range tiles {
			if t.Suit() != called.Suit() || ranks[t.Rank()] {
				return false
			}
			ranks[t.Rank()] = true
		}
		lo := called.Rank()
		for _, t := range tiles {
			if t.Rank() < lo {
				lo = t.Rank()
			}
		}
		return lo+2 <= 9 && ranks[lo] && ranks[lo+1] && ranks[lo+2]
	default:
		return false
	}
}

func hasOption(ops []CallOption, kind ActionKind) bool {
	for _, op := range ops {
		if op.Kind == kind {
			return true
		}
	}
	return false
}

func maxOption(ops []CallOption) ActionKind {
	best := ActionNone
	for _, op := range ops {
		if op.Kind.Outranks(best) {
			best = op.Kind
		}
	}
	return best
}
