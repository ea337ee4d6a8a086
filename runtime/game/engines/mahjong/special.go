package mahjong

// nineTerminalKinds 配牌中不同种类幺九牌的数量，>=9 可宣告九种九牌
func nineTerminalKinds(h *Hand) int {
	var seen [TileTypeCount]bool
	n := 0
	for _, t := range h.concealed {
		tt := t.Type()
		if tt.IsTerminalOrHonor() && !seen[tt] {
			seen[tt] = true
			n++
		}
	}
	return n
}

func totalKans(t *Table) int {
	n := 0
	for _, p := range t.Players {
		n += p.Hand.KanCount()
	}
	return n
}

// fourKansAbort 场上四杠且不是同一人所开时流局；一人四杠继续进行(四杠子)
func fourKansAbort(t *Table) bool {
	if totalKans(t) < MaxKans {
		return false
	}
	for _, p := range t.Players {
		if p.Hand.KanCount() == MaxKans {
			return false
		}
	}
	return true
}

func allRiichi(t *Table) bool {
	for _, p := range t.Players {
		if !p.Riichi {
			return false
		}
	}
	return true
}

// firstDrawWin 天和/地和：第一次摸牌即自摸，且之前无人鸣牌
func firstDrawWin(p *Player, anyCall bool) bool {
	return !anyCall && p.draws == 1 && len(p.Discards) == 0
}

// renhouWin 人和：闲家在自己第一次摸牌前荣和，且之前无人鸣牌
func renhouWin(p *Player, isDealer bool, anyCall bool) bool {
	return !isDealer && !anyCall && p.draws == 0
}

func sameWaits(a, b []TileType) bool {
	if len(a) != len(b) {
		return false
	}
	var set [TileTypeCount]int
	for _, w := range a {
		set[w]++
	}
	for _, w := range b {
		set[w]--
	}
	for _, n := range set {
		if n != 0 {
			return false
		}
	}
	return true
}
