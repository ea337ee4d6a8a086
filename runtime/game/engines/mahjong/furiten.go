package mahjong

// FuritenState 振听标记
type FuritenState struct {
	Permanent bool // 舍牌振听：舍牌中有当前听的牌，本局内不解除
	Riichi    bool // 立直后见逃，本局内不解除
	Temporary bool // 同巡振听，自己下一次打牌时解除
}

// Active 任一标记成立即不能荣和；自摸不受影响
func (f FuritenState) Active() bool {
	return f.Permanent || f.Riichi || f.Temporary
}

// EvaluateFuriten 由当前听牌、全部舍牌和之前的状态推导新的振听状态
func EvaluateFuriten(waits []TileType, discards []Tile, prev FuritenState) FuritenState {
	next := prev
	if next.Permanent || len(waits) == 0 {
		return next
	}
	var waiting [TileTypeCount]bool
	for _, w := range waits {
		waiting[w] = true
	}
	for _, d := range discards {
		if waiting[d.Type()] {
			next.Permanent = true
			break
		}
	}
	return next
}

// MissedWin 见逃：放过了可以荣和的牌
func (f FuritenState) MissedWin(riichi bool) FuritenState {
	f.Temporary = true
	if riichi {
		f.Riichi = true
	}
	return f
}

// OnOwnDiscard 自己打牌时解除同巡振听
func (f FuritenState) OnOwnDiscard() FuritenState {
	f.Temporary = false
	return f
}
