package mahjong

type pendingClaim struct {
	kind  ActionKind
	tiles []Tile
}

// ronCandidate 开窗时预先算好的荣和结果
type ronCandidate struct {
	req    EvalRequest
	result *EvalResult
}

// callWindow 一张牌的鸣牌窗口；只有有选项的座位参与
type callWindow struct {
	id         uint64
	discarder  int
	tile       Tile
	chankan    bool
	riichiTile bool // 宣言牌，窗口无人荣和后才检查四家立直

	options        [SeatCount][]CallOption
	ron            [SeatCount]*ronCandidate
	furitenBlocked [SeatCount]bool // 能和但处于振听
	responded      [SeatCount]bool
	claims         [SeatCount]*pendingClaim
}

func (w *callWindow) empty() bool {
	for _, ops := range w.options {
		if len(ops) > 0 {
			return false
		}
	}
	return true
}

func (w *callWindow) outstanding(seat int) bool {
	return len(w.options[seat]) > 0 && !w.responded[seat]
}

func (w *callWindow) distance(seat int) int {
	return (seat - w.discarder + SeatCount) % SeatCount
}

// best 优先级最高的申报；同优先级取离打牌者下家方向最近的
func (w *callWindow) best() (int, *pendingClaim) {
	bestSeat, bestClaim := -1, (*pendingClaim)(nil)
	for k := 1; k < SeatCount; k++ {
		seat := (w.discarder + k) % SeatCount
		c := w.claims[seat]
		if c == nil {
			continue
		}
		if bestClaim == nil || c.kind.Outranks(bestClaim.kind) {
			bestSeat, bestClaim = seat, c
		}
	}
	return bestSeat, bestClaim
}

// decided 没有未响应的座位能压过当前最优申报时即可裁定
func (w *callWindow) decided() bool {
	bestSeat, best := w.best()
	for seat := 0; seat < SeatCount; seat++ {
		if !w.outstanding(seat) {
			continue
		}
		if best == nil {
			return false
		}
		top := maxOption(w.options[seat])
		if top.Outranks(best.kind) {
			return false
		}
		if top == best.kind && w.distance(seat) < w.distance(bestSeat) {
			return false
		}
	}
	return true
}
