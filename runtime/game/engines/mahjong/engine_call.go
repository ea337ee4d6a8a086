package mahjong

import (
	"github.com/Senmiao-vhp/majsoul/common/log"
)

// openDiscardWindow 收集其他三家对打出牌的可选操作
func (eg *RiichiMahjong4p) openDiscardWindow(seat int, t Tile, riichi bool) error {
	w := &callWindow{discarder: seat, tile: t, riichiTile: riichi}

	// 海底牌和第四家立直的宣言牌只能荣和
	allowMelds := eg.table.Wall.LiveCount() > 0 && !(riichi && allRiichi(eg.table))
	kanAvailable := allowMelds && eg.kanAllowed() == nil
	for k := 1; k < SeatCount; k++ {
		other := (seat + k) % SeatCount
		eg.checkRon(w, other)
		if allowMelds {
			ops := meldOptions(eg.table.Players[other], other, seat, t, kanAvailable)
			w.options[other] = append(w.options[other], ops...)
		}
	}
	return eg.openWindow(w)
}

// checkRon 判定荣和资格；能和但振听的记为见逃
func (eg *RiichiMahjong4p) checkRon(w *callWindow, seat int) {
	p := eg.table.Players[seat]
	if !p.waitsOn(w.tile.Type()) {
		return
	}
	req := eg.winRequest(seat, p.Hand.Concealed(), w.tile, eg.ronFlags(seat, w.chankan))
	res, err := safeEvaluate(eg.evaluator, req)
	if err != nil {
		return
	}
	if p.Furiten.Active() {
		w.furitenBlocked[seat] = true
		p.Furiten = p.Furiten.MissedWin(p.Riichi)
		log.Debug("振听不能荣和 seat=%d tile=%s furiten=%+v", seat, w.tile, p.Furiten)
		return
	}
	w.ron[seat] = &ronCandidate{req: req, result: res}
	w.options[seat] = append(w.options[seat], CallOption{Kind: ActionRon})
}

func (eg *RiichiMahjong4p) openWindow(w *callWindow) error {
	if w.empty() {
		return eg.closeWindow(w)
	}
	eg.windowSeq++
	w.id = eg.windowSeq
	eg.window = w
	eg.turns.EnterCallPhase()

	ev := CallWindowOpened{ID: w.id, Discarder: w.discarder, Tile: w.tile, Chankan: w.chankan}
	for seat, ops := range w.options {
		for _, op := range ops {
			ev.Options[seat] = append(ev.Options[seat], CallOption{Kind: op.Kind, Tiles: append([]Tile(nil), op.Tiles...)})
		}
	}
	eg.events.emit(ev)
	return nil
}

// closeWindow 无人鸣牌：完成加杠、检查四家立直或轮到下家摸牌
func (eg *RiichiMahjong4p) closeWindow(w *callWindow) error {
	eg.window = nil
	if w.chankan {
		return eg.completeAddedKan()
	}
	if w.riichiTile && allRiichi(eg.table) {
		return eg.settleSpecialDraw(SpecialDrawFourRiichi)
	}
	eg.turns.EnterDrawPhase(eg.turns.NextTurn())
	return nil
}

// Claim 申报鸣牌或荣和；tiles 为从手牌拿出的牌，荣和时忽略
func (eg *RiichiMahjong4p) Claim(seat int, kind ActionKind, tiles []Tile) error {
	if err := eg.guard(); err != nil {
		return err
	}
	if err := eg.turns.Expect(TurnStateAwaitingCalls); err != nil {
		return err
	}
	if !validSeat(seat) {
		return newError(ErrInvalidSeat, "seat=%d", seat)
	}
	w := eg.window
	if seat == w.discarder || w.responded[seat] {
		return newError(ErrIllegalState, "seat=%d 不能在本窗口申报", seat)
	}

	switch kind {
	case ActionRon:
		if w.ron[seat] == nil {
			if w.furitenBlocked[seat] {
				return newError(ErrFuriten, "seat=%d tile=%s", seat, w.tile)
			}
			return newError(ErrCallNotAvailable, "seat=%d 不能荣和 %s", seat, w.tile)
		}
		tiles = nil
	case ActionChi, ActionPon, ActionKan:
		if !hasOption(w.options[seat], kind) {
			return newError(ErrCallNotAvailable, "seat=%d 不能%s %s", seat, kind, w.tile)
		}
		if !validMeldTiles(kind, w.tile, tiles) || !eg.table.Players[seat].Hand.ContainsAll(tiles) {
			return newError(ErrMalformedCall, "seat=%d %s %s + %s", seat, kind, w.tile, FormatTiles(tiles))
		}
	default:
		return newError(ErrCallNotAvailable, "鸣牌窗口不接受 %s", kind)
	}

	if kind != ActionRon && w.ron[seat] != nil {
		p := eg.table.Players[seat]
		p.Furiten = p.Furiten.MissedWin(p.Riichi)
	}
	w.claims[seat] = &pendingClaim{kind: kind, tiles: append([]Tile(nil), tiles...)}
	w.responded[seat] = true
	return eg.tryResolve()
}

// Pass 放弃本窗口；放过荣和即同巡振听(立直中为立直振听)
func (eg *RiichiMahjong4p) Pass(seat int) error {
	if err := eg.guard(); err != nil {
		return err
	}
	if err := eg.turns.Expect(TurnStateAwaitingCalls); err != nil {
		return err
	}
	if !validSeat(seat) {
		return newError(ErrInvalidSeat, "seat=%d", seat)
	}
	w := eg.window
	if !w.outstanding(seat) {
		return newError(ErrIllegalState, "seat=%d 在本窗口没有待响应的操作", seat)
	}
	eg.pass(w, seat)
	return eg.tryResolve()
}

// ExpireCallWindow 超时：所有未响应的座位按放弃处理
func (eg *RiichiMahjong4p) ExpireCallWindow(id uint64) error {
	if err := eg.guard(); err != nil {
		return err
	}
	w := eg.window
	if eg.turns.State != TurnStateAwaitingCalls || w == nil || w.id != id {
		return newError(ErrStaleCallWindow, "id=%d", id)
	}
	for seat := 0; seat < SeatCount; seat++ {
		if w.outstanding(seat) {
			log.Info("鸣牌超时 seat=%d window=%d", seat, id)
			eg.pass(w, seat)
		}
	}
	return eg.tryResolve()
}

func (eg *RiichiMahjong4p) pass(w *callWindow, seat int) {
	w.responded[seat] = true
	if w.ron[seat] != nil {
		p := eg.table.Players[seat]
		p.Furiten = p.Furiten.MissedWin(p.Riichi)
	}
}

// tryResolve 能裁定时执行最优申报，其余座位的申报作废
func (eg *RiichiMahjong4p) tryResolve() error {
	w := eg.window
	if !w.decided() {
		return nil
	}
	seat, c := w.best()
	if c == nil {
		return eg.closeWindow(w)
	}
	eg.window = nil
	eg.turns.EnterResolving()
	log.Debug("鸣牌裁定 window=%d seat=%d action=%s tile=%s", w.id, seat, c.kind, w.tile)

	if c.kind == ActionRon {
		cand := w.ron[seat]
		return eg.settleWin(seat, w.discarder, w.tile, cand.req, cand.result)
	}
	return eg.applyCall(seat, w, c)
}

// applyCall 吃碰明杠：牌从打牌者牌河移入副露，行动权交给鸣牌者
func (eg *RiichiMahjong4p) applyCall(seat int, w *callWindow, c *pendingClaim) error {
	t := eg.table
	discarder := t.Players[w.discarder]
	discarder.Discards[len(discarder.Discards)-1].Called = true

	p := t.Players[seat]
	p.Hand.RemoveAll(c.tiles)
	tiles := append([]Tile{w.tile}, c.tiles...)
	SortTiles(tiles)
	meld := Meld{Tiles: tiles, From: w.discarder, Called: w.tile}
	switch c.kind {
	case ActionChi:
		meld.Kind = MeldChi
	case ActionPon:
		meld.Kind = MeldPon
	case ActionKan:
		meld.Kind = MeldKan
		meld.Kan = KanOpen
	}
	p.Hand.AddMeld(meld)
	p.drawn = nil
	eg.anyCall = true
	eg.clearIppatsu()
	eg.events.emit(MeldDeclared{Seat: seat, Meld: meld.clone()})

	if meld.IsKan() {
		return eg.afterKan(seat)
	}
	eg.turns.EnterDiscardPhase(seat)
	return nil
}
