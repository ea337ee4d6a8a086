package mahjong

import (
	"github.com/Senmiao-vhp/majsoul/common/log"
)

// Draw 当前座位摸牌；牌墙为空时进入荒牌流局结算并返回 false
func (eg *RiichiMahjong4p) Draw() (Tile, bool, error) {
	if err := eg.guard(); err != nil {
		return Tile{}, false, err
	}
	if err := eg.turns.Expect(TurnStateAwaitingDraw); err != nil {
		return Tile{}, false, err
	}
	seat := eg.turns.TurnPointer()
	p := eg.table.Players[seat]

	t, ok := eg.table.Wall.Draw()
	if !ok {
		return Tile{}, false, eg.settleExhaustiveDraw()
	}
	p.Hand.Add(t)
	p.drawn = &t
	p.draws++
	eg.rinshan = false
	eg.events.emit(TileDrawn{Seat: seat, Tile: t, LiveLeft: eg.table.Wall.LiveCount()})
	eg.turns.EnterDiscardPhase(seat)
	return t, true, nil
}

// Discard 打出指定的牌
func (eg *RiichiMahjong4p) Discard(seat int, t Tile) error {
	if err := eg.guard(); err != nil {
		return err
	}
	if err := eg.turns.ExpectTurn(seat, TurnStateAwaitingDiscard); err != nil {
		return err
	}
	p := eg.table.Players[seat]
	if !p.Hand.Contains(t) {
		return newError(ErrTileNotInHand, "seat=%d tile=%s", seat, t)
	}
	if p.Riichi {
		if drawn, ok := p.Drawn(); !ok || drawn != t {
			return newError(ErrRiichiLocked, "立直后只能摸切, seat=%d tile=%s", seat, t)
		}
	}
	return eg.discard(seat, t, false)
}

// DiscardAt 按手牌下标打牌(手牌有序)
func (eg *RiichiMahjong4p) DiscardAt(seat, index int) error {
	if err := eg.guard(); err != nil {
		return err
	}
	if !validSeat(seat) {
		return newError(ErrInvalidSeat, "seat=%d", seat)
	}
	concealed := eg.table.Players[seat].Hand.Concealed()
	if index < 0 || index >= len(concealed) {
		return newError(ErrTileNotInHand, "seat=%d index=%d", seat, index)
	}
	return eg.Discard(seat, concealed[index])
}

// DeclareRiichi 立直宣言并打出宣言牌
func (eg *RiichiMahjong4p) DeclareRiichi(seat int, t Tile) error {
	if err := eg.guard(); err != nil {
		return err
	}
	if err := eg.turns.ExpectTurn(seat, TurnStateAwaitingDiscard); err != nil {
		return err
	}
	p := eg.table.Players[seat]
	switch {
	case p.Riichi:
		return newError(ErrAlreadyRiichi, "seat=%d", seat)
	case !p.Hand.IsConcealed():
		return newError(ErrNotConcealed, "seat=%d", seat)
	case p.Points < RiichiDeposit:
		return newError(ErrInsufficientPoints, "seat=%d points=%d", seat, p.Points)
	case eg.table.Wall.LiveCount() < SeatCount:
		return newError(ErrWallTooShort, "剩余 %d 张不能立直", eg.table.Wall.LiveCount())
	case !p.Hand.Contains(t):
		return newError(ErrTileNotInHand, "seat=%d tile=%s", seat, t)
	}
	after := p.Hand.clone()
	after.Remove(t)
	if len(safeWaits(eg.evaluator, after)) == 0 {
		return newError(ErrNotTenpai, "seat=%d 打 %s 后未听牌", seat, t)
	}

	if err := eg.ledger.DepositRiichi(p); err != nil {
		return err
	}
	p.Riichi = true
	p.DoubleRiichi = len(p.Discards) == 0 && !eg.anyCall
	p.Ippatsu = true
	eg.events.emit(RiichiDeclared{Seat: seat, Double: p.DoubleRiichi, Sticks: eg.ledger.RiichiSticks})
	return eg.discard(seat, t, true)
}

// discard 已通过校验的打牌：更新牌河和振听，然后开鸣牌窗口
func (eg *RiichiMahjong4p) discard(seat int, t Tile, riichi bool) error {
	p := eg.table.Players[seat]
	drawn, hadDrawn := p.Drawn()
	p.Hand.Remove(t)
	p.drawn = nil
	eg.rinshan = false

	p.Furiten = p.Furiten.OnOwnDiscard()
	if p.Riichi && !riichi {
		p.Ippatsu = false
	}
	tsumogiri := hadDrawn && drawn == t
	p.Discards = append(p.Discards, Discard{Tile: t, Riichi: riichi, Tsumogiri: tsumogiri})
	p.waits = safeWaits(eg.evaluator, p.Hand)
	for _, pl := range eg.table.Players {
		pl.Furiten = EvaluateFuriten(pl.waits, pl.DiscardTiles(), pl.Furiten)
	}

	eg.events.emit(TileDiscarded{Seat: seat, Tile: t, Tsumogiri: tsumogiri, Riichi: riichi})
	return eg.openDiscardWindow(seat, t, riichi)
}

// Tsumo 自摸和了
func (eg *RiichiMahjong4p) Tsumo(seat int) error {
	if err := eg.guard(); err != nil {
		return err
	}
	if err := eg.turns.ExpectTurn(seat, TurnStateAwaitingDiscard); err != nil {
		return err
	}
	p := eg.table.Players[seat]
	drawn, ok := p.Drawn()
	if !ok {
		return newError(ErrIllegalState, "seat=%d 鸣牌后不能自摸", seat)
	}
	req := eg.winRequest(seat, p.Hand.without(drawn), drawn, eg.tsumoFlags(seat))
	res, err := safeEvaluate(eg.evaluator, req)
	if err != nil {
		log.Debug("自摸被拒绝 seat=%d tile=%s err=%v", seat, drawn, err)
		return err
	}
	eg.turns.EnterResolving()
	return eg.settleWin(seat, -1, drawn, req, res)
}

// ClosedKan 暗杠；立直后只允许不改变听牌的暗杠
func (eg *RiichiMahjong4p) ClosedKan(seat int, t Tile) error {
	if err := eg.guard(); err != nil {
		return err
	}
	if err := eg.turns.ExpectTurn(seat, TurnStateAwaitingDiscard); err != nil {
		return err
	}
	p := eg.table.Players[seat]
	drawn, ok := p.Drawn()
	if !ok {
		return newError(ErrIllegalState, "seat=%d 鸣牌后不能开杠", seat)
	}
	if err := eg.kanAllowed(); err != nil {
		return err
	}
	tiles := p.Hand.TilesOfType(t.Type())
	if len(tiles) != 4 {
		return newError(ErrMalformedCall, "seat=%d 暗杠 %s 只有 %d 张", seat, t, len(tiles))
	}
	meld := Meld{Kind: MeldKan, Kan: KanClosed, Tiles: tiles, From: seat}
	if p.Riichi {
		after := p.Hand.clone()
		after.RemoveAll(tiles)
		after.AddMeld(meld)
		if drawn.Type() != t.Type() || !sameWaits(safeWaits(eg.evaluator, after), p.waits) {
			return newError(ErrRiichiLocked, "seat=%d 暗杠 %s 会改变听牌", seat, t)
		}
	}

	p.Hand.RemoveAll(tiles)
	p.Hand.AddMeld(meld)
	p.drawn = nil
	eg.anyCall = true
	eg.clearIppatsu()
	eg.events.emit(MeldDeclared{Seat: seat, Meld: meld.clone()})
	return eg.afterKan(seat)
}

// AddedKan 加杠；先给其他家抢杠的机会
func (eg *RiichiMahjong4p) AddedKan(seat int, t Tile) error {
	if err := eg.guard(); err != nil {
		return err
	}
	if err := eg.turns.ExpectTurn(seat, TurnStateAwaitingDiscard); err != nil {
		return err
	}
	p := eg.table.Players[seat]
	if _, ok := p.Drawn(); !ok {
		return newError(ErrIllegalState, "seat=%d 鸣牌后不能开杠", seat)
	}
	if !p.Hand.Contains(t) {
		return newError(ErrTileNotInHand, "seat=%d tile=%s", seat, t)
	}
	if !p.Hand.HasPon(t.Type()) {
		return newError(ErrMalformedCall, "seat=%d 没有 %s 的碰", seat, t)
	}
	if err := eg.kanAllowed(); err != nil {
		return err
	}

	eg.pendingKan = &pendingAddedKan{seat: seat, tile: t}
	w := &callWindow{discarder: seat, tile: t, chankan: true}
	for k := 1; k < SeatCount; k++ {
		eg.checkRon(w, (seat+k)%SeatCount)
	}
	return eg.openWindow(w)
}

// completeAddedKan 抢杠窗口无人荣和后完成加杠
func (eg *RiichiMahjong4p) completeAddedKan() error {
	k := eg.pendingKan
	eg.pendingKan = nil
	p := eg.table.Players[k.seat]
	p.Hand.Remove(k.tile)
	p.Hand.UpgradePon(k.tile)
	p.drawn = nil
	eg.anyCall = true
	eg.clearIppatsu()
	for _, m := range p.Hand.melds {
		if m.Kan == KanAdded && m.Type() == k.tile.Type() {
			eg.events.emit(MeldDeclared{Seat: k.seat, Meld: m.clone()})
			break
		}
	}
	return eg.afterKan(k.seat)
}

// afterKan 四杠散了检查，翻新宝牌，摸岭上牌
func (eg *RiichiMahjong4p) afterKan(seat int) error {
	if fourKansAbort(eg.table) {
		return eg.settleSpecialDraw(SpecialDrawFourKans)
	}
	wall := eg.table.Wall
	indicator, err := wall.RevealNextDora()
	if err != nil {
		return eg.halt(err)
	}
	eg.events.emit(DoraRevealed{Indicator: indicator})

	t, err := wall.DrawReplacement()
	if err != nil {
		return eg.halt(err)
	}
	p := eg.table.Players[seat]
	p.Hand.Add(t)
	p.drawn = &t
	p.draws++
	eg.rinshan = true
	eg.events.emit(TileDrawn{Seat: seat, Tile: t, Rinshan: true, LiveLeft: wall.LiveCount()})
	eg.turns.EnterDiscardPhase(seat)
	return nil
}
