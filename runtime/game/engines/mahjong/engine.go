package mahjong

import (
	"math/rand"
	"time"

	"github.com/Senmiao-vhp/majsoul/common/config"
	"github.com/Senmiao-vhp/majsoul/common/log"
	"github.com/Senmiao-vhp/majsoul/runtime/game/engines"
)

/*
	一局的状态机：
		Dealing -> AwaitingDraw -> AwaitingDiscard -> AwaitingCalls -> ... -> Resolving -> Finished
	引擎是单线程同步的，"等待玩家"只是一个状态，调用方通过离散的动作方法推进。
	每个动作要么成功推进状态，要么返回错误且状态不变。

	流局：
		荒牌(牌墙摸空)、四家立直、四杠散了、九种九牌(配牌时由玩家选择)
	鸣牌裁定：
		荣和 > 杠 > 碰 > 吃，同优先级取打牌者下家方向最近的一家(头跳)
	结算：
		只调用一次 Ledger，结算前后检查点数守恒，失败则引擎中止
*/

// HandResult 一局的结局
type HandResult struct {
	Settlement Settlement
	Winner     int
	Loser      int
	WinTile    Tile
	Eval       *EvalResult
}

type Option func(*RiichiMahjong4p)

// WithRand 指定洗牌随机源
func WithRand(rng *rand.Rand) Option {
	return func(eg *RiichiMahjong4p) { eg.rng = rng }
}

// WithWallFactory 替换每局的牌山来源，用于回放和测试
func WithWallFactory(f func() (*Wall, error)) Option {
	return func(eg *RiichiMahjong4p) { eg.newWall = f }
}

func WithSink(s EventSink) Option {
	return func(eg *RiichiMahjong4p) { eg.events.subscribe(s) }
}

type pendingAddedKan struct {
	seat int
	tile Tile
}

// RiichiMahjong4p 日麻四人引擎，一张桌子一个实例
type RiichiMahjong4p struct {
	Rules config.Rules

	table     *Table
	ledger    *Ledger
	turns     *TurnManager
	evaluator HandEvaluator
	rng       *rand.Rand
	newWall   func() (*Wall, error)
	events    emitter

	window       *callWindow
	windowSeq    uint64
	pendingKan   *pendingAddedKan
	nineOffered  [SeatCount]bool
	nineResolved [SeatCount]bool
	anyCall      bool // 本局出现过鸣牌或暗杠
	rinshan      bool // 当前行动者刚摸了岭上牌
	result       *HandResult
	handCount    int
	halted       bool
	closed       bool
}

var _ engines.Engine = (*RiichiMahjong4p)(nil)

// NewRiichiMahjong4p 创建引擎，规则集在建桌时读取一次
func NewRiichiMahjong4p(names [SeatCount]string, evaluator HandEvaluator, rules config.Rules, opts ...Option) (*RiichiMahjong4p, error) {
	if err := rules.Validate(); err != nil {
		return nil, ErrInvalidTable.WithCause(err)
	}
	if evaluator == nil {
		return nil, newError(ErrInvalidTable, "缺少和牌判定器")
	}
	table, err := NewTable(names, rules.StartingPoints)
	if err != nil {
		return nil, err
	}

	eg := &RiichiMahjong4p{
		Rules:     rules,
		table:     table,
		ledger:    NewLedger(),
		turns:     NewTurnManager(table),
		evaluator: evaluator,
	}
	seed := rules.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eg.rng = rand.New(rand.NewSource(seed))
	eg.newWall = func() (*Wall, error) {
		return NewWall(eg.rng, eg.Rules.RedFives)
	}
	for _, opt := range opts {
		opt(eg)
	}
	return eg, nil
}

// Subscribe 追加事件订阅者
func (eg *RiichiMahjong4p) Subscribe(s EventSink) {
	eg.events.subscribe(s)
}

func (eg *RiichiMahjong4p) guard() error {
	if eg.closed || eg.halted {
		return ErrEngineHalted
	}
	return nil
}

// halt 点数守恒失败：停止本局，之后所有操作都被拒绝
func (eg *RiichiMahjong4p) halt(err error) error {
	eg.halted = true
	eg.window = nil
	eg.turns.Finish()
	log.Error("引擎中止, hand=%d, err=%v", eg.handCount, err)
	return err
}

// StartHand 洗牌、配牌、翻首张宝牌；有人满足九种九牌时停在 Dealing 等待选择
func (eg *RiichiMahjong4p) StartHand() error {
	if err := eg.guard(); err != nil {
		return err
	}
	if err := eg.turns.Expect(TurnStateIdle, TurnStateFinished); err != nil {
		return err
	}
	wall, err := eg.newWall()
	if err != nil {
		return err
	}

	t := eg.table
	t.Wall = wall
	for _, p := range t.Players {
		p.resetForHand()
	}
	eg.window = nil
	eg.pendingKan = nil
	eg.nineOffered = [SeatCount]bool{}
	eg.nineResolved = [SeatCount]bool{}
	eg.anyCall = false
	eg.rinshan = false
	eg.result = nil
	eg.handCount++

	eg.ledger.BeginHand(t)
	eg.turns.EnterDealPhase(t.Dealer)
	log.Info("开局 hand=%d %s%d局 dealer=%d honba=%d sticks=%d",
		eg.handCount, t.RoundWind, t.RoundNumber, t.Dealer, eg.ledger.Honba, eg.ledger.RiichiSticks)
	eg.events.emit(HandStarted{
		Dealer:       t.Dealer,
		RoundWind:    t.RoundWind,
		RoundNumber:  t.RoundNumber,
		Honba:        eg.ledger.Honba,
		RiichiSticks: eg.ledger.RiichiSticks,
	})

	// 从庄家开始每人一张，共 13 轮
	for round := 0; round < InitialHand; round++ {
		for k := 0; k < SeatCount; k++ {
			seat := (t.Dealer + k) % SeatCount
			tile, ok := wall.Draw()
			if !ok {
				return eg.halt(newError(ErrInvalidWall, "配牌时牌墙不足"))
			}
			t.Players[seat].Hand.Add(tile)
		}
	}
	indicator, err := wall.RevealNextDora()
	if err != nil {
		return eg.halt(err)
	}
	eg.events.emit(DoraRevealed{Indicator: indicator})

	for _, p := range t.Players {
		p.waits = safeWaits(eg.evaluator, p.Hand)
	}

	var offered []int
	for k := 0; k < SeatCount; k++ {
		seat := (t.Dealer + k) % SeatCount
		if nineTerminalKinds(t.Players[seat].Hand) >= 9 {
			eg.nineOffered[seat] = true
			offered = append(offered, seat)
		}
	}
	if len(offered) > 0 {
		eg.events.emit(NineTerminalsOffered{Seats: offered})
		return nil
	}
	eg.turns.EnterDrawPhase(t.Dealer)
	return nil
}

// ResolveNineTerminals 九种九牌的选择：abort 为真则流局
func (eg *RiichiMahjong4p) ResolveNineTerminals(seat int, abort bool) error {
	if err := eg.guard(); err != nil {
		return err
	}
	if err := eg.turns.Expect(TurnStateDealing); err != nil {
		return err
	}
	if !validSeat(seat) {
		return newError(ErrInvalidSeat, "seat=%d", seat)
	}
	if !eg.nineOffered[seat] || eg.nineResolved[seat] {
		return newError(ErrCallNotAvailable, "seat=%d 没有待选择的九种九牌", seat)
	}
	eg.nineResolved[seat] = true
	if abort {
		return eg.settleSpecialDraw(SpecialDrawNineTerminals)
	}
	if eg.nineOffered == eg.nineResolved {
		eg.turns.EnterDrawPhase(eg.table.Dealer)
	}
	return nil
}

func (eg *RiichiMahjong4p) Phase() engines.GameState {
	if eg.halted {
		return engines.GameHalted
	}
	return eg.turns.State.Phase()
}

func (eg *RiichiMahjong4p) State() TurnState {
	return eg.turns.State
}

// Current 当前行动座位
func (eg *RiichiMahjong4p) Current() int {
	return eg.turns.TurnPointer()
}

// Close 关闭后所有操作返回 ErrEngineHalted
func (eg *RiichiMahjong4p) Close() {
	eg.closed = true
	eg.window = nil
	eg.events.sinks = nil
}

// Table 只读访问
func (eg *RiichiMahjong4p) Table() *Table {
	return eg.table
}

func (eg *RiichiMahjong4p) Ledger() Ledger {
	return *eg.ledger
}

func (eg *RiichiMahjong4p) Result() *HandResult {
	if eg.result == nil {
		return nil
	}
	r := *eg.result
	return &r
}

func (eg *RiichiMahjong4p) Waits(seat int) []TileType {
	if !validSeat(seat) {
		return nil
	}
	return eg.table.Players[seat].Waits()
}

func (eg *RiichiMahjong4p) Furiten(seat int) FuritenState {
	if !validSeat(seat) {
		return FuritenState{}
	}
	return eg.table.Players[seat].Furiten
}

// CallWindowID 当前鸣牌窗口，0 表示没有
func (eg *RiichiMahjong4p) CallWindowID() uint64 {
	if eg.window == nil {
		return 0
	}
	return eg.window.id
}

// Options 当前窗口中该座位尚未响应的可选操作
func (eg *RiichiMahjong4p) Options(seat int) []CallOption {
	w := eg.window
	if w == nil || !validSeat(seat) || w.responded[seat] {
		return nil
	}
	out := make([]CallOption, 0, len(w.options[seat]))
	for _, op := range w.options[seat] {
		out = append(out, CallOption{Kind: op.Kind, Tiles: append([]Tile(nil), op.Tiles...)})
	}
	return out
}

// CanTsumo 当前行动者能否自摸，不改变状态
func (eg *RiichiMahjong4p) CanTsumo(seat int) bool {
	if eg.guard() != nil || eg.turns.ExpectTurn(seat, TurnStateAwaitingDiscard) != nil {
		return false
	}
	p := eg.table.Players[seat]
	drawn, ok := p.Drawn()
	if !ok {
		return false
	}
	_, err := safeEvaluate(eg.evaluator, eg.winRequest(seat, p.Hand.without(drawn), drawn, eg.tsumoFlags(seat)))
	return err == nil
}

// FinalRanking 终局顺位与顺位马
func (eg *RiichiMahjong4p) FinalRanking() []Placement {
	return eg.ledger.SettleFinalRanking(eg.table, eg.Rules.PlacementBonus)
}

// winRequest 组装判定器输入，里宝牌只对立直者给出(尚未翻开)
func (eg *RiichiMahjong4p) winRequest(seat int, concealed []Tile, winTile Tile, flags WinFlags) EvalRequest {
	t := eg.table
	p := t.Players[seat]
	flags.Riichi = p.Riichi
	flags.DoubleRiichi = p.DoubleRiichi
	flags.Ippatsu = p.Riichi && p.Ippatsu
	req := EvalRequest{
		Concealed:      concealed,
		Melds:          p.Hand.Melds(),
		WinTile:        winTile,
		Flags:          flags,
		SeatWind:       t.SeatWind(seat),
		RoundWind:      t.RoundWind,
		RiichiSticks:   eg.ledger.RiichiSticks,
		Honba:          eg.ledger.Honba,
		DoraIndicators: t.Wall.DoraIndicators(),
		Rules: RuleFlags{
			RedFives:      eg.Rules.RedFives,
			OpenTanyao:    eg.Rules.OpenTanyao,
			DoubleYakuman: eg.Rules.DoubleYakuman,
		},
	}
	if p.Riichi {
		req.UraDoraIndicators = t.Wall.PeekUraDora()
	}
	return req
}

func (eg *RiichiMahjong4p) tsumoFlags(seat int) WinFlags {
	p := eg.table.Players[seat]
	first := firstDrawWin(p, eg.anyCall)
	return WinFlags{
		Tsumo:   true,
		Rinshan: eg.rinshan,
		Haitei:  !eg.rinshan && eg.table.Wall.LiveCount() == 0,
		Tenhou:  first && eg.table.IsDealer(seat),
		Chiihou: first && !eg.table.IsDealer(seat),
	}
}

func (eg *RiichiMahjong4p) ronFlags(seat int, chankan bool) WinFlags {
	p := eg.table.Players[seat]
	return WinFlags{
		Chankan: chankan,
		Houtei:  !chankan && eg.table.Wall.LiveCount() == 0,
		Renhou:  renhouWin(p, eg.table.IsDealer(seat), eg.anyCall),
	}
}

func (eg *RiichiMahjong4p) clearIppatsu() {
	for _, p := range eg.table.Players {
		p.Ippatsu = false
	}
}

// kanAllowed 还能再开杠：场上不足四杠且能补岭上牌
func (eg *RiichiMahjong4p) kanAllowed() error {
	if totalKans(eg.table) >= MaxKans {
		return newError(ErrKanLimit, "场上已有 %d 杠", totalKans(eg.table))
	}
	if !eg.table.Wall.CanDrawReplacement() {
		return newError(ErrWallTooShort, "无法补充岭上牌")
	}
	return nil
}
