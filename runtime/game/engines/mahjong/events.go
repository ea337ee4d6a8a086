package mahjong

import (
	"github.com/Senmiao-vhp/majsoul/common/log"
)

type EventKind int

const (
	EventHandStarted EventKind = iota
	EventDoraRevealed
	EventNineTerminalsOffered
	EventTileDrawn
	EventTileDiscarded
	EventRiichiDeclared
	EventMeldDeclared
	EventCallWindowOpened
	EventWin
	EventExhaustiveDraw
	EventSpecialDraw
	EventLedgerSettled
)

func (k EventKind) String() string {
	switch k {
	case EventHandStarted:
		return "HandStarted"
	case EventDoraRevealed:
		return "DoraRevealed"
	case EventNineTerminalsOffered:
		return "NineTerminalsOffered"
	case EventTileDrawn:
		return "TileDrawn"
	case EventTileDiscarded:
		return "TileDiscarded"
	case EventRiichiDeclared:
		return "RiichiDeclared"
	case EventMeldDeclared:
		return "MeldDeclared"
	case EventCallWindowOpened:
		return "CallWindowOpened"
	case EventWin:
		return "Win"
	case EventExhaustiveDraw:
		return "ExhaustiveDraw"
	case EventSpecialDraw:
		return "SpecialDraw"
	case EventLedgerSettled:
		return "LedgerSettled"
	default:
		return "Unknown"
	}
}

// Event 引擎通知，按因果顺序发出，不会重发或撤回
type Event interface {
	Kind() EventKind
}

type HandStarted struct {
	Dealer       int
	RoundWind    Wind
	RoundNumber  int
	Honba        int
	RiichiSticks int
}

type DoraRevealed struct {
	Indicator Tile
	Ura       bool
}

type NineTerminalsOffered struct {
	Seats []int
}

type TileDrawn struct {
	Seat     int
	Tile     Tile
	Rinshan  bool
	LiveLeft int
}

type TileDiscarded struct {
	Seat      int
	Tile      Tile
	Tsumogiri bool
	Riichi    bool
}

type RiichiDeclared struct {
	Seat   int
	Double bool
	Sticks int
}

type MeldDeclared struct {
	Seat int
	Meld Meld
}

// CallWindowOpened 某张牌(打出或加杠)可被鸣牌，Options 按座位列出可选操作
type CallWindowOpened struct {
	ID        uint64
	Discarder int
	Tile      Tile
	Chankan   bool
	Options   [SeatCount][]CallOption
}

// Win Loser 为 -1 表示自摸
type Win struct {
	Winner  int
	Loser   int
	Tile    Tile
	Result  EvalResult
	UraDora []Tile
}

type ExhaustiveDraw struct {
	Tenpai [SeatCount]bool
}

type SpecialDraw struct {
	Reason SpecialDrawKind
}

type LedgerSettled struct {
	Settlement Settlement
}

func (HandStarted) Kind() EventKind          { return EventHandStarted }
func (DoraRevealed) Kind() EventKind         { return EventDoraRevealed }
func (NineTerminalsOffered) Kind() EventKind { return EventNineTerminalsOffered }
func (TileDrawn) Kind() EventKind            { return EventTileDrawn }
func (TileDiscarded) Kind() EventKind        { return EventTileDiscarded }
func (RiichiDeclared) Kind() EventKind       { return EventRiichiDeclared }
func (MeldDeclared) Kind() EventKind         { return EventMeldDeclared }
func (CallWindowOpened) Kind() EventKind     { return EventCallWindowOpened }
func (Win) Kind() EventKind                  { return EventWin }
func (ExhaustiveDraw) Kind() EventKind       { return EventExhaustiveDraw }
func (SpecialDraw) Kind() EventKind          { return EventSpecialDraw }
func (LedgerSettled) Kind() EventKind        { return EventLedgerSettled }

// EventSink 事件订阅者，在引擎的调用线程上同步回调
type EventSink interface {
	OnEvent(e Event)
}

type SinkFunc func(e Event)

func (f SinkFunc) OnEvent(e Event) { f(e) }

type emitter struct {
	sinks []EventSink
}

func (em *emitter) subscribe(s EventSink) {
	if s != nil {
		em.sinks = append(em.sinks, s)
	}
}

func (em *emitter) emit(e Event) {
	for _, s := range em.sinks {
		s.OnEvent(e)
	}
}

// NewLogSink 把事件写进日志
func NewLogSink() EventSink {
	return SinkFunc(func(e Event) {
		switch ev := e.(type) {
		case TileDrawn:
			log.Debug("摸牌 seat=%d tile=%s rinshan=%v left=%d", ev.Seat, ev.Tile, ev.Rinshan, ev.LiveLeft)
		case TileDiscarded:
			log.Debug("打牌 seat=%d tile=%s tsumogiri=%v riichi=%v", ev.Seat, ev.Tile, ev.Tsumogiri, ev.Riichi)
		case CallWindowOpened:
			log.Debug("鸣牌窗口 id=%d from=%d tile=%s chankan=%v", ev.ID, ev.Discarder, ev.Tile, ev.Chankan)
		case Win:
			log.Info("和了 winner=%d loser=%d tile=%s han=%d fu=%d base=%d yaku=%v",
				ev.Winner, ev.Loser, ev.Tile, ev.Result.Han, ev.Result.Fu, ev.Result.BaseScore, ev.Result.Yaku)
		case LedgerSettled:
			s := ev.Settlement
			log.Info("结算 kind=%s deltas=%v honba=%d sticks=%d", s.Kind, s.Deltas, s.Honba, s.RiichiSticks)
		default:
			log.Info("事件 %s %+v", e.Kind(), e)
		}
	})
}
