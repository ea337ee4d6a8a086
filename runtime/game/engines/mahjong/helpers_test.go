package mahjong

import (
	"testing"

	"github.com/Senmiao-vhp/majsoul/common/config"
	"github.com/stretchr/testify/require"
)

// fakeEvaluator 按标记牌组判定听牌：门前牌包含 key 的全部牌时听 value
type fakeEvaluator struct {
	markers map[string][]TileType
	base    int
	panics  bool
	reqs    []EvalRequest
}

func newFakeEvaluator(markers map[string][]TileType) *fakeEvaluator {
	return &fakeEvaluator{markers: markers, base: 1000}
}

func (f *fakeEvaluator) Waits(concealed []Tile, melds []Meld) []TileType {
	if f.panics {
		panic("fake evaluator")
	}
	h := NewHand()
	for _, t := range concealed {
		h.Add(t)
	}
	var waits []TileType
	for key, ws := range f.markers {
		if h.ContainsAll(MustParseTiles(key)) {
			waits = append(waits, ws...)
		}
	}
	return waits
}

func (f *fakeEvaluator) Evaluate(req EvalRequest) (*EvalResult, error) {
	if f.panics {
		panic("fake evaluator")
	}
	f.reqs = append(f.reqs, req)
	for _, w := range f.Waits(req.Concealed, req.Melds) {
		if w == req.WinTile.Type() {
			return &EvalResult{Yaku: []string{"test"}, Han: 1, Fu: 30, BaseScore: f.base}, nil
		}
	}
	return nil, ErrNotWinning
}

func (f *fakeEvaluator) lastRequest(t *testing.T) EvalRequest {
	require.NotEmpty(t, f.reqs)
	return f.reqs[len(f.reqs)-1]
}

var defaultHands = [SeatCount]string{
	"123456789m1234p",
	"123456789p1234s",
	"123456789s1234m",
	"5678m5678p5678s1z",
}

// stackedWall 按配牌和摸牌顺序堆牌山；deadAt 指定王牌中某些位置的牌
func stackedWall(t *testing.T, hands [SeatCount]string, draws string, deadAt map[int]string) func() (*Wall, error) {
	t.Helper()
	pool := NewTileSet(false)
	take := func(tile Tile) {
		for i, p := range pool {
			if p == tile {
				pool = append(pool[:i], pool[i+1:]...)
				return
			}
		}
		t.Fatalf("牌山中 %s 不足", tile)
	}

	var dealt [SeatCount][]Tile
	for seat, s := range hands {
		dealt[seat] = MustParseTiles(s)
		require.Len(t, dealt[seat], InitialHand, "seat %d", seat)
	}
	var seq []Tile
	for round := 0; round < InitialHand; round++ {
		for seat := 0; seat < SeatCount; seat++ {
			seq = append(seq, dealt[seat][round])
		}
	}
	seq = append(seq, MustParseTiles(draws)...)
	for _, tile := range seq {
		take(tile)
	}

	var dead [DeadWallSize]Tile
	for idx, s := range deadAt {
		dead[idx] = MustParseTiles(s)[0]
		take(dead[idx])
	}
	for idx := range dead {
		if !dead[idx].IsValid() {
			dead[idx] = pool[len(pool)-1]
			pool = pool[:len(pool)-1]
		}
	}

	tiles := make([]Tile, 0, TileLimit)
	tiles = append(tiles, pool...)
	for i := len(seq) - 1; i >= 0; i-- {
		tiles = append(tiles, seq[i])
	}
	tiles = append(tiles, dead[:]...)
	require.Len(t, tiles, TileLimit)

	return func() (*Wall, error) {
		return WallFromTiles(append([]Tile(nil), tiles...))
	}
}

type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind()
	}
	return out
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind() == kind {
			n++
		}
	}
	return n
}

func testRules() config.Rules {
	rules := config.Default()
	rules.RedFives = false
	rules.Seed = 1
	return rules
}

func newTestEngine(t *testing.T, ev HandEvaluator, wall func() (*Wall, error)) (*RiichiMahjong4p, *recorder) {
	t.Helper()
	rec := &recorder{}
	eg, err := NewRiichiMahjong4p([SeatCount]string{"A", "B", "C", "D"}, ev, testRules(), WithWallFactory(wall), WithSink(rec))
	require.NoError(t, err)
	t.Cleanup(eg.Close)
	return eg, rec
}

func tile(s string) Tile {
	return MustParseTiles(s)[0]
}

// drawAndDiscard 摸切一次；返回摸到的牌
func drawAndDiscard(t *testing.T, eg *RiichiMahjong4p) Tile {
	t.Helper()
	seat := eg.Current()
	drawn, ok, err := eg.Draw()
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, eg.Discard(seat, drawn))
	return drawn
}

// passAll 当前窗口中所有有选项的座位放弃
func passAll(t *testing.T, eg *RiichiMahjong4p) {
	t.Helper()
	for seat := 0; seat < SeatCount && eg.State() == TurnStateAwaitingCalls; seat++ {
		if len(eg.Options(seat)) > 0 {
			require.NoError(t, eg.Pass(seat))
		}
	}
}

func requireCode(t *testing.T, err error, want *GameError) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, want, "got %v", err)
}
