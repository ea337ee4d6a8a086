package mahjong

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionPriority(t *testing.T) {
	order := []ActionKind{ActionNone, ActionChi, ActionPon, ActionKan, ActionRon, ActionTsumo}
	for i := 1; i < len(order); i++ {
		assert.True(t, order[i].Outranks(order[i-1]), "%s > %s", order[i], order[i-1])
		assert.False(t, order[i-1].Outranks(order[i]))
	}
}

func TestCallWindow_Decided(t *testing.T) {
	w := &callWindow{discarder: 0}
	w.options[1] = []CallOption{{Kind: ActionPon}, {Kind: ActionChi}}
	w.options[2] = []CallOption{{Kind: ActionRon}}
	w.options[3] = []CallOption{{Kind: ActionRon}}

	w.claims[1] = &pendingClaim{kind: ActionPon}
	w.responded[1] = true
	assert.False(t, w.decided(), "ron seats still outstanding")

	w.claims[3] = &pendingClaim{kind: ActionRon}
	w.responded[3] = true
	assert.False(t, w.decided(), "seat 2 is closer downstream and can still ron")

	w.responded[2] = true
	assert.True(t, w.decided())
	seat, c := w.best()
	assert.Equal(t, 3, seat)
	assert.Equal(t, ActionRon, c.kind)
}

func TestCallWindow_HeadBump(t *testing.T) {
	w := &callWindow{discarder: 2}
	w.options[3] = []CallOption{{Kind: ActionRon}}
	w.options[1] = []CallOption{{Kind: ActionRon}}

	w.claims[3] = &pendingClaim{kind: ActionRon}
	w.responded[3] = true
	// 3 是打牌者下家，1 无法压过
	assert.True(t, w.decided())
	seat, _ := w.best()
	assert.Equal(t, 3, seat)
}

func TestCallWindow_AllPassed(t *testing.T) {
	w := &callWindow{discarder: 1}
	w.options[2] = []CallOption{{Kind: ActionChi}}
	assert.False(t, w.decided())
	w.responded[2] = true
	assert.True(t, w.decided())
	_, c := w.best()
	assert.Nil(t, c)
}

func TestMeldOptions(t *testing.T) {
	p := NewPlayer("B", 1, 25000)
	for _, tl := range MustParseTiles("345567s777z") {
		p.Hand.Add(tl)
	}

	ops := meldOptions(p, 1, 0, tile("5s"), true)
	kinds := map[ActionKind]int{}
	for _, op := range ops {
		kinds[op.Kind]++
	}
	assert.Equal(t, 1, kinds[ActionPon])
	assert.Equal(t, 0, kinds[ActionKan])
	assert.Equal(t, 3, kinds[ActionChi])

	// 不是下家不能吃
	ops = meldOptions(p, 1, 2, tile("5s"), true)
	assert.False(t, hasOption(ops, ActionChi))

	ops = meldOptions(p, 1, 0, tile("7z"), true)
	assert.Equal(t, ActionKan, maxOption(ops))
	ops = meldOptions(p, 1, 0, tile("7z"), false)
	assert.Equal(t, ActionPon, maxOption(ops))

	p.Riichi = true
	assert.Empty(t, meldOptions(p, 1, 0, tile("7z"), true))
}

func TestValidMeldTiles(t *testing.T) {
	assert.True(t, validMeldTiles(ActionChi, tile("5s"), MustParseTiles("34s")))
	assert.True(t, validMeldTiles(ActionChi, tile("5s"), MustParseTiles("46s")))
	assert.True(t, validMeldTiles(ActionChi, tile("5s"), MustParseTiles("67s")))
	assert.False(t, validMeldTiles(ActionChi, tile("5s"), MustParseTiles("24s")))
	assert.False(t, validMeldTiles(ActionChi, tile("5s"), MustParseTiles("4s6p")))
	assert.False(t, validMeldTiles(ActionChi, tile("5z"), MustParseTiles("67z")))
	assert.True(t, validMeldTiles(ActionPon, tile("0p"), MustParseTiles("55p")))
	assert.False(t, validMeldTiles(ActionPon, tile("5p"), MustParseTiles("555p")))
	assert.True(t, validMeldTiles(ActionKan, tile("1z"), MustParseTiles("111z")))
	assert.False(t, validMeldTiles(ActionRon, tile("1z"), nil))
}

type brokenEvaluator struct {
	result *EvalResult
	err    error
	panics bool
}

func (b brokenEvaluator) Evaluate(EvalRequest) (*EvalResult, error) {
	if b.panics {
		panic("boom")
	}
	return b.result, b.err
}

func (b brokenEvaluator) Waits([]Tile, []Meld) []TileType {
	if b.panics {
		panic("boom")
	}
	return []TileType{Man1, TileType(99)}
}

func TestSafeEvaluate_NeverScoresFailures(t *testing.T) {
	req := EvalRequest{WinTile: tile("1m")}

	_, err := safeEvaluate(brokenEvaluator{panics: true}, req)
	requireCode(t, err, ErrNoYaku)

	_, err = safeEvaluate(brokenEvaluator{err: errors.New("socket closed")}, req)
	requireCode(t, err, ErrNoYaku)
	assert.Equal(t, ClassEvaluator, ClassOf(err))

	_, err = safeEvaluate(brokenEvaluator{err: ErrNotWinning}, req)
	requireCode(t, err, ErrNotWinning)

	_, err = safeEvaluate(brokenEvaluator{}, req)
	requireCode(t, err, ErrNoYaku)

	_, err = safeEvaluate(brokenEvaluator{result: &EvalResult{Han: 0, BaseScore: 1000}}, req)
	requireCode(t, err, ErrNoYaku)

	res, err := safeEvaluate(brokenEvaluator{result: &EvalResult{Yaku: []string{"x"}, Han: 1, Fu: 30, BaseScore: 240}}, req)
	require.NoError(t, err)
	assert.Equal(t, 240, res.BaseScore)
}

func TestSafeWaits(t *testing.T) {
	h := handOf("123m")
	assert.Nil(t, safeWaits(brokenEvaluator{panics: true}, h))
	assert.Equal(t, []TileType{Man1}, safeWaits(brokenEvaluator{}, h), "invalid tile types are dropped")
}

func TestGameError_IsMatchesCode(t *testing.T) {
	err := newError(ErrTileNotInHand, "seat=%d", 1)
	assert.True(t, errors.Is(err, ErrTileNotInHand))
	assert.False(t, errors.Is(err, ErrNotYourTurn))
	assert.Contains(t, err.Error(), "TILE_NOT_IN_HAND")
	assert.Equal(t, "手牌中没有指定的牌", ErrTileNotInHand.Message, "sentinel must not be modified")

	wrapped := ErrNoYaku.WithCause(errors.New("inner"))
	assert.True(t, errors.Is(wrapped, ErrNoYaku))
	assert.Nil(t, ErrNoYaku.Cause)
	assert.Equal(t, ClassFatal, ClassOf(errors.New("plain")))
}
