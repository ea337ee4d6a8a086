package shape

import (
	"testing"

	"github.com/Senmiao-vhp/majsoul/runtime/game/engines/mahjong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	ev, err := NewEvaluator()
	require.NoError(t, err)
	t.Cleanup(ev.Close)
	return ev
}

func ronRequest(concealed, win string) mahjong.EvalRequest {
	return mahjong.EvalRequest{
		Concealed: mahjong.MustParseTiles(concealed),
		WinTile:   mahjong.MustParseTiles(win)[0],
		SeatWind:  mahjong.WindSouth,
		RoundWind: mahjong.WindEast,
		Rules:     mahjong.RuleFlags{OpenTanyao: true},
	}
}

func TestEvaluate_RiichiTanki(t *testing.T) {
	ev := newTestEvaluator(t)

	req := ronRequest("123m456p789s234m5s", "5s")
	req.Flags.Riichi = true
	res, err := ev.Evaluate(req)
	require.NoError(t, err)

	// 20 + 门清荣和 10 + 单骑 2 = 32 -> 40
	assert.Equal(t, []string{YakuRiichi}, res.Yaku)
	assert.Equal(t, 1, res.Han)
	assert.Equal(t, 40, res.Fu)
	assert.Equal(t, 320, res.BaseScore)
}

func TestEvaluate_PinfuTsumo(t *testing.T) {
	ev := newTestEvaluator(t)

	req := ronRequest("23m456p789s234m55s", "4m")
	req.Flags.Tsumo = true
	res, err := ev.Evaluate(req)
	require.NoError(t, err)

	assert.Equal(t, []string{YakuMenzenTsumo, YakuPinfu}, res.Yaku)
	assert.Equal(t, 2, res.Han)
	assert.Equal(t, 20, res.Fu)
	assert.Equal(t, 320, res.BaseScore)
}

func TestEvaluate_DoraNeedsYaku(t *testing.T) {
	ev := newTestEvaluator(t)

	req := ronRequest("123m456p789s234m5s", "5s")
	req.DoraIndicators = mahjong.MustParseTiles("4s")
	_, err := ev.Evaluate(req)
	require.ErrorIs(t, err, mahjong.ErrNoYaku)

	req.Flags.Riichi = true
	res, err := ev.Evaluate(req)
	require.NoError(t, err)
	assert.Equal(t, []string{YakuRiichi, YakuDora}, res.Yaku)
	assert.Equal(t, 3, res.Han)
	assert.Equal(t, 1280, res.BaseScore)
}

func TestEvaluate_UraDoraOnlyForRiichi(t *testing.T) {
	ev := newTestEvaluator(t)

	req := ronRequest("123m456p789s234m5s", "5s")
	req.Flags.Tsumo = true
	req.UraDoraIndicators = mahjong.MustParseTiles("4s")
	res, err := ev.Evaluate(req)
	require.NoError(t, err)
	assert.NotContains(t, res.Yaku, YakuUraDora)

	req.Flags.Riichi = true
	res, err = ev.Evaluate(req)
	require.NoError(t, err)
	assert.Contains(t, res.Yaku, YakuUraDora)
}

func TestEvaluate_OpenHandWithoutYaku(t *testing.T) {
	ev := newTestEvaluator(t)

	req := ronRequest("456p789s23m55s", "4m")
	req.Melds = []mahjong.Meld{{
		Kind:   mahjong.MeldChi,
		Tiles:  mahjong.MustParseTiles("123m"),
		From:   0,
		Called: mahjong.MustParseTiles("1m")[0],
	}}
	_, err := ev.Evaluate(req)
	require.ErrorIs(t, err, mahjong.ErrNoYaku)
}

func TestEvaluate_DoubleWindPon(t *testing.T) {
	ev := newTestEvaluator(t)

	req := ronRequest("123m456p789s5s", "5s")
	req.SeatWind = mahjong.WindEast
	req.Melds = []mahjong.Meld{{
		Kind:   mahjong.MeldPon,
		Tiles:  mahjong.MustParseTiles("111z"),
		From:   2,
		Called: mahjong.MustParseTiles("1z")[0],
	}}
	res, err := ev.Evaluate(req)
	require.NoError(t, err)

	// 20 + 幺九明刻 4 + 单骑 2 = 26 -> 30
	assert.Equal(t, []string{YakuRoundWind, YakuSeatWind}, res.Yaku)
	assert.Equal(t, 2, res.Han)
	assert.Equal(t, 30, res.Fu)
	assert.Equal(t, 480, res.BaseScore)
}

func TestEvaluate_OpenTanyaoRule(t *testing.T) {
	ev := newTestEvaluator(t)

	req := ronRequest("234m456p678s5s", "5s")
	req.Melds = []mahjong.Meld{{
		Kind:   mahjong.MeldPon,
		Tiles:  mahjong.MustParseTiles("222p"),
		From:   1,
		Called: mahjong.MustParseTiles("2p")[0],
	}}
	res, err := ev.Evaluate(req)
	require.NoError(t, err)
	assert.Equal(t, []string{YakuTanyao}, res.Yaku)

	req.Rules.OpenTanyao = false
	_, err = ev.Evaluate(req)
	require.ErrorIs(t, err, mahjong.ErrNoYaku)
}

func TestEvaluate_Chiitoitsu(t *testing.T) {
	ev := newTestEvaluator(t)

	res, err := ev.Evaluate(ronRequest("11m99m22p88p33s44s6s", "6s"))
	require.NoError(t, err)
	assert.Equal(t, []string{YakuChiitoi}, res.Yaku)
	assert.Equal(t, 2, res.Han)
	assert.Equal(t, 25, res.Fu)
	assert.Equal(t, 400, res.BaseScore)
}

func TestEvaluate_Kokushi(t *testing.T) {
	ev := newTestEvaluator(t)

	req := ronRequest("19m19p19s1234567z", "1m")
	res, err := ev.Evaluate(req)
	require.NoError(t, err)
	assert.Equal(t, []string{YakuKokushi}, res.Yaku)
	assert.Equal(t, 8000, res.BaseScore)

	req.Rules.DoubleYakuman = true
	res, err = ev.Evaluate(req)
	require.NoError(t, err)
	assert.Equal(t, []string{YakuKokushi13}, res.Yaku)
	assert.Equal(t, 26, res.Han)
	assert.Equal(t, 16000, res.BaseScore)
}

func TestEvaluate_Rejections(t *testing.T) {
	ev := newTestEvaluator(t)

	_, err := ev.Evaluate(ronRequest("123m456p789s234m5s", "9p"))
	require.ErrorIs(t, err, mahjong.ErrNotWinning)

	_, err = ev.Evaluate(ronRequest("123m456p789s234m", "5s"))
	require.ErrorIs(t, err, mahjong.ErrIllegalDeclaration)
}

func TestEvaluator_Waits(t *testing.T) {
	ev := newTestEvaluator(t)

	assert.Equal(t, []mahjong.TileType{mahjong.So5},
		ev.Waits(mahjong.MustParseTiles("123m456p789s234m5s"), nil))

	pon := mahjong.Meld{Kind: mahjong.MeldPon, Tiles: mahjong.MustParseTiles("111z"), From: 2}
	assert.Equal(t, []mahjong.TileType{mahjong.So5},
		ev.Waits(mahjong.MustParseTiles("123m456p789s5s"), []mahjong.Meld{pon}))
}

func TestBaseScore(t *testing.T) {
	cases := []struct {
		han, fu, want int
	}{
		{1, 30, 240},
		{3, 30, 960},
		{4, 30, 1920},
		{4, 40, 2000},
		{5, 30, 2000},
		{6, 30, 3000},
		{8, 30, 4000},
		{11, 30, 6000},
		{13, 30, 8000},
	}
	for _, c := range cases {
		if got := BaseScore(c.han, c.fu); got != c.want {
			t.Fatalf("BaseScore(%d, %d) = %d, want %d", c.han, c.fu, got, c.want)
		}
	}
}
