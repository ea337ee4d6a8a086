package mahjong

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handOf(s string) *Hand {
	h := NewHand()
	for _, t := range MustParseTiles(s) {
		h.Add(t)
	}
	return h
}

func TestHand_AddKeepsOrder(t *testing.T) {
	h := handOf("9s1z05m1m")
	assert.Equal(t, "1m 5m 0m 9s 1z", FormatTiles(h.Concealed()))
	assert.Equal(t, 2, h.CountType(Man5))
	assert.Equal(t, []Tile{tile("5m"), tile("0m")}, h.TilesOfType(Man5))
}

func TestHand_RemoveAllIsAtomic(t *testing.T) {
	h := handOf("1122m")
	assert.False(t, h.RemoveAll(MustParseTiles("113m")))
	assert.Equal(t, 4, h.ConcealedCount())

	assert.True(t, h.ContainsAll(MustParseTiles("112m")))
	assert.False(t, h.ContainsAll(MustParseTiles("111m")))
	assert.True(t, h.RemoveAll(MustParseTiles("12m")))
	assert.Equal(t, "1m 2m", FormatTiles(h.Concealed()))
}

func TestHand_MeldsAndCounts(t *testing.T) {
	h := handOf("123456789p12s55z")
	require.True(t, h.RemoveAll(MustParseTiles("55z")))
	h.AddMeld(Meld{Kind: MeldPon, Tiles: MustParseTiles("555z"), From: 0, Called: tile("5z")})

	assert.False(t, h.IsConcealed())
	assert.True(t, h.HasPon(White))
	assert.Equal(t, 14, h.EffectiveCount())

	h.Remove(tile("1p"))
	h.Add(tile("5z"))
	require.True(t, h.Remove(tile("5z")))
	require.True(t, h.UpgradePon(tile("5z")))
	melds := h.Melds()
	require.Len(t, melds, 1)
	assert.Equal(t, KanAdded, melds[0].Kan)
	assert.True(t, melds[0].IsKan())
	assert.Equal(t, 1, h.KanCount())
	assert.Equal(t, 14, h.TotalTiles())
	assert.Equal(t, 13, h.EffectiveCount())

	// 返回的是副本
	melds[0].Tiles[0] = tile("1m")
	assert.Equal(t, White, h.Melds()[0].Type())
}

func TestHand_ClosedKanKeepsConcealed(t *testing.T) {
	h := handOf("123m")
	h.AddMeld(Meld{Kind: MeldKan, Kan: KanClosed, Tiles: MustParseTiles("5555z")})
	assert.True(t, h.IsConcealed())
}

func TestHand_Without(t *testing.T) {
	h := handOf("1123m")
	assert.Equal(t, "1m 2m 3m", FormatTiles(h.without(tile("1m"))))
	assert.Equal(t, 4, h.ConcealedCount())
}

func TestFuriten_PermanentIsSticky(t *testing.T) {
	waits := []TileType{Pin3, Pin6}
	f := EvaluateFuriten(waits, MustParseTiles("1z6p"), FuritenState{})
	assert.True(t, f.Permanent)
	assert.True(t, f.Active())

	// 听牌改变后仍然振听
	f = EvaluateFuriten([]TileType{Man1}, MustParseTiles("1z6p"), f)
	assert.True(t, f.Permanent)

	f = EvaluateFuriten(waits, MustParseTiles("1z2z"), FuritenState{})
	assert.False(t, f.Active())
}

func TestFuriten_MissedWin(t *testing.T) {
	f := FuritenState{}.MissedWin(false)
	assert.True(t, f.Temporary)
	assert.False(t, f.Riichi)

	f = f.OnOwnDiscard()
	assert.False(t, f.Active())

	f = FuritenState{}.MissedWin(true).OnOwnDiscard()
	assert.True(t, f.Riichi)
	assert.True(t, f.Active(), "riichi furiten lasts the whole hand")
}

func TestTable_Seating(t *testing.T) {
	_, err := NewTable([SeatCount]string{"A", "B", "A", "D"}, 25000)
	requireCode(t, err, ErrInvalidTable)
	_, err = NewTable([SeatCount]string{"A", "", "C", "D"}, 25000)
	requireCode(t, err, ErrInvalidTable)

	tb, err := NewTable([SeatCount]string{"A", "B", "C", "D"}, 25000)
	require.NoError(t, err)
	assert.Equal(t, 100000, tb.TotalPoints())
	assert.Equal(t, WindEast, tb.SeatWind(0))
	assert.Equal(t, WindNorth, tb.SeatWind(3))

	seat, ok := tb.SeatOf("C")
	assert.True(t, ok)
	assert.Equal(t, 2, seat)

	for i := 0; i < SeatCount; i++ {
		tb.RotateDealer()
	}
	assert.Equal(t, 0, tb.Dealer)
	assert.Equal(t, WindSouth, tb.RoundWind)
	assert.Equal(t, 1, tb.RoundNumber)
	assert.Equal(t, WindSouth, tb.SeatWind(1))
	assert.Equal(t, 3, tb.Distance(1, 0))
}
