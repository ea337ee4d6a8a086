package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Senmiao-vhp/majsoul/common/config"
	"github.com/Senmiao-vhp/majsoul/runtime/game/engines/mahjong"
	"github.com/Senmiao-vhp/majsoul/runtime/game/engines/mahjong/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var names = [mahjong.SeatCount]string{"东", "南", "西", "北"}

// scriptedWall 庄家为 0 时按 hands 配牌，随后依次摸 draws
func scriptedWall(t *testing.T, hands [mahjong.SeatCount]string, draws string) func() (*mahjong.Wall, error) {
	t.Helper()
	pool := mahjong.NewTileSet(false)
	var seq []mahjong.Tile
	for round := 0; round < mahjong.InitialHand; round++ {
		for seat := 0; seat < mahjong.SeatCount; seat++ {
			seq = append(seq, mahjong.MustParseTiles(hands[seat])[round])
		}
	}
	seq = append(seq, mahjong.MustParseTiles(draws)...)
	for _, tile := range seq {
		found := false
		for i, p := range pool {
			if p == tile {
				pool = append(pool[:i], pool[i+1:]...)
				found = true
				break
			}
		}
		require.True(t, found, "牌山中 %s 不足", tile)
	}

	// 王牌取池子末尾 14 张，其余按摸牌顺序倒序排在活牌末端
	dead := append([]mahjong.Tile(nil), pool[len(pool)-mahjong.DeadWallSize:]...)
	tiles := append([]mahjong.Tile(nil), pool[:len(pool)-mahjong.DeadWallSize]...)
	for i := len(seq) - 1; i >= 0; i-- {
		tiles = append(tiles, seq[i])
	}
	tiles = append(tiles, dead...)
	return func() (*mahjong.Wall, error) {
		return mahjong.WallFromTiles(append([]mahjong.Tile(nil), tiles...))
	}
}

// 1 家能碰 0 家第一巡打出的 5z
var ponHands = [mahjong.SeatCount]string{
	"123456789m1234p",
	"123456789p12s55z",
	"123456789s1234m",
	"5678m5678p5678s1z",
}

func testRules() config.Rules {
	rules := config.Default()
	rules.RedFives = false
	rules.Seed = 7
	return rules
}

func newEvaluator(t *testing.T) *shape.Evaluator {
	t.Helper()
	ev, err := shape.NewEvaluator()
	require.NoError(t, err)
	t.Cleanup(ev.Close)
	return ev
}

func newTestRoom(t *testing.T, opts ...RoomOption) *Room {
	t.Helper()
	eg, err := mahjong.NewRiichiMahjong4p(names, newEvaluator(t), testRules(),
		mahjong.WithWallFactory(scriptedWall(t, ponHands, "5z")))
	require.NoError(t, err)
	r := NewRoom(eg, opts...)
	t.Cleanup(r.Close)
	return r
}

func TestRoom_DoSerializesCallers(t *testing.T) {
	r := newTestRoom(t)
	ctx := context.Background()
	require.NoError(t, r.Do(ctx, func(eg *mahjong.RiichiMahjong4p) error { return eg.StartHand() }))

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.Do(ctx, func(eg *mahjong.RiichiMahjong4p) error {
				counter++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, counter)

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, mahjong.TurnStateAwaitingDraw, snap.State)
	assert.Equal(t, "东", snap.Seats[0].Name)
}

func TestRoom_DoReturnsEngineErrors(t *testing.T) {
	r := newTestRoom(t)
	err := r.Do(context.Background(), func(eg *mahjong.RiichiMahjong4p) error {
		_, _, err := eg.Draw()
		return err
	})
	assert.True(t, errors.Is(err, mahjong.ErrIllegalState))
}

func TestRoom_CallTimeoutPassesWindow(t *testing.T) {
	r := newTestRoom(t, WithCallTimeout(10*time.Millisecond))
	ctx := context.Background()
	require.NoError(t, r.Do(ctx, func(eg *mahjong.RiichiMahjong4p) error {
		if err := eg.StartHand(); err != nil {
			return err
		}
		drawn, _, err := eg.Draw()
		if err != nil {
			return err
		}
		return eg.Discard(0, drawn)
	}))

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, mahjong.TurnStateAwaitingCalls, snap.State)

	require.Eventually(t, func() bool {
		s, err := r.Snapshot(ctx)
		return err == nil && s.State == mahjong.TurnStateAwaitingDraw
	}, time.Second, 5*time.Millisecond)

	snap, err = r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Current)
	assert.Zero(t, snap.CallWindow)
	assert.Empty(t, snap.Seats[1].Melds)
}

func TestRoom_ClaimBeforeTimeout(t *testing.T) {
	r := newTestRoom(t, WithCallTimeout(50*time.Millisecond))
	ctx := context.Background()
	require.NoError(t, r.Do(ctx, func(eg *mahjong.RiichiMahjong4p) error {
		if err := eg.StartHand(); err != nil {
			return err
		}
		drawn, _, err := eg.Draw()
		if err != nil {
			return err
		}
		if err := eg.Discard(0, drawn); err != nil {
			return err
		}
		return eg.Claim(1, mahjong.ActionPon, mahjong.MustParseTiles("55z"))
	}))

	// 过期的计时器不影响之后的状态
	time.Sleep(80 * time.Millisecond)
	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, mahjong.TurnStateAwaitingDiscard, snap.State)
	assert.Equal(t, 1, snap.Current)
	assert.Len(t, snap.Seats[1].Melds, 1)
}

func TestRoom_ContextCancel(t *testing.T) {
	r := newTestRoom(t)
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = r.Do(context.Background(), func(eg *mahjong.RiichiMahjong4p) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := r.Do(ctx, func(eg *mahjong.RiichiMahjong4p) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}

func TestRoom_QueueFull(t *testing.T) {
	r := newTestRoom(t, WithQueueSize(1))
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = r.Do(context.Background(), func(eg *mahjong.RiichiMahjong4p) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	go func() {
		_ = r.Do(context.Background(), func(eg *mahjong.RiichiMahjong4p) error { return nil })
	}()
	require.Eventually(t, func() bool { return len(r.jobs) == 1 }, time.Second, time.Millisecond)

	err := r.Do(context.Background(), func(eg *mahjong.RiichiMahjong4p) error { return nil })
	assert.ErrorIs(t, err, ErrRoomBusy)
	close(release)
}

func TestRoom_RecoversPanic(t *testing.T) {
	r := newTestRoom(t)
	ctx := context.Background()
	err := r.Do(ctx, func(eg *mahjong.RiichiMahjong4p) error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	require.NoError(t, r.Do(ctx, func(eg *mahjong.RiichiMahjong4p) error { return eg.StartHand() }))
}

func TestRoom_CloseIsIdempotent(t *testing.T) {
	r := newTestRoom(t)
	r.Close()
	r.Close()

	err := r.Do(context.Background(), func(eg *mahjong.RiichiMahjong4p) error { return nil })
	assert.ErrorIs(t, err, ErrRoomClosed)
}

func TestRoomManager(t *testing.T) {
	rm := NewRoomManager(newEvaluator(t))
	t.Cleanup(rm.CloseAll)

	room, err := rm.CreateRoom(names, testRules())
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, 1, rm.Count())

	got, ok := rm.GetRoom(room.ID)
	require.True(t, ok)
	assert.Same(t, room, got)

	_, err = rm.CreateRoom([mahjong.SeatCount]string{"a", "a", "b", "c"}, testRules())
	assert.True(t, errors.Is(err, mahjong.ErrInvalidTable))

	require.NoError(t, rm.DeleteRoom(room.ID))
	assert.Error(t, rm.DeleteRoom(room.ID))
	assert.Zero(t, rm.Count())
	assert.ErrorIs(t, room.Do(context.Background(), func(eg *mahjong.RiichiMahjong4p) error { return nil }), ErrRoomClosed)
}
