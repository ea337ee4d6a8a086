package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Senmiao-vhp/majsoul/common/log"
	"github.com/Senmiao-vhp/majsoul/runtime/game/engines/mahjong"
	"github.com/google/uuid"
)

/*
	Room 把外部调用串行化到一个引擎上：
		1.所有对引擎的操作都通过 Do 投递到 actorLoop，在同一个 goroutine 里执行
		2.鸣牌窗口打开时按 callTimeout 设置计时器，超时后投递 ExpireCallWindow(窗口 id)
		  计时器到期时窗口可能已经关闭，这种情况引擎返回 STALE_CALL_WINDOW，直接忽略
		3.Close 之后投递返回 ErrRoomClosed，引擎随之关闭
*/

const DefaultQueueSize = 64

var (
	ErrRoomClosed = errors.New("房间已关闭")
	ErrRoomBusy   = errors.New("房间任务队列已满")
)

type job struct {
	fn    func(eg *mahjong.RiichiMahjong4p) error
	reply chan error
}

type RoomOption func(*Room)

// WithCallTimeout 鸣牌窗口超时，<=0 表示不超时
func WithCallTimeout(d time.Duration) RoomOption {
	return func(r *Room) { r.callTimeout = d }
}

func WithQueueSize(n int) RoomOption {
	return func(r *Room) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// Room 一张桌子
type Room struct {
	ID        string
	CreatedAt time.Time

	engine      *mahjong.RiichiMahjong4p
	callTimeout time.Duration
	queueSize   int

	jobs chan job
	done chan struct{}
	exit chan struct{}

	mu     sync.Mutex
	closed bool
	timer  *time.Timer
}

// NewRoom 创建房间并启动 actor；引擎此后只能通过 Do 访问
func NewRoom(engine *mahjong.RiichiMahjong4p, opts ...RoomOption) *Room {
	r := &Room{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		engine:    engine,
		queueSize: DefaultQueueSize,
		done:      make(chan struct{}),
		exit:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.jobs = make(chan job, r.queueSize)
	engine.Subscribe(mahjong.SinkFunc(r.onEvent))

	go r.actorLoop()
	log.Info("Room[%s] 创建, callTimeout=%s", r.ID, r.callTimeout)
	return r
}

func (r *Room) actorLoop() {
	defer close(r.exit)
	for {
		select {
		case <-r.done:
			return
		case j := <-r.jobs:
			r.run(j)
		}
	}
}

func (r *Room) run(j job) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("Room[%s] 任务 panic: %v", r.ID, p)
			if j.reply != nil {
				j.reply <- fmt.Errorf("房间任务 panic: %v", p)
			}
		}
	}()
	err := j.fn(r.engine)
	if j.reply != nil {
		j.reply <- err
	}
}

// post 非阻塞投递
func (r *Room) post(j job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomClosed
	}
	select {
	case r.jobs <- j:
		return nil
	default:
		log.Warn("Room[%s] 任务队列已满, size=%d", r.ID, r.queueSize)
		return ErrRoomBusy
	}
}

// Do 在 actor goroutine 上执行 fn 并等待结果
func (r *Room) Do(ctx context.Context, fn func(eg *mahjong.RiichiMahjong4p) error) error {
	reply := make(chan error, 1)
	if err := r.post(job{fn: fn, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-r.exit:
		return ErrRoomClosed
	}
}

// Snapshot 读取公开状态
func (r *Room) Snapshot(ctx context.Context) (mahjong.Snapshot, error) {
	var s mahjong.Snapshot
	err := r.Do(ctx, func(eg *mahjong.RiichiMahjong4p) error {
		s = eg.Snapshot()
		return nil
	})
	return s, err
}

// onEvent 在 actor goroutine 上被引擎回调
func (r *Room) onEvent(e mahjong.Event) {
	if w, ok := e.(mahjong.CallWindowOpened); ok {
		r.armCallTimer(w.ID)
	}
}

func (r *Room) armCallTimer(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.callTimeout <= 0 {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.callTimeout, func() {
		if err := r.post(job{fn: func(eg *mahjong.RiichiMahjong4p) error {
			return r.expire(eg, id)
		}}); err != nil {
			log.Debug("Room[%s] 鸣牌超时投递失败, window=%d, err=%v", r.ID, id, err)
		}
	})
}

func (r *Room) expire(eg *mahjong.RiichiMahjong4p, id uint64) error {
	err := eg.ExpireCallWindow(id)
	if errors.Is(err, mahjong.ErrStaleCallWindow) {
		return nil
	}
	if err != nil {
		log.Warn("Room[%s] 鸣牌超时处理失败, window=%d, err=%v", r.ID, id, err)
	}
	return err
}

// Close 停止 actor 并关闭引擎，可重复调用
func (r *Room) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()

	close(r.done)
	<-r.exit
	r.engine.Close()
	log.Info("Room[%s] 关闭", r.ID)
}
