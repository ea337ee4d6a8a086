package engines

type GameState int

const (
	GameWaiting    GameState = iota // 等待开局
	GameDealing                     // 配牌中，可能等待九种九牌的选择
	GameInProgress                  // 进行中
	GameFinished                    // 本局结束，等待下一局
	GameHalted                      // 点数校验失败，引擎停止
)

func (s GameState) String() string {
	switch s {
	case GameWaiting:
		return "waiting"
	case GameDealing:
		return "dealing"
	case GameInProgress:
		return "in_progress"
	case GameFinished:
		return "finished"
	case GameHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// Engine 一张桌子的对局引擎。引擎本身单线程、无锁，并发调用方需经由 Room 串行化
type Engine interface {
	// StartHand 开始新的一局(洗牌、配牌)
	StartHand() error

	// Phase 当前对局阶段
	Phase() GameState

	// Close 释放引擎内部资源，之后所有操作返回错误
	Close()
}
