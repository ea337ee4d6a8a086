package game

import (
	"fmt"
	"sync"

	"github.com/Senmiao-vhp/majsoul/common/config"
	"github.com/Senmiao-vhp/majsoul/common/log"
	"github.com/Senmiao-vhp/majsoul/runtime/game/engines/mahjong"
)

// RoomManager 管理本进程内的所有房间，所有房间共用一个和牌判定器
type RoomManager struct {
	rooms     map[string]*Room
	evaluator mahjong.HandEvaluator
	mu        sync.RWMutex
}

func NewRoomManager(evaluator mahjong.HandEvaluator) *RoomManager {
	return &RoomManager{
		rooms:     make(map[string]*Room),
		evaluator: evaluator,
	}
}

// CreateRoom 按规则集建桌；规则中的 callTimeout 作为房间的鸣牌超时
func (rm *RoomManager) CreateRoom(names [mahjong.SeatCount]string, rules config.Rules, opts ...mahjong.Option) (*Room, error) {
	engine, err := mahjong.NewRiichiMahjong4p(names, rm.evaluator, rules, opts...)
	if err != nil {
		return nil, fmt.Errorf("创建引擎失败: %w", err)
	}
	room := NewRoom(engine, WithCallTimeout(rules.CallTimeout))

	rm.mu.Lock()
	rm.rooms[room.ID] = room
	rm.mu.Unlock()

	log.Info("RoomManager 创建房间 %s, 玩家: %v", room.ID, names)
	return room, nil
}

func (rm *RoomManager) GetRoom(roomID string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, exists := rm.rooms[roomID]
	return room, exists
}

// DeleteRoom 删除并关闭房间
func (rm *RoomManager) DeleteRoom(roomID string) error {
	rm.mu.Lock()
	room, exists := rm.rooms[roomID]
	if !exists {
		rm.mu.Unlock()
		return fmt.Errorf("房间 %s 不存在", roomID)
	}
	delete(rm.rooms, roomID)
	rm.mu.Unlock()

	room.Close()
	log.Info("RoomManager 删除房间 %s", roomID)
	return nil
}

func (rm *RoomManager) Count() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// CloseAll 关闭全部房间
func (rm *RoomManager) CloseAll() {
	rm.mu.Lock()
	rooms := rm.rooms
	rm.rooms = make(map[string]*Room)
	rm.mu.Unlock()

	for _, room := range rooms {
		room.Close()
	}
}
