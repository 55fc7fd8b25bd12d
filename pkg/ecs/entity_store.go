package ecs

import (
	"sort"

	"github.com/decker502/mouserocket/pkg/components"
	"github.com/decker502/mouserocket/pkg/types"
)

// EntityStore 管理一个回合内所有老鼠和猫
//
// ID 从 1 开始单调递增，同一回合内从不复用。
// 外部（例如 UI 高亮选中的实体）持有的旧 ID 可以通过查找失败判断实体已被移除，
// 不会误命中一个新实体。
type EntityStore struct {
	nextID   uint64
	entities map[types.EntityID]*components.Entity
}

// NewEntityStore 创建一个新的 EntityStore 实例
func NewEntityStore() *EntityStore {
	return &EntityStore{
		nextID:   1, // ID从1开始,0保留为无效ID
		entities: make(map[types.EntityID]*components.Entity),
	}
}

// Insert 创建新实体并返回其指针
func (s *EntityStore) Insert(kind types.EntityKind, at types.Coord, facing types.Direction, goalID int) *components.Entity {
	id := types.EntityID(s.nextID)
	s.nextID++

	e := &components.Entity{
		ID:     id,
		Kind:   kind,
		Coord:  at,
		Facing: facing,
		Alive:  true,
		GoalID: goalID,
	}
	s.entities[id] = e
	return e
}

// Remove 移除实体，返回实体是否存在
func (s *EntityStore) Remove(id types.EntityID) bool {
	if _, ok := s.entities[id]; !ok {
		return false
	}
	delete(s.entities, id)
	return true
}

// Get 获取实体的可修改指针
func (s *EntityStore) Get(id types.EntityID) (*components.Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Len 返回实体总数
func (s *EntityStore) Len() int {
	return len(s.entities)
}

// Count 返回指定种类的实体数量
func (s *EntityStore) Count(kind types.EntityKind) int {
	n := 0
	for _, e := range s.entities {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// IDs 返回按升序排列的全部实体ID
func (s *EntityStore) IDs() []types.EntityID {
	ids := make([]types.EntityID, 0, len(s.entities))
	for id := range s.entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Each 按ID升序遍历实体
// 回调中不要增删实体，需要删除时先收集ID再调用 Remove
func (s *EntityStore) Each(fn func(e *components.Entity)) {
	for _, id := range s.IDs() {
		fn(s.entities[id])
	}
}

// Snapshot 返回按ID升序排列的实体副本
// 副本与存储不共享内存，可以安全地跨 tick 持有
func (s *EntityStore) Snapshot() []components.Entity {
	result := make([]components.Entity, 0, len(s.entities))
	s.Each(func(e *components.Entity) {
		result = append(result, *e)
	})
	return result
}

// NextID 返回下一个将被分配的ID（调试用）
func (s *EntityStore) NextID() types.EntityID {
	return types.EntityID(s.nextID)
}
