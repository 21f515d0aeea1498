package entity

import "sort"

// ModeratorSet неизменяемый набор модераторов.
type ModeratorSet struct {
	ids map[int64]struct{}
}

// NewModeratorSet создаёт набор модераторов. Дубликаты схлопываются.
func NewModeratorSet(ids ...int64) ModeratorSet {
	set := ModeratorSet{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		set.ids[id] = struct{}{}
	}
	return set
}

// Contains проверяет, является ли пользователь модератором.
func (m ModeratorSet) Contains(id int64) bool {
	_, ok := m.ids[id]
	return ok
}

// IDs возвращает модераторов по возрастанию ID.
func (m ModeratorSet) IDs() []int64 {
	ids := make([]int64, 0, len(m.ids))
	for id := range m.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len количество модераторов.
func (m ModeratorSet) Len() int {
	return len(m.ids)
}
