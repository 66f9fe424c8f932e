package util

import "cmp"

//*******************************************
// priority queue
//*******************************************

type pq_item[T any, P cmp.Ordered] struct {
	value    T
	priority P
}

// Binary-heap priority queue ordered by ascending priority.
type PriorityQueue[T any, P cmp.Ordered] struct {
	items []pq_item[T, P]
}

func NewPriorityQueue[T any, P cmp.Ordered](cap int) PriorityQueue[T, P] {
	return PriorityQueue[T, P]{
		items: make([]pq_item[T, P], 0, cap),
	}
}

func (self *PriorityQueue[T, P]) Length() int {
	return len(self.items)
}

func (self *PriorityQueue[T, P]) Enqueue(value T, priority P) {
	self.items = append(self.items, pq_item[T, P]{value: value, priority: priority})
	i := len(self.items) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if self.items[parent].priority <= self.items[i].priority {
			break
		}
		self.items[parent], self.items[i] = self.items[i], self.items[parent]
		i = parent
	}
}

func (self *PriorityQueue[T, P]) Dequeue() (T, bool) {
	if len(self.items) == 0 {
		var t T
		return t, false
	}
	root := self.items[0]
	last := len(self.items) - 1
	self.items[0] = self.items[last]
	self.items = self.items[:last]
	i := 0
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i
		if left < len(self.items) && self.items[left].priority < self.items[smallest].priority {
			smallest = left
		}
		if right < len(self.items) && self.items[right].priority < self.items[smallest].priority {
			smallest = right
		}
		if smallest == i {
			break
		}
		self.items[i], self.items[smallest] = self.items[smallest], self.items[i]
		i = smallest
	}
	return root.value, true
}
