package util

//*******************************************
// generic containers
//*******************************************

type List[T any] []T

func NewList[T any](cap int) List[T] {
	return make([]T, 0, cap)
}

func (self *List[T]) Add(value T) {
	*self = append(*self, value)
}

func (self *List[T]) Length() int {
	return len(*self)
}

func (self *List[T]) Contains(value T, equal func(a, b T) bool) bool {
	for _, item := range *self {
		if equal(item, value) {
			return true
		}
	}
	return false
}

type Dict[K comparable, V any] map[K]V

func NewDict[K comparable, V any](cap int) Dict[K, V] {
	return make(map[K]V, cap)
}

func (self Dict[K, V]) Set(key K, value V) {
	self[key] = value
}

func (self Dict[K, V]) Get(key K) V {
	return self[key]
}

func (self Dict[K, V]) ContainsKey(key K) bool {
	_, ok := self[key]
	return ok
}

func (self Dict[K, V]) Delete(key K) {
	delete(self, key)
}

//*******************************************
// optional
//*******************************************

type Optional[T any] struct {
	Value    T
	hasvalue bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, hasvalue: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (self Optional[T]) HasValue() bool {
	return self.hasvalue
}
