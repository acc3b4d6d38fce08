package container

// Queue 先进先出队列
// 功能：保存待执行的宏动作计划，从队首依次取出
// 说明：非线程安全
type Queue[T any] struct {
	items []T
}

// NewQueue 创建队列，values按顺序入队
func NewQueue[T any](values ...T) *Queue[T] {
	q := &Queue[T]{items: make([]T, 0, len(values))}
	q.items = append(q.items, values...)
	return q
}

// Push 入队
func (q *Queue[T]) Push(values ...T) {
	q.items = append(q.items, values...)
}

// Peek 查看队首元素，队列为空时返回零值和false
func (q *Queue[T]) Peek() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0], true
}

// Pop 出队，队列为空时返回零值和false
func (q *Queue[T]) Pop() (T, bool) {
	v, ok := q.Peek()
	if !ok {
		return v, false
	}
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

func (q *Queue[T]) Len() int {
	return len(q.items)
}

func (q *Queue[T]) Empty() bool {
	return len(q.items) == 0
}

// Clear 清空队列
func (q *Queue[T]) Clear() {
	q.items = nil
}

// Items 按出队顺序返回剩余元素的副本
func (q *Queue[T]) Items() []T {
	return append([]T{}, q.items...)
}
