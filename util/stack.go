package util

// Stack is a LIFO of T. The zero value is an empty stack.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes the top element. An empty stack yields the zero value.
func (s *Stack[T]) Pop() T {
	var top T
	if n := len(s.items); n > 0 {
		top, s.items = s.items[n-1], s.items[:n-1]
	}
	return top
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}
