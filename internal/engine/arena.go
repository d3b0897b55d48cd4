package engine

// arena stores objects by id and iterates them in insertion order.
type arena[T any] struct {
	order []string
	items map[string]T
}

func newArena[T any]() *arena[T] {
	return &arena[T]{items: make(map[string]T)}
}

func (a *arena[T]) get(id string) (T, bool) {
	v, ok := a.items[id]
	return v, ok
}

func (a *arena[T]) has(id string) bool {
	_, ok := a.items[id]
	return ok
}

func (a *arena[T]) put(id string, v T) {
	if _, ok := a.items[id]; !ok {
		a.order = append(a.order, id)
	}
	a.items[id] = v
}

func (a *arena[T]) remove(id string) (T, bool) {
	v, ok := a.items[id]
	if !ok {
		return v, false
	}
	delete(a.items, id)
	for i, o := range a.order {
		if o == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return v, true
}

func (a *arena[T]) len() int { return len(a.order) }

// each visits every item in insertion order.
func (a *arena[T]) each(fn func(id string, v T)) {
	for _, id := range a.order {
		fn(id, a.items[id])
	}
}

func (a *arena[T]) clear() {
	a.order = nil
	a.items = make(map[string]T)
}
