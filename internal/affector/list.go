package affector

// DefaultCapacity bounds an affector list when the configuration does
// not say otherwise. Capacity is fixed at construction so GPU upload
// buffers stay statically sized.
const DefaultCapacity = 32

// arena is a fixed-capacity slot store. Add reuses the lowest free
// slot; removal leaves a hole rather than compacting, so records keep
// a stable slot until the entry is removed.
type arena[T any] struct {
	slots []*T
	count int
}

func newArena[T any](capacity int) arena[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return arena[T]{slots: make([]*T, capacity)}
}

func (a *arena[T]) capacity() int { return len(a.slots) }

func (a *arena[T]) add(item *T) (int, bool) {
	if item == nil || a.count >= len(a.slots) {
		return -1, false
	}
	for i, s := range a.slots {
		if s == nil {
			a.slots[i] = item
			a.count++
			return i, true
		}
	}
	return -1, false
}

func (a *arena[T]) remove(item *T) bool {
	for i, s := range a.slots {
		if s == item && s != nil {
			a.slots[i] = nil
			a.count--
			return true
		}
	}
	return false
}

func (a *arena[T]) removeAt(slot int) bool {
	if slot < 0 || slot >= len(a.slots) || a.slots[slot] == nil {
		return false
	}
	a.slots[slot] = nil
	a.count--
	return true
}

func (a *arena[T]) clear() {
	for i := range a.slots {
		a.slots[i] = nil
	}
	a.count = 0
}

func (a *arena[T]) get(slot int) *T {
	if slot < 0 || slot >= len(a.slots) {
		return nil
	}
	return a.slots[slot]
}
