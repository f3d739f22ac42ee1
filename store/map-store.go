package store

// Structs

// MapStore is the reference in-memory Store. It does not
// synchronize access, the owning replica does.
type MapStore[T any] struct {
	items map[string]T
}

// Functions

// NewMapStore returns an empty MapStore.
func NewMapStore[T any]() *MapStore[T] {

	return &MapStore[T]{
		items: make(map[string]T),
	}
}

// MapConstructor returns a Constructor of MapStores.
func MapConstructor[T any]() Constructor[T] {

	return func() Store[T] {
		return NewMapStore[T]()
	}
}

func (s *MapStore[T]) Get(key string) (T, bool) {
	item, found := s.items[key]
	return item, found
}

func (s *MapStore[T]) Has(key string) bool {
	_, found := s.items[key]
	return found
}

func (s *MapStore[T]) Keys() []string {

	keys := make([]string, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}

	return keys
}

func (s *MapStore[T]) Remove(key string) bool {

	_, found := s.items[key]
	if found {
		delete(s.items, key)
	}

	return found
}

func (s *MapStore[T]) Reset() {
	s.items = make(map[string]T)
}

func (s *MapStore[T]) Set(key string, item T) {
	s.items[key] = item
}

// Len returns the number of stored items.
func (s *MapStore[T]) Len() int {
	return len(s.items)
}
