package keyboard

// keySet is a set of key identifiers that remembers insertion order.
type keySet struct {
	order []string
	index map[string]struct{}
}

func newKeySet() keySet {
	return keySet{index: make(map[string]struct{})}
}

func (s *keySet) has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// add inserts key and reports whether the set changed.
func (s *keySet) add(key string) bool {
	if s.has(key) {
		return false
	}
	s.index[key] = struct{}{}
	s.order = append(s.order, key)
	return true
}

// remove deletes key and reports whether the set changed.
func (s *keySet) remove(key string) bool {
	if !s.has(key) {
		return false
	}
	delete(s.index, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// copyFrom overwrites s with the contents of src.
func (s *keySet) copyFrom(src *keySet) {
	s.order = append(s.order[:0], src.order...)
	clear(s.index)
	for _, k := range src.order {
		s.index[k] = struct{}{}
	}
}

func (s *keySet) keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
