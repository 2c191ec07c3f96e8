package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity preallocates room for n participants and results.
func WithCapacity(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithObserver registers a callback invoked after every mutation with the
// resulting sizes. The service uses it to keep gauges current.
func WithObserver(fn func(active bool, participants, results int)) Option {
	return func(s *MemoryStore) {
		s.observe = fn
	}
}
