package repository

// Option applies a configuration option to the BoardStore.
type Option func(*BoardStore)

// WithMaxLimit caps the number of entries TopN returns. Larger requests are
// clamped rather than rejected.
func WithMaxLimit(n int) Option {
	return func(s *BoardStore) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}
