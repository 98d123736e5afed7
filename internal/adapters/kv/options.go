package kv

// Option applies a configuration option to a store.
type Option func(*settings)

type settings struct {
	quota int64
}

func newSettings(opts []Option) settings {
	s := settings{quota: DefaultQuotaBytes}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithQuota sets the maximum total size of stored values. Zero or less means
// unlimited.
func WithQuota(bytes int64) Option {
	return func(s *settings) {
		s.quota = bytes
	}
}
