package hoover

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	index      string
	siteURL    string
	cryptonyms map[string]string
	extractor  Extractor

	maxResults       int
	progressInterval time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance with the query engine.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithIndex sets the document index name. Defaults to "hoover-docs".
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithSearchSite sets the base URL of the dig deeper link. Required.
func WithSearchSite(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.siteURL = url
	})
}

// WithCryptonyms sets the code name dictionary.
func WithCryptonyms(entries map[string]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cryptonyms = entries
	})
}

// WithExtractor enables NLP term extraction. Questions are searched on their
// own words when no extractor is set.
func WithExtractor(e Extractor) Option {
	return optionFunc(func(c *clientConfig) {
		c.extractor = e
	})
}

// WithMaxResults sets the number of hits requested per search. Default: 10.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithProgressInterval sets how often a typing message is streamed while a
// search is running. Default: 2s.
func WithProgressInterval(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.progressInterval = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
