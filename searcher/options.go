package searcher

import (
	"runtime"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/internal/resource"
)

// Options configures an IndexSearcher.
type Options struct {
	// Parallel scores leaves concurrently when the collector supports it.
	Parallel bool

	// Resources bounds concurrent leaf workers. If nil, a controller with
	// GOMAXPROCS worker slots is created.
	Resources *resource.Controller

	// Logger receives one event per search.
	Logger *lexgo.Logger

	// Metrics records one sample per search.
	Metrics lexgo.MetricsCollector

	// CollectorBuffer is the initial capacity of the hit queue shared by
	// TopDocs leaf collectors.
	CollectorBuffer int
}

// DefaultOptions are applied before any option functions.
var DefaultOptions = Options{
	Parallel:        false,
	Logger:          lexgo.NoopLogger(),
	Metrics:         lexgo.NoopMetricsCollector{},
	CollectorBuffer: 1024,
}

func newOptions(optFns []func(o *Options)) Options {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = lexgo.NoopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = lexgo.NoopMetricsCollector{}
	}
	if opts.Resources == nil {
		opts.Resources = resource.NewController(resource.Config{
			MaxWorkers: int64(runtime.GOMAXPROCS(0)),
		})
	}
	return opts
}
