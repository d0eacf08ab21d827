package streamline

import (
	"errors"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics contains Prometheus metrics for request dispatch.
type metrics struct {
	requests         *prometheus.CounterVec
	dispatchDuration prometheus.Histogram
	lockWait         prometheus.Histogram
	cacheEntries     *cacheEntriesCollector
}

// cacheEntriesCollector reports the number of cached paths summed over the
// distinct caches of every router registered on the same registerer.
type cacheEntriesCollector struct {
	desc *prometheus.Desc

	mu     sync.Mutex
	caches []*Cache
}

func newCacheEntriesCollector() *cacheEntriesCollector {
	return &cacheEntriesCollector{
		desc: prometheus.NewDesc(
			prometheus.BuildFQName("streamline", "router", "cache_entries"),
			"Current number of paths in the response caches",
			nil, nil,
		),
	}
}

func (c *cacheEntriesCollector) add(cache *Cache) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, known := range c.caches {
		if known == cache {
			return
		}
	}
	c.caches = append(c.caches, cache)
}

// Describe implements prometheus.Collector.
func (c *cacheEntriesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *cacheEntriesCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	total := 0
	for _, cache := range c.caches {
		total += cache.Len()
	}
	c.mu.Unlock()

	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(total))
}

func newMetrics(reg prometheus.Registerer, cache *Cache) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamline",
				Subsystem: "router",
				Name:      "requests_total",
				Help:      "Total number of dispatched requests by response status",
			},
			[]string{"status"},
		),
		dispatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "streamline",
				Subsystem: "router",
				Name:      "dispatch_duration_seconds",
				Help:      "Time spent dispatching a request, lock wait included",
				Buckets:   prometheus.DefBuckets,
			},
		),
		lockWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "streamline",
				Subsystem: "router",
				Name:      "lock_wait_seconds",
				Help:      "Time spent waiting for the dispatch lock",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	m.requests = register(reg, m.requests)
	m.dispatchDuration = register(reg, m.dispatchDuration)
	m.lockWait = register(reg, m.lockWait)
	m.cacheEntries = register(reg, newCacheEntriesCollector())
	m.cacheEntries.add(cache)

	return m
}

// register tolerates routers sharing a registerer: the first registration
// wins and later routers report through the already registered collector.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
		return c
	}

	panic(err)
}

func (m *metrics) observe(status int, seconds float64) {
	m.requests.WithLabelValues(strconv.Itoa(status)).Inc()
	m.dispatchDuration.Observe(seconds)
}
