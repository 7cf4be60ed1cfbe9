package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Orders accepted by the workflow
	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "market_orders_created_total",
		Help: "Total number of orders created",
	})

	// Status changes, labelled by the status an order moved into
	OrderStatusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "market_order_status_changes_total",
		Help: "Total number of order status updates by target status",
	}, []string{"status"})

	// Units returned to stock by cancellations
	StockRestored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "market_stock_restored_units_total",
		Help: "Total number of card units restored to stock by cancellations",
	})

	// Orders rejected for stock or availability reasons
	OrdersRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "market_orders_rejected_total",
		Help: "Total number of orders rejected for insufficient stock or inactive card",
	})

	PokemonCaught = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "market_pokemon_caught_total",
		Help: "Total number of daily catches recorded",
	})

	BadgesUnlocked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "market_badges_unlocked_total",
		Help: "Badges unlocked by badge id",
	}, []string{"badge"})

	CatalogCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "market_catalog_cache_lookups_total",
		Help: "Catalog cache lookups by result",
	}, []string{"result"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "market_http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			OrdersCreated,
			OrderStatusChanges,
			StockRestored,
			OrdersRejected,
			PokemonCaught,
			BadgesUnlocked,
			CatalogCacheLookups,
			HTTPRequestDuration,
		)
	})
}
