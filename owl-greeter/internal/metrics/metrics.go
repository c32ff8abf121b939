package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GreetingsTotal greetings returned, by resolved country ("default" when the fallback was used)
	GreetingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "owl_greeter_greetings_total",
		Help: "Number of greetings returned",
	}, []string{"country"})

	// GeoLookupsTotal geo lookups by source (static, postgres, cache) and result
	GeoLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "owl_greeter_geo_lookups_total",
		Help: "Number of IP geo lookups",
	}, []string{"source", "result"})
)
