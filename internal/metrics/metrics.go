package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mypcf"

var (
	MealsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meals_added_total",
		Help:      "Meals appended to a daily intake.",
	})

	MealsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meals_deleted_total",
		Help:      "Meals removed from a daily intake.",
	})

	DishesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dishes_dropped_total",
		Help:      "Dish requests dropped because the food could not be resolved.",
	})

	FoodsImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "foods_imported_total",
		Help:      "Food items created through bulk import, by source.",
	}, []string{"source"})
)
