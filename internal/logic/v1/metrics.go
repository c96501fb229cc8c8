package v1

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

var (
	authAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_auth_attempts_total",
		Help: "Signup and signin attempts by outcome.",
	}, []string{"operation", "result"})

	recipeWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_writes_total",
		Help: "Recipe create, update and delete operations by outcome.",
	}, []string{"operation", "result"})
)

func observeAuth(operation string, err error) {
	authAttemptsTotal.WithLabelValues(operation, result(err)).Inc()
}

func observeRecipeWrite(operation string, err error) {
	recipeWritesTotal.WithLabelValues(operation, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return resultFailure
	}
	return resultSuccess
}
