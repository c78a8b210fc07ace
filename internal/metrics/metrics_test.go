package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/questions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/questions/{id}", "404"))
	for _, id := range []string{"a", "b"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/questions/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/questions/{id}", "404"))

	assert.Equal(t, 2.0, after-before)
}

func TestObserveCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(cacheLookups.WithLabelValues(CacheHit))
	ObserveCacheLookup(CacheHit)
	assert.Equal(t, 1.0, testutil.ToFloat64(cacheLookups.WithLabelValues(CacheHit))-before)
}

func TestHandlerExposesNamespace(t *testing.T) {
	ObserveCacheLookup(CacheMiss)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "questionbank_answered_cache_lookups_total"))
}

func TestSetDependencyUp(t *testing.T) {
	SetDependencyUp("mongo", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(dependencyUp.WithLabelValues("mongo")))

	SetDependencyUp("mongo", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(dependencyUp.WithLabelValues("mongo")))
}
