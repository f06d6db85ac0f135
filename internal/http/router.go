package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"recruitflow/internal/http/handlers"
	httpmw "recruitflow/internal/http/middleware"
	"recruitflow/internal/metrics"
)

type RouterDependencies struct {
	IntakeHandler      *handlers.IntakeHandler
	ApplicationHandler *handlers.ApplicationHandler
	RecruiterHandler   *handlers.RecruiterHandler
	Metrics            *metrics.Collector
	MetricsGatherer    prometheus.Gatherer
	Logger             *zap.Logger
	RequestTimeout     time.Duration
}

type Router struct {
	deps           RouterDependencies
	metricsHandler http.Handler
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	var metricsHandler http.Handler = http.NotFoundHandler()
	if deps.MetricsGatherer != nil {
		metricsHandler = promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{})
	}
	return &Router{deps: deps, metricsHandler: metricsHandler}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(r.deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(r.deps.Logger),
		httpmw.Metrics(r.deps.Metrics),
		httpmw.Timeout(r.deps.RequestTimeout),
	)
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.metricsHandler.ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/intake":
			r.deps.IntakeHandler.Start(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/intake/") && strings.HasSuffix(path, "/steps"):
			r.deps.IntakeHandler.SubmitStep(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/intake/") && strings.HasSuffix(path, "/finalize"):
			r.deps.IntakeHandler.Finalize(w, req)
			return
		case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/status"):
			r.deps.ApplicationHandler.UpdateStatus(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/history"):
			r.deps.ApplicationHandler.History(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/"):
			r.deps.ApplicationHandler.Get(w, req)
			return
		case req.Method == http.MethodPut && strings.HasPrefix(path, "/recruiters/"):
			r.deps.RecruiterHandler.Upsert(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/recruiters/"):
			r.deps.RecruiterHandler.Resolve(w, req)
			return
		}

		http.NotFound(w, req)
	})
}
