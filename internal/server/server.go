package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	oapimiddleware "github.com/oapi-codegen/nethttp-middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/catalog-stream/api"
	"github.com/dgnsrekt/catalog-stream/internal/api/generated"
	"github.com/dgnsrekt/catalog-stream/internal/broadcast"
	"github.com/dgnsrekt/catalog-stream/internal/catalog"
	"github.com/dgnsrekt/catalog-stream/internal/config"
)

const defaultPingInterval = 54 * time.Second

// Server holds the HTTP handlers for the catalog API and its record stream.
type Server struct {
	catalog      *catalog.Service
	broadcaster  *broadcast.Broadcaster
	limiter      *rate.Limiter
	wsEnabled    bool
	pingInterval time.Duration
	logger       *zap.Logger
}

func NewServer(svc *catalog.Service, b *broadcast.Broadcaster, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		catalog:      svc,
		broadcaster:  b,
		wsEnabled:    cfg.Stream.WSEnabled,
		pingInterval: cfg.Stream.PingInterval(),
		logger:       logger,
	}
	if s.pingInterval <= 0 {
		s.pingInterval = defaultPingInterval
	}
	if cfg.Server.WriteRatePerSecond > 0 {
		burst := cfg.Server.WriteBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Server.WriteRatePerSecond), burst)
	}
	return s
}

func NewRouter(server *Server, logger *zap.Logger) (http.Handler, error) {
	// Load OpenAPI spec for validation
	swagger, err := generated.GetSwagger()
	if err != nil {
		return nil, err
	}
	swagger.Servers = nil // Allow any host

	gzip, err := gzhttp.NewWrapper(gzhttp.MinSize(1024))
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(zapLoggerMiddleware(logger))

	// Non-validated routes
	r.Get("/healthz", server.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", openapiHandler)
	r.Get("/docs", swaggerUIHandler)

	// Streams stay uncompressed so every line reaches the client on flush.
	r.Get("/v1/records/stream", server.streamRecords)
	r.Get("/v1/records/stream/sse", server.streamRecordsSSE)
	if server.wsEnabled {
		r.Get("/v1/records/stream/ws", server.streamRecordsWS)
	}

	// API routes with OpenAPI validation
	r.Group(func(apiRouter chi.Router) {
		apiRouter.Use(limitBody)
		apiRouter.Use(oapimiddleware.OapiRequestValidatorWithOptions(swagger, &oapimiddleware.Options{
			ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
				writeError(w, statusCode, message)
			},
		}))
		apiRouter.Use(func(next http.Handler) http.Handler { return gzip(next) })

		strictHandler := generated.NewStrictHandlerWithOptions(server,
			[]generated.StrictMiddlewareFunc{server.rateLimit},
			generated.StrictHTTPServerOptions{
				RequestErrorHandlerFunc:  requestError,
				ResponseErrorHandlerFunc: server.responseError,
			},
		)
		generated.HandlerWithOptions(strictHandler, generated.ChiServerOptions{
			BaseRouter:       apiRouter,
			ErrorHandlerFunc: requestError,
		})
	})

	return r, nil
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func zapLoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		broadcast.Stats
	}{Status: "ok", Stats: s.broadcaster.Stats()})
}

func openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(api.OpenAPISpec)
}

func swaggerUIHandler(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Catalog Stream API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.10.3/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.10.3/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: "/openapi.yaml",
                dom_id: '#swagger-ui',
            });
        };
    </script>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(html))
}
