package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ayden94/caro-kann-docs/internal/locale"
	"github.com/ayden94/caro-kann-docs/internal/logging"
	"github.com/ayden94/caro-kann-docs/internal/security"
)

// MiddlewareChain manages the HTTP middleware stack.
//
// Middlewares wrap each other in the order they were added: the first added
// is the outermost and sees the request first. The default stack, outer to
// inner, is:
//
//  1. request logging
//  2. security headers and origin checks
//  3. locale resolution behind the exclusion filter
//
// Apply does not modify the chain and is safe for concurrent use.
type MiddlewareChain struct {
	logger      logging.Logger
	security    *security.SecurityConfig
	resolver    *locale.Resolver
	middlewares []Middleware
}

// Middleware represents a single middleware function
type Middleware func(http.Handler) http.Handler

// MiddlewareDependencies contains all dependencies needed for middleware construction
type MiddlewareDependencies struct {
	Logger   logging.Logger
	Security *security.SecurityConfig
	Resolver *locale.Resolver
}

// NewMiddlewareChain creates the default middleware chain.
//
// Panics if the locale resolver is missing: serving documentation without it
// would expose unprefixed paths.
func NewMiddlewareChain(deps MiddlewareDependencies) *MiddlewareChain {
	if deps.Resolver == nil {
		panic("MiddlewareChain: resolver cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if deps.Security == nil {
		deps.Security = security.DefaultSecurityConfig()
	}

	chain := &MiddlewareChain{
		logger:      deps.Logger.WithComponent("http"),
		security:    deps.Security,
		resolver:    deps.Resolver,
		middlewares: make([]Middleware, 0, 4),
	}
	chain.buildDefaultStack()
	return chain
}

func (mc *MiddlewareChain) buildDefaultStack() {
	mc.AddMiddleware(RequestLogger(mc.logger))
	mc.AddMiddleware(security.SecurityMiddleware(mc.security))
	mc.AddMiddleware(mc.resolver.Handler)
}

// AddMiddleware appends a middleware inside the ones already present.
func (mc *MiddlewareChain) AddMiddleware(middleware Middleware) {
	mc.middlewares = append(mc.middlewares, middleware)
}

// Apply wraps handler with every middleware in the chain.
//
// With middlewares [A, B, C] and handler H the result is A(B(C(H))): a
// request flows A -> B -> C -> H and the response unwinds in reverse.
func (mc *MiddlewareChain) Apply(handler http.Handler) http.Handler {
	if handler == nil {
		panic("MiddlewareChain.Apply: handler cannot be nil")
	}

	wrapped := handler
	for i := len(mc.middlewares) - 1; i >= 0; i-- {
		middleware := mc.middlewares[i]
		if middleware == nil {
			panic(fmt.Sprintf("MiddlewareChain.Apply: middleware at index %d is nil", i))
		}
		wrapped = middleware(wrapped)
		if wrapped == nil {
			panic(fmt.Sprintf("MiddlewareChain.Apply: middleware at index %d returned nil handler", i))
		}
	}
	return wrapped
}

// Len returns the number of middlewares in the chain
func (mc *MiddlewareChain) Len() int {
	return len(mc.middlewares)
}

// statusRecorder captures the status code written by the next handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack hands the connection to the live reload websocket.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	conn, rw, err := http.NewResponseController(r.ResponseWriter).Hijack()
	if err == nil && r.status == 0 {
		r.status = http.StatusSwitchingProtocols
	}
	return conn, rw, err
}

// RequestLogger logs one line per request with its status and duration.
// Redirects carry their target so locale decisions can be traced.
func RequestLogger(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			fields := []interface{}{
				"method", r.Method,
				"path", logging.SanitizeForLog(r.URL.Path),
				"status", status,
				"bytes", rec.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if loc := rec.Header().Get("Location"); loc != "" && status >= 300 && status < 400 {
				fields = append(fields, "location", logging.SanitizeForLog(loc))
			}
			if status >= http.StatusInternalServerError {
				logger.Warn(r.Context(), nil, "request failed", fields...)
				return
			}
			logger.Debug(r.Context(), "request", fields...)
		})
	}
}
