package router

import (
	"log"
	"net/http"
	"time"

	"github.com/Yusufzhafir/clob-sim/internal/router/middleware"
	"github.com/Yusufzhafir/clob-sim/internal/usecase/quote"
)

type statusWriter struct {
	http.ResponseWriter
	status int
	n      int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.n += n
	return n, err
}

func logging(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(sw, r)
			logger.Printf("%s %s %d %dB %s", r.Method, r.URL.Path, sw.status, sw.n, time.Since(start))
		})
	}
}

// Cors echoes the caller's origin so browser dashboards can call the
// preview API, and answers preflight requests before they reach the mux.
func Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")

			reqHdrs := r.Header.Get("Access-Control-Request-Headers")
			if reqHdrs == "" {
				reqHdrs = "Content-Type, Authorization"
			}
			h.Set("Access-Control-Allow-Headers", reqHdrs)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// POST /api/v1/quote/expected-output, POST /api/v1/quote/expected-input,
// GET /api/v1/chains/{chainId}/depth?base=0x..&quote=0x..
func bindQuote(serverRouter *http.ServeMux, usecase quote.QuoteUseCase, tokenMaker *middleware.JWTMaker, logger *log.Logger) {
	authmiddleware := middleware.AuthMiddleware(tokenMaker)
	withLog := logging(logger)
	quoteRouter := NewQuoteRouter(usecase)
	serverRouter.Handle("POST /api/v1/quote/expected-output", withLog(authmiddleware(http.HandlerFunc(quoteRouter.ExpectedOutput))))
	serverRouter.Handle("POST /api/v1/quote/expected-input", withLog(authmiddleware(http.HandlerFunc(quoteRouter.ExpectedInput))))
	serverRouter.Handle("GET /api/v1/chains/{chainId}/depth", withLog(authmiddleware(http.HandlerFunc(quoteRouter.BookDepth))))
}

type BindRouterOpts struct {
	ServerRouter *http.ServeMux
	QuoteUseCase quote.QuoteUseCase
	TokenMaker   *middleware.JWTMaker
	Logger       *log.Logger
}

func BindRouter(opts BindRouterOpts) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	bindQuote(opts.ServerRouter, opts.QuoteUseCase, opts.TokenMaker, logger)

	//healthcheck
	opts.ServerRouter.Handle("GET /healthz", logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": 200,
			"health": "healthy",
		})
	})))
}
