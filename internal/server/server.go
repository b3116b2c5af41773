// Package server exposes the deal-finding pipeline over HTTP: a small HTML
// front end, a JSON subscription API, and health/metrics endpoints.
package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/SudhakarGollapinni/DealFinder/internal/classify"
	"github.com/SudhakarGollapinni/DealFinder/internal/guard"
	"github.com/SudhakarGollapinni/DealFinder/internal/ledger"
	"github.com/SudhakarGollapinni/DealFinder/internal/notify"
	"github.com/SudhakarGollapinni/DealFinder/internal/product"
	"github.com/SudhakarGollapinni/DealFinder/internal/resolve"
	"github.com/SudhakarGollapinni/DealFinder/internal/search"
)

const searchMaxResults = 10

// Server wires the pipeline components behind the HTTP surface. All fields
// must be set before calling Handler.
type Server struct {
	Provider   search.Provider
	Classifier *classify.Classifier
	Resolver   *resolve.Resolver
	Guard      *guard.Guard
	Limiter    *guard.RateLimiter
	Store      *notify.Store
	Metrics    *Metrics

	AllowedOrigins []string
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.observe)

	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/deals", s.handleDeals).Methods(http.MethodPost)
	r.HandleFunc("/subscriptions", s.handleSubscribe).Methods(http.MethodPost)
	r.HandleFunc("/subscriptions", s.handleUnsubscribe).Methods(http.MethodDelete)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// observe logs every request and feeds the request counter.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		if s.Metrics != nil {
			s.Metrics.Requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		}
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

type pageData struct {
	Query    string
	Error    string
	Searched bool
	Products []product.Product
	Stats    *ledger.Ledger
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, pageData{})
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	query := r.FormValue("msg")
	clientID := clientID(r)

	if s.Limiter != nil && !s.Limiter.IsAllowed(clientID) {
		s.renderPage(w, http.StatusTooManyRequests, pageData{
			Query: query,
			Error: "Too many requests. Please wait a minute and try again.",
		})
		return
	}
	if err := s.Guard.CheckInput(r.Context(), query); err != nil {
		s.renderPage(w, http.StatusBadRequest, pageData{Query: query, Error: err.Error()})
		return
	}
	if !guard.IsDealQuery(query) {
		s.renderPage(w, http.StatusBadRequest, pageData{
			Query: query,
			Error: "I can only help with deals and prices. Try asking about a product you want to buy.",
		})
		return
	}
	query = guard.Sanitize(query)

	start := time.Now()
	led := ledger.New()
	if s.Metrics != nil {
		s.Metrics.PaidCalls.WithLabelValues("search").Inc()
	}
	hits, err := s.Provider.Search(r.Context(), query, search.Options{
		Depth:             search.DepthAdvanced,
		MaxResults:        searchMaxResults,
		IncludeRawContent: true,
	})
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("search failed")
		s.renderPage(w, http.StatusBadGateway, pageData{
			Query: query,
			Error: "Search is temporarily unavailable. Please try again shortly.",
		})
		return
	}

	hits = s.Classifier.Filter(r.Context(), hits, led)
	products := product.Finalize(s.Resolver.Resolve(r.Context(), query, hits, led))

	led.Log(log.Logger)
	if s.Metrics != nil {
		s.Metrics.PaidCalls.WithLabelValues("extract").Add(float64(led.ExtractCalls))
		s.Metrics.PaidCalls.WithLabelValues("llm").Add(float64(led.FilterCalls + led.ExtractionLLMCalls))
		s.Metrics.DealDuration.Observe(time.Since(start).Seconds())
		s.Metrics.ProductsFound.Observe(float64(len(products)))
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"query":    query,
			"products": products,
			"cost": map[string]any{
				"total":           led.Total(),
				"snippet_results": led.SnippetResults,
				"full_results":    led.FullResults,
			},
		})
		return
	}
	s.renderPage(w, http.StatusOK, pageData{
		Query:    query,
		Searched: true,
		Products: products,
		Stats:    led,
	})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var sub notify.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := s.Store.Add(sub)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, map[string]any{
			"created": false,
			"message": "subscription already exists",
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"created": true})
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductName string `json:"product_name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.ProductName) == "" {
		writeError(w, http.StatusBadRequest, "product_name is required")
		return
	}
	n, err := s.Store.Delete(req.ProductName, req.Email, req.Phone)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove subscription")
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "no matching subscription")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": n})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":   "dealfinder",
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("render page")
	}
}

// clientID keys rate limiting on the caller's IP.
func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
