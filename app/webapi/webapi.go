// Package webapi provides the http api of a link checker, used by the chat dispatcher.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/tg-linkcheck/app/moderator"
	"github.com/umputun/tg-linkcheck/app/storage"
)

//go:generate moq --out mocks/moderator.go --pkg mocks --with-resets --skip-ensure . Moderator

// Server is a web API server.
type Server struct {
	Config
}

// Config defines server parameters
type Config struct {
	Version    string    // version to show in /ping
	ListenAddr string    // listen address
	Moderator  Moderator // link checks and reviews
	AuthPasswd string    // basic auth password for user "tg-linkcheck", empty disables auth
	Rate       float64   // max requests per second from a single ip, 0 disables the limit
}

// Moderator checks links and handles reviews
type Moderator interface {
	Check(ctx context.Context, raw string) (moderator.Verdict, error)
	Report(ctx context.Context, raw string, seen storage.Sighting) (storage.EnqueueResult, error)
	NextForReview(ctx context.Context) (*storage.QueueItem, error)
	SendForReview(ctx context.Context, chatID int64) (*storage.QueueItem, error)
	Resolve(ctx context.Context, r moderator.Resolution) (storage.UpsertResult, error)
	Remove(ctx context.Context, raw string) (*storage.EntryInfo, error)
	QueueSize(ctx context.Context) (int, error)
}

// NewServer creates a new web API server.
func NewServer(config Config) *Server {
	return &Server{Config: config}
}

// Run starts server and accepts requests until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for webapi server")
	} else {
		log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
	}

	srv := &http.Server{Addr: s.ListenAddr, Handler: s.routes(), ReadTimeout: 5 * time.Second, WriteTimeout: 30 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()), rest.Throttle(1000))
	router.Use(rest.AppInfo("tg-linkcheck", "umputun", s.Version), rest.Ping)
	if s.Rate > 0 {
		lmt := tollbooth.NewLimiter(s.Rate, nil)
		lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
		router.Use(func(next http.Handler) http.Handler { return tollbooth.LimitHandler(lmt, next) })
	}
	router.Use(rest.SizeLimit(64 * 1024))

	router.Group().Route(func(api *routegroup.Bundle) {
		api.Use(s.authMiddleware(rest.BasicAuthWithUserPasswd("tg-linkcheck", s.AuthPasswd)))
		api.HandleFunc("POST /check", s.checkHandler)   // classify a link
		api.HandleFunc("POST /report", s.reportHandler) // send a link seen in a chat to review
		api.HandleFunc("DELETE /url", s.removeHandler)  // remove classification of a link

		api.Mount("/review").Route(func(r *routegroup.Bundle) {
			r.HandleFunc("GET /next", s.nextHandler)        // next link to review
			r.HandleFunc("POST /send", s.sendHandler)       // show next link to a reviewer chat
			r.HandleFunc("POST /resolve", s.resolveHandler) // apply review decision
			r.HandleFunc("GET /count", s.countHandler)      // size of review queue
		})
	})
	return router
}

// checkHandler handles POST /check request, returns verdict for the url from the request body.
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	req := struct {
		URL string `json:"url"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	verdict, err := s.Moderator.Check(r.Context(), req.URL)
	if err != nil {
		renderError(w, errStatus(err), "can't check url", err)
		return
	}
	rest.RenderJSON(w, verdict)
}

// reportHandler handles POST /report request. Message identity is optional,
// messages with links decided as spam are deleted.
func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	req := struct {
		URL        string `json:"url"`
		ChatID     int64  `json:"chat_id"`
		MessageID  int    `json:"message_id"`
		SenderName string `json:"sender_name"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.Moderator.Report(r.Context(), req.URL,
		storage.Sighting{ChatID: req.ChatID, MessageID: req.MessageID, SenderName: req.SenderName})
	if err != nil {
		renderError(w, errStatus(err), "can't report url", err)
		return
	}
	resp := rest.JSON{"result": res.Kind.String()}
	if res.ID != 0 {
		resp["id"] = res.ID
	}
	if res.Entry != nil {
		resp["entry"] = res.Entry
	}
	rest.RenderJSON(w, resp)
}

// nextHandler handles GET /review/next request, item is null if the queue is empty.
func (s *Server) nextHandler(w http.ResponseWriter, r *http.Request) {
	item, err := s.Moderator.NextForReview(r.Context())
	if err != nil {
		renderError(w, http.StatusInternalServerError, "can't get next url for review", err)
		return
	}
	rest.RenderJSON(w, rest.JSON{"item": item})
}

// sendHandler handles POST /review/send request, posts review prompt to the chat of reviewer.
func (s *Server) sendHandler(w http.ResponseWriter, r *http.Request) {
	req := struct {
		ChatID int64 `json:"chat_id"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	if req.ChatID == 0 {
		renderError(w, http.StatusBadRequest, "chat_id is required", nil)
		return
	}
	item, err := s.Moderator.SendForReview(r.Context(), req.ChatID)
	if err != nil {
		renderError(w, http.StatusInternalServerError, "can't send url for review", err)
		return
	}
	rest.RenderJSON(w, rest.JSON{"item": item})
}

// resolveHandler handles POST /review/resolve request. Designation can be given as a review command, i.e. /mark_spam.
func (s *Server) resolveHandler(w http.ResponseWriter, r *http.Request) {
	req := struct {
		URL         string `json:"url"`
		OriginalURL string `json:"original_url"`
		Designation string `json:"designation"`
		Reviewer    string `json:"reviewer"`
	}{}
	if !decode(w, r, &req) {
		return
	}
	d, err := storage.ParseDesignation(req.Designation)
	if err != nil {
		renderError(w, http.StatusBadRequest, "invalid designation", err)
		return
	}
	if strings.TrimSpace(req.Reviewer) == "" {
		renderError(w, http.StatusBadRequest, "reviewer is required", nil)
		return
	}

	res, err := s.Moderator.Resolve(r.Context(), moderator.Resolution{URL: req.URL, OriginalURL: req.OriginalURL,
		Designation: d, Reviewer: req.Reviewer})
	if err != nil {
		renderError(w, errStatus(err), "can't resolve url", err)
		return
	}
	resp := rest.JSON{"result": res.Kind.String(), "id": res.ID}
	if res.Old != nil {
		resp["old"] = res.Old
	}
	rest.RenderJSON(w, resp)
}

// removeHandler handles DELETE /url?url=... request.
func (s *Server) removeHandler(w http.ResponseWriter, r *http.Request) {
	info, err := s.Moderator.Remove(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		renderError(w, errStatus(err), "can't remove url", err)
		return
	}
	if info == nil {
		renderError(w, http.StatusNotFound, "url not found", nil)
		return
	}
	rest.RenderJSON(w, rest.JSON{"removed": true, "entry": info})
}

// countHandler handles GET /review/count request.
func (s *Server) countHandler(w http.ResponseWriter, r *http.Request) {
	count, err := s.Moderator.QueueSize(r.Context())
	if err != nil {
		renderError(w, http.StatusInternalServerError, "can't count review queue", err)
		return
	}
	rest.RenderJSON(w, rest.JSON{"count": count})
}

func (s *Server) authMiddleware(mw func(next http.Handler) http.Handler) func(next http.Handler) http.Handler {
	if s.AuthPasswd == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return mw
}

// decode reads json request body into v, renders bad request on failure
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		renderError(w, http.StatusBadRequest, "can't decode request", err)
		return false
	}
	return true
}

func renderError(w http.ResponseWriter, code int, msg string, err error) {
	resp := rest.JSON{"error": msg}
	if err != nil {
		resp["details"] = err.Error()
		log.Printf("[WARN] %s: %v", msg, err)
	}
	w.WriteHeader(code)
	rest.RenderJSON(w, resp)
}

func errStatus(err error) int {
	if errors.Is(err, moderator.ErrNotURL) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
