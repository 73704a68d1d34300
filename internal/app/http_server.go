package app

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"clocking/internal/domain"
	"clocking/internal/views"
)

//go:embed static/index.html
var staticFS embed.FS

// HTTPServer returns a configured http.Server exposing the clocking API and
// the embedded index page. Call ListenAndServe on the returned server in a
// goroutine and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/recent", a.handleRecent)
	mux.HandleFunc("GET /api/latest/{title}", a.handleLatest)
	mux.HandleFunc("GET /api/unfinished", a.handleUnfinished)
	mux.HandleFunc("POST /api/start/{title}", a.handleStart)
	mux.HandleFunc("POST /api/finish/{title}", a.handleFinish)
	mux.HandleFunc("GET /api/report/{offset}", a.handleReport)
	mux.HandleFunc("GET /api/report/{offset}/{days}", a.handleReport)
	mux.HandleFunc("GET /api/report-by-date/{start}/{end}", a.handleReportByDate)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		page, err := staticFS.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "index page unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})

	srv := &http.Server{Addr: addr, Handler: loggingMiddleware(a.log, mux)}
	a.log.Info("http server configured", slog.String("addr", addr))
	return srv
}

func (a *App) handleRecent(w http.ResponseWriter, r *http.Request) {
	titles, err := a.recentTitles(r.Context(), 5)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if titles == nil {
		titles = []string{}
	}
	writeJSON(w, http.StatusOK, titles)
}

func (a *App) handleLatest(w http.ResponseWriter, r *http.Request) {
	entry, err := a.latestFinished(r.Context(), r.PathValue("title"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (a *App) handleUnfinished(w http.ResponseWriter, r *http.Request) {
	entries, err := a.unfinished(r.Context(), 10)
	if err != nil {
		a.writeError(w, err)
		return
	}
	ids := make([]domain.EntryID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	writeJSON(w, http.StatusOK, ids)
}

func (a *App) handleStart(w http.ResponseWriter, r *http.Request) {
	id, err := a.startTitled(r.Context(), r.PathValue("title"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

// handleFinish finishes the latest unfinished entry of the path title. The
// request body is appended to the entry notes.
func (a *App) handleFinish(w http.ResponseWriter, r *http.Request) {
	notes, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}
	finished, found, err := a.finishLatest(r.Context(), r.PathValue("title"), string(notes))
	if err != nil {
		a.writeError(w, err)
		return
	}
	if !found {
		http.Error(w, "no unfinished entry found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"finished": finished})
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	offset, err := strconv.Atoi(r.PathValue("offset"))
	if err != nil || offset < 0 {
		http.Error(w, "offset must be a non-negative integer", http.StatusBadRequest)
		return
	}
	var days *int
	if daysStr := r.PathValue("days"); daysStr != "" {
		d, err := strconv.Atoi(daysStr)
		if err != nil || d < 0 {
			http.Error(w, "days must be a non-negative integer", http.StatusBadRequest)
			return
		}
		days = &d
	}

	entries, err := a.finishedByOffset(r.Context(), offset, days)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeView(w, r, entries)
}

func (a *App) handleReportByDate(w http.ResponseWriter, r *http.Request) {
	entries, err := a.finishedByDate(r.Context(), r.PathValue("start"), r.PathValue("end"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeView(w, r, entries)
}

func (a *App) writeView(w http.ResponseWriter, r *http.Request, entries []domain.FinishedEntry) {
	view := views.For(r.URL.Query().Get("view_type"), entries, a.window)
	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, view.HTML())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, view.Text())
}

// writeError maps store errors to HTTP statuses: invalid input is the
// caller's fault, invariant conflicts are 409, anything else is a backend
// fault.
func (a *App) writeError(w http.ResponseWriter, err error) {
	var unfinished domain.UnfinishedExistsError
	status := http.StatusInternalServerError
	switch {
	case domain.IsInvalidInput(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateEntry), errors.As(err, &unfinished):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		a.log.Error("request failed", slog.String("error", err.Error()))
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// loggingMiddleware tags each request with an id and logs it on completion.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r)
		log.Info("http request",
			slog.String("id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", time.Since(start)),
		)
	})
}
