// Package server hosts the configured tables over HTTP.
//
// Routes:
//
//	GET /healthz
//	GET /tables               JSON list of the hosted tables
//	GET /tables/{name}        HTML page with the table
//	GET /tables/{name}/body   HTML <tbody> of the table
//	GET /tables/{name}/data   JSON headers and rows of the table
//
// The table routes accept the sort and filter state
// as query values, see package query.
//
// Table data is fetched once by New. Every request constructs
// its own TableData from that data and applies its query state,
// so no table is shared between requests.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/domonda/go-nicetable"
	"github.com/domonda/go-nicetable/htmltable"
	"github.com/domonda/go-nicetable/internal/config"
	"github.com/domonda/go-nicetable/internal/query"
	"github.com/domonda/go-nicetable/internal/source"
)

// Server serves the tables of a configuration.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	tables map[string]*hostedTable
}

type hostedTable struct {
	cfg     config.TableConfig
	payload *source.Payload
}

// TableInfo describes a hosted table in the /tables listing.
type TableInfo struct {
	Name    string `json:"name"`
	Caption string `json:"caption,omitempty"`
	Format  string `json:"format"`
	Rows    int    `json:"rows"`
	Href    string `json:"href"`
}

// TableResponse is the JSON body of /tables/{name}/data.
type TableResponse struct {
	Name    string             `json:"name"`
	Caption string             `json:"caption,omitempty"`
	Query   *query.State       `json:"query,omitempty"`
	Headers []nicetable.Header `json:"headers"`
	Rows    []nicetable.Row    `json:"rows"`
	Visible int                `json:"visible"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New fetches the data of all configured tables
// and checks that a TableData can be constructed from it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		tables: make(map[string]*hostedTable, len(cfg.Tables)),
	}
	for _, tc := range cfg.Tables {
		payload, err := source.Fetch(ctx, tc.Source)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", tc.Name, err)
		}
		table, err := payload.Table(tc.Options()...)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", tc.Name, err)
		}
		logger.Info("table loaded",
			zap.String("table", tc.Name),
			zap.String("source", tc.Source),
			zap.String("format", string(payload.Format)),
			zap.Int("rows", table.NumRows()),
		)
		s.tables[tc.Name] = &hostedTable{cfg: tc, payload: payload}
	}
	return s, nil
}

// Handler returns the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(chimw.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/tables", s.handleList)
	router.Route("/tables/{name}", func(r chi.Router) {
		r.Get("/", s.handlePage)
		r.Get("/body", s.handleBody)
		r.Get("/data", s.handleData)
	})
	return router
}

// HTTPServer returns an http.Server for the configured
// address and timeouts serving Handler.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

// ListenAndServe serves until ctx is canceled
// and then shuts the server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := s.HTTPServer()
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	infos := make([]TableInfo, 0, len(s.cfg.Tables))
	for _, tc := range s.cfg.Tables {
		ht := s.tables[tc.Name]
		info := TableInfo{
			Name:    tc.Name,
			Caption: tc.Caption,
			Format:  string(ht.payload.Format),
			Href:    "/tables/" + tc.Name,
		}
		if table, err := ht.payload.Table(tc.Options()...); err == nil {
			info.Rows = table.NumRows()
		}
		infos = append(infos, info)
	}
	s.writeJSON(w, r, http.StatusOK, infos)
}

// table constructs the TableData of the request with its
// query state applied or writes an error response.
func (s *Server) table(w http.ResponseWriter, r *http.Request) (*hostedTable, *query.State, *nicetable.TableData, bool) {
	name := chi.URLParam(r, "name")
	ht, ok := s.tables[name]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("table %q not found", name))
		return nil, nil, nil, false
	}
	state, err := query.FromValues(r.URL.Query())
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return nil, nil, nil, false
	}
	table, err := ht.payload.Table(ht.cfg.Options()...)
	if err != nil {
		s.writeError(w, r, statusOf(err), err)
		return nil, nil, nil, false
	}
	if err := state.Apply(table); err != nil {
		s.writeError(w, r, statusOf(err), err)
		return nil, nil, nil, false
	}
	return ht, state, table, true
}

func (s *Server) writer(ht *hostedTable, state *query.State) *htmltable.Writer {
	w := htmltable.NewWriter().
		WithCaption(ht.cfg.Caption).
		WithTableClass(ht.cfg.TableClass).
		WithFormAction("/tables/" + ht.cfg.Name)
	return state.Writer(w)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ht, state, table, ok := s.table(w, r)
	if !ok {
		return
	}
	var tableHTML bytes.Buffer
	if err := s.writer(ht, state).Write(r.Context(), &tableHTML, table); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	title := ht.cfg.Caption
	if title == "" {
		title = ht.cfg.Name
	}
	var page bytes.Buffer
	err := pageTemplate.Execute(&page, pageContext{
		Title: title,
		Table: template.HTML(tableHTML.String()), //#nosec G203
	})
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = page.WriteTo(w)
}

func (s *Server) handleBody(w http.ResponseWriter, r *http.Request) {
	ht, state, table, ok := s.table(w, r)
	if !ok {
		return
	}
	var body bytes.Buffer
	if err := s.writer(ht, state).WriteBody(r.Context(), &body, table); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = body.WriteTo(w)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	ht, state, table, ok := s.table(w, r)
	if !ok {
		return
	}
	resp := TableResponse{
		Name:    ht.cfg.Name,
		Caption: ht.cfg.Caption,
		Headers: table.Headers(),
		Rows:    table.ViewRows(),
		Visible: len(table.VisibleRows()),
	}
	if !state.IsZero() {
		resp.Query = state
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

// statusOf maps table errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, nicetable.ErrLookup), errors.Is(err, query.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode JSON response", zap.Error(err), zap.String("path", r.URL.Path))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := s.logger.With(
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
	if status >= http.StatusInternalServerError {
		logger.Error("table request failed")
		// Internal details are only logged
		s.writeJSON(w, r, status, errorResponse{Error: http.StatusText(status)})
		return
	}
	logger.Warn("table request rejected")
	s.writeJSON(w, r, status, errorResponse{Error: err.Error()})
}
