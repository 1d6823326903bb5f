package webui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/RyanBlaney/songsim/internal/library"
	"github.com/RyanBlaney/songsim/internal/ranking"
	"github.com/RyanBlaney/songsim/pkg/audio/features"
	"github.com/RyanBlaney/songsim/pkg/logging"
)

// Config contains the settings for the interactive front end
type Config struct {
	Addr         string
	DatabasePath string
	Features     *features.Config
	Workers      int
}

// Server is the interactive web front end: a build form and a query form
// mirroring the CLI modes. Path validation happens here, before the core is
// invoked, so errors surface inline on the page.
type Server struct {
	config  Config
	builder *library.Builder
	ranker  *ranking.Ranker
	logger  logging.Logger
}

// NewServer creates the front end server
func NewServer(config Config) (*Server, error) {
	if config.Addr == "" {
		config.Addr = "localhost:8080"
	}
	if config.DatabasePath == "" {
		config.DatabasePath = library.DefaultDatabaseFile
	}
	if config.Workers < 1 {
		config.Workers = 1
	}

	extractor, err := features.NewExtractor(config.Features)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:  config,
		builder: library.NewBuilder(extractor, library.WithWorkers(config.Workers)),
		ranker:  ranking.NewRanker(extractor),
		logger: logging.WithFields(logging.Fields{
			"component": "webui",
			"addr":      config.Addr,
		}),
	}, nil
}

// routes registers all HTTP routes
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/build", s.handleBuild)
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// ListenAndServe runs the server until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Front end listening", logging.Fields{"addr": s.config.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) render(w http.ResponseWriter, data *pageData) {
	if data.TopN == 0 {
		data.TopN = 10
	}
	data.DatabasePath = s.config.DatabasePath

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error(err, "Failed to render page")
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, &pageData{})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok"}`)
}

// handleBuild validates the folder path and runs a database build
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	folder := r.FormValue("folder")
	data := &pageData{FolderPath: folder}

	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		data.BuildError = "Invalid folder path. Please check and try again."
		s.render(w, data)
		return
	}

	report, err := s.builder.Build(r.Context(), folder, s.config.DatabasePath)
	if err != nil {
		data.BuildError = fmt.Sprintf("Database build failed: %v", err)
		s.render(w, data)
		return
	}

	data.BuildMessage = fmt.Sprintf("Database built successfully in %.2f seconds! Songs processed: %d, skipped: %d.",
		report.Elapsed.Seconds(), report.Processed, report.Skipped)
	s.render(w, data)
}

// handleQuery validates the query and database paths and runs a similarity query
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	queryPath := r.FormValue("query")
	topN, err := strconv.Atoi(r.FormValue("top_n"))
	if err != nil || topN < 1 {
		topN = 10
	}

	data := &pageData{QueryPath: queryPath, TopN: topN}

	if _, err := os.Stat(queryPath); err != nil {
		data.QueryError = "Invalid query song path. Please check and try again."
		s.render(w, data)
		return
	}
	if _, err := os.Stat(s.config.DatabasePath); err != nil {
		data.QueryError = "Song database not found. Please build the database first."
		s.render(w, data)
		return
	}

	matches, err := s.ranker.Query(r.Context(), queryPath, s.config.DatabasePath, topN)
	if err != nil {
		data.QueryError = fmt.Sprintf("Query failed: %v", err)
		s.render(w, data)
		return
	}
	if len(matches) == 0 {
		data.QueryError = "No similar songs found. Ensure the database is properly built."
		s.render(w, data)
		return
	}

	for _, m := range matches {
		data.Matches = append(data.Matches, matchRow{
			Name:  m.Name,
			Score: fmt.Sprintf("%.2f", m.Score),
		})
	}
	data.HasResults = true
	s.render(w, data)
}
