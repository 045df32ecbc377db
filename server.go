package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/log"
	"github.com/juruen/inkpaper/paper"
	"github.com/juruen/inkpaper/shell"
)

const maxPageSize = 32 << 20

type ApiServer struct {
	paper    *paper.Paper
	shellCtx *shell.ShellCtxt
	upgrader websocket.Upgrader
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// EventJSON is what the events socket sends for every paper event
type EventJSON struct {
	Type   paper.EventKind   `json:"type"`
	Change *paper.ChangeData `json:"change,omitempty"`
	Result *shell.ResultJSON `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func NewApiServer(p *paper.Paper) *ApiServer {
	return &ApiServer{
		paper:    p,
		shellCtx: shell.NewShellCtxt(p, true),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *ApiServer) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}

func (s *ApiServer) writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuccessResponse{Data: data})
}

func (s *ApiServer) history() map[string]interface{} {
	return map[string]interface{}{
		"history": s.paper.History(),
		"state":   s.paper.State().String(),
	}
}

// POST /api/stroke {"points":[{"x":1,"y":2,"t":0},...]}
func (s *ApiServer) handleStroke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Points []struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
			T int64   `json:"t"`
		} `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Points) == 0 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("points are required"))
		return
	}

	first, last := req.Points[0], req.Points[len(req.Points)-1]
	if err := s.paper.PointerDown(first.X, first.Y, first.T); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	var err error
	for i := 1; err == nil && i < len(req.Points)-1; i++ {
		err = s.paper.PointerMove(req.Points[i].X, req.Points[i].Y, req.Points[i].T)
	}
	var stroke *ink.Stroke
	if err == nil {
		stroke, err = s.paper.FinishStroke(last.X, last.Y, last.T)
	}
	if err != nil {
		s.paper.PointerLeave()
		s.writeError(w, http.StatusConflict, err)
		return
	}

	data := s.history()
	data["stroke"] = shell.StrokeToJSON(stroke)
	s.writeSuccess(w, data)
}

// POST /api/pointer {"type":"pointerdown","event":{...},"bounds":{...}}
func (s *ApiServer) handlePointer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Type   string             `json:"type"`
		Event  paper.PointerEvent `json:"event"`
		Bounds paper.Bounds       `json:"bounds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	kind, err := paper.ParsePointerKind(req.Type)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.paper.HandlePointer(kind, req.Event, req.Bounds); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	s.writeSuccess(w, s.history())
}

// POST /api/recognize?wait=<duration>
func (s *ApiServer) handleRecognize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := *s.shellCtx
	if wait := r.URL.Query().Get("wait"); wait != "" {
		d, err := time.ParseDuration(wait)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid wait: %v", err))
			return
		}
		ctx.Wait = d
	}

	res, err := ctx.Recognize()
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.writeSuccess(w, shell.ResultToJSON(res))
}

// GET /api/result
func (s *ApiServer) handleResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	res := s.paper.LastResult()
	if res == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("no result"))
		return
	}
	s.writeSuccess(w, shell.ResultToJSON(res))
}

// POST /api/undo, /api/redo, /api/clear
func (s *ApiServer) handleEdit(edit func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		edit()
		s.writeSuccess(w, s.history())
	}
}

// GET /api/strokes
func (s *ApiServer) handleStrokes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	strokes := s.paper.Strokes()
	out := make([]shell.StrokeJSON, len(strokes))
	for i, st := range strokes {
		out[i] = shell.StrokeToJSON(st)
	}
	s.writeSuccess(w, out)
}

// GET /api/stats
func (s *ApiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeSuccess(w, s.paper.Stats())
}

// GET /api/settings, POST /api/settings {"name":"lang","value":"fr_FR"}
func (s *ApiServer) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeSuccess(w, shell.Settings(s.paper))
	case http.MethodPost:
		var req struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := shell.SetOption(s.paper, req.Name, req.Value); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		s.writeSuccess(w, shell.Settings(s.paper))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/languages
func (s *ApiServer) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.shellCtx.Wait)
	defer cancel()

	langs, err := s.paper.Languages(ctx)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.writeSuccess(w, langs)
}

// GET /api/export?format=<png|pdf>&width=<px>&numbers=<bool>
func (s *ApiServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	format := query.Get("format")
	if format == "" {
		format = "png"
	}
	width := 0
	if v := query.Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid width %q", v))
			return
		}
		width = n
	}

	var buf bytes.Buffer
	if err := shell.Export(&buf, s.paper, format, width, query.Get("numbers") == "true"); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	contentType := "image/png"
	if format == "pdf" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"paper.%s\"", format))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, &buf)
}

// GET /api/page downloads the strokes as a .rm page, POST /api/page
// replaces them
func (s *ApiServer) handlePage(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var buf bytes.Buffer
		if err := s.paper.Save(&buf); err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", "attachment; filename=\"paper.rm\"")
		w.WriteHeader(http.StatusOK)
		io.Copy(w, &buf)
	case http.MethodPost:
		if err := s.paper.Load(http.MaxBytesReader(w, r.Body, maxPageSize)); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		s.writeSuccess(w, s.history())
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func eventToJSON(e paper.Event) EventJSON {
	out := EventJSON{Type: e.Kind}
	switch e.Kind {
	case paper.EventChange:
		change := e.Change
		out.Change = &change
	case paper.EventSuccess:
		if e.Result != nil {
			res := shell.ResultToJSON(e.Result)
			out.Result = &res
		}
	case paper.EventError:
		out.Error = e.Err.Error()
	}
	return out
}

// GET /api/events upgrades to a websocket streaming paper events
func (s *ApiServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	// subscribed before the handshake completes so that no event is
	// missed by a client that acts right after connecting
	events := make(chan paper.Event, 64)
	unsubscribe := s.paper.Subscribe(func(e paper.Event) {
		select {
		case events <- e:
		default:
			log.Warning.Println("events: slow client, dropping event")
		}
	})
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warning.Printf("events: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// the client never talks, reading only notices it going away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case e := <-events:
			if err := conn.WriteJSON(eventToJSON(e)); err != nil {
				log.Trace.Printf("events: write: %v", err)
				return
			}
		case <-gone:
			return
		}
	}
}

func (s *ApiServer) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/stroke", s.handleStroke)
	mux.HandleFunc("/api/pointer", s.handlePointer)
	mux.HandleFunc("/api/recognize", s.handleRecognize)
	mux.HandleFunc("/api/result", s.handleResult)
	mux.HandleFunc("/api/undo", s.handleEdit(s.paper.Undo))
	mux.HandleFunc("/api/redo", s.handleEdit(s.paper.Redo))
	mux.HandleFunc("/api/clear", s.handleEdit(s.paper.Clear))
	mux.HandleFunc("/api/strokes", s.handleStrokes)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/languages", s.handleLanguages)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/page", s.handlePage)
	mux.HandleFunc("/api/events", s.handleEvents)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root endpoint with API documentation
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
	<title>inkpaper REST API</title>
</head>
<body>
	<h1>inkpaper REST API</h1>
	<h2>Endpoints:</h2>
	<ul>
		<li>POST /api/stroke - Add a stroke</li>
		<li>POST /api/pointer - Feed a pointer event</li>
		<li>POST /api/recognize - Recognize and wait for the result</li>
		<li>GET /api/result - Last result</li>
		<li>POST /api/undo - Undo the last stroke</li>
		<li>POST /api/redo - Redo</li>
		<li>POST /api/clear - Remove every stroke</li>
		<li>GET /api/strokes - List strokes</li>
		<li>GET /api/stats - Ink buffer size</li>
		<li>GET, POST /api/settings - Show or change settings</li>
		<li>GET /api/languages - Available languages</li>
		<li>GET /api/export - Render to PNG or PDF</li>
		<li>GET, POST /api/page - Download or replace the strokes as a .rm page</li>
		<li>GET /api/events - Event stream (websocket)</li>
	</ul>
</body>
</html>
`)
	})

	return mux
}

func runServerMode(p *paper.Paper, addr string) error {
	server := NewApiServer(p)

	log.Info.Printf("Starting inkpaper API server on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
