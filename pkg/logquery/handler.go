package logquery

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Handler serves the operator-facing log endpoints. Both renderings are
// produced from the same Engine.Query call, so /logs and /logs/json are
// guaranteed to agree on filtering and ordering.
type Handler struct {
	engine *Engine
	logger *slog.Logger
}

// NewHandler creates a handler over the given engine.
func NewHandler(engine *Engine, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		engine: engine,
		logger: logger.With("component", "logquery"),
	}
}

// jsonRecord is the wire shape for one record on /logs/json.
type jsonRecord struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// jsonResponse is the envelope for /logs/json.
type jsonResponse struct {
	Count int          `json:"count"`
	Logs  []jsonRecord `json:"logs"`
}

// ServeHTML handles GET /logs: an HTML page with lines colorized by
// level, newest first.
func (h *Handler) ServeHTML(w http.ResponseWriter, r *http.Request) {
	records, ok := h.query(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := logsPage.Execute(w, pageData{Records: records, Count: len(records)}); err != nil {
		h.logger.Error("failed to render log page", "error", err)
	}
}

// ServeJSON handles GET /logs/json: the identical result set as
// structured records.
func (h *Handler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	records, ok := h.query(w, r)
	if !ok {
		return
	}

	resp := jsonResponse{
		Count: len(records),
		Logs:  make([]jsonRecord, 0, len(records)),
	}
	for _, rec := range records {
		jr := jsonRecord{
			Level:   rec.Level,
			Message: rec.Message,
		}
		if !rec.Timestamp.IsZero() {
			jr.Timestamp = rec.Timestamp.Format(time.DateTime)
		}
		resp.Logs = append(resp.Logs, jr)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// query parses request parameters, runs the engine, and writes any
// client error itself. ok reports whether records should be rendered.
func (h *Handler) query(w http.ResponseWriter, r *http.Request) ([]Record, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	opts := Options{
		Level:          r.URL.Query().Get("level"),
		Search:         r.URL.Query().Get("search"),
		IncludeRotated: r.URL.Query().Get("include_rotated") == "true",
	}
	if raw := r.URL.Query().Get("lines"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "lines must be an integer")
			return nil, false
		}
		// An explicit zero or negative value asks for the minimum. The
		// engine only treats an absent value as "use the default".
		if n <= 0 {
			n = 1
		}
		opts.Lines = n
	}

	records, err := h.engine.Query(opts)
	if err != nil {
		if errors.Is(err, ErrInvalidLevel) {
			writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		h.logger.Error("log query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "log query failed")
		return nil, false
	}
	return records, true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

type pageData struct {
	Records []Record
	Count   int
}

var logsPage = template.Must(template.New("logs").Funcs(template.FuncMap{
	"levelClass": func(level string) string {
		switch level {
		case LevelError:
			return "error"
		case LevelWarning:
			return "warning"
		case LevelInfo:
			return "info"
		case LevelDebug:
			return "debug"
		default:
			return "unknown"
		}
	},
	"stamp": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.DateTime)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<title>Spyglass Logs</title>
<style>
body { background: #1e1e1e; color: #d4d4d4; font-family: monospace; margin: 1em; }
h1 { font-size: 1.1em; color: #9cdcfe; }
.line { white-space: pre-wrap; }
.error { color: #f48771; }
.warning { color: #dcdcaa; }
.info { color: #73c991; }
.debug { color: #808080; }
.unknown { color: #c586c0; }
</style>
</head>
<body>
<h1>Recent logs ({{.Count}} lines, newest first)</h1>
{{range .Records}}<div class="line {{levelClass .Level}}">{{with stamp .Timestamp}}{{.}} {{end}}{{.Level}} {{.Message}}</div>
{{end}}</body>
</html>
`))
