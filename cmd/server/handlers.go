package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/baditaflorin/go_document_similarity/internal/config"
	"github.com/baditaflorin/go_document_similarity/internal/metrics"
	"github.com/baditaflorin/go_document_similarity/internal/ports"
	"github.com/baditaflorin/go_document_similarity/pkg/similarity"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// uploadField is the multipart field carrying uploaded text files.
const uploadField = "files"

// ScoreRequest represents a JSON scoring request.
type ScoreRequest struct {
	Documents []similarity.Document `json:"documents"`
	Threshold *float64              `json:"threshold,omitempty"`
}

// PairResponse is one row of the results table.
type PairResponse struct {
	File1      string           `json:"file_1"`
	File2      string           `json:"file_2"`
	Similarity float64          `json:"similarity"`
	Label      similarity.Label `json:"label"`
	Level      string           `json:"level"`
}

// ReportResponse represents a scoring response.
type ReportResponse struct {
	Threshold      float64                    `json:"threshold"`
	Documents      []string                   `json:"documents"`
	Pairs          []PairResponse             `json:"pairs"`
	HighCount      int                        `json:"high_count"`
	Failures       []similarity.DocumentError `json:"failures,omitempty"`
	ProcessingTime string                     `json:"processing_time,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

const requestIDHeader = "X-Request-ID"

type app struct {
	ds             *similarity.DocumentSimilarity
	logger         ports.Logger
	cfg            config.Config
	metricsHandler fasthttp.RequestHandler
}

func newApp(ds *similarity.DocumentSimilarity, logger ports.Logger, cfg config.Config) *app {
	return &app{
		ds:             ds,
		logger:         logger,
		cfg:            cfg,
		metricsHandler: metrics.Handler(),
	}
}

// requestHandler is the main fasthttp request handler
func (a *app) requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	requestID := string(ctx.Request.Header.Peek(requestIDHeader))
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx.Response.Header.Set(requestIDHeader, requestID)
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "DocumentSimilarityServer")

	switch string(ctx.Path()) {
	case "/health":
		a.handleHealthCheck(ctx)
	case "/score":
		a.handleScore(ctx)
	case "/upload":
		a.handleUpload(ctx)
	case "/metrics":
		a.metricsHandler(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		a.writeJSONError(ctx, "Not found")
	}

	metrics.ObserveRequest(string(ctx.Method()), string(ctx.Path()), ctx.Response.StatusCode(), time.Since(startTime))
	a.logger.Info("Request processed",
		"request_id", requestID,
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

// handleHealthCheck responds to health check requests
func (a *app) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	a.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleScore scores documents posted as JSON
func (a *app) handleScore(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		a.writeJSONError(ctx, "Method not allowed")
		return
	}

	var req ScoreRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		a.writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}
	if len(req.Documents) > a.cfg.Upload.MaxFiles {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		a.writeJSONError(ctx, fmt.Sprintf("At most %d documents per request", a.cfg.Upload.MaxFiles))
		return
	}
	seen := make(map[string]struct{}, len(req.Documents))
	names := make([]string, 0, len(req.Documents))
	for _, d := range req.Documents {
		if _, dup := seen[d.Name]; dup {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			a.writeJSONError(ctx, fmt.Sprintf("Duplicate document name %q", d.Name))
			return
		}
		seen[d.Name] = struct{}{}
		names = append(names, d.Name)
	}

	threshold := a.cfg.Similarity.Threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	pairs, err := a.ds.Score(c, req.Documents, threshold)
	if err != nil {
		a.writeScoreError(ctx, err)
		return
	}
	metrics.ObservePairs(pairs)

	ctx.SetStatusCode(fasthttp.StatusOK)
	a.writeJSONResponse(ctx, newReportResponse(similarity.Report{
		Threshold: threshold,
		Documents: names,
		Pairs:     pairs,
	}, time.Since(start)))
}

// handleUpload scores text files posted as multipart/form-data
func (a *app) handleUpload(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		a.writeJSONError(ctx, "Method not allowed")
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		a.writeJSONError(ctx, "Invalid multipart form: "+err.Error())
		return
	}

	threshold := a.cfg.Similarity.Threshold
	if values := form.Value["threshold"]; len(values) > 0 && values[0] != "" {
		threshold, err = strconv.ParseFloat(values[0], 64)
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			a.writeJSONError(ctx, "Invalid threshold: "+err.Error())
			return
		}
	}

	files := form.File[uploadField]
	if len(files) > a.cfg.Upload.MaxFiles {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		a.writeJSONError(ctx, fmt.Sprintf("At most %d files per request", a.cfg.Upload.MaxFiles))
		return
	}

	raws := make([]similarity.RawDocument, 0, len(files))
	var readFailures []similarity.DocumentError
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			a.logger.Warn("Error reading uploaded file", "name", fh.Filename, "error", err)
			readFailures = append(readFailures, similarity.DocumentError{Name: fh.Filename, Err: err})
			continue
		}
		raws = append(raws, similarity.RawDocument{Name: fh.Filename, Data: data})
	}

	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	report, err := a.ds.Check(c, raws, threshold)
	if err != nil {
		a.writeScoreError(ctx, err)
		return
	}
	report.Failures = append(readFailures, report.Failures...)
	metrics.ObservePairs(report.Pairs)
	metrics.ObserveRejected(len(report.Failures))

	ctx.SetStatusCode(fasthttp.StatusOK)
	a.writeJSONResponse(ctx, newReportResponse(report, time.Since(start)))
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func newReportResponse(r similarity.Report, elapsed time.Duration) ReportResponse {
	pairs := make([]PairResponse, len(r.Pairs))
	for i, p := range r.Pairs {
		pairs[i] = PairResponse{
			File1:      p.NameA,
			File2:      p.NameB,
			Similarity: p.Similarity,
			Label:      p.Label,
			Level:      p.Label.Description(),
		}
	}
	docs := r.Documents
	if docs == nil {
		docs = []string{}
	}
	return ReportResponse{
		Threshold:      r.Threshold,
		Documents:      docs,
		Pairs:          pairs,
		HighCount:      r.HighCount(),
		Failures:       r.Failures,
		ProcessingTime: elapsed.String(),
	}
}

func (a *app) writeScoreError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, similarity.ErrInvalidThreshold):
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
	case errors.Is(err, context.DeadlineExceeded):
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
	default:
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
	a.writeJSONError(ctx, err.Error())
}

// writeJSONResponse writes a JSON response to the context
func (a *app) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		a.logger.Error("Error marshaling JSON response", "error", err)
		a.writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (a *app) writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		a.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}
