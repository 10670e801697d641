package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/emi-compare/internal/comparison"
	"github.com/iwvelando/emi-compare/internal/config"
	"github.com/iwvelando/emi-compare/pkg/chart"
	"github.com/iwvelando/emi-compare/pkg/constants"
	"github.com/iwvelando/emi-compare/pkg/export"
	"github.com/iwvelando/emi-compare/pkg/loans"
	"github.com/iwvelando/emi-compare/pkg/output"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

// Options tunes the HTTP handler.
type Options struct {
	MaxUploadSize int64
	Version       string
	// RateLimit is the sustained number of API requests per second allowed
	// per client. Zero or negative disables limiting.
	RateLimit float64
	RateBurst int
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// exportFormat describes one downloadable rendering of a comparison.
type exportFormat struct {
	contentType string
	filename    string
	write       func(io.Writer, []comparison.Result) error
}

var exportFormats = map[string]exportFormat{
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "emi-comparison.xlsx", export.WriteXLSX},
	"pdf":  {"application/pdf", "emi-comparison.pdf", export.WritePDF},
	"csv":  {"text/csv; charset=utf-8", "emi-comparison.csv", output.CsvFormat},
	"html": {"text/html; charset=utf-8", "", chart.RenderBalanceChart},
}

// NewHandler constructs the HTTP handler that serves the web UI and comparison API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: opts.MaxUploadSize, version: trimmedVersion}

	router := mux.NewRouter()
	router.Use(requestIDMiddleware, h.accessLog)

	api := router.PathPrefix("/api").Subrouter()
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = constants.DefaultRateBurst
		}
		limiter := newClientRateLimiter(rate.Limit(opts.RateLimit), burst)
		api.Use(limiter.Middleware(h))
	}

	// Comparison for editor-driven updates
	api.HandleFunc("/compare", h.handleCompare).Methods(http.MethodPost)

	// Comparison of an uploaded YAML configuration
	api.HandleFunc("/compare/upload", h.handleUpload).Methods(http.MethodPost)

	// Downloadable renderings of a comparison
	api.HandleFunc("/export/{format}", h.handleExport).Methods(http.MethodPost)

	// Config serialization endpoint for editor downloads
	api.HandleFunc("/config/export", h.handleConfigExport).Methods(http.MethodPost)

	// Version endpoint for UI metadata
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	router.PathPrefix("/").Handler(http.FileServer(http.FS(sub))).Methods(http.MethodGet, http.MethodHead)

	return router
}

type compareResponse struct {
	Results    []comparison.Result `json:"results"`
	Cheapest   string              `json:"cheapest,omitempty"`
	Notes      []string            `json:"notes,omitempty"`
	CSV        string              `json:"csv"`
	Warnings   []string            `json:"warnings,omitempty"`
	Duration   string              `json:"duration"`
	Config     map[string]any      `json:"config,omitempty"`
	ConfigYAML string              `json:"configYaml,omitempty"`
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpload"

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	h.runComparison(w, r, configBytes, configMap, start, op)
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"

	start := time.Now()
	configBytes, configMap, err := h.decodeEditorPayload(w, r)
	if err != nil {
		h.respondErrorWithOp(w, r, statusForDecodeError(err), err.Error(), op)
		return
	}

	h.runComparison(w, r, configBytes, configMap, start, op)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	name := strings.ToLower(mux.Vars(r)["format"])
	format, ok := exportFormats[name]
	if !ok {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", name), op)
		return
	}

	configBytes, _, err := h.decodeEditorPayload(w, r)
	if err != nil {
		h.respondErrorWithOp(w, r, statusForDecodeError(err), err.Error(), op)
		return
	}

	results, _, err := h.compare(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, r, statusForCompareError(err), err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := format.write(&buf, results); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render %s: %v", name, err), op)
		return
	}

	w.Header().Set("Content-Type", format.contentType)
	if format.filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.filename))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write export response",
			zap.String("op", op),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	var payload map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadSize)).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}
	if payload == nil {
		payload = make(map[string]any)
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

var errPayloadTooLarge = errors.New("payload too large")

func statusForDecodeError(err error) int {
	if errors.Is(err, errPayloadTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// statusForCompareError maps bad input to 400 and anything else to 500.
func statusForCompareError(err error) int {
	if errors.Is(err, loans.ErrInvalidParameter) || errors.Is(err, config.ErrInvalidConfig) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeEditorPayload reads a JSON configuration, optionally wrapped in a
// "config" object, and re-encodes it as YAML so that it goes through the same
// loader as uploaded files.
func (h *handler) decodeEditorPayload(w http.ResponseWriter, r *http.Request) ([]byte, map[string]any, error) {
	var payload map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadSize)).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, nil, fmt.Errorf("%w: limit is %d bytes", errPayloadTooLarge, h.maxUploadSize)
		}
		return nil, nil, fmt.Errorf("failed to decode configuration: %v", err)
	}
	if payload == nil {
		payload = make(map[string]any)
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]any)
		if !ok {
			return nil, nil, errors.New("invalid config payload: expected object")
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode configuration: %v", err)
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse configuration: %v", err)
	}
	return configBytes, configMap, nil
}

func (h *handler) compare(configBytes []byte) ([]comparison.Result, []string, error) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		return nil, nil, err
	}

	warnings := cfg.ValidateConfiguration()

	results, err := comparison.Compare(h.logger, *cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute comparison: %w", err)
	}
	return results, warnings, nil
}

func (h *handler) runComparison(w http.ResponseWriter, r *http.Request, configBytes []byte, configMap map[string]any, start time.Time, op string) {
	results, warnings, err := h.compare(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, r, statusForCompareError(err), err.Error(), op)
		return
	}

	elapsed := time.Since(start)

	if configMap == nil {
		configMap = make(map[string]any)
	}

	response := compareResponse{
		Results:    results,
		Notes:      comparison.Notes(results),
		CSV:        output.CsvString(results),
		Warnings:   warnings,
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}
	if best, ok := comparison.Cheapest(results); ok {
		response.Cheapest = best.Name
	}

	h.logger.Info("comparison computed",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("loans", len(results)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func marshalOrderedConfigYAML(payload map[string]any) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"loans", "logging", "output"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value any
}

func (o orderedConfig) MarshalYAML() (any, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func decodeYAMLToMap(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]any), nil
	}

	var result map[string]any
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]any)
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
