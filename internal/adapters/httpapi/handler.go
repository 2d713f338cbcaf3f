// Package httpapi serves the allele list transforms over fasthttp.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_allele_names/internal/ports"
	"github.com/baditaflorin/go_allele_names/pkg/alleles"
)

// RequestTimeout is the default bound on the work done for one list request.
// Requests whose deadline has passed before the list is transformed fail with 503.
const RequestTimeout = 30 * time.Second

// ListRequest carries one comma-separated list.
type ListRequest struct {
	Input string `json:"input"`
}

// ListResponse holds the transformed tokens of a ListRequest.
type ListResponse struct {
	Kind   alleles.ListKind `json:"kind"`
	Values []string         `json:"values"`
}

// IntListResponse holds the values of an integer list.
type IntListResponse struct {
	Kind   alleles.ListKind `json:"kind"`
	Values []int            `json:"values"`
}

// NormalizeRequest carries a single allele name.
type NormalizeRequest struct {
	Allele string `json:"allele"`
}

// NormalizeResponse holds a normalized allele name.
type NormalizeResponse struct {
	Allele     string `json:"allele"`
	Normalized string `json:"normalized"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Index *int   `json:"index,omitempty"`
	Token string `json:"token,omitempty"`
}

// Handler routes requests to a Parser.
type Handler struct {
	parser  *alleles.Parser
	logger  ports.Logger
	timeout time.Duration
}

// NewHandler creates a Handler bounding list requests by RequestTimeout.
func NewHandler(parser *alleles.Parser, logger ports.Logger) *Handler {
	return NewHandlerWithTimeout(parser, logger, RequestTimeout)
}

// NewHandlerWithTimeout creates a Handler bounding list requests by timeout.
func NewHandlerWithTimeout(parser *alleles.Parser, logger ports.Logger, timeout time.Duration) *Handler {
	return &Handler{parser: parser, logger: logger, timeout: timeout}
}

// HandleRequest is the fasthttp request handler.
func (h *Handler) HandleRequest(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "AlleleNameServer")

	switch string(ctx.Path()) {
	case "/health":
		h.handleHealthCheck(ctx)
	case "/normalize":
		h.handleNormalize(ctx)
	case "/alleles":
		h.handleList(ctx, alleles.KindAlleles)
	case "/sequences":
		h.handleList(ctx, alleles.KindSequences)
	case "/ints":
		h.handleInts(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		h.writeJSONError(ctx, ErrorResponse{Error: "Not found"})
	}

	h.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

func (h *Handler) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) handleNormalize(ctx *fasthttp.RequestCtx) {
	var req NormalizeRequest
	if !h.decodePost(ctx, &req) {
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, NormalizeResponse{
		Allele:     req.Allele,
		Normalized: h.parser.NormalizeAlleleName(ctx, req.Allele),
	})
}

func (h *Handler) handleList(ctx *fasthttp.RequestCtx, kind alleles.ListKind) {
	var req ListRequest
	if !h.decodePost(ctx, &req) {
		return
	}

	c, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	values, err := h.parser.Transform(c, kind, req.Input)
	if err != nil {
		ctx.SetStatusCode(statusFor(err))
		h.writeJSONError(ctx, ErrorResponse{Error: err.Error()})
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, ListResponse{Kind: kind, Values: values})
}

func (h *Handler) handleInts(ctx *fasthttp.RequestCtx) {
	var req ListRequest
	if !h.decodePost(ctx, &req) {
		return
	}

	c, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	values, err := h.parser.ParseIntList(c, req.Input)
	if err != nil {
		resp := ErrorResponse{Error: err.Error()}
		var pe *alleles.ParseError
		if errors.As(err, &pe) {
			index := pe.Index
			resp.Index = &index
			resp.Token = pe.Token
		}
		ctx.SetStatusCode(statusFor(err))
		h.writeJSONError(ctx, resp)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, IntListResponse{Kind: alleles.KindInts, Values: values})
}

func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fasthttp.StatusServiceUnavailable
	}
	return fasthttp.StatusBadRequest
}

// decodePost accepts only POST requests with a JSON body. It writes the error
// response itself and reports whether the handler should continue.
func (h *Handler) decodePost(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, ErrorResponse{Error: "Method not allowed"})
		return false
	}
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, ErrorResponse{Error: "Invalid request: " + err.Error()})
		return false
	}
	return true
}

func (h *Handler) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		h.logger.Error("Error marshaling JSON response", "error", err)
		h.writeJSONError(ctx, ErrorResponse{Error: "Internal server error"})
		return
	}
	ctx.SetBody(response)
}

func (h *Handler) writeJSONError(ctx *fasthttp.RequestCtx, errResponse ErrorResponse) {
	response, err := json.Marshal(errResponse)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		h.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}
	ctx.SetBody(response)
}
