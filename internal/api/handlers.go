package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
	"github.com/jonesrussell/north-cloud/query-api/internal/metrics"
	"github.com/jonesrussell/north-cloud/query-api/internal/service"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandlerOptions tunes request handling.
type HandlerOptions struct {
	// StrictStatus maps error kinds onto 4xx/5xx; otherwise errors are 200.
	StrictStatus bool
	// Debug logs the merged arguments of every request.
	Debug bool
	// RequestTimeout bounds the engine calls of one request (0 for none).
	RequestTimeout time.Duration
}

// Handler holds HTTP request handlers
type Handler struct {
	queryService *service.QueryService
	metrics      *metrics.Metrics
	opts         HandlerOptions
}

// NewHandler creates a new handler instance
func NewHandler(queryService *service.QueryService, m *metrics.Metrics, opts HandlerOptions) *Handler {
	return &Handler{
		queryService: queryService,
		metrics:      m,
		opts:         opts,
	}
}

// Aggregate handles /agg and /agg/<field>[,<field>...].
func (h *Handler) Aggregate(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	args, err := h.arguments(ctx, c)
	if err != nil {
		h.fail(c, "agg", err)
		return
	}

	result, err := h.queryService.Aggregate(ctx, splitFields(c.Param("fields")), args)
	if err != nil {
		h.fail(c, "agg", err)
		return
	}
	h.succeed(c, "agg", result)
}

// Document handles /document.
func (h *Handler) Document(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	args, err := h.arguments(ctx, c)
	if err != nil {
		h.fail(c, "document", err)
		return
	}

	result, err := h.queryService.Documents(ctx, args)
	if err != nil {
		h.fail(c, "document", err)
		return
	}
	h.succeed(c, "document", result)
}

// Fields handles /fields.
func (h *Handler) Fields(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	args, err := h.arguments(ctx, c)
	if err != nil {
		h.fail(c, "fields", err)
		return
	}

	result, err := h.queryService.Fields(ctx, args)
	if err != nil {
		h.fail(c, "fields", err)
		return
	}
	h.succeed(c, "fields", result)
}

// Indices handles /indices and its aliases.
func (h *Handler) Indices(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.queryService.Indices(ctx)
	if err != nil {
		h.fail(c, "indices", err)
		return
	}
	h.succeed(c, "indices", result)
}

// Version handles /version and the prefix root.
func (h *Handler) Version(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.queryService.Version(ctx)
	if err != nil {
		h.fail(c, "version", err)
		return
	}
	h.succeed(c, "version", result)
}

// Ping answers without touching the engine.
func (h *Handler) Ping(c *gin.Context) {
	h.succeed(c, "ping", gin.H{"ping": "pong"})
}

// RenderPanic keeps the error body contract for recovered panics.
func (h *Handler) RenderPanic(c *gin.Context, recovered any) {
	err := &domain.Error{Kind: domain.KindInternal, Err: fmt.Errorf("%v", recovered)}
	h.metrics.ObserveRequest(c.FullPath(), err)
	c.JSON(h.status(err), ErrorResponse{Error: domain.Describe(err)})
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.opts.RequestTimeout > 0 {
		return context.WithTimeout(c.Request.Context(), h.opts.RequestTimeout)
	}
	return context.WithCancel(c.Request.Context())
}

func (h *Handler) arguments(ctx context.Context, c *gin.Context) (domain.QueryArgs, error) {
	raw, err := requestArguments(c)
	if err != nil {
		return domain.QueryArgs{}, err
	}
	if h.opts.Debug {
		logger.FromContext(ctx).Debug("Request arguments",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Any("arguments", raw),
		)
	}
	return decodeArguments(raw)
}

func (h *Handler) succeed(c *gin.Context, route string, body any) {
	h.metrics.ObserveRequest(route, nil)
	c.JSON(http.StatusOK, body)
}

func (h *Handler) fail(c *gin.Context, route string, err error) {
	h.metrics.ObserveRequest(route, err)

	log := logger.FromContext(c.Request.Context())
	fields := []logger.Field{
		logger.String("route", route),
		logger.String("kind", string(domain.KindOf(err))),
		logger.Error(err),
	}
	if domain.KindOf(err) == domain.KindParse {
		log.Warn("Rejected request", fields...)
	} else {
		log.Error("Request failed", fields...)
	}

	c.JSON(h.status(err), ErrorResponse{Error: domain.Describe(err)})
}

func (h *Handler) status(err error) int {
	if !h.opts.StrictStatus {
		return http.StatusOK
	}
	switch domain.KindOf(err) {
	case domain.KindParse:
		return http.StatusBadRequest
	case domain.KindEngine:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
