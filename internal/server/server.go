package server

import (
	"context"
	"fmt"
	"net"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"github.com/thomasyao15/retirement-income-calc/internal/calculation"
	"github.com/thomasyao15/retirement-income-calc/internal/compare"
	"github.com/thomasyao15/retirement-income-calc/internal/config"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

const (
	RequestIDHeader = "X-Request-ID"
	apiPrefix       = "/api/v1"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// AgePensionRequest is a direct means test request. The relationship status
// accepts the questionnaire values (married, defacto, single, ...).
type AgePensionRequest struct {
	Age                int             `json:"age"`
	RelationshipStatus string          `json:"relationshipStatus"`
	HomeOwner          bool            `json:"homeOwner"`
	IncomePerFortnight decimal.Decimal `json:"incomePerFortnight"`
	TotalAssets        decimal.Decimal `json:"totalAssets"`
}

// Server exposes the calculation engine over HTTP
type Server struct {
	cfg     config.ServerConfig
	engine  *calculation.CalculationEngine
	compare *compare.CompareEngine
	parser  *config.InputParser
	logger  calculation.Logger

	srv *fasthttp.Server
}

// New creates a server calculating with the given engine
func New(cfg config.ServerConfig, engine *calculation.CalculationEngine) *Server {
	s := &Server{
		cfg:     cfg,
		engine:  engine,
		compare: compare.NewCompareEngine(engine),
		parser:  config.NewInputParser(),
		logger:  calculation.NopLogger{},
	}
	s.srv = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "ricalc",
		ReadTimeout:        cfg.ReadTimeout,
		WriteTimeout:       cfg.WriteTimeout,
		MaxRequestBodySize: cfg.MaxBodyBytes,
	}
	return s
}

// SetLogger sets the request logger; nil restores the no-op logger
func (s *Server) SetLogger(l calculation.Logger) {
	if l == nil {
		s.logger = calculation.NopLogger{}
		return
	}
	s.logger = l
}

// ListenAndServe serves on the configured address until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	s.logger.Infof("listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Infof("shutting down")
		if err := s.srv.Shutdown(); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// Handler returns the request handler with request IDs and logging applied
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.withRequestID(s.route)
}

func (s *Server) withRequestID(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()

		id := string(ctx.Request.Header.Peek(RequestIDHeader))
		if id == "" {
			id = uuid.New().String()
		}
		ctx.SetUserValue(RequestIDHeader, id)
		ctx.Response.Header.Set(RequestIDHeader, id)

		next(ctx)

		s.logger.Infof("%s %s %s -> %d (%s)", id, ctx.Method(), ctx.Path(),
			ctx.Response.StatusCode(), time.Since(start).Round(time.Microsecond))
	}
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case apiPrefix + "/health":
		s.get(ctx, s.handleHealth)
	case apiPrefix + "/rules":
		s.get(ctx, s.handleRules)
	case apiPrefix + "/age-pension":
		s.post(ctx, s.handleAgePension)
	case apiPrefix + "/calculate":
		s.post(ctx, s.handleCalculate)
	case apiPrefix + "/compare":
		s.post(ctx, s.handleCompare)
	default:
		writeError(ctx, fasthttp.StatusNotFound, fmt.Sprintf("no route for %s", ctx.Path()))
	}
}

func (s *Server) get(ctx *fasthttp.RequestCtx, h fasthttp.RequestHandler) {
	if !ctx.IsGet() {
		ctx.Response.Header.Set(fasthttp.HeaderAllow, fasthttp.MethodGet)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h(ctx)
}

func (s *Server) post(ctx *fasthttp.RequestCtx, h fasthttp.RequestHandler) {
	if !ctx.IsPost() {
		ctx.Response.Header.Set(fasthttp.HeaderAllow, fasthttp.MethodPost)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.cfg.MaxBodyBytes > 0 && len(ctx.PostBody()) > s.cfg.MaxBodyBytes {
		writeError(ctx, fasthttp.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	h(ctx)
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRules(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, s.engine.Rules())
}

func (s *Server) handleAgePension(ctx *fasthttp.RequestCtx) {
	var req AgePensionRequest
	if !decodeBody(ctx, &req) {
		return
	}
	if req.RelationshipStatus == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "relationship status is required")
		return
	}

	input := domain.PensionInput{
		Age:                req.Age,
		RelationshipStatus: domain.MapRelationshipStatus(req.RelationshipStatus),
		HomeOwner:          req.HomeOwner,
		IncomePerFortnight: req.IncomePerFortnight,
		TotalAssets:        req.TotalAssets,
	}
	if err := s.parser.ValidatePensionInput(&input); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, s.engine.PensionCalc.CalculatePension(input))
}

func (s *Server) handleCalculate(ctx *fasthttp.RequestCtx) {
	var h domain.Household
	if !decodeBody(ctx, &h) {
		return
	}
	if err := s.parser.ValidateHousehold(&h, s.engine.Rules().Defaults); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	results, err := s.engine.Calculate(h)
	if err != nil {
		s.logger.Errorf("%s calculate: %v", requestID(ctx), err)
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, results)
}

func (s *Server) handleCompare(ctx *fasthttp.RequestCtx) {
	var h domain.Household
	if !decodeBody(ctx, &h) {
		return
	}
	if err := s.parser.ValidateHousehold(&h, s.engine.Rules().Defaults); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	compSet, err := s.compare.CompareProducts(context.Background(), domain.Scenario{Name: "Request", Household: h})
	if err != nil {
		s.logger.Errorf("%s compare: %v", requestID(ctx), err)
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, compSet)
}

func decodeBody(ctx *fasthttp.RequestCtx, v interface{}) bool {
	body := ctx.PostBody()
	if len(body) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "Request body is required")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to encode response")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	data, _ := json.Marshal(ErrorResponse{
		Status:    status,
		Message:   message,
		RequestID: requestID(ctx),
	})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func requestID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(RequestIDHeader).(string)
	return id
}
