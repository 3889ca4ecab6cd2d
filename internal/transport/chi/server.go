package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hoover/internal/domain"
	domusage "github.com/kailas-cloud/hoover/internal/domain/usage"
	"github.com/kailas-cloud/hoover/internal/logger"
	healthuc "github.com/kailas-cloud/hoover/internal/usecase/health"
	"github.com/kailas-cloud/hoover/internal/usecase/turn"
)

const (
	maxActivityBytes  = 64 << 10
	ndjsonContentType = "application/x-ndjson"
)

// TurnHandler processes one inbound activity.
type TurnHandler interface {
	Handle(ctx context.Context, in turn.Input, sink turn.Sink) (turn.Outcome, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// UsageReporter reports NLP token usage.
type UsageReporter interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}

// Server is the chat HTTP API.
type Server struct {
	turns       TurnHandler
	health      HealthChecker
	usage       UsageReporter
	validate    *validator.Validate
	turnTimeout time.Duration
	logger      *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(turns TurnHandler, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		turns:    turns,
		health:   health,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// WithTurnTimeout bounds the time one turn may take, streaming included.
func (s *Server) WithTurnTimeout(d time.Duration) *Server {
	if d > 0 {
		s.turnTimeout = d
	}
	return s
}

// WithUsage enables GET /usage.
func (s *Server) WithUsage(u UsageReporter) *Server {
	s.usage = u
	return s
}

// Mount registers the API routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Post("/api/messages", s.PostMessages)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	if s.usage != nil {
		r.Get("/usage", s.GetUsage)
	}
}

// PostMessages handles POST /api/messages. Replies stream back as NDJSON, one
// activity per line, flushed as the turn produces them.
func (s *Server) PostMessages(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActivityBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := validateActivity(s.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	ctx := r.Context()
	if s.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.turnTimeout)
		defer cancel()
	}

	w.Header().Set("Content-Type", ndjsonContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	outcome, err := s.turns.Handle(ctx, inputFromRequest(req), newStreamSink(w))
	if err != nil {
		logger.FromContext(r.Context()).Warn("reply stream interrupted",
			zap.String("outcome", string(outcome)), zap.Error(err))
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// GetUsage handles GET /usage?period=day|month|total.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, err := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, UsageResponse{
		Period:          string(report.Period()),
		Provider:        report.Provider(),
		PeriodStart:     millisToISO(report.PeriodStart()),
		PeriodEnd:       millisToISO(report.PeriodEnd()),
		TokensUsed:      report.TokensUsed(),
		TokensLimit:     report.TokensLimit(),
		TokensRemaining: report.TokensRemaining(),
		Exhausted:       report.Exhausted(),
	})
}

// millisToISO formats unix millis as RFC 3339, nil for zero.
func millisToISO(ms int64) *string {
	if ms == 0 {
		return nil
	}
	v := time.UnixMilli(ms).UTC().Format(time.RFC3339)
	return &v
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func inputFromRequest(req ActivityRequest) turn.Input {
	in := turn.Input{
		Type:           req.Type,
		ID:             req.ID,
		Text:           req.Text,
		From:           turn.Account{ID: req.From.ID, Name: req.From.Name},
		Recipient:      turn.Account{ID: req.Recipient.ID, Name: req.Recipient.Name},
		ConversationID: req.Conversation.ID,
	}
	for _, m := range req.MembersAdded {
		in.MembersAdded = append(in.MembersAdded, turn.Account{ID: m.ID, Name: m.Name})
	}
	return in
}

// streamSink writes activities as NDJSON lines.
type streamSink struct {
	w   http.ResponseWriter
	enc *json.Encoder
}

func newStreamSink(w http.ResponseWriter) *streamSink {
	return &streamSink{w: w, enc: json.NewEncoder(w)}
}

// Emit implements turn.Sink.
func (s *streamSink) Emit(_ context.Context, a turn.Outbound) error {
	if err := s.enc.Encode(activityFromOutbound(a)); err != nil {
		return fmt.Errorf("write activity: %w", err)
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// validateActivity wraps validation failures in domain.ErrInvalidActivity and
// lists the failing fields without exposing validator internals.
func validateActivity(v *validator.Validate, req *ActivityRequest) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidActivity, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidActivity, strings.Join(parts, ", "))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
