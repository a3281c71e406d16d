package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/suntimes/internal/domain"
	"github.com/couchcryptid/suntimes/internal/observability"
	"github.com/couchcryptid/suntimes/internal/report"
)

// Builder computes a report for one request.
type Builder interface {
	Build(ctx context.Context, req report.Request) (report.Report, error)
}

// ReportTransformer implements Transformer by decoding a report.Request,
// building the report, and encoding it as JSON.
type ReportTransformer struct {
	builder Builder
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates a ReportTransformer.
func NewTransformer(builder Builder, metrics *observability.Metrics, logger *slog.Logger) *ReportTransformer {
	return &ReportTransformer{
		builder: builder,
		metrics: metrics,
		logger:  logger,
	}
}

func (t *ReportTransformer) Transform(ctx context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	req, err := decodeRequest(raw.Value)
	if err != nil {
		t.metrics.Reports.WithLabelValues("kafka", "invalid").Inc()
		return domain.OutputMessage{}, err
	}

	rep, err := t.builder.Build(ctx, req)
	if err != nil {
		outcome := "error"
		if report.IsInvalidInput(err) {
			outcome = "invalid"
		}
		t.metrics.Reports.WithLabelValues("kafka", outcome).Inc()
		return domain.OutputMessage{}, fmt.Errorf("build report: %w", err)
	}

	out, err := encodeReport(rep, raw.Key)
	if err != nil {
		t.metrics.Reports.WithLabelValues("kafka", "error").Inc()
		return domain.OutputMessage{}, err
	}
	t.metrics.Reports.WithLabelValues("kafka", "success").Inc()
	return out, nil
}

func decodeRequest(data []byte) (report.Request, error) {
	var req report.Request
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return report.Request{}, fmt.Errorf("%w: decode request: %v", report.ErrInvalidRequest, err)
	}
	return req, nil
}

// encodeReport serializes rep. The message key is the request key when the
// producer set one, otherwise the report's deterministic ID.
func encodeReport(rep report.Report, key []byte) (domain.OutputMessage, error) {
	data, err := json.Marshal(rep)
	if err != nil {
		return domain.OutputMessage{}, fmt.Errorf("serialize report: %w", err)
	}

	id := rep.ID()
	if len(key) == 0 {
		key = []byte(id)
	}

	headers := map[string]string{
		"report_id":    id,
		"generated_at": rep.GeneratedAt.UTC().Format(time.RFC3339),
	}
	if len(rep.Days) > 0 {
		headers["kind"] = rep.Days[0].Kind.String()
	}
	return domain.OutputMessage{Key: key, Value: data, Headers: headers}, nil
}
