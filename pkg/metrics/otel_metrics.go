package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 引导会话相关指标
	SessionsStarted   metric.Int64Counter
	SessionsCompleted metric.Int64Counter
	SessionsAbandoned metric.Int64Counter
	Transitions       metric.Int64Counter
	FieldUpdates      metric.Int64Counter
	ActiveSessions    metric.Int64UpDownCounter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
)

// InitMetrics 初始化 OpenTelemetry 指标，未启用 OTel 时使用全局 no-op provider
func InitMetrics(serviceName string) error {
	var err error

	meter := otel.Meter(serviceName)
	m := &OTelMetrics{}

	m.SessionsStarted, err = meter.Int64Counter(
		"onboarding_sessions_started_total",
		metric.WithDescription("Total number of onboarding sessions started"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	m.SessionsCompleted, err = meter.Int64Counter(
		"onboarding_sessions_completed_total",
		metric.WithDescription("Total number of onboarding sessions that finished or were skipped"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	m.SessionsAbandoned, err = meter.Int64Counter(
		"onboarding_sessions_abandoned_total",
		metric.WithDescription("Total number of onboarding sessions discarded before completion"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	m.Transitions, err = meter.Int64Counter(
		"onboarding_transitions_total",
		metric.WithDescription("Total number of sequencer transitions requested"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	m.FieldUpdates, err = meter.Int64Counter(
		"onboarding_field_updates_total",
		metric.WithDescription("Total number of form field updates"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return err
	}

	// 进程内粗略计数，过期的会话不会被扣减
	m.ActiveSessions, err = meter.Int64UpDownCounter(
		"onboarding_sessions_active",
		metric.WithDescription("Approximate number of onboarding sessions in progress"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	metrics = m
	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

func (m *OTelMetrics) RecordSessionStarted(ctx context.Context) {
	m.SessionsStarted.Add(ctx, 1)
	m.ActiveSessions.Add(ctx, 1)
}

// RecordSessionCompleted outcome 为 finished 或 skipped
func (m *OTelMetrics) RecordSessionCompleted(ctx context.Context, outcome, lastStep string) {
	m.SessionsCompleted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("last_step", lastStep),
	))
	m.ActiveSessions.Add(ctx, -1)
}

func (m *OTelMetrics) RecordSessionAbandoned(ctx context.Context, lastStep string) {
	m.SessionsAbandoned.Add(ctx, 1, metric.WithAttributes(
		attribute.String("last_step", lastStep),
	))
	m.ActiveSessions.Add(ctx, -1)
}

func (m *OTelMetrics) RecordTransition(ctx context.Context, action, from, to string) {
	m.Transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordFieldUpdate mode 为 set 或 toggle；只记录字段名，不记录用户输入
func (m *OTelMetrics) RecordFieldUpdate(ctx context.Context, field, mode string) {
	m.FieldUpdates.Add(ctx, 1, metric.WithAttributes(
		attribute.String("field", field),
		attribute.String("mode", mode),
	))
}
