package metrics

import (
	"context"
)

// 以下函数在 InitMetrics 之前调用时直接忽略

func RecordSessionStarted(ctx context.Context) {
	if m := GetMetrics(); m != nil {
		m.RecordSessionStarted(ctx)
	}
}

func RecordSessionCompleted(ctx context.Context, outcome, lastStep string) {
	if m := GetMetrics(); m != nil {
		m.RecordSessionCompleted(ctx, outcome, lastStep)
	}
}

func RecordSessionAbandoned(ctx context.Context, lastStep string) {
	if m := GetMetrics(); m != nil {
		m.RecordSessionAbandoned(ctx, lastStep)
	}
}

func RecordTransition(ctx context.Context, action, from, to string) {
	if m := GetMetrics(); m != nil {
		m.RecordTransition(ctx, action, from, to)
	}
}

func RecordFieldUpdate(ctx context.Context, field, mode string) {
	if m := GetMetrics(); m != nil {
		m.RecordFieldUpdate(ctx, field, mode)
	}
}
