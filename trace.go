package masstransit

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "masstransit-go"

// StartSpan 为一次请求开启 span，请求终结时由调用方 End
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(tracerName).Start(ctx, name)
}

// InjectTrace 将链路上下文写入消息头，随消息跨进程传播
func InjectTrace(ctx context.Context, h Header) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for key, value := range carrier {
		h.Set(key, value)
	}
}

// ExtractTrace 从消息头恢复链路上下文
func ExtractTrace(ctx context.Context, h Header) context.Context {
	carrier := propagation.MapCarrier{}
	for key := range h {
		carrier[key] = h.Get(key)
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
