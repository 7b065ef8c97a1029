package telemetry

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"

	"formrelay/config"
	"formrelay/internal/core"

	gcppropagator "github.com/GoogleCloudPlatform/opentelemetry-operations-go/propagator"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Trace struct {
	TracerProvider *sdktrace.TracerProvider
	ServiceName    string
	tracer         trace.Tracer
}

// NewTrace 未啟用時回傳 noop tracer，呼叫端不需判斷
func NewTrace(conf *config.Configuration) (*Trace, func(), error) {
	noopTrace := &Trace{tracer: noop.NewTracerProvider().Tracer("noop")}
	if conf == nil || !conf.Telemetry.Trace.Enabled {
		return noopTrace, func() {}, nil
	}
	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpointURL(conf.Telemetry.Trace.EndpointUrl),
		otlptracehttp.WithRetry(otlptracehttp.RetryConfig{
			Enabled:         true,
			InitialInterval: 5 * time.Second,
			MaxInterval:     10 * time.Second,
			MaxElapsedTime:  60 * time.Second, // 超過則丟棄
		}),
		otlptracehttp.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(conf.App.Name),
			semconv.ServiceVersion(conf.App.Version),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(newPropagator(conf.Telemetry.Trace.CloudTrace))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}
	return &Trace{
		TracerProvider: tp,
		ServiceName:    conf.App.Name,
		tracer:         tp.Tracer(conf.App.Name),
	}, cleanup, nil
}

// 預設 W3C tracecontext + baggage；cloudTrace 時額外讀取 X-Cloud-Trace-Context（只讀不寫）
func newPropagator(cloudTrace bool) propagation.TextMapPropagator {
	props := []propagation.TextMapPropagator{
		propagation.TraceContext{},
		propagation.Baggage{},
	}
	if cloudTrace {
		props = append(props, gcppropagator.CloudTraceOneWayPropagator{})
	}
	return propagation.NewCompositeTextMapPropagator(props...)
}

func (t *Trace) StartSpanForLayer(
	ctx context.Context,
	spanName core.TraceSpanName,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	tracer := t.tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return tracer.Start(ctx, string(spanName), opts...)
}

// ==== Handler 與 Service 皆可使用的開 span 方法 ====

// StartSpanFromGin 從 gin 取父 ctx；name 可覆寫預設的 handler 名稱
func (t *Trace) StartSpanFromGin(c *gin.Context, name ...string) (context.Context, trace.Span) {
	n := spanNameFromGin(c)
	if len(name) > 0 && strings.TrimSpace(name[0]) != "" {
		n = name[0]
	}
	ctx := t.GetTraceContext(c)
	ctx, span := t.StartSpanForLayer(ctx, core.TraceSpanName(n))
	c.Set(core.ContextTraceKey, ctx)
	return ctx, span
}

// StartSpan 給 service / listener 使用；未給 name 時以呼叫者方法名命名
func (t *Trace) StartSpan(ctx context.Context, name ...string) (context.Context, trace.Span) {
	n := prettifyFuncName(callerFuncName(4))
	if len(name) > 0 && strings.TrimSpace(name[0]) != "" {
		n = name[0]
	}
	if n == "" {
		n = "unknown"
	}
	return t.StartSpanForLayer(ctx, core.TraceSpanName(n))
}

// parent 可為 *gin.Context 或 context.Context
func (t *Trace) startSpanAny(parent any, name ...string) (context.Context, trace.Span) {
	switch p := parent.(type) {
	case *gin.Context:
		return t.StartSpanFromGin(p, name...)
	case context.Context:
		return t.StartSpan(p, name...)
	default:
		return t.StartSpan(context.Background(), name...)
	}
}

// 統一結束 span（含錯誤標註）
func (t *Trace) EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (t *Trace) WithSpan(parent any, name ...string) (context.Context, trace.Span, func(error)) {
	ctx, span := t.startSpanAny(parent, name...)
	end := func(err error) {
		t.EndSpan(span, err)
	}
	return ctx, span, end
}

// For 下游所有 middleware/handler 使用，統一取得最新 ctx
func (t *Trace) GetTraceContext(c *gin.Context) context.Context {
	if ctx, ok := c.Get(core.ContextTraceKey); ok {
		if tc, ok := ctx.(context.Context); ok {
			return tc
		}
	}
	return c.Request.Context()
}

// ApplyTraceAttributes 依 `trace:"name[,omitempty]"` tag 將欄位寫入 span
func (t *Trace) ApplyTraceAttributes(span trace.Span, obj any) {
	if span == nil || obj == nil || !span.IsRecording() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			span.RecordError(fmt.Errorf("ApplyTraceAttributes panic: %v", r))
		}
	}()
	span.SetAttributes(traceAttributes(obj)...)
}

func traceAttributes(obj any) []attribute.KeyValue {
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}
	typ := val.Type()

	var attrs []attribute.KeyValue
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("trace")
		if tag == "" {
			continue
		}
		key, opt, _ := strings.Cut(tag, ",")
		fieldVal := val.Field(i)
		if !fieldVal.IsValid() || !fieldVal.CanInterface() {
			continue
		}
		if opt == "omitempty" && fieldVal.IsZero() {
			continue
		}

		switch fieldVal.Kind() {
		case reflect.String:
			attrs = append(attrs, attribute.String(key, fieldVal.String()))
		case reflect.Bool:
			attrs = append(attrs, attribute.Bool(key, fieldVal.Bool()))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			attrs = append(attrs, attribute.Int64(key, fieldVal.Int()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			attrs = append(attrs, attribute.Int64(key, int64(fieldVal.Uint())))
		case reflect.Float32, reflect.Float64:
			attrs = append(attrs, attribute.Float64(key, fieldVal.Float()))
		case reflect.Slice, reflect.Array:
			if fieldVal.Type().Elem().Kind() == reflect.String {
				strs := make([]string, fieldVal.Len())
				for j := range strs {
					strs[j] = fieldVal.Index(j).String()
				}
				attrs = append(attrs, attribute.StringSlice(key, strs))
			}
		case reflect.Struct:
			attrs = append(attrs, traceAttributes(fieldVal.Interface())...) // 遞迴
		case reflect.Ptr:
			if fieldVal.IsNil() {
				continue
			}
			if fieldVal.Elem().Kind() == reflect.String {
				attrs = append(attrs, attribute.String(key, fieldVal.Elem().String()))
				continue
			}
			attrs = append(attrs, traceAttributes(fieldVal.Interface())...)
		case reflect.Map:
			if fieldVal.Type().Key().Kind() != reflect.String {
				continue
			}
			iter := fieldVal.MapRange()
			for iter.Next() {
				mapKey := key + "." + iter.Key().String()
				mapVal := iter.Value()
				if mapVal.Kind() == reflect.Interface {
					mapVal = mapVal.Elem()
				}
				switch mapVal.Kind() {
				case reflect.String:
					attrs = append(attrs, attribute.String(mapKey, mapVal.String()))
				case reflect.Int, reflect.Int64:
					attrs = append(attrs, attribute.Int64(mapKey, mapVal.Int()))
				case reflect.Float64, reflect.Float32:
					attrs = append(attrs, attribute.Float64(mapKey, mapVal.Float()))
				case reflect.Bool:
					attrs = append(attrs, attribute.Bool(mapKey, mapVal.Bool()))
				}
			}
		}
	}
	return attrs
}

// ==== 共用：名稱處理 ====

// "formrelay/internal/handler.(*SubmissionHandler).Submit-fm" → "SubmissionHandler.Submit"
func prettifyFuncName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	full = strings.TrimSuffix(full, "-fm")
	if i := strings.LastIndex(full, ".func"); i >= 0 {
		full = full[:i]
	}
	if i := strings.Index(full, "."); i >= 0 {
		full = full[i+1:]
	}
	full = strings.NewReplacer("(*", "", "(", "", ")", "").Replace(full)
	if i := strings.Index(full, "["); i >= 0 {
		if j := strings.Index(full, "]"); j > i {
			full = full[:i] + full[j+1:]
		}
	}
	return full
}

func spanNameFromGin(c *gin.Context) string {
	if hn := c.HandlerName(); hn != "" {
		return prettifyFuncName(hn)
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return c.Request.Method + " " + route
}

func callerFuncName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return ""
}
