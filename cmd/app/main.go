package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"blog-service/configs"
	"blog-service/internal/kafka"
	"blog-service/internal/metrics"
	"blog-service/internal/posts"
	"blog-service/internal/ratelimit"
	"blog-service/internal/shared/httpx"
)

func initOTEL(ctx context.Context) func(context.Context) error {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return func(context.Context) error { return nil }
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		log.Fatalf("otel exporter: %v", err)
	}
	svcName := os.Getenv("OTEL_SERVICE_NAME")
	if svcName == "" {
		svcName = "blog-service"
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(svcName),
		attribute.String("deployment.environment", os.Getenv("ENV")),
	))
	ratio := 1.0
	if s := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); s != "" {
		if f, e := strconv.ParseFloat(s, 64); e == nil && f >= 0 && f <= 1 {
			ratio = f
		}
	}
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown
}

func main() {
	ctx := context.Background()
	shutdown := initOTEL(ctx)
	defer func() {
		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = shutdown(c)
	}()

	cfg := configs.LoadConfig()

	schema, err := posts.NewSchema(cfg.SchemaFields)
	if err != nil {
		log.Fatalf("schema: %v", err)
	}

	store := posts.NewStore()
	if cfg.Seed {
		posts.Seed(store)
	}

	var pub posts.Publisher = posts.NopPublisher{}
	if cfg.KafkaBrokerURL != "" {
		producer := kafka.NewProducer(cfg.KafkaBrokerURL, cfg.KafkaTopic)
		defer producer.Close()
		pub = producer
	}

	svc := posts.NewService(schema, store, pub)
	ph := posts.NewHandler(svc)

	// Throttling is a wrapper around routes, never part of the engine.
	throttle := func(h http.Handler) http.Handler { return h }
	if addr := cfg.RedisAddr(); addr != "" {
		limiter := ratelimit.New(redis.NewClient(&redis.Options{Addr: addr}))
		throttle = func(h http.Handler) http.Handler {
			return limiter.LimitHTTP(int64(cfg.RateLimitRPM), time.Minute, httpx.ClientIP, h)
		}
	}
	mount := func(mux *http.ServeMux, pattern, route string, fn httpx.HandlerFunc) {
		mux.Handle(pattern, metrics.Instrument(route, throttle(httpx.Wrap(fn))))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	mount(mux, "GET /posts", "/posts", ph.List)
	mount(mux, "POST /posts", "/posts", ph.Create)
	mount(mux, "PUT /posts/{id}", "/posts/{id}", ph.Update)
	mount(mux, "DELETE /posts/{id}", "/posts/{id}", ph.Delete)
	mount(mux, "GET /posts/search", "/posts/search", ph.Search)

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           otelhttp.NewHandler(httpx.CORS(mux), "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
	log.Printf("blog-service listening on %s", cfg.AppPort)
	log.Fatal(srv.ListenAndServe())
}
