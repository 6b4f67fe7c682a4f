package main

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/go-kit/kit/endpoint"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	authDeliveryHTTP "github.com/superj80820/pharmacy-ocr/auth/delivery/http"
	accountORMRepo "github.com/superj80820/pharmacy-ocr/auth/repository/account/orm"
	authUseCase "github.com/superj80820/pharmacy-ocr/auth/usecase/auth"
	"github.com/superj80820/pharmacy-ocr/domain"
	httpKit "github.com/superj80820/pharmacy-ocr/kit/http"
	httpMiddlewareKit "github.com/superj80820/pharmacy-ocr/kit/http/middleware"
	loggerKit "github.com/superj80820/pharmacy-ocr/kit/logger"
	kafkaMQKit "github.com/superj80820/pharmacy-ocr/kit/mq/kafka"
	ormKit "github.com/superj80820/pharmacy-ocr/kit/orm"
	traceKit "github.com/superj80820/pharmacy-ocr/kit/trace"
	utilKit "github.com/superj80820/pharmacy-ocr/kit/util"
	ocrDeliveryHTTP "github.com/superj80820/pharmacy-ocr/ocr/delivery/http"
	eventMQRepo "github.com/superj80820/pharmacy-ocr/ocr/repository/event/mq"
	"github.com/superj80820/pharmacy-ocr/ocr/repository/recognizer"
	recordORMRepo "github.com/superj80820/pharmacy-ocr/ocr/repository/record/orm"
	"github.com/superj80820/pharmacy-ocr/ocr/usecase/extractor"
	ocrUseCase "github.com/superj80820/pharmacy-ocr/ocr/usecase/ocr"
	"go.opentelemetry.io/otel/trace"
)

const (
	SYSTEM_NAME  = "pharmacy"
	SERVICE_NAME = "ocr"
)

func main() {
	utilKit.LoadEnvFile(".env")
	cfg := loadConfig()

	logLevel := loggerKit.InfoLevel
	if cfg.env == "development" {
		logLevel = loggerKit.DebugLevel
	}
	logger, err := loggerKit.NewLogger(cfg.logPath, logLevel, loggerKit.WithRotateLog(100, 10, 30))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tracer trace.Tracer
	if cfg.enableTracer {
		var shutdownTracer traceKit.Shutdown
		tracer, shutdownTracer, err = traceKit.CreateTracer(ctx, SERVICE_NAME)
		if err != nil {
			panic(err)
		}
		defer shutdownTracer(context.Background())
	} else {
		tracer = traceKit.CreateNoOpTracer()
	}

	dbOptions := []ormKit.Option{}
	if cfg.dbAutoMigrate {
		dbOptions = append(dbOptions, ormKit.WithAutoMigrate(&recordORMRepo.ProcessedRecordEntity{}, &accountORMRepo.AccountEntity{}))
	}
	singletonDB, err := ormKit.CreateDB(ormKit.UseDriver(cfg.dbDriver, cfg.dbDSN), dbOptions...)
	if err != nil {
		panic(err)
	}
	defer singletonDB.Close()

	ocrBackend := createBackend(cfg, logger)
	defer ocrBackend.close()

	engine, err := createRecognizerEngine(cfg)
	if err != nil {
		panic(err)
	}
	recognizerRepo := recognizer.CreateRecognizerRepo(
		engine,
		logger,
		recognizer.WithMaxImageSize(cfg.maxImageSize),
		recognizer.WithMinConfidence(cfg.minConfidence),
	)

	dictionary := extractor.DefaultDictionary()
	if cfg.dictionaryPath != "" {
		if dictionary, err = extractor.LoadDictionary(cfg.dictionaryPath); err != nil {
			panic(err)
		}
	}

	recordEventRepo := eventMQRepo.CreateNoOpRecordEventRepo()
	if len(cfg.kafkaBrokers) != 0 {
		producer, err := kafkaMQKit.CreateProducer(cfg.kafkaBrokers, cfg.kafkaRecordTopic)
		if err != nil {
			panic(err)
		}
		defer producer.Close()
		recordEventRepo = eventMQRepo.CreateRecordEventRepo(producer)
	}

	outcomeCounter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: SERVICE_NAME,
		Subsystem: "pipeline",
		Name:      "outcome_total",
		Help:      "Number of processed images by outcome status and cache usage.",
	}, []string{"status", "cache"})

	ocrService, err := ocrUseCase.CreateOCRUseCase(
		recognizerRepo,
		ocrBackend.cacheRepo,
		ocrBackend.rateLimitRepo,
		recordORMRepo.CreateProcessedRecordRepo(singletonDB),
		logger,
		ocrUseCase.WithCacheTTL(cfg.cacheTTL),
		ocrUseCase.WithCacheFailedResults(cfg.cacheFailedResults),
		ocrUseCase.WithMaxUploadSize(cfg.maxUploadSize),
		ocrUseCase.WithMaxBatchSize(cfg.bulkMaxBatchSize),
		ocrUseCase.WithWorkerCount(cfg.bulkWorkerCount),
		ocrUseCase.WithProductExtractor(extractor.CreateExtractorUseCase(dictionary)),
		ocrUseCase.WithRecordEventRepo(recordEventRepo),
		ocrUseCase.WithOutcomeCounter(outcomeCounter),
	)
	if err != nil {
		panic(err)
	}
	authService, err := authUseCase.CreateAuthUseCase(accountORMRepo.CreateAccountRepo(singletonDB), cfg.jwtSecret, cfg.accessTokenExpire, logger)
	if err != nil {
		panic(err)
	}

	r := createRouter(cfg, logger, tracer, ocrBackend, ocrService, authService)

	g := new(run.Group)
	{
		g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	}
	{
		httpSrv := http.Server{
			Addr: cfg.httpAddr,
			Handler: cors.New(cors.Options{
				AllowedOrigins: cfg.corsAllowedOrigins,
				AllowedMethods: []string{"HEAD", "GET", "POST"},
				AllowedHeaders: []string{"Authorization", "Content-Type", httpKit.RequestIDHeader},
				ExposedHeaders: []string{"Retry-After", httpKit.RequestIDHeader},
			}).Handler(r),
		}
		g.Add(func() error {
			logger.Info("http server start", loggerKit.String("addr", cfg.httpAddr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}, func(err error) {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()
			httpSrv.Shutdown(shutdownCtx)
		})
	}
	if cfg.enableMetric && cfg.metricsAddr != "" {
		metricsSrv := http.Server{
			Addr:    cfg.metricsAddr,
			Handler: promhttp.Handler(),
		}
		g.Add(func() error {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}, func(err error) {
			metricsSrv.Close()
		})
	}

	if err := g.Run(); err != nil {
		var signalErr run.SignalError
		if errors.As(err, &signalErr) {
			logger.Info("shutdown", loggerKit.String("signal", signalErr.Signal.String()))
			return
		}
		logger.Error("server stopped", loggerKit.Error(err))
	}
}

func createRouter(
	cfg *config,
	logger *loggerKit.Logger,
	tracer trace.Tracer,
	ocrBackend *backend,
	ocrService domain.OCRUseCase,
	authService domain.AuthUseCase,
) *mux.Router {
	customMiddleware := endpoint.Chain(
		httpMiddlewareKit.CreateLoggingMiddleware(logger),
		httpMiddlewareKit.CreateMetrics(SYSTEM_NAME, SERVICE_NAME),
	)
	authMiddleware := httpMiddlewareKit.CreateAuthMiddleware(authService.Verify)
	authRateLimitMiddleware := ocrBackend.authRateLimitMiddleware()

	r := mux.NewRouter()
	options := []httptransport.ServerOption{
		httptransport.ServerBefore(httpKit.CustomBeforeCtx(tracer)),
		httptransport.ServerAfter(httpKit.CustomAfterCtx),
		httptransport.ServerErrorEncoder(httpKit.EncodeHTTPErrorResponse()),
	}
	r.Methods("POST").Path("/api/v1/register").Handler(
		httptransport.NewServer(
			customMiddleware(authRateLimitMiddleware(authDeliveryHTTP.MakeAccountRegisterEndpoint(authService))),
			authDeliveryHTTP.DecodeAccountRegisterRequest,
			authDeliveryHTTP.EncodeAccountRegisterResponse,
			options...,
		))
	r.Methods("POST").Path("/api/v1/token").Handler(
		httptransport.NewServer(
			customMiddleware(authRateLimitMiddleware(authDeliveryHTTP.MakeAuthTokenEndpoint(authService))),
			authDeliveryHTTP.DecodeAuthTokenRequest,
			authDeliveryHTTP.EncodeAuthTokenResponse,
			options...,
		))
	r.Methods("POST").Path("/api/v1/process-image").Handler(
		httptransport.NewServer(
			customMiddleware(authMiddleware(ocrDeliveryHTTP.MakeProcessImageEndpoint(ocrService))),
			ocrDeliveryHTTP.CreateDecodeProcessImageRequest(int64(cfg.maxUploadSize)),
			ocrDeliveryHTTP.EncodeProcessImageResponse,
			options...,
		))
	r.Methods("POST").Path("/api/v1/process-bulk").Handler(
		httptransport.NewServer(
			customMiddleware(authMiddleware(ocrDeliveryHTTP.MakeProcessBulkEndpoint(ocrService))),
			ocrDeliveryHTTP.CreateDecodeProcessBulkRequest(int64(cfg.maxUploadSize), cfg.bulkMaxBatchSize),
			ocrDeliveryHTTP.EncodeProcessBulkResponse,
			options...,
		))
	r.Methods("GET").Path("/api/v1/records").Handler(
		httptransport.NewServer(
			customMiddleware(authMiddleware(ocrDeliveryHTTP.MakeRecordsGetEndpoint(ocrService))),
			ocrDeliveryHTTP.DecodeRecordsGetRequest,
			ocrDeliveryHTTP.EncodeRecordsGetResponse,
			options...,
		))
	r.Methods("GET").Path("/api/health").Handler(
		httptransport.NewServer(
			ocrDeliveryHTTP.MakeHealthEndpoint(ocrBackend.cacheRepo),
			ocrDeliveryHTTP.DecodeHealthRequest,
			ocrDeliveryHTTP.EncodeHealthResponse,
			options...,
		))
	if cfg.enableMetric && cfg.metricsAddr == "" {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}
