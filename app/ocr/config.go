package main

import (
	"time"

	utilKit "github.com/superj80820/pharmacy-ocr/kit/util"
)

const (
	cacheBackendRedis  = "redis"
	cacheBackendMemory = "memory"
	cacheBackendNone   = "none"

	ocrEngineTesseract = "tesseract"
	ocrEngineHTTP      = "http"
)

type config struct {
	env          string
	httpAddr     string
	metricsAddr  string
	enableMetric bool
	enableTracer bool
	logPath      string

	dbDriver      string
	dbDSN         string
	dbAutoMigrate bool

	cacheBackend       string
	redisURI           string
	redisPassword      string
	redisDB            int
	cacheTTL           time.Duration
	cacheFailedResults bool

	rateLimitEnable      bool
	rateLimitWindow      time.Duration
	rateLimitMaxRequests int

	bulkMaxBatchSize int
	bulkWorkerCount  int
	maxUploadSize    int
	maxImageSize     int
	minConfidence    float64

	ocrEngine          string
	ocrEngineURL       string
	ocrEngineTimeout   time.Duration
	tesseractLanguages []string
	dictionaryPath     string

	jwtSecret         string
	accessTokenExpire time.Duration

	kafkaBrokers     []string
	kafkaRecordTopic string

	corsAllowedOrigins []string
}

func loadConfig() *config {
	return &config{
		env:          utilKit.GetEnvString("ENV", "development"),
		httpAddr:     utilKit.GetEnvString("HTTP_ADDR", ":8000"),
		metricsAddr:  utilKit.GetEnvString("METRICS_ADDR", ""),
		enableMetric: utilKit.GetEnvBool("ENABLE_METRIC", false),
		enableTracer: utilKit.GetEnvBool("ENABLE_TRACER", false),
		logPath:      utilKit.GetEnvString("LOG_PATH", "./go.log"),

		dbDriver:      utilKit.GetEnvString("DB_DRIVER", "sqlite"),
		dbDSN:         utilKit.GetEnvString("DB_DSN", "./pharmacy-ocr.db"),
		dbAutoMigrate: utilKit.GetEnvBool("DB_AUTO_MIGRATE", true),

		cacheBackend:       utilKit.GetEnvString("CACHE_BACKEND", cacheBackendRedis),
		redisURI:           utilKit.GetEnvString("REDIS_URI", ""),
		redisPassword:      utilKit.GetEnvString("REDIS_PASSWORD", ""),
		redisDB:            utilKit.GetEnvInt("REDIS_DB", 0),
		cacheTTL:           utilKit.GetEnvSeconds("CACHE_TTL_SECONDS", time.Hour),
		cacheFailedResults: utilKit.GetEnvBool("CACHE_FAILED_RESULTS", false),

		rateLimitEnable:      utilKit.GetEnvBool("RATE_LIMIT_ENABLE", true),
		rateLimitWindow:      utilKit.GetEnvSeconds("RATE_LIMIT_WINDOW_SECONDS", time.Minute),
		rateLimitMaxRequests: utilKit.GetEnvInt("RATE_LIMIT_MAX_REQUESTS", 60),

		bulkMaxBatchSize: utilKit.GetEnvInt("BULK_MAX_BATCH_SIZE", 10),
		bulkWorkerCount:  utilKit.GetEnvInt("BULK_WORKER_COUNT", 4),
		maxUploadSize:    utilKit.GetEnvInt("MAX_UPLOAD_SIZE", 10<<20),
		maxImageSize:     utilKit.GetEnvInt("MAX_IMAGE_SIZE", 4096),
		minConfidence:    utilKit.GetEnvFloat64("MIN_CONFIDENCE", 0.5),

		ocrEngine:          utilKit.GetEnvString("OCR_ENGINE", ocrEngineTesseract),
		ocrEngineURL:       utilKit.GetEnvString("OCR_ENGINE_URL", ""),
		ocrEngineTimeout:   utilKit.GetEnvSeconds("OCR_ENGINE_TIMEOUT_SECONDS", 30*time.Second),
		tesseractLanguages: utilKit.GetEnvStringSlice("TESSERACT_LANGUAGES", []string{"eng"}),
		dictionaryPath:     utilKit.GetEnvString("EXTRACTOR_DICTIONARY_PATH", ""),

		jwtSecret:         utilKit.GetRequireEnvString("JWT_SECRET"),
		accessTokenExpire: time.Duration(utilKit.GetEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,

		kafkaBrokers:     utilKit.GetEnvStringSlice("KAFKA_BROKERS", nil),
		kafkaRecordTopic: utilKit.GetEnvString("KAFKA_RECORD_TOPIC", "ocr-record-processed"),

		corsAllowedOrigins: utilKit.GetEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}
