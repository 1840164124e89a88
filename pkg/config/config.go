package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"trimly/pkg/client"
	"trimly/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Scheduling policy. All recurring rules and day boundaries are
	// interpreted in the shop's timezone, never the caller's.
	ShopTimeZone          string
	SlotStepMinutes       int
	BookingBufferMinutes  int
	MinLeadTimeHours      int
	MaxServiceDurationMin int

	Log      *logger.Logger
	Client   *client.Client
	Location *time.Location
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		ShopTimeZone:          getEnvStr(EnvShopTimeZone, DefaultShopTimeZone),
		SlotStepMinutes:       getEnvNum(EnvSlotStepMinutes, DefaultSlotStepMinutes),
		BookingBufferMinutes:  getEnvNum(EnvBookingBufferMin, DefaultBookingBufferMin),
		MinLeadTimeHours:      getEnvNum(EnvMinLeadTimeHours, DefaultMinLeadTimeHours),
		MaxServiceDurationMin: getEnvNum(EnvMaxServiceDuration, DefaultMaxServiceDuration),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.FormatJSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	loc, err := time.LoadLocation(cfg.ShopTimeZone)
	if err != nil {
		errors = append(errors, fmt.Sprintf("ShopTimeZone must be a valid IANA timezone, got: %s", cfg.ShopTimeZone))
	} else {
		cfg.Location = loc
	}

	if cfg.SlotStepMinutes <= 0 {
		errors = append(errors, fmt.Sprintf("SlotStepMinutes must be positive, got: %d", cfg.SlotStepMinutes))
	}
	if cfg.BookingBufferMinutes < 0 {
		errors = append(errors, fmt.Sprintf("BookingBufferMinutes cannot be negative, got: %d", cfg.BookingBufferMinutes))
	}
	if cfg.MinLeadTimeHours < 0 {
		errors = append(errors, fmt.Sprintf("MinLeadTimeHours cannot be negative, got: %d", cfg.MinLeadTimeHours))
	}
	if cfg.MaxServiceDurationMin <= 0 {
		errors = append(errors, fmt.Sprintf("MaxServiceDurationMin must be positive, got: %d", cfg.MaxServiceDurationMin))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"shop_timezone", cfg.ShopTimeZone,
		"slot_step_minutes", cfg.SlotStepMinutes,
		"booking_buffer_minutes", cfg.BookingBufferMinutes,
		"min_lead_time_hours", cfg.MinLeadTimeHours,
		"max_service_duration_minutes", cfg.MaxServiceDurationMin,
	)
}

// SlotStep returns the fixed slot generation step.
func (cfg *Config) SlotStep() time.Duration {
	return time.Duration(cfg.SlotStepMinutes) * time.Minute
}

// BookingBuffer returns the padding applied to each side of an existing booking.
func (cfg *Config) BookingBuffer() time.Duration {
	return time.Duration(cfg.BookingBufferMinutes) * time.Minute
}

// MinLeadTime returns the minimum notice between booking time and appointment start.
func (cfg *Config) MinLeadTime() time.Duration {
	return time.Duration(cfg.MinLeadTimeHours) * time.Hour
}

// MaxServiceDuration returns the longest bookable service length.
func (cfg *Config) MaxServiceDuration() time.Duration {
	return time.Duration(cfg.MaxServiceDurationMin) * time.Minute
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
