package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "trimly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	// Scheduling policy defaults. Adjustable via environment, but these
	// values are load-bearing for existing shops: changing them changes
	// which slots customers are offered.
	DefaultShopTimeZone       = "America/New_York"
	DefaultSlotStepMinutes    = 30
	DefaultBookingBufferMin   = 15
	DefaultMinLeadTimeHours   = 12
	DefaultMaxServiceDuration = 480
)
