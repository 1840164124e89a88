package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvShopTimeZone       = "SHOP_TIMEZONE"
	EnvSlotStepMinutes    = "SLOT_STEP_MINUTES"
	EnvBookingBufferMin   = "BOOKING_BUFFER_MINUTES"
	EnvMinLeadTimeHours   = "MIN_LEAD_TIME_HOURS"
	EnvMaxServiceDuration = "MAX_SERVICE_DURATION_MINUTES"
)
