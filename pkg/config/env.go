package config

// EnvPrefix is passed to envconfig; individual vars carry the full name in
// their struct tags so the prefix is effectively documentation.
const EnvPrefix = "BAREX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "BAREX_APP_ENV"
	EnvPort     = "BAREX_APP_PORT"
	EnvLogLevel = "BAREX_LOG_LEVEL"

	EnvDBDSN      = "BAREX_DB_DSN"
	EnvDBHost     = "BAREX_DB_HOST"
	EnvDBPort     = "BAREX_DB_PORT"
	EnvDBUser     = "BAREX_DB_USER"
	EnvDBPassword = "BAREX_DB_PASSWORD"
	EnvDBName     = "BAREX_DB_NAME"

	EnvRedisURL = "BAREX_REDIS_URL"

	EnvGCPProjectID = "BAREX_GCP_PROJECT_ID"

	EnvPubSubOrdersTopic = "BAREX_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub   = "BAREX_PUBSUB_ORDERS_SUBSCRIPTION"

	EnvPricingIncreaseRate  = "BAREX_PRICING_INCREASE_RATE"
	EnvPricingDecayFactor   = "BAREX_PRICING_DECAY_FACTOR"
	EnvPricingDecayInterval = "BAREX_PRICING_DECAY_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
