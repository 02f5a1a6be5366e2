package config

// EnvPrefix namespaces all environment variables consumed by the service.
const EnvPrefix = "tavola"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "TAVOLA_DB_DSN"
	EnvDBHost = "TAVOLA_DB_HOST"
	EnvDBUser = "TAVOLA_DB_USER"
	EnvDBName = "TAVOLA_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
