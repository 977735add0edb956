package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "FILES"

// envKeys lists the viper keys read from the environment. A key maps to
// FILES_<KEY> with dots turned into underscores; extra names are legacy
// aliases still honoured.
var envKeys = map[string][]string{
	"http.addr":                      {"PORT"},
	"grpc.health_addr":               nil,
	"database.dsn":                   {"DATABASE_URL"},
	"database.migrate_on_start":      nil,
	"shutdown_timeout":               nil,
	"max_upload_bytes":               nil,
	"page_size":                      nil,
	"auth.token_ttl":                 nil,
	"auth.password_scheme":           nil,
	"auth.enforce_publish_ownership": nil,
	"sessions.backend":               nil,
	"redis.addr":                     {"REDIS_ADDR"},
	"redis.password":                 nil,
	"redis.db":                       nil,
	"sessions.badger_dir":            nil,
	"content.backend":                nil,
	"content.folder_path":            {"FOLDER_PATH"},
	"content.s3_access_key":          nil,
	"content.s3_secret_key":          nil,
	"content.s3_bucket":              nil,
	"content.s3_region":              nil,
	"content.s3_base_endpoint":       nil,
	"thumbnails.queue":               nil,
	"thumbnails.queue_name":          nil,
	"thumbnails.workers":             nil,
	"thumbnails.sizes":               nil,
	"logging.level":                  nil,
	"logging.format":                 nil,
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// parseEnv loads envFile (if it exists) into the process environment and
// overlays every bound variable that is set onto config. Variables already
// present in the environment win over the .env file.
func parseEnv(config *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, aliases := range envKeys {
		names := append([]string{key, envName(key)}, aliases...)
		if err := v.BindEnv(names...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if v.IsSet("http.addr") {
		config.HTTPAddr = v.GetString("http.addr")
		// PORT carries a bare port number.
		if _, err := strconv.Atoi(config.HTTPAddr); err == nil {
			config.HTTPAddr = ":" + config.HTTPAddr
		}
	}
	if v.IsSet("grpc.health_addr") {
		config.GRPCHealthAddr = v.GetString("grpc.health_addr")
	}
	if v.IsSet("database.dsn") {
		config.DatabaseDSN = v.GetString("database.dsn")
	}
	if v.IsSet("database.migrate_on_start") {
		config.MigrateOnStart = v.GetBool("database.migrate_on_start")
	}
	if v.IsSet("shutdown_timeout") {
		config.ShutdownTimeout = v.GetDuration("shutdown_timeout")
	}
	if v.IsSet("max_upload_bytes") {
		config.MaxUploadBytes = v.GetInt64("max_upload_bytes")
	}
	if v.IsSet("page_size") {
		config.PageSize = v.GetInt("page_size")
	}

	if v.IsSet("auth.token_ttl") {
		config.TokenTTL = v.GetDuration("auth.token_ttl")
	}
	if v.IsSet("auth.password_scheme") {
		config.PasswordScheme = v.GetString("auth.password_scheme")
	}
	if v.IsSet("auth.enforce_publish_ownership") {
		config.EnforcePublishOwnership = v.GetBool("auth.enforce_publish_ownership")
	}

	if v.IsSet("sessions.backend") {
		config.SessionBackend = v.GetString("sessions.backend")
	}
	if v.IsSet("redis.addr") {
		config.RedisAddr = v.GetString("redis.addr")
	}
	if v.IsSet("redis.password") {
		config.RedisPassword = v.GetString("redis.password")
	}
	if v.IsSet("redis.db") {
		config.RedisDB = v.GetInt("redis.db")
	}
	if v.IsSet("sessions.badger_dir") {
		config.BadgerDir = v.GetString("sessions.badger_dir")
	}

	if v.IsSet("content.backend") {
		config.ContentBackend = v.GetString("content.backend")
	}
	if v.IsSet("content.folder_path") {
		config.FolderPath = v.GetString("content.folder_path")
	}
	if v.IsSet("content.s3_access_key") {
		config.S3AccessKey = v.GetString("content.s3_access_key")
	}
	if v.IsSet("content.s3_secret_key") {
		config.S3SecretKey = v.GetString("content.s3_secret_key")
	}
	if v.IsSet("content.s3_bucket") {
		config.S3Bucket = v.GetString("content.s3_bucket")
	}
	if v.IsSet("content.s3_region") {
		config.S3Region = v.GetString("content.s3_region")
	}
	if v.IsSet("content.s3_base_endpoint") {
		config.S3BaseEndpoint = v.GetString("content.s3_base_endpoint")
	}

	if v.IsSet("thumbnails.queue") {
		config.QueueBackend = v.GetString("thumbnails.queue")
	}
	if v.IsSet("thumbnails.queue_name") {
		config.QueueName = v.GetString("thumbnails.queue_name")
	}
	if v.IsSet("thumbnails.workers") {
		config.Workers = v.GetInt("thumbnails.workers")
	}
	if v.IsSet("thumbnails.sizes") {
		sizes, err := parseSizes(v.GetString("thumbnails.sizes"))
		if err != nil {
			return fmt.Errorf("%s: %w", envName("thumbnails.sizes"), err)
		}
		config.ThumbnailSizes = sizes
	}

	if v.IsSet("logging.level") {
		config.LogLevel = v.GetString("logging.level")
	}
	if v.IsSet("logging.format") {
		config.LogFormat = v.GetString("logging.format")
	}

	return nil
}

// parseSizes reads a comma separated list such as "500,250,100".
func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q", part)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
