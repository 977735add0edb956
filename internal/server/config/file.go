package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
	"github.com/dmitrijs2005/filesmanager/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config for JSON and YAML files. Durations use
// timex.Duration so both "24h" and integer nanoseconds are accepted.
// Pointer fields distinguish an explicit false/zero from an absent key.
type FileConfig struct {
	HTTPAddr        string         `json:"http_addr" yaml:"http_addr"`
	GRPCHealthAddr  *string        `json:"grpc_health_addr" yaml:"grpc_health_addr"`
	DatabaseDSN     string         `json:"database_dsn" yaml:"database_dsn"`
	MigrateOnStart  *bool          `json:"migrate_on_start" yaml:"migrate_on_start"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxUploadBytes  int64          `json:"max_upload_bytes" yaml:"max_upload_bytes"`
	PageSize        int            `json:"page_size" yaml:"page_size"`

	Auth struct {
		TokenTTL                timex.Duration `json:"token_ttl" yaml:"token_ttl"`
		PasswordScheme          string         `json:"password_scheme" yaml:"password_scheme"`
		EnforcePublishOwnership *bool          `json:"enforce_publish_ownership" yaml:"enforce_publish_ownership"`
	} `json:"auth" yaml:"auth"`

	Sessions struct {
		Backend       string `json:"backend" yaml:"backend"`
		RedisAddr     string `json:"redis_addr" yaml:"redis_addr"`
		RedisPassword string `json:"redis_password" yaml:"redis_password"`
		RedisDB       *int   `json:"redis_db" yaml:"redis_db"`
		BadgerDir     string `json:"badger_dir" yaml:"badger_dir"`
	} `json:"sessions" yaml:"sessions"`

	Content struct {
		Backend        string `json:"backend" yaml:"backend"`
		FolderPath     string `json:"folder_path" yaml:"folder_path"`
		S3AccessKey    string `json:"s3_access_key" yaml:"s3_access_key"`
		S3SecretKey    string `json:"s3_secret_key" yaml:"s3_secret_key"`
		S3Bucket       string `json:"s3_bucket" yaml:"s3_bucket"`
		S3Region       string `json:"s3_region" yaml:"s3_region"`
		S3BaseEndpoint string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	} `json:"content" yaml:"content"`

	Thumbnails struct {
		Queue     string `json:"queue" yaml:"queue"`
		QueueName string `json:"queue_name" yaml:"queue_name"`
		Workers   *int   `json:"workers" yaml:"workers"`
		Sizes     []int  `json:"sizes" yaml:"sizes"`
	} `json:"thumbnails" yaml:"thumbnails"`

	Logging struct {
		Level  string `json:"level" yaml:"level"`
		Format string `json:"format" yaml:"format"`
	} `json:"logging" yaml:"logging"`
}

// parseFile loads the file named by -c/-config, if any, and overlays every
// key present in it onto config. Files ending in .yaml or .yml are decoded
// as YAML, anything else as JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)

	// nothing to load
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	if c.GRPCHealthAddr != nil {
		config.GRPCHealthAddr = *c.GRPCHealthAddr
	}
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.MigrateOnStart != nil {
		config.MigrateOnStart = *c.MigrateOnStart
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.MaxUploadBytes > 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	if c.PageSize > 0 {
		config.PageSize = c.PageSize
	}

	if c.Auth.TokenTTL.Duration > 0 {
		config.TokenTTL = c.Auth.TokenTTL.Duration
	}
	setString(&config.PasswordScheme, c.Auth.PasswordScheme)
	if c.Auth.EnforcePublishOwnership != nil {
		config.EnforcePublishOwnership = *c.Auth.EnforcePublishOwnership
	}

	setString(&config.SessionBackend, c.Sessions.Backend)
	setString(&config.RedisAddr, c.Sessions.RedisAddr)
	setString(&config.RedisPassword, c.Sessions.RedisPassword)
	if c.Sessions.RedisDB != nil {
		config.RedisDB = *c.Sessions.RedisDB
	}
	setString(&config.BadgerDir, c.Sessions.BadgerDir)

	setString(&config.ContentBackend, c.Content.Backend)
	setString(&config.FolderPath, c.Content.FolderPath)
	setString(&config.S3AccessKey, c.Content.S3AccessKey)
	setString(&config.S3SecretKey, c.Content.S3SecretKey)
	setString(&config.S3Bucket, c.Content.S3Bucket)
	setString(&config.S3Region, c.Content.S3Region)
	setString(&config.S3BaseEndpoint, c.Content.S3BaseEndpoint)

	setString(&config.QueueBackend, c.Thumbnails.Queue)
	setString(&config.QueueName, c.Thumbnails.QueueName)
	if c.Thumbnails.Workers != nil {
		config.Workers = *c.Thumbnails.Workers
	}
	if len(c.Thumbnails.Sizes) > 0 {
		config.ThumbnailSizes = c.Thumbnails.Sizes
	}

	setString(&config.LogLevel, c.Logging.Level)
	setString(&config.LogFormat, c.Logging.Format)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
