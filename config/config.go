package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	BlobBackendDisk = "disk"
	BlobBackendS3   = "s3"
)

type (
	APP struct {
		Name      string        `validate:"required"`
		Host      string
		Port      string        `validate:"required,numeric"`
		Env       string
		JWTSecret string        `validate:"required"`
		TokenTTL  time.Duration `validate:"gt=0"`
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
	}
	Media struct {
		// TTL is how long an upload may wait to be claimed.
		TTL         time.Duration `validate:"gt=0"`
		OrphanGrace time.Duration `validate:"gte=0"`
		SweepEvery  time.Duration `validate:"gt=0"`
		SweepBatch  int           `validate:"gt=0,lte=10000"`
		MaxSize     int64         `validate:"gt=0"`
	}
	Blob struct {
		Backend string `validate:"oneof=disk s3"`
		Root    string `validate:"required_if=Backend disk"`
	}
	S3 struct {
		Endpoint        string
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		BucketUploads   string
		UseSSL          bool
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App   APP
		DB    DB
		Media Media
		Blob  Blob
		S3    S3
		MQ    MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, def int64) (int64, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Load reads .env when present, then the process environment, and validates
// the result.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var errs []error
	duration := func(key string, def time.Duration) time.Duration {
		d, err := getDuration(key, def)
		errs = append(errs, err)
		return d
	}
	integer := func(key string, def int64) int64 {
		n, err := getInt(key, def)
		errs = append(errs, err)
		return n
	}

	app := APP{
		Name:      getEnv("SERVICE_NAME", "socialmedia"),
		Host:      getEnv("SERVICE_HOST", ""),
		Port:      getEnv("SERVICE_PORT", "8080"),
		Env:       getEnv("SERVICE_ENV", ""),
		JWTSecret: getEnv("SERVICE_JWT_SECRET", ""),
		TokenTTL:  duration("SERVICE_TOKEN_TTL", time.Hour),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
	}
	media := Media{
		TTL:         duration("MEDIA_TTL", 60*time.Second),
		OrphanGrace: duration("MEDIA_ORPHAN_GRACE", time.Hour),
		SweepEvery:  duration("MEDIA_SWEEP_EVERY", 5*time.Minute),
		SweepBatch:  int(integer("MEDIA_SWEEP_BATCH", 100)),
		MaxSize:     integer("MEDIA_MAX_SIZE", 10<<20),
	}
	blob := Blob{
		Backend: getEnv("BLOB_BACKEND", BlobBackendDisk),
		Root:    getEnv("BLOB_ROOT", "./data/media"),
	}
	s3 := S3{
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		Region:          getEnv("S3_REGION", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		BucketUploads:   getEnv("S3_BUCKET_UPLOADS", ""),
		UseSSL:          getEnv("S3_USE_SSL", "true") == "true",
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "socialmedia.events"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "socialmedia.audit"),
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	cfg := Config{
		App:   app,
		DB:    db,
		Media: media,
		Blob:  blob,
		S3:    s3,
		MQ:    mq,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Blob.Backend == BlobBackendS3 && c.S3.BucketUploads == "" {
		return fmt.Errorf("invalid config: S3_BUCKET_UPLOADS is required for the s3 blob backend")
	}

	return nil
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
