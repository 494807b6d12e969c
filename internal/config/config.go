package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type RedisCache struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// S3 archive. Without AWS_ACCESS_KEY_ID replays are kept in memory only.
type S3 struct {
	Enabled         bool
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func (s S3) String() string {
	return fmt.Sprintf("{Enabled:%t Bucket:%s Prefix:%s Region:%s Endpoint:%s}",
		s.Enabled, s.Bucket, s.Prefix, s.Region, s.Endpoint)
}

type Game struct {
	ReconnectGrace    time.Duration
	DBRetryDelay      time.Duration
	ReplaySaveTimeout time.Duration
}

type Cache struct {
	SessionTTL     time.Duration
	ReplayCacheTTL time.Duration
}

type Logging struct {
	Level  string
	Format string
}

type Config struct {
	HTTP     HTTPServer
	Redis    RedisCache
	Postgres Postgres
	S3       S3
	Game     Game
	Cache    Cache
	Logging  Logging
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := FromEnv()
	log.Printf("%s backend config : %+v\n", logtag, cfg)
	return cfg
}

// FromEnv builds the config from the current environment only.
func FromEnv() *Config {
	return &Config{
		HTTP:     *newHTTP(),
		Redis:    *newRedis(),
		Postgres: *newPostgres(),
		S3:       *newS3(),
		Game:     *newGame(),
		Cache:    *newCache(),
		Logging:  *newLogging(),
	}
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "3000"),
		Host: getenv("HTTP_HOST", "0.0.0.0"),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", "redis"),
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       getint("REDIS_DB", 0),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "columns"),
		Password: getenv("DB_PASSWORD", "columns"),
		DBName:   getenv("DB_NAME", "columns"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newS3() *S3 {
	// credentials are not echoed
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	return &S3{
		Enabled:         accessKey != "",
		Bucket:          getenv("S3_BUCKET", "columns-replays"),
		Prefix:          getenv("S3_PREFIX", "replays"),
		Region:          getenv("S3_REGION", "us-east-1"),
		Endpoint:        getenv("S3_ENDPOINT", ""),
		AccessKeyID:     accessKey,
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
}

func newGame() *Game {
	return &Game{
		ReconnectGrace:    getduration("ROOM_RECONNECT_GRACE", 60*time.Second),
		DBRetryDelay:      getduration("DB_RETRY_DELAY", 5*time.Second),
		ReplaySaveTimeout: getduration("REPLAY_SAVE_TIMEOUT", 10*time.Second),
	}
}

func newCache() *Cache {
	return &Cache{
		SessionTTL:     getduration("SESSION_TTL", 24*time.Hour),
		ReplayCacheTTL: getduration("REPLAY_CACHE_TTL", 10*time.Minute),
	}
}

func newLogging() *Logging {
	return &Logging{
		Level:  getenv("LOG_LEVEL", "info"),
		Format: getenv("LOG_FORMAT", "text"),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getduration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	d, err := time.ParseDuration(raw)
	if err != nil {
		fmt.Printf("%s %s = %q is not a duration. Using default value %s\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getint(key string, defaultValue int) int {
	raw := getenv(key, fmt.Sprint(defaultValue))
	var n int
	if _, err := fmt.Sscan(raw, &n); err != nil {
		fmt.Printf("%s %s = %q is not a number. Using default value %d\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return n
}
