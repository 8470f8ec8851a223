package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Stats    StatsConfig
	Rules    RulesConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type ServerConfig struct {
	MainAddr  string
	StatsAddr string
}

// StatsConfig 統計服務的位置與 client 逾時設定
type StatsConfig struct {
	URL     string
	Timeout time.Duration
	AppName string
}

// RulesConfig 業務規則：eventDate 與現在之間的最小間隔
type RulesConfig struct {
	CreateLeadTime  time.Duration // 使用者建立/編輯事件時
	PublishLeadTime time.Duration // 管理員發佈事件時
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Server: ServerConfig{
			MainAddr:  getEnv("SERVER_ADDR", ":8080"),
			StatsAddr: getEnv("STATS_SERVER_ADDR", ":9090"),
		},
		Stats: StatsConfig{
			URL:     getEnv("STATS_SERVER_URL", "http://localhost:9090"),
			Timeout: getDurationEnv("STATS_CLIENT_TIMEOUT", 300*time.Millisecond),
			AppName: getEnv("STATS_APP_NAME", "ewm-main-service"),
		},
		Rules: RulesConfig{
			CreateLeadTime:  getDurationEnv("EVENT_CREATE_LEAD_TIME", 2*time.Hour),
			PublishLeadTime: getDurationEnv("EVENT_PUBLISH_LEAD_TIME", time.Hour),
		},
	}
	return AppConfig
}

func LoadTestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5433", // 測試 DB 用 5433 port
			User:     "postgres",
			Password: "postgres",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     "6380", // 測試 Redis 用 6380 port
			Password: "",
			DB:       1,
		},
		Server: ServerConfig{
			MainAddr:  ":8081",
			StatsAddr: ":9091",
		},
		Stats: StatsConfig{
			URL:     "http://localhost:9091",
			Timeout: 300 * time.Millisecond,
			AppName: "ewm-main-service",
		},
		Rules: RulesConfig{
			CreateLeadTime:  2 * time.Hour,
			PublishLeadTime: time.Hour,
		},
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}
	return d
}
