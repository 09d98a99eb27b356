// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// LLM (Anthropic Claude)
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicTimeout time.Duration

	// 代替ソース用のAPIキー（未設定のソースはスキップされる）
	NewsAPIKey     string
	CurrentsAPIKey string
	GuardianAPIKey string
	NYTAPIKey      string

	// Fetch
	FetchTimeout  time.Duration
	FetchMaxSize  int64
	ScrapeTimeout time.Duration // og:imageスクレイプのタイムアウト

	// Pipeline
	RequestDelay     time.Duration // LLM呼び出し・永続化の間に挟む遅延
	BufferMultiplier int           // 要求件数に対する処理バッファの倍率
	MaxAttempts      int           // 1バッチあたりの絶対試行上限

	// Recovery logs
	FailureLogPath  string
	RecoveryLogPath string

	// Worker
	WorkerInterval time.Duration
	ServerPort     string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す（部分実行はしない）。
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	if cfg.AnthropicAPIKey == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.AnthropicModel = getEnvString("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022")
	cfg.AnthropicTimeout = getEnvDuration("ANTHROPIC_TIMEOUT", 60*time.Second)

	cfg.NewsAPIKey = os.Getenv("NEWSAPI_API_KEY")
	cfg.CurrentsAPIKey = os.Getenv("CURRENTS_API_KEY")
	cfg.GuardianAPIKey = os.Getenv("GUARDIAN_API_KEY")
	cfg.NYTAPIKey = os.Getenv("NYT_API_KEY")

	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 5242880)
	cfg.ScrapeTimeout = getEnvDuration("SCRAPE_TIMEOUT", 5*time.Second)

	cfg.RequestDelay = getEnvDuration("REQUEST_DELAY", 2*time.Second)
	cfg.BufferMultiplier = getEnvInt("BUFFER_MULTIPLIER", 3)
	cfg.MaxAttempts = getEnvInt("MAX_ATTEMPTS", 50)

	cfg.FailureLogPath = getEnvString("FAILURE_LOG_PATH", "collector-failures.json")
	cfg.RecoveryLogPath = getEnvString("RECOVERY_LOG_PATH", "collector-recovery.json")

	cfg.WorkerInterval = getEnvDuration("WORKER_INTERVAL", 24*time.Hour)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
