package blog

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はサービス全体の設定。起動時に一度だけ読み込み、以降は読み取り専用。
// 署名用シークレットなどの秘匿情報もここに集約し、グローバル変数では持たない。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// DBPath はSQLiteデータベースファイルのパス。
	DBPath string
	// RedisAddr はキャッシュ用Redisのアドレス（host:port）。
	RedisAddr string
	// JWTSecret はJWT署名用の秘密鍵。
	JWTSecret string
	// TokenTTL はJWTトークンの有効期間。
	TokenTTL time.Duration
	// CacheTTL はポスト一覧キャッシュの有効期間。
	CacheTTL time.Duration
	// FrontendURL はCORSで許可するフロントエンドのオリジン。
	FrontendURL string
}

// LoadConfig は環境変数から設定を読み込む。
// カレントディレクトリに.envファイルがあれば先に読み込む。
func LoadConfig() Config {
	// .envが無い場合のエラーは無視する（本番では環境変数で供給される）
	_ = godotenv.Load()

	return Config{
		Port:        getEnv("PORT", "8080"),
		DBPath:      getEnv("DB_PATH", "/data/microblog.db"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-key"),
		TokenTTL:    time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 30)) * time.Minute,
		CacheTTL:    time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

// getEnv は環境変数を取得し、未設定の場合はフォールバック値を返す。
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// getEnvInt は正の整数値の環境変数を取得する。
// 未設定または不正な値の場合はフォールバック値を返す。
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
