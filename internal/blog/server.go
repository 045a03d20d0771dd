package blog

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/nao1215/microblog/pkg/cache"
	"github.com/nao1215/microblog/pkg/middleware"
)

// postCache はポスト一覧キャッシュに要求する操作の集合。
// 本番では *cache.Store を、テストではインメモリのフェイクを注入する。
type postCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Invalidate(ctx context.Context, key string)
}

// Server はマイクロブログサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// cfg はサービス全体の設定。
	cfg Config
	// store はユーザーとポストの永続化層。
	store *Store
	// cache はポスト一覧のリードスルーキャッシュ。
	cache postCache
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewServer は新しいマイクロブログサーバーを生成する。
// SQLiteデータベースの初期化、スキーマ適用、Redisクライアントの構築を行う。
func NewServer(cfg Config) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", cfg.DBPath))
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{cfg.FrontendURL}))

	s := &Server{
		router: router,
		cfg:    cfg,
		store:  NewStore(sqlDB),
		cache:  cache.New(redisClient),
		db:     sqlDB,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.cfg.Port))
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")

	// 認証不要のユーザーエンドポイント
	users := api.Group("/users")
	{
		// ユーザー登録
		users.POST("/register", s.handleRegister())
		// ログイン
		users.POST("/login", s.handleLogin())
	}

	// 認証必須のポストエンドポイント
	posts := api.Group("/posts")
	posts.Use(middleware.JWTAuth(s.cfg.JWTSecret))
	{
		// ポスト作成
		posts.POST("/add-post", s.handleAddPost())
		// ポスト一覧取得
		posts.GET("/get-posts", s.handleGetPosts())
		// ポスト削除
		posts.DELETE("/delete-post/:post_id", s.handleDeletePost())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "microblog"})
	})
}
