package blog

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/microblog/pkg/middleware"
)

// registerRequest はユーザー登録リクエストのJSON構造。
type registerRequest struct {
	// Email はメールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password は平文パスワード。保存前にbcryptでハッシュ化される。
	Password string `json:"password" binding:"required"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email はメールアドレス。
	Email string `json:"email" binding:"required"`
	// Password は平文パスワード。
	Password string `json:"password" binding:"required"`
}

// tokenResponse はトークン発行時のレスポンスJSON構造。
type tokenResponse struct {
	// AccessToken は発行されたJWTトークン。
	AccessToken string `json:"access_token"`
	// TokenType はトークン種別。常に"bearer"。
	TokenType string `json:"token_type"`
}

// handleRegister はユーザー登録を処理するハンドラを返す。
// パスワードをbcryptでハッシュ化して保存し、JWTトークンを発行する。
// 同じメールアドレスのユーザーが既に存在する場合は400を返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		// 同じメールアドレスのユーザーが既に存在するか確認する
		_, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ユーザーは既に存在します"})
			return
		}
		if err != sql.ErrNoRows {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの確認に失敗しました"})
			log.Printf("ユーザー検索エラー: %v", err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "パスワードのハッシュ化に失敗しました"})
			log.Printf("パスワードハッシュ化エラー: %v", err)
			return
		}

		userID := uuid.New().String()
		if err := s.store.CreateUser(c.Request.Context(), userID, req.Email, string(hash)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの作成に失敗しました"})
			log.Printf("ユーザー作成エラー: %v", err)
			return
		}

		token, err := middleware.GenerateJWT(s.cfg.JWTSecret, userID, req.Email, s.cfg.TokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークン生成に失敗しました"})
			log.Printf("JWT生成エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, tokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

// handleLogin はログインを処理するハンドラを返す。
// 未知のメールアドレスは404、パスワード不一致は401を返す。
// 認証に成功した場合は新しいJWTトークンを発行する。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "ユーザーが見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの取得に失敗しました"})
			log.Printf("ユーザー検索エラー: %v", err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "メールアドレスまたはパスワードが正しくありません"})
			return
		}

		token, err := middleware.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Email, s.cfg.TokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークン生成に失敗しました"})
			log.Printf("JWT生成エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}
