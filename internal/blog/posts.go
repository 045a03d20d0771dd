package blog

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/microblog/pkg/middleware"
)

// maxPostSize はポスト本文の最大バイト数（1MiB）。
const maxPostSize = 1 << 20

// cacheKey はユーザーのポスト一覧キャッシュのキーを生成する。
func cacheKey(userID string) string {
	return fmt.Sprintf("posts:%s", userID)
}

// addPostRequest はポスト作成リクエストのJSON構造。
type addPostRequest struct {
	// Text はポスト本文。
	Text string `json:"text" binding:"required"`
}

// postResponse はポストのJSONレスポンス構造。
// キャッシュにもこの形式のJSON配列として保存され、ヒット時は
// ストアからの読み出しと同一のバイト列が返る。
type postResponse struct {
	// ID はポストの一意識別子。
	ID string `json:"id"`
	// Text はポスト本文。
	Text string `json:"text"`
}

// handleAddPost はポスト作成を処理するハンドラを返す。
// 本文が1MiBを超える場合は413を返す。作成後、応答を返す前に
// 該当ユーザーのキャッシュエントリを無効化する。
func (s *Server) handleAddPost() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		var req addPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		// UTF-8でのバイト長を判定する。1MiBちょうどは許容する。
		if len(req.Text) > maxPostSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "ポスト本文が1MiBの上限を超えています"})
			return
		}

		postID := uuid.New().String()
		if err := s.store.CreatePost(c.Request.Context(), postID, userID, req.Text); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ポストの作成に失敗しました"})
			log.Printf("ポスト作成エラー: %v", err)
			return
		}

		// コミット済みの書き込みを応答前にキャッシュへ反映する
		s.cache.Invalidate(c.Request.Context(), cacheKey(userID))

		c.JSON(http.StatusOK, gin.H{"PostID": postID, "detail": "ポストを作成しました"})
	}
}

// handleGetPosts はポスト一覧取得を処理するハンドラを返す。
// キャッシュヒット時はキャッシュの内容を、ミス時はDBから読み出して
// キャッシュに格納してから返す（リードスルー方式）。
func (s *Server) handleGetPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		key := cacheKey(userID)
		if cached, ok := s.cache.Get(c.Request.Context(), key); ok {
			var posts []postResponse
			if err := json.Unmarshal([]byte(cached), &posts); err == nil {
				c.JSON(http.StatusOK, posts)
				return
			}
			// デコードできないエントリはミスとして扱い、DBから再構築する
			log.Printf("キャッシュエントリのデコードに失敗: key=%s", key)
		}

		rows, err := s.store.ListPostsByUserID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ポスト一覧の取得に失敗しました"})
			log.Printf("ポスト一覧取得エラー: %v", err)
			return
		}

		responses := make([]postResponse, 0, len(rows))
		for _, p := range rows {
			responses = append(responses, postResponse{ID: p.ID, Text: p.Text})
		}

		if data, err := json.Marshal(responses); err == nil {
			s.cache.Set(c.Request.Context(), key, string(data), s.cfg.CacheTTL)
		}

		c.JSON(http.StatusOK, responses)
	}
}

// handleDeletePost はポスト削除を処理するハンドラを返す。
// ポストが存在しない場合と他ユーザーの所有である場合は、どちらも404を返す。
// 成功時は該当ユーザーのキャッシュエントリを無効化し、204を返す。
func (s *Server) handleDeletePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		postID := c.Param("post_id")
		affected, err := s.store.DeletePostByOwner(c.Request.Context(), postID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ポストの削除に失敗しました"})
			log.Printf("ポスト削除エラー: %v", err)
			return
		}
		if affected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "ポストが見つかりません"})
			return
		}

		// コミット済みの削除を応答前にキャッシュへ反映する
		s.cache.Invalidate(c.Request.Context(), cacheKey(userID))

		c.Status(http.StatusNoContent)
	}
}
