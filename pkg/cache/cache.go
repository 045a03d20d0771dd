// Package cache はRedisを利用したリードスルーキャッシュ層を提供する。
//
// キャッシュは読み取りの高速化のための補助であり、Redisへの接続障害が
// 発生しても本体のリクエスト処理を失敗させてはならない。転送エラーは
// すべてこの層の内部で吸収し、Getはキャッシュミス、Set/Invalidateは
// 何もしない動作に縮退する。
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client はこのパッケージが必要とするRedisコマンドの集合。
// *redis.Client がこのインターフェースを満たす。テストではフェイクを注入する。
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store はRedisをバックエンドとするキャッシュストア。
type Store struct {
	// client はRedisクライアント。
	client Client
}

// New は新しいキャッシュストアを生成する。
func New(client Client) *Store {
	return &Store{client: client}
}

// Get はキーに対応する値を取得する。
// キャッシュミスの場合もRedisの障害の場合も ok=false を返す。
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Printf("キャッシュの取得に失敗（ミスとして扱う）: key=%s, err=%v", key, err)
		return "", false
	}
	return val, true
}

// Set は値をTTL付きで格納する。Redisの障害時は記録せずスキップする。
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("キャッシュの保存に失敗（スキップ）: key=%s, err=%v", key, err)
	}
}

// Invalidate はキーに対応するエントリを削除する。Redisの障害時はスキップする。
// エントリはTTLの経過によりいずれ破棄されるため、削除失敗は許容される。
func (s *Store) Invalidate(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		log.Printf("キャッシュの無効化に失敗（スキップ）: key=%s, err=%v", key, err)
	}
}
