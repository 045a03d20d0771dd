// マイクロブログサービスのエントリポイント。
// ユーザー登録・ログインによるJWT発行と、ポストのCRUDを提供する。
// ポスト一覧の読み取りはRedisキャッシュを経由する。
package main

import (
	"log"

	"github.com/nao1215/microblog/internal/blog"
)

func main() {
	cfg := blog.LoadConfig()

	server, err := blog.NewServer(cfg)
	if err != nil {
		log.Fatalf("マイクロブログサーバーの初期化に失敗: %v", err)
	}
	defer func() { _ = server.Close() }()

	log.Printf("マイクロブログサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("マイクロブログサービスの起動に失敗: %v", err)
	}
}
