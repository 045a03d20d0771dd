// Package blog はマイクロブログサービスの内部実装を提供する。
//
// ユーザー登録・ログインによるJWT発行と、認証済みユーザーによる
// ポストの作成・一覧取得・削除を担当する。一覧取得はRedisによる
// リードスルーキャッシュを経由し、ポストの作成・削除時に該当ユーザーの
// キャッシュエントリを無効化する。
//
// 主な機能:
//   - ユーザー登録（bcryptによるパスワードハッシュ化）
//   - ログインとJWTトークン発行
//   - ポストの作成（本文は最大1MiB）
//   - ポスト一覧取得（キャッシュ経由、作成順）
//   - ポストの削除（所有者のみ）
package blog
