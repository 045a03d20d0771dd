// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// JWT認証トークンの発行と検証、パニックリカバリ、CORS設定など、
// ハンドラ本体から切り離せる横断的な処理を含む。
package middleware
