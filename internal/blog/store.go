package blog

import (
	"context"
	"database/sql"
)

// Store はユーザーとポストの永続化を担当する。
// 各メソッドは単一のSQL文で完結し、文単位の原子性に依存する。
type Store struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewStore は新しいストアを生成する。
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// User はusersテーブルの1行を表す。
type User struct {
	// ID はユーザーの一意識別子。
	ID string
	// Email はメールアドレス。
	Email string
	// PasswordHash はbcryptでハッシュ化されたパスワード。
	PasswordHash string
}

// Post はpostsテーブルの1行を表す。
type Post struct {
	// ID はポストの一意識別子。
	ID string
	// UserID はポストを所有するユーザーのID。
	UserID string
	// Text はポスト本文。
	Text string
}

// CreateUser はユーザーを作成する。
// メールアドレスが既に使用されている場合はUNIQUE制約違反のエラーを返す。
func (s *Store) CreateUser(ctx context.Context, id, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)`,
		id, email, passwordHash,
	)
	return err
}

// GetUserByEmail はメールアドレスでユーザーを検索する。
// 見つからない場合は sql.ErrNoRows を返す。
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash FROM users WHERE email = ?`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash)
	return u, err
}

// CreatePost はポストを作成する。
func (s *Store) CreatePost(ctx context.Context, id, userID, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, text) VALUES (?, ?, ?)`,
		id, userID, text,
	)
	return err
}

// ListPostsByUserID は指定ユーザーのポストを作成順で返す。
// rowidでソートすることで、created_atが同一秒でも挿入順が保たれる。
func (s *Store) ListPostsByUserID(ctx context.Context, userID string) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, text FROM posts WHERE user_id = ? ORDER BY rowid`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Text); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// DeletePostByOwner は指定ユーザーが所有するポストを削除し、削除された行数を返す。
// ポストが存在しない場合と他ユーザーの所有である場合は、どちらも0を返す。
// 呼び出し側で両者を区別しないことで、他ユーザーのポストの存在を漏らさない。
func (s *Store) DeletePostByOwner(ctx context.Context, postID, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ? AND user_id = ?`,
		postID, userID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
