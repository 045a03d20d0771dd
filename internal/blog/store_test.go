package blog

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// setupTestStore はテスト用のストアをインメモリSQLiteで構築する。
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=ON")
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := initSchema(sqlDB); err != nil {
		t.Fatalf("スキーマ初期化に失敗: %v", err)
	}
	return NewStore(sqlDB)
}

// TestStoreCreateUser はユーザー作成と一意制約を検証する。
func TestStoreCreateUser(t *testing.T) {
	t.Parallel()

	t.Run("作成したユーザーをメールアドレスで取得できること", func(t *testing.T) {
		t.Parallel()

		store := setupTestStore(t)
		if err := store.CreateUser(t.Context(), "u1", "u1@example.com", "hash1"); err != nil {
			t.Fatalf("ユーザー作成に失敗: %v", err)
		}

		user, err := store.GetUserByEmail(t.Context(), "u1@example.com")
		if err != nil {
			t.Fatalf("ユーザー取得に失敗: %v", err)
		}
		if user.ID != "u1" || user.PasswordHash != "hash1" {
			t.Errorf("user = %+v, want ID=u1, PasswordHash=hash1", user)
		}
	})

	t.Run("同じメールアドレスの2人目の作成がエラーになること", func(t *testing.T) {
		t.Parallel()

		store := setupTestStore(t)
		if err := store.CreateUser(t.Context(), "u2", "dup@example.com", "hash"); err != nil {
			t.Fatalf("1人目の作成に失敗: %v", err)
		}

		if err := store.CreateUser(t.Context(), "u3", "dup@example.com", "hash"); err == nil {
			t.Error("一意制約違反がエラーを返すべき")
		}
	})

	t.Run("存在しないメールアドレスでsql.ErrNoRowsが返ること", func(t *testing.T) {
		t.Parallel()

		store := setupTestStore(t)
		if _, err := store.GetUserByEmail(t.Context(), "none@example.com"); err != sql.ErrNoRows {
			t.Errorf("err = %v, want sql.ErrNoRows", err)
		}
	})
}

// TestStorePosts はポストの作成・一覧・削除を検証する。
func TestStorePosts(t *testing.T) {
	t.Parallel()

	t.Run("一覧が挿入順で返ること", func(t *testing.T) {
		t.Parallel()

		store := setupTestStore(t)
		if err := store.CreateUser(t.Context(), "u1", "order@example.com", "hash"); err != nil {
			t.Fatalf("ユーザー作成に失敗: %v", err)
		}
		for i, id := range []string{"p1", "p2", "p3"} {
			if err := store.CreatePost(t.Context(), id, "u1", string(rune('a'+i))); err != nil {
				t.Fatalf("ポスト作成に失敗: %v", err)
			}
		}

		posts, err := store.ListPostsByUserID(t.Context(), "u1")
		if err != nil {
			t.Fatalf("一覧取得に失敗: %v", err)
		}
		if len(posts) != 3 {
			t.Fatalf("件数 = %d, want 3", len(posts))
		}
		for i, want := range []string{"p1", "p2", "p3"} {
			if posts[i].ID != want {
				t.Errorf("posts[%d].ID = %q, want %q", i, posts[i].ID, want)
			}
		}
	})

	t.Run("所有者の削除で1行、非所有者の削除で0行が返ること", func(t *testing.T) {
		t.Parallel()

		store := setupTestStore(t)
		if err := store.CreateUser(t.Context(), "owner", "owner@example.com", "hash"); err != nil {
			t.Fatalf("ユーザー作成に失敗: %v", err)
		}
		if err := store.CreateUser(t.Context(), "other", "other@example.com", "hash"); err != nil {
			t.Fatalf("ユーザー作成に失敗: %v", err)
		}
		if err := store.CreatePost(t.Context(), "p1", "owner", "text"); err != nil {
			t.Fatalf("ポスト作成に失敗: %v", err)
		}

		// 非所有者による削除は存在しない場合と区別できない
		affected, err := store.DeletePostByOwner(t.Context(), "p1", "other")
		if err != nil {
			t.Fatalf("削除に失敗: %v", err)
		}
		if affected != 0 {
			t.Errorf("非所有者の削除行数 = %d, want 0", affected)
		}

		affected, err = store.DeletePostByOwner(t.Context(), "p1", "owner")
		if err != nil {
			t.Fatalf("削除に失敗: %v", err)
		}
		if affected != 1 {
			t.Errorf("所有者の削除行数 = %d, want 1", affected)
		}

		// 削除済みポストの再削除も0行
		affected, err = store.DeletePostByOwner(t.Context(), "p1", "owner")
		if err != nil {
			t.Fatalf("削除に失敗: %v", err)
		}
		if affected != 0 {
			t.Errorf("再削除の行数 = %d, want 0", affected)
		}
	})
}
