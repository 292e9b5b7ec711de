package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Zerr0-C00L/Katch/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestHistoryUpsertKeepsLatestEpisode(t *testing.T) {
	db := openTestDB(t)
	store := NewHistoryStore(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	first := models.HistoryEntry{UserID: "u1", MediaID: 1399, MediaType: "tv", Title: "Game of Thrones",
		PosterPath: "/got.jpg", Season: 1, Episode: 3, UpdatedAt: base}
	second := first
	second.Season, second.Episode, second.UpdatedAt = 2, 1, base.Add(time.Hour)

	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if n := countRows(t, db, "history"); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
	got, err := store.Get(ctx, "u1", 1399)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Season != 2 || got.Episode != 1 || !got.UpdatedAt.Equal(second.UpdatedAt) {
		t.Errorf("got %+v, want season 2 episode 1", got)
	}

	if _, err := store.Get(ctx, "u2", 1399); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get other user: err = %v, want ErrNotFound", err)
	}
}

func TestHistoryListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	store := NewHistoryStore(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	for i := 1; i <= 20; i++ {
		e := models.HistoryEntry{UserID: "u1", MediaID: i, MediaType: "movie", Title: "m",
			Season: 1, Episode: 1, UpdatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	store.Upsert(ctx, models.HistoryEntry{UserID: "u2", MediaID: 99, MediaType: "movie", UpdatedAt: base})

	list, err := store.List(ctx, "u1", 15)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 15 {
		t.Fatalf("len = %d, want 15", len(list))
	}
	if list[0].MediaID != 20 || list[14].MediaID != 6 {
		t.Errorf("order = first %d last %d, want 20 and 6", list[0].MediaID, list[14].MediaID)
	}
}

func TestWatchlistToggleFlips(t *testing.T) {
	db := openTestDB(t)
	store := NewWatchlistStore(db)
	ctx := context.Background()
	entry := models.WatchlistEntry{UserID: "u1", MediaID: 550, MediaType: "movie", Title: "Fight Club",
		PosterPath: "/fc.jpg", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}

	want := true
	for i := 0; i < 6; i++ {
		listed, err := store.Toggle(ctx, entry)
		if err != nil {
			t.Fatalf("Toggle #%d: %v", i, err)
		}
		if listed != want {
			t.Fatalf("Toggle #%d = %v, want %v", i, listed, want)
		}
		in, err := store.Contains(ctx, "u1", 550)
		if err != nil {
			t.Fatalf("Contains: %v", err)
		}
		if in != listed {
			t.Fatalf("Contains = %v after toggle returned %v", in, listed)
		}
		want = !want
	}

	if n := countRows(t, db, "watchlist"); n != 0 {
		t.Errorf("rows after even toggles = %d, want 0", n)
	}
}

func TestWatchlistListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	store := NewWatchlistStore(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []int{10, 20, 30} {
		_, err := store.Toggle(ctx, models.WatchlistEntry{UserID: "u1", MediaID: id, MediaType: "tv",
			CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		if err != nil {
			t.Fatalf("Toggle: %v", err)
		}
	}

	list, err := store.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 || list[0].MediaID != 30 || list[2].MediaID != 10 {
		t.Errorf("list = %+v", list)
	}

	empty, err := store.List(ctx, "nobody")
	if err != nil || len(empty) != 0 {
		t.Errorf("List(nobody) = %v, %v", empty, err)
	}
}

func TestDropRemovesTables(t *testing.T) {
	db := openTestDB(t)
	if err := Drop(context.Background(), db); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if _, err := db.Exec("SELECT 1 FROM history"); err == nil {
		t.Error("history table should be gone")
	}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate after Drop: %v", err)
	}
}
