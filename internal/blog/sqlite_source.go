package blog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteSource reads the dataset from a posts table. Rows come back in the
// order they were inserted.
type SQLiteSource struct {
	db *sql.DB
}

func NewSQLiteSource(dsn string) (*SQLiteSource, error) {
	if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &SQLiteSource{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSource) init() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS posts (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id INTEGER NOT NULL UNIQUE,
		title TEXT NOT NULL
	);
	`)
	return err
}

func (s *SQLiteSource) List() ([]Post, error) {
	rows, err := s.db.Query("SELECT id, title FROM posts ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *SQLiteSource) Get(id int) (Post, bool, error) {
	p := Post{ID: id}
	err := s.db.QueryRow("SELECT title FROM posts WHERE id = ?", id).Scan(&p.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, false, nil
	}
	if err != nil {
		return Post{}, false, err
	}
	return p, true, nil
}

// Seed inserts posts that are not in the table yet. Existing ids keep their
// title and position.
func (s *SQLiteSource) Seed(posts []Post) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO posts (id, title) VALUES (?, ?) ON CONFLICT(id) DO NOTHING")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range posts {
		if p.ID < 1 || p.Title == "" {
			return fmt.Errorf("%w: post %d", ErrInvalidDataset, p.ID)
		}
		if _, err := stmt.Exec(p.ID, p.Title); err != nil {
			return fmt.Errorf("seed post %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
