package main

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

const commentCols = `id, card_id, user_id, body, created_at, updated_at`

// CommentsByCard excludes soft-deleted rows.
func (s *Store) CommentsByCard(ctx context.Context, cardID int64) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+commentCols+` from comments where card_id=$1 and not deleted order by id`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.CardID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) AddComment(ctx context.Context, cardID, userID int64, body string) (Comment, error) {
	if strings.TrimSpace(body) == "" {
		return Comment{}, validationf("comment body is required")
	}
	var exists bool
	if err := s.db.QueryRowContext(ctx, `select exists(select 1 from cards where id=$1)`, cardID).Scan(&exists); err != nil {
		return Comment{}, err
	}
	if !exists {
		return Comment{}, ErrNotFound
	}
	var c Comment
	err := s.db.QueryRowContext(ctx,
		`insert into comments(card_id, user_id, body) values($1,$2,$3) returning `+commentCols,
		cardID, userID, body).
		Scan(&c.ID, &c.CardID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) UpdateComment(ctx context.Context, id int64, body string) (Comment, error) {
	if strings.TrimSpace(body) == "" {
		return Comment{}, validationf("comment body is required")
	}
	var c Comment
	err := s.db.QueryRowContext(ctx,
		`update comments set body=$1, updated_at=$2 where id=$3 and not deleted returning `+commentCols,
		body, time.Now(), id).
		Scan(&c.ID, &c.CardID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Comment{}, ErrNotFound
	}
	return c, err
}

// DeleteComment soft-deletes; the row is kept but excluded from listings.
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `update comments set deleted=true where id=$1 and not deleted`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CommentAuthor reports the author id for authorization checks.
func (s *Store) CommentAuthor(ctx context.Context, id int64) (int64, int64, error) {
	var userID, cardID int64
	err := s.db.QueryRowContext(ctx, `select user_id, card_id from comments where id=$1 and not deleted`, id).Scan(&userID, &cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrNotFound
	}
	return userID, cardID, err
}
