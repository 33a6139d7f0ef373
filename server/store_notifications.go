package main

import (
	"context"
	"time"
)

// AddNotification appends a row to the user's log. Callers treat failures as
// best-effort: the triggering mutation has already committed.
func (s *Store) AddNotification(ctx context.Context, n Notification) error {
	_, err := s.db.ExecContext(ctx,
		`insert into notifications(user_id, title, message, type, board_id, card_id) values($1,$2,$3,$4,$5,$6)`,
		n.UserID, n.Title, n.Message, n.Type, n.BoardID, n.CardID)
	return err
}

func (s *Store) NotificationsForUser(ctx context.Context, userID int64, unreadOnly bool) ([]Notification, error) {
	q := `select id, user_id, title, message, type, board_id, card_id, read, created_at, read_at
		from notifications where user_id=$1 order by created_at desc, id desc`
	if unreadOnly {
		q = `select id, user_id, title, message, type, board_id, card_id, read, created_at, read_at
			from notifications where user_id=$1 and not read order by created_at desc, id desc`
	}
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.BoardID, &n.CardID, &n.Read, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`select count(*) from notifications where user_id=$1 and not read`, userID).Scan(&n)
	return n, err
}

// MarkRead is idempotent: marking an already-read row is a no-op, not an
// error. A missing row, or someone else's row, is NotFound.
func (s *Store) MarkRead(ctx context.Context, id, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`update notifications set read=true, read_at=coalesce(read_at,$1) where id=$2 and user_id=$3`, time.Now(), id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`update notifications set read=true, read_at=$1 where user_id=$2 and not read`, time.Now(), userID)
	return err
}

func (s *Store) DeleteNotification(ctx context.Context, id, userID int64) error {
	res, err := s.db.ExecContext(ctx, `delete from notifications where id=$1 and user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
