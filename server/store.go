package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrNoAccess = errors.New("no access")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ValidationError marks caller-fixable input problems; the API layer turns it
// into a 400 with the message intact.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// inTx runs fn in a transaction, rolling back on error or panic.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// idsOrdered reads sibling ids for the given scope ordered by position.
func idsOrdered(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// persistOrder writes pos=index for every id in the sequence.
func persistOrder(ctx context.Context, tx *sql.Tx, table string, ids []int64) error {
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`update %s set pos=$1 where id=$2`, table), i, id); err != nil {
			return err
		}
	}
	return nil
}

func joinComma(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for i := 1; i < len(parts); i++ {
		out += ", " + parts[i]
	}
	return out
}

const schema = `
create table if not exists users(
    id bigserial primary key,
    username text unique not null check (length(username) > 0),
    email text unique not null,
    password_hash text not null default '',
    is_active boolean not null default true,
    created_at timestamptz not null default now(),
    last_login_at timestamptz
);

create table if not exists sessions(
    id bigserial primary key,
    user_id bigint not null references users(id) on delete cascade,
    token text unique not null,
    created_at timestamptz not null default now(),
    expires_at timestamptz not null
);

create table if not exists boards(
    id bigserial primary key,
    name text not null check (length(name) > 0),
    description text not null default '',
    owner_user_id bigint not null references users(id) on delete cascade,
    archived boolean not null default false,
    created_at timestamptz not null default now()
);
create index if not exists boards_owner_idx on boards(owner_user_id);

create table if not exists lists(
    id bigserial primary key,
    board_id bigint not null references boards(id) on delete cascade,
    name text not null check (length(name) > 0),
    pos int not null default 0,
    created_at timestamptz not null default now()
);
create index if not exists lists_board_idx on lists(board_id);

create table if not exists cards(
    id bigserial primary key,
    list_id bigint not null references lists(id) on delete cascade,
    title text not null check (length(title) > 0),
    description text not null default '',
    due_at timestamptz,
    completed boolean not null default false,
    priority text not null default 'medium',
    status text not null default 'pending',
    labels jsonb not null default '[]',
    assignees jsonb not null default '[]',
    pos int not null default 0,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create index if not exists cards_list_idx on cards(list_id);

create table if not exists checklist_items(
    id bigserial primary key,
    card_id bigint not null references cards(id) on delete cascade,
    text text not null check (length(text) > 0),
    completed boolean not null default false,
    due_at timestamptz,
    assigned_user_id bigint references users(id) on delete set null,
    pos int not null default 0,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create index if not exists checklist_card_idx on checklist_items(card_id);

create table if not exists comments(
    id bigserial primary key,
    card_id bigint not null references cards(id) on delete cascade,
    user_id bigint not null references users(id) on delete cascade,
    body text not null check (length(body) > 0),
    deleted boolean not null default false,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create index if not exists comments_card_idx on comments(card_id);

create table if not exists card_history(
    id bigserial primary key,
    card_id bigint not null references cards(id) on delete cascade,
    user_id bigint not null default 0,
    action text not null,
    description text not null default '',
    old_value text not null default '',
    new_value text not null default '',
    created_at timestamptz not null default now()
);
create index if not exists card_history_card_idx on card_history(card_id);

create table if not exists board_members(
    id bigserial primary key,
    board_id bigint not null references boards(id) on delete cascade,
    user_id bigint not null references users(id) on delete cascade,
    role smallint not null default 0,
    joined_at timestamptz not null default now(),
    active boolean not null default true,
    unique(board_id, user_id)
);

create table if not exists board_invitations(
    id bigserial primary key,
    board_id bigint not null references boards(id) on delete cascade,
    user_id bigint not null references users(id) on delete cascade,
    invited_by bigint not null references users(id) on delete cascade,
    role smallint not null default 0,
    status text not null default 'pending',
    message text not null default '',
    created_at timestamptz not null default now(),
    responded_at timestamptz
);
create index if not exists invitations_user_idx on board_invitations(user_id);
create unique index if not exists invitations_pending_uniq
    on board_invitations(board_id, user_id) where status='pending';

create table if not exists notifications(
    id bigserial primary key,
    user_id bigint not null references users(id) on delete cascade,
    title text not null,
    message text not null default '',
    type text not null,
    board_id bigint,
    card_id bigint,
    read boolean not null default false,
    created_at timestamptz not null default now(),
    read_at timestamptz
);
create index if not exists notifications_user_idx on notifications(user_id, read);
`
