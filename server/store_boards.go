package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const boardCols = `id, name, description, owner_user_id, archived, created_at`

func scanBoard(row interface{ Scan(...any) error }) (Board, error) {
	var b Board
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.OwnerID, &b.Archived, &b.CreatedAt)
	return b, err
}

func (s *Store) CreateBoard(ctx context.Context, ownerID int64, name, description string) (Board, error) {
	if strings.TrimSpace(name) == "" {
		return Board{}, validationf("board name is required")
	}
	if ownerID == 0 {
		return Board{}, validationf("board owner is required")
	}
	b, err := scanBoard(s.db.QueryRowContext(ctx,
		`insert into boards(name, description, owner_user_id) values($1,$2,$3) returning `+boardCols,
		strings.TrimSpace(name), description, ownerID))
	return b, err
}

// ListBoards returns boards the user owns plus boards shared with them via
// an active membership. scope narrows to "mine" or "shared".
func (s *Store) ListBoards(ctx context.Context, userID int64, scope string) ([]Board, error) {
	q := `select distinct b.id, b.name, b.description, b.owner_user_id, b.archived, b.created_at
		from boards b
		left join board_members m on m.board_id=b.id and m.user_id=$1 and m.active
		where b.owner_user_id=$1 or m.id is not null
		order by b.id`
	switch scope {
	case "mine":
		q = `select ` + boardCols + ` from boards where owner_user_id=$1 order by id`
	case "shared":
		q = `select b.id, b.name, b.description, b.owner_user_id, b.archived, b.created_at
			from boards b join board_members m on m.board_id=b.id
			where m.user_id=$1 and m.active and b.owner_user_id<>$1
			order by b.id`
	}
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Board{}
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) GetBoard(ctx context.Context, id int64) (Board, error) {
	b, err := scanBoard(s.db.QueryRowContext(ctx, `select `+boardCols+` from boards where id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Board{}, ErrNotFound
	}
	return b, err
}

// GetBoardFull returns the board with lists and cards nested, each level in
// position order and cards carrying their checklist rows.
func (s *Store) GetBoardFull(ctx context.Context, id int64) (Board, error) {
	b, err := s.GetBoard(ctx, id)
	if err != nil {
		return Board{}, err
	}
	lists, err := s.ListsByBoard(ctx, id)
	if err != nil {
		return Board{}, err
	}
	for i := range lists {
		cards, err := s.CardsByList(ctx, lists[i].ID)
		if err != nil {
			return Board{}, err
		}
		for j := range cards {
			items, err := s.ItemsByCard(ctx, cards[j].ID)
			if err != nil {
				return Board{}, err
			}
			cards[j].Checklist = items
		}
		lists[i].Cards = cards
	}
	b.Lists = lists
	return b, nil
}

func (s *Store) UpdateBoard(ctx context.Context, id int64, name, description *string) error {
	set := []string{}
	args := []any{}
	idx := 1
	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return validationf("board name cannot be empty")
		}
		set = append(set, fmt.Sprintf("name=$%d", idx))
		args = append(args, strings.TrimSpace(*name))
		idx++
	}
	if description != nil {
		set = append(set, fmt.Sprintf("description=$%d", idx))
		args = append(args, *description)
		idx++
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("update boards set %s where id=$%d", joinComma(set), idx), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ArchiveBoard flips the flag only; children stay queryable.
func (s *Store) ArchiveBoard(ctx context.Context, id int64, archived bool) error {
	res, err := s.db.ExecContext(ctx, `update boards set archived=$1 where id=$2`, archived, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBoard(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from boards where id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RoleOf resolves the caller's effective role on a board. The owner is
// always an Owner even without a board_members row. A missing board is
// NotFound; an existing board the user has no membership on is NoAccess.
func (s *Store) RoleOf(ctx context.Context, boardID, userID int64) (BoardRole, error) {
	var ownerID int64
	err := s.db.QueryRowContext(ctx, `select owner_user_id from boards where id=$1`, boardID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if ownerID == userID {
		return RoleOwner, nil
	}
	var role BoardRole
	err = s.db.QueryRowContext(ctx,
		`select role from board_members where board_id=$1 and user_id=$2 and active`, boardID, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoAccess
	}
	return role, err
}

// --- Lists ---

const listCols = `id, board_id, name, pos, created_at`

func scanList(row interface{ Scan(...any) error }) (List, error) {
	var l List
	err := row.Scan(&l.ID, &l.BoardID, &l.Name, &l.Pos, &l.CreatedAt)
	return l, err
}

func (s *Store) ListsByBoard(ctx context.Context, boardID int64) ([]List, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+listCols+` from lists where board_id=$1 order by pos, id`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []List{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateList inserts the list at the requested index and renumbers the
// board's lists densely in the same transaction.
func (s *Store) CreateList(ctx context.Context, boardID int64, name string, index int) (List, error) {
	if strings.TrimSpace(name) == "" {
		return List{}, validationf("list name is required")
	}
	if _, err := s.GetBoard(ctx, boardID); err != nil {
		return List{}, err
	}
	var l List
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		l, err = scanList(tx.QueryRowContext(ctx,
			`insert into lists(board_id, name, pos) values($1,$2,2147483647) returning `+listCols,
			boardID, strings.TrimSpace(name)))
		if err != nil {
			return err
		}
		ids, err := idsOrdered(ctx, tx, `select id from lists where board_id=$1 and id<>$2 order by pos, id`, boardID, l.ID)
		if err != nil {
			return err
		}
		ordered := insertAt(ids, l.ID, index)
		if err := persistOrder(ctx, tx, "lists", ordered); err != nil {
			return err
		}
		l.Pos = clampIndex(index, len(ids))
		return nil
	})
	if err != nil {
		return List{}, err
	}
	return l, nil
}

func (s *Store) GetList(ctx context.Context, id int64) (List, error) {
	l, err := scanList(s.db.QueryRowContext(ctx, `select `+listCols+` from lists where id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return List{}, ErrNotFound
	}
	return l, err
}

// GetListFull returns the list with its cards in position order.
func (s *Store) GetListFull(ctx context.Context, id int64) (List, error) {
	l, err := s.GetList(ctx, id)
	if err != nil {
		return List{}, err
	}
	cards, err := s.CardsByList(ctx, id)
	if err != nil {
		return List{}, err
	}
	l.Cards = cards
	return l, nil
}

func (s *Store) UpdateList(ctx context.Context, id int64, name *string) error {
	if name == nil {
		return nil
	}
	if strings.TrimSpace(*name) == "" {
		return validationf("list name cannot be empty")
	}
	res, err := s.db.ExecContext(ctx, `update lists set name=$1 where id=$2`, strings.TrimSpace(*name), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MoveList reorders a list within its board; every sibling is renumbered.
func (s *Store) MoveList(ctx context.Context, id int64, index int) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var boardID int64
		err := tx.QueryRowContext(ctx, `select board_id from lists where id=$1`, id).Scan(&boardID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		ids, err := idsOrdered(ctx, tx, `select id from lists where board_id=$1 order by pos, id`, boardID)
		if err != nil {
			return err
		}
		return persistOrder(ctx, tx, "lists", moveWithin(ids, id, index))
	})
}

// DeleteList cascades to the list's cards and renumbers the remaining lists.
func (s *Store) DeleteList(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var boardID int64
		err := tx.QueryRowContext(ctx, `select board_id from lists where id=$1`, id).Scan(&boardID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `delete from lists where id=$1`, id); err != nil {
			return err
		}
		ids, err := idsOrdered(ctx, tx, `select id from lists where board_id=$1 order by pos, id`, boardID)
		if err != nil {
			return err
		}
		return persistOrder(ctx, tx, "lists", ids)
	})
}

// Helpers for the API layer to resolve parent relationships.
func (s *Store) BoardIDByList(ctx context.Context, listID int64) (int64, error) {
	var boardID int64
	err := s.db.QueryRowContext(ctx, `select board_id from lists where id=$1`, listID).Scan(&boardID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return boardID, err
}

func (s *Store) BoardAndListByCard(ctx context.Context, cardID int64) (int64, int64, error) {
	var boardID, listID int64
	err := s.db.QueryRowContext(ctx,
		`select l.board_id, c.list_id from cards c join lists l on l.id=c.list_id where c.id=$1`, cardID).
		Scan(&boardID, &listID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrNotFound
	}
	return boardID, listID, err
}

func (s *Store) BoardIDByChecklistItem(ctx context.Context, itemID int64) (int64, int64, error) {
	var boardID, cardID int64
	err := s.db.QueryRowContext(ctx,
		`select l.board_id, i.card_id from checklist_items i
		 join cards c on c.id=i.card_id join lists l on l.id=c.list_id where i.id=$1`, itemID).
		Scan(&boardID, &cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrNotFound
	}
	return boardID, cardID, err
}
