package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const checklistCols = `id, card_id, text, completed, due_at, assigned_user_id, pos, created_at, updated_at`

func scanChecklistItem(row interface{ Scan(...any) error }) (ChecklistItem, error) {
	var it ChecklistItem
	err := row.Scan(&it.ID, &it.CardID, &it.Text, &it.Completed, &it.DueAt, &it.AssigneeID, &it.Pos, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (s *Store) ItemsByCard(ctx context.Context, cardID int64) ([]ChecklistItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+checklistCols+` from checklist_items where card_id=$1 order by pos, id`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ChecklistItem{}
	for rows.Next() {
		it, err := scanChecklistItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// CreateItem appends a checklist item to the card and records the addition
// in the card's history.
func (s *Store) CreateItem(ctx context.Context, cardID, actorID int64, text string, dueAt *time.Time, assigneeID *int64) (ChecklistItem, error) {
	if strings.TrimSpace(text) == "" {
		return ChecklistItem{}, validationf("checklist text is required")
	}
	var exists bool
	if err := s.db.QueryRowContext(ctx, `select exists(select 1 from cards where id=$1)`, cardID).Scan(&exists); err != nil {
		return ChecklistItem{}, err
	}
	if !exists {
		return ChecklistItem{}, ErrNotFound
	}
	var it ChecklistItem
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var pos int
		if err := tx.QueryRowContext(ctx, `select count(*) from checklist_items where card_id=$1`, cardID).Scan(&pos); err != nil {
			return err
		}
		var err error
		it, err = scanChecklistItem(tx.QueryRowContext(ctx,
			`insert into checklist_items(card_id, text, due_at, assigned_user_id, pos) values($1,$2,$3,$4,$5) returning `+checklistCols,
			cardID, strings.TrimSpace(text), dueAt, assigneeID, pos))
		if err != nil {
			return err
		}
		return appendHistory(ctx, tx, cardID, actorID, "checklist", "checklist item added", "", it.Text)
	})
	if err != nil {
		return ChecklistItem{}, err
	}
	return it, nil
}

type ChecklistPatch struct {
	Text       *string
	Completed  *bool
	DueAt      *time.Time
	ClearDue   bool
	AssigneeID *int64
	ClearUser  bool
}

// UpdateItem applies a partial update; text and completion changes append
// card history, the rest do not.
func (s *Store) UpdateItem(ctx context.Context, id, actorID int64, p ChecklistPatch) (ChecklistItem, error) {
	var out ChecklistItem
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanChecklistItem(tx.QueryRowContext(ctx,
			`select `+checklistCols+` from checklist_items where id=$1 for update`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		set := []string{}
		args := []any{}
		idx := 1
		add := func(col string, v any) {
			set = append(set, fmt.Sprintf("%s=$%d", col, idx))
			args = append(args, v)
			idx++
		}

		if p.Text != nil {
			t := strings.TrimSpace(*p.Text)
			if t == "" {
				return validationf("checklist text cannot be empty")
			}
			if t != cur.Text {
				add("text", t)
				if err := appendHistory(ctx, tx, cur.CardID, actorID, "checklist", "checklist item renamed", cur.Text, t); err != nil {
					return err
				}
			}
		}
		if p.Completed != nil && *p.Completed != cur.Completed {
			add("completed", *p.Completed)
			desc := "checklist item unchecked"
			if *p.Completed {
				desc = "checklist item checked"
			}
			if err := appendHistory(ctx, tx, cur.CardID, actorID, "checklist", desc, cur.Text, cur.Text); err != nil {
				return err
			}
		}
		if p.ClearDue {
			add("due_at", nil)
		} else if p.DueAt != nil {
			add("due_at", *p.DueAt)
		}
		if p.ClearUser {
			add("assigned_user_id", nil)
		} else if p.AssigneeID != nil {
			add("assigned_user_id", *p.AssigneeID)
		}

		if len(set) == 0 {
			out = cur
			return nil
		}
		add("updated_at", time.Now())
		args = append(args, id)
		out, err = scanChecklistItem(tx.QueryRowContext(ctx,
			fmt.Sprintf("update checklist_items set %s where id=$%d returning %s", joinComma(set), idx, checklistCols), args...))
		return err
	})
	if err != nil {
		return ChecklistItem{}, err
	}
	return out, nil
}

// DeleteItem removes the item, renumbers the card's remaining items and
// records the removal.
func (s *Store) DeleteItem(ctx context.Context, id, actorID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var cardID int64
		var text string
		err := tx.QueryRowContext(ctx, `select card_id, text from checklist_items where id=$1`, id).Scan(&cardID, &text)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `delete from checklist_items where id=$1`, id); err != nil {
			return err
		}
		ids, err := idsOrdered(ctx, tx, `select id from checklist_items where card_id=$1 order by pos, id`, cardID)
		if err != nil {
			return err
		}
		if err := persistOrder(ctx, tx, "checklist_items", ids); err != nil {
			return err
		}
		return appendHistory(ctx, tx, cardID, actorID, "checklist", "checklist item removed", text, "")
	})
}
