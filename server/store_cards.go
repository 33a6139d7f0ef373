package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Labels and assignees live in jsonb columns; arbitrary label strings must
// survive the round trip unchanged.
func encodeStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeStrings(b []byte) []string {
	out := []string{}
	_ = json.Unmarshal(b, &out)
	return out
}

func encodeIDs(v []int64) string {
	if v == nil {
		v = []int64{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeIDs(b []byte) []int64 {
	out := []int64{}
	_ = json.Unmarshal(b, &out)
	return out
}

// primaryAssignee derives the legacy singular assignee from the set.
func primaryAssignee(assignees []int64) *int64 {
	if len(assignees) == 0 {
		return nil
	}
	v := assignees[0]
	return &v
}

const cardCols = `id, list_id, title, description, due_at, completed, priority, status, labels, assignees, pos, created_at, updated_at`

func scanCard(row interface{ Scan(...any) error }) (Card, error) {
	var c Card
	var labels, assignees []byte
	err := row.Scan(&c.ID, &c.ListID, &c.Title, &c.Description, &c.DueAt, &c.Completed,
		&c.Priority, &c.Status, &labels, &assignees, &c.Pos, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Card{}, err
	}
	c.Labels = decodeStrings(labels)
	c.Assignees = decodeIDs(assignees)
	c.AssigneeID = primaryAssignee(c.Assignees)
	return c, nil
}

func (s *Store) CardsByList(ctx context.Context, listID int64) ([]Card, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+cardCols+` from cards where list_id=$1 order by pos, id`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCard(ctx context.Context, id int64) (Card, error) {
	c, err := scanCard(s.db.QueryRowContext(ctx, `select `+cardCols+` from cards where id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Card{}, ErrNotFound
	}
	if err != nil {
		return Card{}, err
	}
	items, err := s.ItemsByCard(ctx, id)
	if err != nil {
		return Card{}, err
	}
	c.Checklist = items
	return c, nil
}

type CardInput struct {
	Title       string
	Description string
	DueAt       *time.Time
	Completed   bool
	Priority    Priority
	Status      CardStatus
	Labels      []string
	Assignees   []int64
	Checklist   []ChecklistInput
}

type ChecklistInput struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// CreateCard appends the card to the end of the list and materializes any
// embedded checklist items as normalized rows.
func (s *Store) CreateCard(ctx context.Context, listID int64, actorID int64, in CardInput) (Card, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Card{}, validationf("card title is required")
	}
	if _, err := s.GetList(ctx, listID); err != nil {
		return Card{}, err
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	if !in.Priority.Valid() {
		return Card{}, validationf("unknown priority %q", in.Priority)
	}
	if !in.Status.Valid() {
		return Card{}, validationf("unknown status %q", in.Status)
	}
	var c Card
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var pos int
		if err := tx.QueryRowContext(ctx, `select count(*) from cards where list_id=$1`, listID).Scan(&pos); err != nil {
			return err
		}
		var err error
		c, err = scanCard(tx.QueryRowContext(ctx,
			`insert into cards(list_id, title, description, due_at, completed, priority, status, labels, assignees, pos)
			 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) returning `+cardCols,
			listID, strings.TrimSpace(in.Title), in.Description, in.DueAt, in.Completed,
			in.Priority, in.Status, encodeStrings(in.Labels), encodeIDs(in.Assignees), pos))
		if err != nil {
			return err
		}
		for i, item := range in.Checklist {
			if strings.TrimSpace(item.Text) == "" {
				continue
			}
			var it ChecklistItem
			if err := tx.QueryRowContext(ctx,
				`insert into checklist_items(card_id, text, completed, pos) values($1,$2,$3,$4) returning `+checklistCols,
				c.ID, item.Text, item.Completed, i).
				Scan(&it.ID, &it.CardID, &it.Text, &it.Completed, &it.DueAt, &it.AssigneeID, &it.Pos, &it.CreatedAt, &it.UpdatedAt); err != nil {
				return err
			}
			c.Checklist = append(c.Checklist, it)
		}
		return appendHistory(ctx, tx, c.ID, actorID, "created", "card created", "", c.Title)
	})
	if err != nil {
		return Card{}, err
	}
	return c, nil
}

// CardPatch carries partial updates; nil fields are untouched. ClearDue
// distinguishes "unset the due date" from "leave it alone".
type CardPatch struct {
	Title       *string
	Description *string
	DueAt       *time.Time
	ClearDue    bool
	Completed   *bool
	Priority    *Priority
	Status      *CardStatus
	Labels      *[]string
	Assignees   *[]int64
}

// UpdateCard applies the patch, appends history for meaningful changes and
// reports the assignment delta plus whether the card actually transitioned
// to completed, so the caller can fan out notifications without repeating
// them on idempotent patches.
func (s *Store) UpdateCard(ctx context.Context, id int64, actorID int64, p CardPatch) (added, removed []int64, completedNow bool, err error) {
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanCard(tx.QueryRowContext(ctx, `select `+cardCols+` from cards where id=$1 for update`, id))
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

		if p.Title != nil {
			t := strings.TrimSpace(*p.Title)
			if t == "" {
				return validationf("card title cannot be empty")
			}
			if t != cur.Title {
				add("title", t)
				if err := appendHistory(ctx, tx, id, actorID, "updated", "title changed", cur.Title, t); err != nil {
					return err
				}
			}
		}
		if p.Description != nil && *p.Description != cur.Description {
			add("description", *p.Description)
		}
		if p.ClearDue {
			add("due_at", nil)
		} else if p.DueAt != nil {
			add("due_at", *p.DueAt)
		}
		if p.Completed != nil && *p.Completed != cur.Completed {
			add("completed", *p.Completed)
			action, desc := "reopened", "card reopened"
			if *p.Completed {
				action, desc = "completed", "card completed"
				completedNow = true
			}
			if err := appendHistory(ctx, tx, id, actorID, action, desc, fmt.Sprint(cur.Completed), fmt.Sprint(*p.Completed)); err != nil {
				return err
			}
		}
		if p.Priority != nil {
			if !p.Priority.Valid() {
				return validationf("unknown priority %q", *p.Priority)
			}
			add("priority", *p.Priority)
		}
		if p.Status != nil {
			if !p.Status.Valid() {
				return validationf("unknown status %q", *p.Status)
			}
			add("status", *p.Status)
		}
		if p.Labels != nil {
			add("labels", encodeStrings(*p.Labels))
		}
		if p.Assignees != nil {
			add("assignees", encodeIDs(*p.Assignees))
			added, removed = diffAssignees(cur.Assignees, *p.Assignees)
			if len(added) > 0 || len(removed) > 0 {
				if err := appendHistory(ctx, tx, id, actorID, "assigned", "assignment changed",
					encodeIDs(cur.Assignees), encodeIDs(*p.Assignees)); err != nil {
					return err
				}
			}
		}

		if len(set) == 0 {
			return nil
		}
		add("updated_at", time.Now())
		args = append(args, id)
		_, err = tx.ExecContext(ctx, fmt.Sprintf("update cards set %s where id=$%d", joinComma(set), idx), args...)
		return err
	})
	if err != nil {
		return nil, nil, false, err
	}
	return added, removed, completedNow, nil
}

// MoveCard reassigns the card to the destination list at the given index and
// renumbers both affected lists densely, all in one transaction. Moving
// within one list is a remove-then-reinsert reorder.
func (s *Store) MoveCard(ctx context.Context, cardID, targetListID int64, index int, actorID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var srcListID int64
		err := tx.QueryRowContext(ctx, `select list_id from cards where id=$1 for update`, cardID).Scan(&srcListID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if targetListID == 0 {
			targetListID = srcListID
		}
		if targetListID != srcListID {
			var exists bool
			if err := tx.QueryRowContext(ctx, `select exists(select 1 from lists where id=$1)`, targetListID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ErrNotFound
			}
			if _, err := tx.ExecContext(ctx, `update cards set list_id=$1, updated_at=now() where id=$2`, targetListID, cardID); err != nil {
				return err
			}
			// renumber the source list the card left
			srcIDs, err := idsOrdered(ctx, tx, `select id from cards where list_id=$1 order by pos, id`, srcListID)
			if err != nil {
				return err
			}
			if err := persistOrder(ctx, tx, "cards", srcIDs); err != nil {
				return err
			}
		}
		dstIDs, err := idsOrdered(ctx, tx, `select id from cards where list_id=$1 order by pos, id`, targetListID)
		if err != nil {
			return err
		}
		if err := persistOrder(ctx, tx, "cards", moveWithin(dstIDs, cardID, index)); err != nil {
			return err
		}
		return appendHistory(ctx, tx, cardID, actorID, "moved", "card moved",
			fmt.Sprintf("list %d", srcListID), fmt.Sprintf("list %d index %d", targetListID, index))
	})
}

// DeleteCard removes the card (checklist, comments and history cascade) and
// renumbers the remaining siblings.
func (s *Store) DeleteCard(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var listID int64
		err := tx.QueryRowContext(ctx, `select list_id from cards where id=$1`, id).Scan(&listID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `delete from cards where id=$1`, id); err != nil {
			return err
		}
		ids, err := idsOrdered(ctx, tx, `select id from cards where list_id=$1 order by pos, id`, listID)
		if err != nil {
			return err
		}
		return persistOrder(ctx, tx, "cards", ids)
	})
}

func appendHistory(ctx context.Context, tx *sql.Tx, cardID, userID int64, action, description, oldV, newV string) error {
	_, err := tx.ExecContext(ctx,
		`insert into card_history(card_id, user_id, action, description, old_value, new_value) values($1,$2,$3,$4,$5,$6)`,
		cardID, userID, action, description, oldV, newV)
	return err
}

func (s *Store) HistoryByCard(ctx context.Context, cardID int64) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, card_id, user_id, action, description, old_value, new_value, created_at
		 from card_history where card_id=$1 order by created_at desc, id desc`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []HistoryEntry{}
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.CardID, &h.UserID, &h.Action, &h.Description, &h.OldValue, &h.NewValue, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// AddHistory appends a caller-supplied audit entry.
func (s *Store) AddHistory(ctx context.Context, cardID, userID int64, action, description, oldV, newV string) error {
	if action == "" {
		return validationf("history action is required")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return appendHistory(ctx, tx, cardID, userID, action, description, oldV, newV)
	})
}
