package main

import (
	"net/http"
	"time"
)

func (a *api) handleCardsByList(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	boardID, err := a.store.BoardIDByList(r.Context(), id)
	if err != nil {
		a.fail(w, "resolve list", err)
		return
	}
	if _, ok := a.boardAccess(w, r, boardID, capView); !ok {
		return
	}
	items, err := a.store.CardsByList(r.Context(), id)
	if err != nil {
		a.fail(w, "cards by list", err)
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/lists/{id}/cards
func (a *api) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	boardID, err := a.store.BoardIDByList(r.Context(), id)
	if err != nil {
		a.fail(w, "resolve list", err)
		return
	}
	u, ok := a.boardAccess(w, r, boardID, capEdit)
	if !ok {
		return
	}
	var req struct {
		Title       string           `json:"title"`
		Description string           `json:"description"`
		DueAt       *string          `json:"due_at"`
		Completed   bool             `json:"completed"`
		Priority    string           `json:"priority"`
		Status      string           `json:"status"`
		Labels      []string         `json:"labels"`
		Assignees   []int64          `json:"assignees"`
		Checklist   []ChecklistInput `json:"checklist"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	in := CardInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    Priority(req.Priority),
		Status:      CardStatus(req.Status),
		Labels:      req.Labels,
		Assignees:   req.Assignees,
		Checklist:   req.Checklist,
	}
	if req.DueAt != nil && *req.DueAt != "" {
		t, err := time.Parse(time.RFC3339, *req.DueAt)
		if err != nil {
			writeError(w, 400, "bad due_at")
			return
		}
		in.DueAt = &t
	}
	c, err := a.store.CreateCard(r.Context(), id, u.ID, in)
	if err != nil {
		a.fail(w, "create card", err)
		return
	}
	writeJSON(w, 201, c)
	if len(c.Assignees) > 0 {
		a.notify(r.Context(), assignmentNotices(c.Title, boardID, c.ID, c.Assignees, nil)...)
	}
}

func (a *api) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, _, ok := a.cardAccess(w, r, id, capView); !ok {
		return
	}
	c, err := a.store.GetCard(r.Context(), id)
	if err != nil {
		a.fail(w, "get card", err)
		return
	}
	writeJSON(w, 200, c)
}

// PATCH /api/cards/{id} — partial update of mutable fields. Assignment
// changes fan out notifications after the mutation has committed.
func (a *api) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	u, boardID, ok := a.cardAccess(w, r, id, capEdit)
	if !ok {
		return
	}
	var req struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		DueAt       *string   `json:"due_at"`
		Completed   *bool     `json:"completed"`
		Priority    *string   `json:"priority"`
		Status      *string   `json:"status"`
		Labels      *[]string `json:"labels"`
		Assignees   *[]int64  `json:"assignees"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	p := CardPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Labels:      req.Labels,
		Assignees:   req.Assignees,
	}
	if req.DueAt != nil {
		if *req.DueAt == "" {
			p.ClearDue = true
		} else {
			t, err := time.Parse(time.RFC3339, *req.DueAt)
			if err != nil {
				writeError(w, 400, "bad due_at")
				return
			}
			p.DueAt = &t
		}
	}
	if req.Priority != nil {
		pr := Priority(*req.Priority)
		p.Priority = &pr
	}
	if req.Status != nil {
		st := CardStatus(*req.Status)
		p.Status = &st
	}
	added, removed, completedNow, err := a.store.UpdateCard(r.Context(), id, u.ID, p)
	if err != nil {
		a.fail(w, "update card", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
	if len(added) > 0 || len(removed) > 0 {
		title := ""
		if c, err := a.store.GetCard(r.Context(), id); err == nil {
			title = c.Title
		}
		a.notify(r.Context(), assignmentNotices(title, boardID, id, added, removed)...)
	}
	if completedNow {
		if c, err := a.store.GetCard(r.Context(), id); err == nil {
			for _, uid := range c.Assignees {
				if uid == u.ID {
					continue
				}
				a.notify(r.Context(), Notification{
					UserID: uid, Title: "Card completed",
					Message: "Card " + c.Title + " was completed",
					Type:    NoticeCardDone, BoardID: &boardID, CardID: &id,
				})
			}
		}
	}
}

// POST /api/cards/{id}/move {target_list_id, new_index}
func (a *api) handleMoveCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	u, _, ok := a.cardAccess(w, r, id, capEdit)
	if !ok {
		return
	}
	var req struct {
		TargetListID int64 `json:"target_list_id"`
		NewIndex     int   `json:"new_index"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if err := a.store.MoveCard(r.Context(), id, req.TargetListID, req.NewIndex, u.ID); err != nil {
		a.fail(w, "move card", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
	if c, err := a.store.GetCard(r.Context(), id); err == nil {
		boardID, _, berr := a.store.BoardAndListByCard(r.Context(), id)
		if berr != nil {
			return
		}
		for _, uid := range c.Assignees {
			if uid == u.ID {
				continue
			}
			a.notify(r.Context(), Notification{
				UserID: uid, Title: "Card moved",
				Message: "Card " + c.Title + " was moved",
				Type:    NoticeCardMoved, BoardID: &boardID, CardID: &id,
			})
		}
	}
}

func (a *api) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, _, ok := a.cardAccess(w, r, id, capEdit); !ok {
		return
	}
	if err := a.store.DeleteCard(r.Context(), id); err != nil {
		a.fail(w, "delete card", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
