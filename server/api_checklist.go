package main

import (
	"net/http"
	"time"
)

func (a *api) handleChecklistByCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, _, ok := a.cardAccess(w, r, id, capView); !ok {
		return
	}
	items, err := a.store.ItemsByCard(r.Context(), id)
	if err != nil {
		a.fail(w, "checklist by card", err)
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/cards/{id}/checklist {text, due_at?, assigned_user_id?}
func (a *api) handleCreateChecklistItem(w http.ResponseWriter, r *http.Request) {
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
		Text       string  `json:"text"`
		DueAt      *string `json:"due_at"`
		AssigneeID *int64  `json:"assigned_user_id"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	var due *time.Time
	if req.DueAt != nil && *req.DueAt != "" {
		t, err := time.Parse(time.RFC3339, *req.DueAt)
		if err != nil {
			writeError(w, 400, "bad due_at")
			return
		}
		due = &t
	}
	it, err := a.store.CreateItem(r.Context(), id, u.ID, req.Text, due, req.AssigneeID)
	if err != nil {
		a.fail(w, "create checklist item", err)
		return
	}
	writeJSON(w, 201, it)
}

// PATCH /api/checklist/{id} {text?, completed?, due_at?, assigned_user_id?}
func (a *api) handleUpdateChecklistItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	boardID, _, err := a.store.BoardIDByChecklistItem(r.Context(), id)
	if err != nil {
		a.fail(w, "resolve checklist item", err)
		return
	}
	u, ok := a.boardAccess(w, r, boardID, capEdit)
	if !ok {
		return
	}
	var req struct {
		Text       *string `json:"text"`
		Completed  *bool   `json:"completed"`
		DueAt      *string `json:"due_at"`
		AssigneeID *int64  `json:"assigned_user_id"`
		ClearUser  bool    `json:"clear_assigned_user"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	p := ChecklistPatch{Text: req.Text, Completed: req.Completed, AssigneeID: req.AssigneeID, ClearUser: req.ClearUser}
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
	it, err := a.store.UpdateItem(r.Context(), id, u.ID, p)
	if err != nil {
		a.fail(w, "update checklist item", err)
		return
	}
	writeJSON(w, 200, it)
}

func (a *api) handleDeleteChecklistItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	boardID, _, err := a.store.BoardIDByChecklistItem(r.Context(), id)
	if err != nil {
		a.fail(w, "resolve checklist item", err)
		return
	}
	u, ok := a.boardAccess(w, r, boardID, capEdit)
	if !ok {
		return
	}
	if err := a.store.DeleteItem(r.Context(), id, u.ID); err != nil {
		a.fail(w, "delete checklist item", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
