package main

import (
	"net/http"
)

// GET /api/cards/{id}/history — newest first.
func (a *api) handleHistoryByCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, _, ok := a.cardAccess(w, r, id, capView); !ok {
		return
	}
	items, err := a.store.HistoryByCard(r.Context(), id)
	if err != nil {
		a.fail(w, "history by card", err)
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/cards/{id}/history {action, description, old_value, new_value}
func (a *api) handleAddHistory(w http.ResponseWriter, r *http.Request) {
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
		Action      string `json:"action"`
		Description string `json:"description"`
		OldValue    string `json:"old_value"`
		NewValue    string `json:"new_value"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if err := a.store.AddHistory(r.Context(), id, u.ID, req.Action, req.Description, req.OldValue, req.NewValue); err != nil {
		a.fail(w, "add history", err)
		return
	}
	writeJSON(w, 201, map[string]any{"ok": true})
}
