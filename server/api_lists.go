package main

import (
	"net/http"
)

func (a *api) handleListsByBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, ok := a.boardAccess(w, r, id, capView); !ok {
		return
	}
	items, err := a.store.ListsByBoard(r.Context(), id)
	if err != nil {
		a.fail(w, "lists by board", err)
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/boards/{id}/lists {name, order}
func (a *api) handleCreateList(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, ok := a.boardAccess(w, r, id, capEdit); !ok {
		return
	}
	var req struct {
		Name  string `json:"name"`
		Order *int   `json:"order"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	// no explicit order appends at the end; the store clamps
	index := 1 << 30
	if req.Order != nil {
		index = *req.Order
	}
	l, err := a.store.CreateList(r.Context(), id, req.Name, index)
	if err != nil {
		a.fail(w, "create list", err)
		return
	}
	writeJSON(w, 201, l)
}

// GET /api/lists/{id} returns the list with nested cards.
func (a *api) handleGetList(w http.ResponseWriter, r *http.Request) {
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
	l, err := a.store.GetListFull(r.Context(), id)
	if err != nil {
		a.fail(w, "get list", err)
		return
	}
	writeJSON(w, 200, l)
}

// PATCH /api/lists/{id} {name?, order?}
func (a *api) handleUpdateList(w http.ResponseWriter, r *http.Request) {
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
	if _, ok := a.boardAccess(w, r, boardID, capEdit); !ok {
		return
	}
	var req struct {
		Name  *string `json:"name"`
		Order *int    `json:"order"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if err := a.store.UpdateList(r.Context(), id, req.Name); err != nil {
		a.fail(w, "update list", err)
		return
	}
	if req.Order != nil {
		if err := a.store.MoveList(r.Context(), id, *req.Order); err != nil {
			a.fail(w, "reorder list", err)
			return
		}
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

// POST /api/lists/{id}/move {new_index}
func (a *api) handleMoveList(w http.ResponseWriter, r *http.Request) {
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
	if _, ok := a.boardAccess(w, r, boardID, capEdit); !ok {
		return
	}
	var req struct {
		NewIndex int `json:"new_index"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if err := a.store.MoveList(r.Context(), id, req.NewIndex); err != nil {
		a.fail(w, "move list", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleDeleteList(w http.ResponseWriter, r *http.Request) {
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
	if _, ok := a.boardAccess(w, r, boardID, capEdit); !ok {
		return
	}
	if err := a.store.DeleteList(r.Context(), id); err != nil {
		a.fail(w, "delete list", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
