package main

import (
	"net/http"
)

// GET /api/boards?scope=mine|shared
func (a *api) handleListBoards(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	items, err := a.store.ListBoards(r.Context(), u.ID, r.URL.Query().Get("scope"))
	if err != nil {
		a.fail(w, "list boards", err)
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/boards {name, description}
func (a *api) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	b, err := a.store.CreateBoard(r.Context(), u.ID, req.Name, req.Description)
	if err != nil {
		a.fail(w, "create board", err)
		return
	}
	writeJSON(w, 201, b)
}

func (a *api) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, ok := a.boardAccess(w, r, id, capView); !ok {
		return
	}
	b, err := a.store.GetBoard(r.Context(), id)
	if err != nil {
		a.fail(w, "get board", err)
		return
	}
	writeJSON(w, 200, b)
}

// GET /api/boards/{id}/full returns the board with nested lists and cards.
func (a *api) handleGetBoardFull(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, ok := a.boardAccess(w, r, id, capView); !ok {
		return
	}
	b, err := a.store.GetBoardFull(r.Context(), id)
	if err != nil {
		a.fail(w, "get board full", err)
		return
	}
	writeJSON(w, 200, b)
}

// PATCH /api/boards/{id} {name?, description?}
func (a *api) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, ok := a.boardAccess(w, r, id, capAdminister); !ok {
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if err := a.store.UpdateBoard(r.Context(), id, req.Name, req.Description); err != nil {
		a.fail(w, "update board", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

// POST /api/boards/{id}/archive {archived}
func (a *api) handleArchiveBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, ok := a.boardAccess(w, r, id, capAdminister); !ok {
		return
	}
	var req struct {
		Archived bool `json:"archived"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if err := a.store.ArchiveBoard(r.Context(), id, req.Archived); err != nil {
		a.fail(w, "archive board", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, ok := a.boardAccess(w, r, id, capAdminister); !ok {
		return
	}
	if err := a.store.DeleteBoard(r.Context(), id); err != nil {
		a.fail(w, "delete board", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
