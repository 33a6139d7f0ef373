package main

import (
	"net/http"
)

func (a *api) handleCommentsByCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, _, ok := a.cardAccess(w, r, id, capView); !ok {
		return
	}
	items, err := a.store.CommentsByCard(r.Context(), id)
	if err != nil {
		a.fail(w, "comments by card", err)
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/cards/{id}/comments {body}
func (a *api) handleAddComment(w http.ResponseWriter, r *http.Request) {
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
		Body string `json:"body"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	c, err := a.store.AddComment(r.Context(), id, u.ID, req.Body)
	if err != nil {
		a.fail(w, "add comment", err)
		return
	}
	writeJSON(w, 201, c)
	// notify the card's assignees, minus the author
	if card, err := a.store.GetCard(r.Context(), id); err == nil {
		for _, uid := range card.Assignees {
			if uid == u.ID {
				continue
			}
			a.notify(r.Context(), Notification{
				UserID: uid, Title: "New comment",
				Message: u.Username + " commented on " + card.Title,
				Type:    NoticeCommentAdded, BoardID: &boardID, CardID: &id,
			})
		}
	}
}

// PATCH /api/comments/{id} {body} — only the author may edit.
func (a *api) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	author, _, err := a.store.CommentAuthor(r.Context(), id)
	if err != nil {
		a.fail(w, "resolve comment", err)
		return
	}
	if author != u.ID {
		writeError(w, 403, "forbidden")
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	c, err := a.store.UpdateComment(r.Context(), id, req.Body)
	if err != nil {
		a.fail(w, "update comment", err)
		return
	}
	writeJSON(w, 200, c)
}

// DELETE /api/comments/{id} — author or board owner.
func (a *api) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	author, cardID, err := a.store.CommentAuthor(r.Context(), id)
	if err != nil {
		a.fail(w, "resolve comment", err)
		return
	}
	if author != u.ID {
		boardID, _, err := a.store.BoardAndListByCard(r.Context(), cardID)
		if err != nil {
			a.fail(w, "resolve comment card", err)
			return
		}
		role, err := a.store.RoleOf(r.Context(), boardID, u.ID)
		if err != nil || !role.Can(capAdminister) {
			writeError(w, 403, "forbidden")
			return
		}
	}
	if err := a.store.DeleteComment(r.Context(), id); err != nil {
		a.fail(w, "delete comment", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
