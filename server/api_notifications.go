package main

import (
	"net/http"
)

// GET /api/notifications?unread=1
func (a *api) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	unread := r.URL.Query().Get("unread") == "1" || r.URL.Query().Get("unread") == "true"
	items, err := a.store.NotificationsForUser(r.Context(), u.ID, unread)
	if err != nil {
		a.fail(w, "list notifications", err)
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	n, err := a.store.UnreadCount(r.Context(), u.ID)
	if err != nil {
		a.fail(w, "unread count", err)
		return
	}
	writeJSON(w, 200, map[string]any{"count": n})
}

func (a *api) handleMarkRead(w http.ResponseWriter, r *http.Request) {
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
	if err := a.store.MarkRead(r.Context(), id, u.ID); err != nil {
		a.fail(w, "mark read", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	if err := a.store.MarkAllRead(r.Context(), u.ID); err != nil {
		a.fail(w, "mark all read", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
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
	if err := a.store.DeleteNotification(r.Context(), id, u.ID); err != nil {
		a.fail(w, "delete notification", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
