package main

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

type api struct {
	store *Store
	log   *slog.Logger
	// rate limiting buckets per IP:key
	rlMu sync.Mutex
	rl   map[string]*rateBucket
}

func newAPI(store *Store, log *slog.Logger) *api {
	return &api{store: store, log: log, rl: map[string]*rateBucket{}}
}

func (a *api) routes(mux *http.ServeMux) {
	// Auth
	mux.HandleFunc("POST /api/auth/register", a.withRateLimit("auth", 20, time.Minute, a.handleRegister))
	mux.HandleFunc("POST /api/auth/login", a.withRateLimit("auth", 30, time.Minute, a.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", a.handleLogout)
	mux.HandleFunc("GET /api/auth/me", a.handleMe)

	mux.HandleFunc("GET /api/health", a.handleHealth)

	// Users
	mux.HandleFunc("GET /api/users", a.requireAuth(a.handleListUsers))
	mux.HandleFunc("GET /api/users/{id}", a.requireAuth(a.handleGetUser))

	// Boards
	mux.HandleFunc("GET /api/boards", a.requireAuth(a.handleListBoards))
	mux.HandleFunc("POST /api/boards", a.requireAuth(a.handleCreateBoard))
	mux.HandleFunc("GET /api/boards/{id}", a.requireAuth(a.handleGetBoard))
	mux.HandleFunc("GET /api/boards/{id}/full", a.requireAuth(a.handleGetBoardFull))
	mux.HandleFunc("PATCH /api/boards/{id}", a.requireAuth(a.handleUpdateBoard))
	mux.HandleFunc("POST /api/boards/{id}/archive", a.requireAuth(a.handleArchiveBoard))
	mux.HandleFunc("DELETE /api/boards/{id}", a.requireAuth(a.handleDeleteBoard))

	// Lists
	mux.HandleFunc("GET /api/boards/{id}/lists", a.requireAuth(a.handleListsByBoard))
	mux.HandleFunc("POST /api/boards/{id}/lists", a.requireAuth(a.handleCreateList))
	mux.HandleFunc("GET /api/lists/{id}", a.requireAuth(a.handleGetList))
	mux.HandleFunc("PATCH /api/lists/{id}", a.requireAuth(a.handleUpdateList))
	mux.HandleFunc("POST /api/lists/{id}/move", a.requireAuth(a.handleMoveList))
	mux.HandleFunc("DELETE /api/lists/{id}", a.requireAuth(a.handleDeleteList))

	// Cards
	mux.HandleFunc("GET /api/lists/{id}/cards", a.requireAuth(a.handleCardsByList))
	mux.HandleFunc("POST /api/lists/{id}/cards", a.requireAuth(a.handleCreateCard))
	mux.HandleFunc("GET /api/cards/{id}", a.requireAuth(a.handleGetCard))
	mux.HandleFunc("PATCH /api/cards/{id}", a.requireAuth(a.handleUpdateCard))
	mux.HandleFunc("POST /api/cards/{id}/move", a.requireAuth(a.handleMoveCard))
	mux.HandleFunc("DELETE /api/cards/{id}", a.requireAuth(a.handleDeleteCard))

	// Checklist items
	mux.HandleFunc("GET /api/cards/{id}/checklist", a.requireAuth(a.handleChecklistByCard))
	mux.HandleFunc("POST /api/cards/{id}/checklist", a.requireAuth(a.handleCreateChecklistItem))
	mux.HandleFunc("PATCH /api/checklist/{id}", a.requireAuth(a.handleUpdateChecklistItem))
	mux.HandleFunc("DELETE /api/checklist/{id}", a.requireAuth(a.handleDeleteChecklistItem))

	// Comments
	mux.HandleFunc("GET /api/cards/{id}/comments", a.requireAuth(a.handleCommentsByCard))
	mux.HandleFunc("POST /api/cards/{id}/comments", a.requireAuth(a.handleAddComment))
	mux.HandleFunc("PATCH /api/comments/{id}", a.requireAuth(a.handleUpdateComment))
	mux.HandleFunc("DELETE /api/comments/{id}", a.requireAuth(a.handleDeleteComment))

	// History
	mux.HandleFunc("GET /api/cards/{id}/history", a.requireAuth(a.handleHistoryByCard))
	mux.HandleFunc("POST /api/cards/{id}/history", a.requireAuth(a.handleAddHistory))

	// Collaboration
	mux.HandleFunc("GET /api/boards/{id}/members", a.requireAuth(a.handleBoardMembers))
	mux.HandleFunc("POST /api/boards/{id}/invitations", a.requireAuth(a.handleInvite))
	mux.HandleFunc("PATCH /api/boards/{id}/members/{uid}", a.requireAuth(a.handleUpdateMemberRole))
	mux.HandleFunc("DELETE /api/boards/{id}/members/{uid}", a.requireAuth(a.handleRemoveMember))
	mux.HandleFunc("GET /api/my/invitations", a.requireAuth(a.handleMyInvitations))
	mux.HandleFunc("POST /api/invitations/{id}/respond", a.requireAuth(a.handleRespondInvitation))

	// Notifications
	mux.HandleFunc("GET /api/notifications", a.requireAuth(a.handleListNotifications))
	mux.HandleFunc("GET /api/notifications/unread-count", a.requireAuth(a.handleUnreadCount))
	mux.HandleFunc("POST /api/notifications/{id}/read", a.requireAuth(a.handleMarkRead))
	mux.HandleFunc("POST /api/notifications/read-all", a.requireAuth(a.handleMarkAllRead))
	mux.HandleFunc("DELETE /api/notifications/{id}", a.requireAuth(a.handleDeleteNotification))
}
