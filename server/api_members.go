package main

import (
	"net/http"
)

func (a *api) handleBoardMembers(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, ok := a.boardAccess(w, r, id, capView); !ok {
		return
	}
	items, err := a.store.Members(r.Context(), id)
	if err != nil {
		a.fail(w, "board members", err)
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/boards/{id}/invitations {user_id, role, message}
func (a *api) handleInvite(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	u, ok := a.boardAccess(w, r, id, capAdminister)
	if !ok {
		return
	}
	var req struct {
		UserID  int64  `json:"user_id"`
		Role    int    `json:"role"`
		Message string `json:"message"`
	}
	if err := readJSON(w, r, &req); err != nil || req.UserID == 0 {
		writeError(w, 400, "invalid payload")
		return
	}
	inv, err := a.store.Invite(r.Context(), id, req.UserID, u.ID, BoardRole(req.Role), req.Message)
	if err != nil {
		a.fail(w, "invite", err)
		return
	}
	writeJSON(w, 201, inv)
	board, berr := a.store.GetBoard(r.Context(), id)
	if berr == nil {
		a.notify(r.Context(), Notification{
			UserID: req.UserID, Title: "Board invitation",
			Message: u.Username + " invited you to " + board.Name,
			Type:    NoticeInvitation, BoardID: &id,
		})
	}
}

// PATCH /api/boards/{id}/members/{uid} {role}
func (a *api) handleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	uid, err := parseID(r.PathValue("uid"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, ok := a.boardAccess(w, r, id, capAdminister); !ok {
		return
	}
	var req struct {
		Role int `json:"role"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if err := a.store.UpdateMemberRole(r.Context(), id, uid, BoardRole(req.Role)); err != nil {
		a.fail(w, "update member role", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

// DELETE /api/boards/{id}/members/{uid} — soft remove; members may remove
// themselves, everything else takes the administer capability.
func (a *api) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	uid, err := parseID(r.PathValue("uid"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	if u.ID != uid {
		if _, ok := a.boardAccess(w, r, id, capAdminister); !ok {
			return
		}
	}
	if err := a.store.RemoveMember(r.Context(), id, uid); err != nil {
		a.fail(w, "remove member", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleMyInvitations(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	items, err := a.store.InvitationsForUser(r.Context(), u.ID)
	if err != nil {
		a.fail(w, "my invitations", err)
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/invitations/{id}/respond {accepted} — only the invited user may
// respond; pending is the only respondable status.
func (a *api) handleRespondInvitation(w http.ResponseWriter, r *http.Request) {
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
	var req struct {
		Accepted bool `json:"accepted"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	invs, err := a.store.InvitationsForUser(r.Context(), u.ID)
	if err != nil {
		a.fail(w, "resolve invitation", err)
		return
	}
	mine := false
	for _, inv := range invs {
		if inv.ID == id {
			mine = true
			break
		}
	}
	if !mine {
		writeError(w, 404, "not found")
		return
	}
	inv, err := a.store.Respond(r.Context(), id, req.Accepted)
	if err != nil {
		a.fail(w, "respond invitation", err)
		return
	}
	writeJSON(w, 200, inv)
}
