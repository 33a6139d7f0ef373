package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Store-level scenarios run against a real database and skip when
// DATABASE_URL is not set.
func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := NewStore(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testUser(t *testing.T, s *Store, prefix string) User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	u, err := s.CreateUser(context.Background(), prefix+"_"+suffix, prefix+"_"+suffix+"@example.com", "secret123")
	require.NoError(t, err)
	return u
}

func countRows(t *testing.T, s *Store, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRowContext(context.Background(), query, args...).Scan(&n))
	return n
}

func TestDeleteBoardLeavesNoOrphans(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	owner := testUser(t, s, "owner")

	b, err := s.CreateBoard(ctx, owner.ID, "Sprint", "")
	require.NoError(t, err)
	l, err := s.CreateList(ctx, b.ID, "Todo", 0)
	require.NoError(t, err)
	c, err := s.CreateCard(ctx, l.ID, owner.ID, CardInput{
		Title:     "Task A",
		Checklist: []ChecklistInput{{Text: "step one"}},
	})
	require.NoError(t, err)
	_, err = s.AddComment(ctx, c.ID, owner.ID, "looks good")
	require.NoError(t, err)

	require.NoError(t, s.DeleteBoard(ctx, b.ID))

	assert.Zero(t, countRows(t, s, `select count(*) from lists where board_id=$1`, b.ID))
	assert.Zero(t, countRows(t, s, `select count(*) from cards where list_id=$1`, l.ID))
	assert.Zero(t, countRows(t, s, `select count(*) from checklist_items where card_id=$1`, c.ID))
	assert.Zero(t, countRows(t, s, `select count(*) from comments where card_id=$1`, c.ID))
	assert.Zero(t, countRows(t, s, `select count(*) from card_history where card_id=$1`, c.ID))
}

func TestInviteConflictOnPendingPair(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	owner := testUser(t, s, "owner")
	guest := testUser(t, s, "guest")

	b, err := s.CreateBoard(ctx, owner.ID, "Shared", "")
	require.NoError(t, err)

	_, err = s.Invite(ctx, b.ID, guest.ID, owner.ID, RoleEditor, "")
	require.NoError(t, err)
	_, err = s.Invite(ctx, b.ID, guest.ID, owner.ID, RoleEditor, "")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, countRows(t, s,
		`select count(*) from board_invitations where board_id=$1 and user_id=$2 and status=$3`,
		b.ID, guest.ID, InvitePending))
}

func TestAcceptReactivatesRemovedMember(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	owner := testUser(t, s, "owner")
	guest := testUser(t, s, "guest")

	b, err := s.CreateBoard(ctx, owner.ID, "Shared", "")
	require.NoError(t, err)

	inv, err := s.Invite(ctx, b.ID, guest.ID, owner.ID, RoleEditor, "")
	require.NoError(t, err)
	inv, err = s.Respond(ctx, inv.ID, true)
	require.NoError(t, err)
	assert.Equal(t, InviteAccepted, inv.Status)
	require.NotNil(t, inv.RespondedAt)

	// responding to a settled invitation is NotFound
	_, err = s.Respond(ctx, inv.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.RemoveMember(ctx, b.ID, guest.ID))

	inv, err = s.Invite(ctx, b.ID, guest.ID, owner.ID, RoleViewer, "")
	require.NoError(t, err)
	_, err = s.Respond(ctx, inv.ID, true)
	require.NoError(t, err)

	// the soft-removed row was reactivated, not duplicated
	assert.Equal(t, 1, countRows(t, s,
		`select count(*) from board_members where board_id=$1 and user_id=$2`, b.ID, guest.ID))
	role, err := s.RoleOf(ctx, b.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, role)
}

func TestRoleOfMissingBoardVsStranger(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	owner := testUser(t, s, "owner")
	stranger := testUser(t, s, "stranger")

	b, err := s.CreateBoard(ctx, owner.ID, "Private", "")
	require.NoError(t, err)

	_, err = s.RoleOf(ctx, 1<<60, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.RoleOf(ctx, b.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrNoAccess)
}

func TestUpdateCardCompletionFiresOnce(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	owner := testUser(t, s, "owner")

	b, err := s.CreateBoard(ctx, owner.ID, "Sprint", "")
	require.NoError(t, err)
	l, err := s.CreateList(ctx, b.ID, "Todo", 0)
	require.NoError(t, err)
	c, err := s.CreateCard(ctx, l.ID, owner.ID, CardInput{Title: "Task A"})
	require.NoError(t, err)

	done := true
	_, _, completedNow, err := s.UpdateCard(ctx, c.ID, owner.ID, CardPatch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, completedNow)

	// the same patch again is a no-op transition
	_, _, completedNow, err = s.UpdateCard(ctx, c.ID, owner.ID, CardPatch{Completed: &done})
	require.NoError(t, err)
	assert.False(t, completedNow)
}

func TestBoardAccessStatusCodes(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	owner := testUser(t, s, "owner")
	stranger := testUser(t, s, "stranger")

	b, err := s.CreateBoard(ctx, owner.ID, "Private", "")
	require.NoError(t, err)

	a := newAPI(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	a.routes(mux)

	token, _, err := s.CreateSession(ctx, stranger.ID, time.Hour)
	require.NoError(t, err)

	get := func(path string, withCookie bool) int {
		r := httptest.NewRequest("GET", path, nil)
		if withCookie {
			r.AddCookie(&http.Cookie{Name: a.sessionCookieName(), Value: token})
		}
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, 401, get("/api/boards", false))
	assert.Equal(t, 404, get("/api/boards/"+strconv.FormatInt(1<<60, 10), true))
	assert.Equal(t, 403, get("/api/boards/"+strconv.FormatInt(b.ID, 10), true))
	assert.Equal(t, 200, get("/api/boards", true))
}
