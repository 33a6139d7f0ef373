package main

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Members returns active members with usernames joined in. The board owner
// is always conceptually a member: if no explicit row exists, one is
// synthesized with the Owner role.
func (s *Store) Members(ctx context.Context, boardID int64) ([]Member, error) {
	b, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`select m.id, m.board_id, m.user_id, m.role, m.joined_at, m.active, u.username
		 from board_members m join users u on u.id=m.user_id
		 where m.board_id=$1 and m.active order by m.joined_at, m.id`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Member{}
	haveOwner := false
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.BoardID, &m.UserID, &m.Role, &m.JoinedAt, &m.Active, &m.Username); err != nil {
			return nil, err
		}
		if m.UserID == b.OwnerID {
			haveOwner = true
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !haveOwner {
		owner, err := s.GetUser(ctx, b.OwnerID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		m := Member{BoardID: boardID, UserID: b.OwnerID, Role: RoleOwner, JoinedAt: b.CreatedAt, Active: true}
		if err == nil {
			m.Username = owner.Username
		}
		out = append([]Member{m}, out...)
	}
	return out, nil
}

// Invite creates a pending invitation. An active membership or an existing
// pending invitation for the same pair is a conflict.
func (s *Store) Invite(ctx context.Context, boardID, userID, inviterID int64, role BoardRole, message string) (Invitation, error) {
	if !role.Valid() {
		return Invitation{}, validationf("unknown role %d", int(role))
	}
	b, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return Invitation{}, err
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return Invitation{}, err
	}
	if userID == b.OwnerID {
		return Invitation{}, ErrConflict
	}
	var inv Invitation
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`select exists(select 1 from board_members where board_id=$1 and user_id=$2 and active)`,
			boardID, userID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrConflict
		}
		if err := tx.QueryRowContext(ctx,
			`select exists(select 1 from board_invitations where board_id=$1 and user_id=$2 and status=$3)`,
			boardID, userID, InvitePending).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrConflict
		}
		return tx.QueryRowContext(ctx,
			`insert into board_invitations(board_id, user_id, invited_by, role, message)
			 values($1,$2,$3,$4,$5)
			 returning id, board_id, user_id, invited_by, role, status, message, created_at, responded_at`,
			boardID, userID, inviterID, role, message).
			Scan(&inv.ID, &inv.BoardID, &inv.UserID, &inv.InvitedBy, &inv.Role, &inv.Status, &inv.Message, &inv.CreatedAt, &inv.RespondedAt)
	})
	if err != nil {
		// the partial unique index catches pending pairs racing past the
		// exists checks
		if isUniqueViolation(err) {
			return Invitation{}, ErrConflict
		}
		return Invitation{}, err
	}
	return inv, nil
}

// Respond transitions a pending invitation to accepted or declined. On
// accept an existing membership row (possibly soft-removed) is reactivated
// with the invitation's role, otherwise a new row is created. The status and
// responded_at stamp happen regardless of the answer.
func (s *Store) Respond(ctx context.Context, invitationID int64, accepted bool) (Invitation, error) {
	var inv Invitation
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`select id, board_id, user_id, invited_by, role, status, message, created_at, responded_at
			 from board_invitations where id=$1 for update`, invitationID).
			Scan(&inv.ID, &inv.BoardID, &inv.UserID, &inv.InvitedBy, &inv.Role, &inv.Status, &inv.Message, &inv.CreatedAt, &inv.RespondedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !inv.Status.CanRespond() {
			return ErrNotFound
		}
		status := InviteDeclined
		if accepted {
			status = InviteAccepted
		}
		now := time.Now()
		if _, err := tx.ExecContext(ctx,
			`update board_invitations set status=$1, responded_at=$2 where id=$3`, status, now, invitationID); err != nil {
			return err
		}
		inv.Status = status
		inv.RespondedAt = &now
		if !accepted {
			return nil
		}
		var memberID int64
		err = tx.QueryRowContext(ctx,
			`select id from board_members where board_id=$1 and user_id=$2`, inv.BoardID, inv.UserID).Scan(&memberID)
		switch {
		case err == nil:
			_, err = tx.ExecContext(ctx,
				`update board_members set active=true, role=$1, joined_at=$2 where id=$3`, inv.Role, now, memberID)
			return err
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx,
				`insert into board_members(board_id, user_id, role) values($1,$2,$3)`, inv.BoardID, inv.UserID, inv.Role)
			return err
		default:
			return err
		}
	})
	if err != nil {
		return Invitation{}, err
	}
	return inv, nil
}

func (s *Store) UpdateMemberRole(ctx context.Context, boardID, userID int64, role BoardRole) error {
	if !role.Valid() {
		return validationf("unknown role %d", int(role))
	}
	res, err := s.db.ExecContext(ctx,
		`update board_members set role=$1 where board_id=$2 and user_id=$3 and active`, role, boardID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMember soft-removes; the row survives for history and the re-invite
// reactivation path.
func (s *Store) RemoveMember(ctx context.Context, boardID, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`update board_members set active=false where board_id=$1 and user_id=$2 and active`, boardID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// InvitationsForUser returns the user's pending invitations, newest first.
func (s *Store) InvitationsForUser(ctx context.Context, userID int64) ([]Invitation, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, board_id, user_id, invited_by, role, status, message, created_at, responded_at
		 from board_invitations where user_id=$1 and status=$2 order by created_at desc, id desc`,
		userID, InvitePending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Invitation{}
	for rows.Next() {
		var inv Invitation
		if err := rows.Scan(&inv.ID, &inv.BoardID, &inv.UserID, &inv.InvitedBy, &inv.Role, &inv.Status, &inv.Message, &inv.CreatedAt, &inv.RespondedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
