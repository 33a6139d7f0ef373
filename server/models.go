package main

import (
	"fmt"
	"time"
)

type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type Board struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner_user_id"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	// Lists is populated only by the full-board view
	Lists []List `json:"lists,omitempty"`
}

type List struct {
	ID        int64     `json:"id"`
	BoardID   int64     `json:"board_id"`
	Name      string    `json:"name"`
	Pos       int       `json:"pos"`
	CreatedAt time.Time `json:"created_at"`
	Cards     []Card    `json:"cards,omitempty"`
}

type Card struct {
	ID          int64      `json:"id"`
	ListID      int64      `json:"list_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Status      CardStatus `json:"status"`
	Labels      []string   `json:"labels"`
	// Assignees is the authoritative assignment set; AssigneeID is the
	// derived primary assignee kept for clients that expect a single field.
	Assignees  []int64         `json:"assignees"`
	AssigneeID *int64          `json:"assignee_user_id,omitempty"`
	Pos        int             `json:"pos"`
	Checklist  []ChecklistItem `json:"checklist,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ChecklistItem struct {
	ID         int64      `json:"id"`
	CardID     int64      `json:"card_id"`
	Text       string     `json:"text"`
	Completed  bool       `json:"completed"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	AssigneeID *int64     `json:"assigned_user_id,omitempty"`
	Pos        int        `json:"pos"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	CardID    int64     `json:"card_id"`
	UserID    int64     `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryEntry is an append-only audit record; rows are never updated.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	CardID      int64     `json:"card_id"`
	UserID      int64     `json:"user_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	OldValue    string    `json:"old_value,omitempty"`
	NewValue    string    `json:"new_value,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Member struct {
	ID       int64     `json:"id"`
	BoardID  int64     `json:"board_id"`
	UserID   int64     `json:"user_id"`
	Role     BoardRole `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	Active   bool      `json:"active"`
	Username string    `json:"username,omitempty"`
}

type Invitation struct {
	ID          int64        `json:"id"`
	BoardID     int64        `json:"board_id"`
	UserID      int64        `json:"user_id"`
	InvitedBy   int64        `json:"invited_by"`
	Role        BoardRole    `json:"role"`
	Status      InviteStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	RespondedAt *time.Time   `json:"responded_at,omitempty"`
}

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	BoardID   *int64           `json:"board_id,omitempty"`
	CardID    *int64           `json:"card_id,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
}

// BoardRole orders from least to most privileged; the integer values are
// part of the wire format and the board_members schema.
type BoardRole int

const (
	RoleViewer BoardRole = 0
	RoleEditor BoardRole = 1
	RoleOwner  BoardRole = 2
)

func (r BoardRole) Valid() bool {
	switch r {
	case RoleViewer, RoleEditor, RoleOwner:
		return true
	}
	return false
}

func (r BoardRole) String() string {
	switch r {
	case RoleViewer:
		return "viewer"
	case RoleEditor:
		return "editor"
	case RoleOwner:
		return "owner"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Capability gates operations; roles map onto capabilities rather than being
// compared directly at call sites.
type Capability int

const (
	capView Capability = iota
	capEdit
	capAdminister
)

func (r BoardRole) Can(c Capability) bool {
	switch c {
	case capView:
		return r == RoleViewer || r == RoleEditor || r == RoleOwner
	case capEdit:
		return r == RoleEditor || r == RoleOwner
	case capAdminister:
		return r == RoleOwner
	default:
		return false
	}
}

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteExpired  InviteStatus = "expired"
)

// CanRespond reports whether the invitation may still transition; pending is
// the only non-terminal status.
func (s InviteStatus) CanRespond() bool { return s == InvitePending }

type NotificationType string

const (
	NoticeCardAssigned NotificationType = "card_assigned"
	NoticeCardUpdated  NotificationType = "card_updated"
	NoticeCardMoved    NotificationType = "card_moved"
	NoticeCardDone     NotificationType = "card_completed"
	NoticeInvitation   NotificationType = "board_invitation"
	NoticeCommentAdded NotificationType = "comment_added"
	NoticeDueSoon      NotificationType = "due_date_approaching"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type CardStatus string

const (
	StatusPending    CardStatus = "pending"
	StatusInProgress CardStatus = "in_progress"
	StatusCompleted  CardStatus = "completed"
)

func (s CardStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
