package main

import (
	"context"
	"fmt"
)

// diffAssignees computes the assignment delta between two sets, preserving
// the order of the incoming slices and ignoring duplicates.
func diffAssignees(prev, next []int64) (added, removed []int64) {
	in := func(ids []int64, id int64) bool {
		for _, v := range ids {
			if v == id {
				return true
			}
		}
		return false
	}
	seen := map[int64]bool{}
	for _, id := range next {
		if !seen[id] && !in(prev, id) {
			added = append(added, id)
		}
		seen[id] = true
	}
	seen = map[int64]bool{}
	for _, id := range prev {
		if !seen[id] && !in(next, id) {
			removed = append(removed, id)
		}
		seen[id] = true
	}
	return added, removed
}

// assignmentNotices builds the fan-out for an assignment change: newly
// assigned users are notified first, then users removed from the card.
func assignmentNotices(cardTitle string, boardID, cardID int64, added, removed []int64) []Notification {
	out := []Notification{}
	for _, uid := range added {
		out = append(out, Notification{
			UserID:  uid,
			Title:   "Card assigned to you",
			Message: fmt.Sprintf("You were assigned to %q", cardTitle),
			Type:    NoticeCardAssigned,
			BoardID: &boardID,
			CardID:  &cardID,
		})
	}
	for _, uid := range removed {
		out = append(out, Notification{
			UserID:  uid,
			Title:   "Removed from card",
			Message: fmt.Sprintf("You were removed from %q", cardTitle),
			Type:    NoticeCardUpdated,
			BoardID: &boardID,
			CardID:  &cardID,
		})
	}
	return out
}

// notify appends notifications best-effort. Failures are logged and never
// escalate to the triggering request.
func (a *api) notify(ctx context.Context, ns ...Notification) {
	for _, n := range ns {
		if err := a.store.AddNotification(ctx, n); err != nil {
			a.log.Warn("notification dropped", "type", string(n.Type), "user_id", n.UserID, "err", err)
		}
	}
}
