// Package domain contains core concepts of the support thread.
// This file defines MessageRecord entities and display-side classification.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageRecord represents an immutable support-chat message.
// ConversationKey is the identity of the non-admin participant; it alone
// identifies the conversation since each thread has exactly one admin side
// and one user side.
type MessageRecord struct {
	ID              uuid.UUID
	Sender          string
	IsAdminSender   bool
	ConversationKey string
	Text            string
	Sequence        uint64
	CreatedAt       time.Time
}

// Side is the rendering side of a message relative to the viewer.
type Side int

const (
	SideOwn Side = iota
	SideOther
)

func (s Side) String() string {
	if s == SideOwn {
		return "own"
	}
	return "other"
}

// Classify decides which side a message renders on.
// The chat is two-role: an admin viewer sees every admin-authored message
// as their own, even if several admin identities exist.
func Classify(viewerIsAdmin, messageIsAdmin bool) Side {
	if viewerIsAdmin == messageIsAdmin {
		return SideOwn
	}
	return SideOther
}
