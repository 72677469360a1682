// Package domain contains core concepts of the support thread.
// This file defines Participant entities consumed read-only for rendering.
// No runtime, network, or UI logic should be added here.
package domain

// ParticipantProfile is display data for one side of a conversation.
type ParticipantProfile struct {
	Identity    string
	DisplayName string
	IsAdmin     bool
	AvatarMime  string
	Avatar      []byte
}
