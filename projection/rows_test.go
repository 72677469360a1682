package projection

import (
	"testing"
	"time"

	"support-thread/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func snapshotFixture() []domain.MessageRecord {
	opened := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return []domain.MessageRecord{
		{
			ID:              uuid.New(),
			Sender:          "support",
			IsAdminSender:   true,
			ConversationKey: "alice",
			Text:            "Hi, how can I help?",
			Sequence:        0,
			CreatedAt:       opened,
		},
		{
			ID:              uuid.New(),
			Sender:          "alice",
			IsAdminSender:   false,
			ConversationKey: "alice",
			Text:            "I need help",
			Sequence:        1,
			CreatedAt:       opened.Add(2 * time.Minute),
		},
	}
}

func TestBuildRows_SidesFollowViewerRole(t *testing.T) {
	req := require.New(t)
	snapshot := snapshotFixture()

	asAlice := BuildRows(snapshot, false)
	req.Len(asAlice, 2)
	req.Equal(domain.SideOther, asAlice[0].Side)
	req.Equal(domain.SideOwn, asAlice[1].Side)

	asAdmin := BuildRows(snapshot, true)
	req.Equal(domain.SideOwn, asAdmin[0].Side)
	req.Equal(domain.SideOther, asAdmin[1].Side)
}

func TestBuildRows_CaptionFormat(t *testing.T) {
	rows := BuildRows(snapshotFixture(), false)
	require.Equal(t, "2026-03-14 09:26", rows[0].Caption)
	require.Equal(t, "2026-03-14 09:28", rows[1].Caption)
}

func TestBuildRows_Idempotent(t *testing.T) {
	snapshot := snapshotFixture()
	first := BuildRows(snapshot, true)
	second := BuildRows(snapshot, true)
	require.Equal(t, first, second)
}

func TestBuildRows_EmptySnapshot(t *testing.T) {
	require.Empty(t, BuildRows(nil, true))
}
