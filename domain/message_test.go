package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_RoleSymmetry(t *testing.T) {
	tests := []struct {
		name           string
		viewerIsAdmin  bool
		messageIsAdmin bool
		want           Side
	}{
		{"admin viewer, admin message", true, true, SideOwn},
		{"user viewer, user message", false, false, SideOwn},
		{"admin viewer, user message", true, false, SideOther},
		{"user viewer, admin message", false, true, SideOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.viewerIsAdmin, tt.messageIsAdmin))
		})
	}
}

func TestSide_String(t *testing.T) {
	require.Equal(t, "own", SideOwn.String())
	require.Equal(t, "other", SideOther.String())
}
