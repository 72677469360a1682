package repositories

import (
	"log/slog"
	"testing"

	"support-thread/domain"
	errs "support-thread/errors"

	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing without a full image.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func Test_Profile_SaveAndGet(t *testing.T) {
	req := require.New(t)
	repository := NewProfileRepository(openTestDB(t), slog.Default())

	profile := domain.ParticipantProfile{
		Identity:    "alice",
		DisplayName: "Alice",
		IsAdmin:     false,
		Avatar:      pngHeader,
	}
	req.NoError(repository.SaveProfile(profile))

	fetched, err := repository.GetProfile("alice")
	req.NoError(err)
	req.Equal("Alice", fetched.DisplayName)
	req.False(fetched.IsAdmin)
	req.Equal("image/png", fetched.AvatarMime)
	req.Equal(pngHeader, fetched.Avatar)
}

func Test_Profile_EmptyAvatarAllowed(t *testing.T) {
	req := require.New(t)
	repository := NewProfileRepository(openTestDB(t), slog.Default())

	req.NoError(repository.SaveProfile(domain.ParticipantProfile{
		Identity:    "support",
		DisplayName: "Support",
		IsAdmin:     true,
	}))

	fetched, err := repository.GetProfile("support")
	req.NoError(err)
	req.Empty(fetched.Avatar)
	req.Empty(fetched.AvatarMime)
	req.True(fetched.IsAdmin)
}

func Test_Profile_NotFound(t *testing.T) {
	req := require.New(t)
	repository := NewProfileRepository(openTestDB(t), slog.Default())

	_, err := repository.GetProfile("ghost")
	req.ErrorIs(err, errs.ErrProfileNotFound)
}
