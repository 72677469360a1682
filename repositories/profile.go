//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"

	"support-thread/domain"
	errs "support-thread/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/gabriel-vasile/mimetype"
)

type IProfileRepository interface {
	SaveProfile(profile domain.ParticipantProfile) error
	GetProfile(identity string) (domain.ParticipantProfile, error)
}

// ProfileRepository stores display profiles (name, role, avatar bytes) per
// participant identity. Consumed read-only by the thread view.
type ProfileRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewProfileRepository(db *badger.DB, log *slog.Logger) *ProfileRepository {
	return &ProfileRepository{db: db, log: log}
}

type diskProfile struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
	AvatarMime  string `json:"avatar_mime"`
	Avatar      []byte `json:"avatar,omitempty"`
}

func profileKey(identity string) []byte {
	return []byte("prf:" + identity)
}

// SaveProfile persists the profile, sniffing the avatar content type from
// the image bytes. An empty avatar is allowed; the view falls back to a
// placeholder.
func (p *ProfileRepository) SaveProfile(profile domain.ParticipantProfile) error {
	disk := diskProfile{
		Identity:    profile.Identity,
		DisplayName: profile.DisplayName,
		IsAdmin:     profile.IsAdmin,
		Avatar:      profile.Avatar,
	}
	if len(profile.Avatar) > 0 {
		disk.AvatarMime = mimetype.Detect(profile.Avatar).String()
	}

	data, err := json.Marshal(disk)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	err = p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.Identity), data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}
	return nil
}

// GetProfile retrieves a participant's display profile.
func (p *ProfileRepository) GetProfile(identity string) (domain.ParticipantProfile, error) {
	var disk diskProfile
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(identity))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &disk)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.ParticipantProfile{}, errs.ErrProfileNotFound
	}
	if err != nil {
		return domain.ParticipantProfile{}, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}

	return domain.ParticipantProfile{
		Identity:    disk.Identity,
		DisplayName: disk.DisplayName,
		IsAdmin:     disk.IsAdmin,
		AvatarMime:  disk.AvatarMime,
		Avatar:      disk.Avatar,
	}, nil
}
