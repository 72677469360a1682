package main

import (
	"errors"
	"fmt"
	"os"

	"support-thread/auth"
	"support-thread/domain"
	errs "support-thread/errors"
	"support-thread/internal"
	"support-thread/moderation"
	"support-thread/repositories"
	"support-thread/services"
	"support-thread/ui"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the console lifecycle, so that
// deferred cleanup (database close, index close) always executes before the
// process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	conversationKey, err := config.ThreadKey()
	if err != nil {
		return err
	}

	// 2. Stores (BadgerDB + Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = blugeWriter.Close()
	}()

	// 3. Repositories & moderation
	threadRepository := repositories.NewThreadRepository(db, log, config.LimitMessages)
	searchRepository := repositories.NewSearchRepository(blugeWriter, log)
	profileRepository := repositories.NewProfileRepository(db, log)

	var filter *moderation.Filter
	if words := config.BlockedWordList(); len(words) > 0 {
		censorRune, err := config.CensorRune()
		if err != nil {
			return err
		}
		filter, err = moderation.NewFilter(words, censorRune)
		if err != nil {
			return fmt.Errorf("moderation setup failed: %w", err)
		}
	}

	service := services.NewThreadService(threadRepository, searchRepository, filter, log)

	// 4. Viewer session
	// The console authenticates itself: the identity and role from the
	// environment are exchanged for a signed token, and everything past
	// this point trusts only the verified viewer.
	sessions := auth.NewSessionManager(config.SessionSecret, config.SessionDuration)
	token, err := sessions.Issue(config.ViewerName, config.ViewerIsAdmin)
	if err != nil {
		return fmt.Errorf("issuing session: %w", err)
	}
	viewer, err := sessions.Verify(token)
	if err != nil {
		return fmt.Errorf("verifying session: %w", err)
	}

	if err = ensureProfile(profileRepository, viewer); err != nil {
		return err
	}
	otherParty, err := resolveOtherParty(profileRepository, viewer, conversationKey)
	if err != nil {
		return err
	}

	// 5. Thread screen
	view := ui.NewThreadView(service, viewer, conversationKey, otherParty, log)
	program := tea.NewProgram(view, tea.WithAltScreen())
	if _, err = program.Run(); err != nil {
		return fmt.Errorf("thread screen error: %w", err)
	}

	log.Info("Console stopped cleanly")
	return nil
}

func ensureProfile(profiles repositories.IProfileRepository, viewer auth.Viewer) error {
	_, err := profiles.GetProfile(viewer.Identity)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrProfileNotFound) {
		return err
	}
	return profiles.SaveProfile(domain.ParticipantProfile{
		Identity:    viewer.Identity,
		DisplayName: viewer.Identity,
		IsAdmin:     viewer.IsAdmin,
	})
}

// resolveOtherParty names the opposite side of the thread for the header:
// the user for an admin viewer, the support desk for a user viewer.
func resolveOtherParty(profiles repositories.IProfileRepository, viewer auth.Viewer, conversationKey string) (string, error) {
	if viewer.IsAdmin {
		profile, err := profiles.GetProfile(conversationKey)
		if errors.Is(err, errs.ErrProfileNotFound) {
			return conversationKey, nil
		}
		if err != nil {
			return "", err
		}
		return profile.DisplayName, nil
	}
	return "Support", nil
}
