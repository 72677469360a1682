package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	BadgerFilepath  string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath   string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel        string        `env:"LOG_LEVEL,required=true"`
	LimitMessages   *int          `env:"LIMIT_MESSAGES"`
	SessionSecret   string        `env:"SESSION_SECRET,required=true"`
	SessionDuration time.Duration `env:"SESSION_DURATION,required=true"`

	// The viewer this console instance runs as. The conversation key is the
	// non-admin participant: admins must name the user they are answering,
	// non-admin viewers always see their own thread.
	ViewerName      string `env:"VIEWER_NAME,required=true"`
	ViewerIsAdmin   bool   `env:"VIEWER_IS_ADMIN,required=true"`
	ConversationKey string `env:"CONVERSATION_KEY"`

	BlockedWords    string `env:"BLOCKED_WORDS"`
	CensorCharacter string `env:"CENSOR_CHARACTER"`
}

// ThreadKey resolves the conversation this viewer opens.
func (c Config) ThreadKey() (string, error) {
	if !c.ViewerIsAdmin {
		return c.ViewerName, nil
	}
	if c.ConversationKey == "" {
		return "", fmt.Errorf("CONVERSATION_KEY is required for an admin viewer")
	}
	return c.ConversationKey, nil
}

// BlockedWordList splits the configured comma-separated word list.
func (c Config) BlockedWordList() []string {
	if strings.TrimSpace(c.BlockedWords) == "" {
		return nil
	}
	var words []string
	for _, word := range strings.Split(c.BlockedWords, ",") {
		if trimmed := strings.TrimSpace(word); trimmed != "" {
			words = append(words, trimmed)
		}
	}
	return words
}

// CensorRune validates the configured replacement character.
func (c Config) CensorRune() (rune, error) {
	if c.CensorCharacter == "" {
		return '*', nil
	}
	r := []rune(c.CensorCharacter)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CENSOR_CHARACTER must be a single character, got %q",
			c.CensorCharacter,
		)
	}
	return r[0], nil
}
