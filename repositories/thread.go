//go:generate go run go.uber.org/mock/mockgen -source=thread.go -destination=../mocks/mock_thread_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"support-thread/domain"
	errs "support-thread/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IThreadRepository interface {
	Append(conversationKey, sender string, isAdminSender bool, text string) (domain.MessageRecord, error)
	Snapshot(conversationKey string) ([]domain.MessageRecord, error)
	Count(conversationKey string) (uint64, error)
}

// ThreadRepository persists the ordered message log of each conversation
// in BadgerDB. Appends for one conversation key are serialized with a keyed
// mutex: the next sequence equals the current record count, so two
// interleaved appends for the same key would collide.
type ThreadRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewThreadRepository(db *badger.DB, log *slog.Logger, limitMessages *int) *ThreadRepository {
	return &ThreadRepository{
		db:            db,
		log:           log,
		limitMessages: limitMessages,
		locks:         make(map[string]*sync.Mutex),
	}
}

// DiskRecord is the stored shape of a message in BadgerDB.
type DiskRecord struct {
	ID              string    `json:"id"`
	Sender          string    `json:"sender"`
	IsAdminSender   bool      `json:"is_admin_sender"`
	ConversationKey string    `json:"conversation_key"`
	Text            string    `json:"text"`
	Sequence        uint64    `json:"sequence"`
	CreatedAt       time.Time `json:"created_at"`
}

// recordKey builds the storage key "thr:{conversation}:{seq_padded}:{uuid}".
// The 12-digit zero padding makes lexicographical key order equal numeric
// sequence order, so a prefix scan returns the thread already sorted. The
// UUID suffix keeps keys unique even if the sequence invariant were ever
// violated upstream.
func recordKey(conversationKey string, sequence uint64, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("thr:%s:%012d:%s", conversationKey, sequence, id))
}

func threadPrefix(conversationKey string) []byte {
	return []byte(fmt.Sprintf("thr:%s:", conversationKey))
}

// Append stores a new message at the end of the conversation's log and
// returns the stored record. Empty text never reaches disk; callers are
// expected to pre-validate, so an empty input here is a contract violation.
// Identities containing the key separator are rejected: a conversation key
// like "alice:work" would scan as part of "alice"'s prefix, leaking records
// across threads and colliding their sequences.
func (t *ThreadRepository) Append(conversationKey, sender string, isAdminSender bool, text string) (domain.MessageRecord, error) {
	if strings.TrimSpace(text) == "" {
		return domain.MessageRecord{}, errs.ErrEmptyText
	}
	if strings.ContainsRune(conversationKey, ':') || strings.ContainsRune(sender, ':') {
		return domain.MessageRecord{}, errs.ErrInvalidIdentity
	}

	lock := t.keyLock(conversationKey)
	lock.Lock()
	defer lock.Unlock()

	record := domain.MessageRecord{
		ID:              uuid.New(),
		Sender:          sender,
		IsAdminSender:   isAdminSender,
		ConversationKey: conversationKey,
		Text:            text,
		CreatedAt:       time.Now().UTC(),
	}

	err := t.db.Update(func(txn *badger.Txn) error {
		sequence := countPrefix(txn, threadPrefix(conversationKey))
		record.Sequence = sequence

		bytes, err := json.Marshal(fromRecord(record))
		if err != nil {
			return err
		}
		key := recordKey(conversationKey, sequence, record.ID)
		if _, err = txn.Get(key); err == nil {
			return errs.ErrSequenceConflict
		}
		return txn.Set(key, bytes)
	})
	if err != nil {
		return domain.MessageRecord{}, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}
	return record, nil
}

// Snapshot returns the messages of the conversation, ascending by sequence.
// When limitMessages is set, it keeps the newest records: the scan walks the
// key space in reverse so the tail of the log survives the cutoff, then the
// collected slice is flipped back to ascending order.
func (t *ThreadRepository) Snapshot(conversationKey string) ([]domain.MessageRecord, error) {
	var records []domain.MessageRecord
	err := t.db.View(func(txn *badger.Txn) error {
		prefix := threadPrefix(conversationKey)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the last possible key of the prefix.
		seekKey := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if t.limitMessages != nil && len(records) == *t.limitMessages {
				t.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *t.limitMessages))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				record, err := DecodeRecord(value)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}
	slices.Reverse(records)
	return records, nil
}

// Count returns the number of stored messages for the conversation.
// The next appended record receives exactly this value as its sequence.
func (t *ThreadRepository) Count(conversationKey string) (uint64, error) {
	var count uint64
	err := t.db.View(func(txn *badger.Txn) error {
		count = countPrefix(txn, threadPrefix(conversationKey))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}
	return count, nil
}

// keyLock returns the mutex guarding appends for one conversation key.
// Locks are created lazily and never removed; a support deployment has a
// bounded set of active conversations.
func (t *ThreadRepository) keyLock(conversationKey string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[conversationKey]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[conversationKey] = lock
	}
	return lock
}

// countPrefix counts keys under a prefix without prefetching values.
func countPrefix(txn *badger.Txn, prefix []byte) uint64 {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	var count uint64
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		count++
	}
	return count
}

// DecodeRecord converts a stored value back into a MessageRecord.
// Exported for the keyspace inspection tool.
func DecodeRecord(value []byte) (domain.MessageRecord, error) {
	var disk DiskRecord
	if err := json.Unmarshal(value, &disk); err != nil {
		return domain.MessageRecord{}, err
	}
	return toRecord(disk)
}

func fromRecord(record domain.MessageRecord) DiskRecord {
	return DiskRecord{
		ID:              record.ID.String(),
		Sender:          record.Sender,
		IsAdminSender:   record.IsAdminSender,
		ConversationKey: record.ConversationKey,
		Text:            record.Text,
		Sequence:        record.Sequence,
		CreatedAt:       record.CreatedAt,
	}
}

func toRecord(disk DiskRecord) (domain.MessageRecord, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.MessageRecord{}, err
	}
	return domain.MessageRecord{
		ID:              parsedID,
		Sender:          disk.Sender,
		IsAdminSender:   disk.IsAdminSender,
		ConversationKey: disk.ConversationKey,
		Text:            disk.Text,
		Sequence:        disk.Sequence,
		CreatedAt:       disk.CreatedAt.UTC(),
	}, nil
}
