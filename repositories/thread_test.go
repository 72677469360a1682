package repositories

import (
	"log/slog"
	"sync"
	"testing"

	"support-thread/domain"
	errs "support-thread/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Append_AssignsCountBasedSequence(t *testing.T) {
	req := require.New(t)
	repository := NewThreadRepository(openTestDB(t), slog.Default(), nil)

	key := "alice"
	for i := 0; i < 5; i++ {
		record, err := repository.Append(key, "support", true, "are you still there?")
		req.NoError(err)
		req.Equal(uint64(i), record.Sequence)
	}

	count, err := repository.Count(key)
	req.NoError(err)
	req.Equal(uint64(5), count)
}

func Test_Snapshot_OrderedBySequence(t *testing.T) {
	req := require.New(t)
	repository := NewThreadRepository(openTestDB(t), slog.Default(), nil)

	key := "alice"
	texts := []string{"first", "second", "third", "fourth"}
	for _, text := range texts {
		_, err := repository.Append(key, "alice", false, text)
		req.NoError(err)
	}

	records, err := repository.Snapshot(key)
	req.NoError(err)
	req.Len(records, len(texts))
	for i, record := range records {
		req.Equal(uint64(i), record.Sequence)
		req.Equal(texts[i], record.Text)
		req.Equal(key, record.ConversationKey)
	}
}

func Test_Snapshot_TwoPartyScenario(t *testing.T) {
	req := require.New(t)
	repository := NewThreadRepository(openTestDB(t), slog.Default(), nil)

	key := "alice"
	first, err := repository.Append(key, "support", true, "Hi, how can I help?")
	req.NoError(err)
	second, err := repository.Append(key, "alice", false, "I need help")
	req.NoError(err)

	req.Equal(uint64(0), first.Sequence)
	req.True(first.IsAdminSender)
	req.Equal(uint64(1), second.Sequence)
	req.False(second.IsAdminSender)

	records, err := repository.Snapshot(key)
	req.NoError(err)
	req.Len(records, 2)
	req.Equal(first, records[0])
	req.Equal(second, records[1])

	// alice's view: the admin opener is the other side, her reply her own.
	req.Equal(domain.SideOther, domain.Classify(false, records[0].IsAdminSender))
	req.Equal(domain.SideOwn, domain.Classify(false, records[1].IsAdminSender))
	// the admin's view is the mirror image.
	req.Equal(domain.SideOwn, domain.Classify(true, records[0].IsAdminSender))
	req.Equal(domain.SideOther, domain.Classify(true, records[1].IsAdminSender))
}

func Test_Append_RejectsEmptyText(t *testing.T) {
	req := require.New(t)
	repository := NewThreadRepository(openTestDB(t), slog.Default(), nil)

	_, err := repository.Append("alice", "alice", false, "   ")
	req.ErrorIs(err, errs.ErrEmptyText)

	count, err := repository.Count("alice")
	req.NoError(err)
	req.Zero(count)
}

func Test_Append_ConcurrentSameKey(t *testing.T) {
	req := require.New(t)
	repository := NewThreadRepository(openTestDB(t), slog.Default(), nil)

	key := "alice"
	const senders = 16
	var wg sync.WaitGroup
	wg.Add(senders)
	appendErrs := make(chan error, senders)
	for i := 0; i < senders; i++ {
		go func() {
			defer wg.Done()
			_, err := repository.Append(key, "alice", false, "racing")
			appendErrs <- err
		}()
	}
	wg.Wait()
	close(appendErrs)
	for err := range appendErrs {
		req.NoError(err)
	}

	records, err := repository.Snapshot(key)
	req.NoError(err)
	req.Len(records, senders)
	for i, record := range records {
		req.Equal(uint64(i), record.Sequence)
	}
}

func Test_Snapshot_IsolatedPerConversation(t *testing.T) {
	req := require.New(t)
	repository := NewThreadRepository(openTestDB(t), slog.Default(), nil)

	_, err := repository.Append("alice", "support", true, "hello alice")
	req.NoError(err)
	_, err = repository.Append("bob", "support", true, "hello bob")
	req.NoError(err)
	_, err = repository.Append("bob", "bob", false, "hi")
	req.NoError(err)

	aliceRecords, err := repository.Snapshot("alice")
	req.NoError(err)
	req.Len(aliceRecords, 1)

	bobRecords, err := repository.Snapshot("bob")
	req.NoError(err)
	req.Len(bobRecords, 2)
	req.Equal(uint64(0), bobRecords[0].Sequence)
	req.Equal(uint64(1), bobRecords[1].Sequence)
}

func Test_Snapshot_LimitKeepsNewest(t *testing.T) {
	req := require.New(t)
	repository := NewThreadRepository(openTestDB(t), slog.Default(), lo.ToPtr(2))

	key := "alice"
	texts := []string{"first", "second", "third, just sent"}
	for _, text := range texts {
		_, err := repository.Append(key, "alice", false, text)
		req.NoError(err)
	}

	// The cutoff drops the oldest records; the tail stays, ascending.
	records, err := repository.Snapshot(key)
	req.NoError(err)
	req.Len(records, 2)
	req.Equal(uint64(1), records[0].Sequence)
	req.Equal("second", records[0].Text)
	req.Equal(uint64(2), records[1].Sequence)
	req.Equal("third, just sent", records[1].Text)
}

func Test_Append_RejectsReservedSeparator(t *testing.T) {
	req := require.New(t)
	repository := NewThreadRepository(openTestDB(t), slog.Default(), nil)

	_, err := repository.Append("alice", "alice", false, "plain thread")
	req.NoError(err)

	_, err = repository.Append("alice:work", "alice", false, "side channel")
	req.ErrorIs(err, errs.ErrInvalidIdentity)
	_, err = repository.Append("bob", "mallory:admin", false, "spoofed sender")
	req.ErrorIs(err, errs.ErrInvalidIdentity)

	// The existing thread keeps its own records only.
	records, err := repository.Snapshot("alice")
	req.NoError(err)
	req.Len(records, 1)
	req.Equal("alice", records[0].ConversationKey)
	req.Equal("plain thread", records[0].Text)
}

func Test_Snapshot_EmptyConversation(t *testing.T) {
	req := require.New(t)
	repository := NewThreadRepository(openTestDB(t), slog.Default(), nil)

	records, err := repository.Snapshot("nobody")
	req.NoError(err)
	req.Empty(records)
}
