//go:generate go run go.uber.org/mock/mockgen -source=thread_service.go -destination=../mocks/mock_thread_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"strings"

	"support-thread/domain"
	"support-thread/moderation"
	"support-thread/repositories"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IThreadService interface {
	Submit(ctx context.Context, cmd domain.SubmitCommand) (domain.SubmitOutcome, []domain.MessageRecord, error)
	Snapshot(conversationKey string) ([]domain.MessageRecord, error)
	SearchThread(ctx context.Context, conversationKey, terms string, limit int) ([]domain.MessageRecord, error)
}

// ThreadService orchestrates the send path: validate, censor, append, then
// take a fresh snapshot for the caller to render. The store stays ignorant
// of any rendering concern.
type ThreadService struct {
	threads repositories.IThreadRepository
	search  repositories.ISearchRepository
	filter  *moderation.Filter
	log     *slog.Logger
}

// NewThreadService wires the send orchestration. search and filter may be
// nil; indexing and censoring are then skipped.
func NewThreadService(
	threads repositories.IThreadRepository,
	search repositories.ISearchRepository,
	filter *moderation.Filter,
	log *slog.Logger,
) *ThreadService {
	return &ThreadService{threads: threads, search: search, filter: filter, log: log}
}

// Submit handles one send intent.
//
// An empty trimmed text is SubmitRejected: no store interaction, no error.
// A storage failure is SubmitFailed: not retried, the caller keeps the
// user's input so the send can be repeated. On success the returned
// snapshot already contains the new record; the caller renders it and
// scrolls to the latest row.
func (s *ThreadService) Submit(ctx context.Context, cmd domain.SubmitCommand) (domain.SubmitOutcome, []domain.MessageRecord, error) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return domain.SubmitRejected, nil, nil
	}
	if s.filter != nil {
		text = s.filter.Apply(text)
	}

	record, err := s.threads.Append(cmd.ConversationKey, cmd.Sender, cmd.SenderIsAdmin, text)
	if err != nil {
		s.log.Error("append failed", "conversation", cmd.ConversationKey, "error", err)
		return domain.SubmitFailed, nil, err
	}

	if s.search != nil {
		// Indexing is best effort: the record is already durable and the
		// thread must still render.
		if err = s.search.Index(record); err != nil {
			s.log.Error("indexing failed", "message", record.ID, "error", err)
		}
	}

	snapshot, err := s.threads.Snapshot(cmd.ConversationKey)
	if err != nil {
		// The record is durable once Append commits; report the read
		// failure without undoing the send.
		return domain.SubmitSent, nil, err
	}
	return domain.SubmitSent, snapshot, nil
}

// Snapshot returns the full ordered thread for one conversation.
func (s *ThreadService) Snapshot(conversationKey string) ([]domain.MessageRecord, error) {
	return s.threads.Snapshot(conversationKey)
}

// SearchThread finds messages of one conversation matching the terms,
// returned in thread order.
func (s *ThreadService) SearchThread(ctx context.Context, conversationKey, terms string, limit int) ([]domain.MessageRecord, error) {
	if s.search == nil || strings.TrimSpace(terms) == "" {
		return nil, nil
	}
	ids, err := s.search.Search(ctx, conversationKey, terms, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	snapshot, err := s.threads.Snapshot(conversationKey)
	if err != nil {
		return nil, err
	}
	wanted := lo.SliceToMap(ids, func(id uuid.UUID) (uuid.UUID, struct{}) {
		return id, struct{}{}
	})
	return lo.Filter(snapshot, func(record domain.MessageRecord, _ int) bool {
		_, ok := wanted[record.ID]
		return ok
	}), nil
}
