//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"support-thread/domain"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type ISearchRepository interface {
	Index(record domain.MessageRecord) error
	Search(ctx context.Context, conversationKey, terms string, limit int) ([]uuid.UUID, error)
}

// SearchRepository maintains a full-text index of message content next to
// the badger log, scoped by conversation so one thread's search never leaks
// into another's.
type SearchRepository struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchRepository(writer *bluge.Writer, log *slog.Logger) *SearchRepository {
	return &SearchRepository{writer: writer, log: log}
}

// Index adds one stored message to the full-text index.
func (s *SearchRepository) Index(record domain.MessageRecord) error {
	doc := bluge.NewDocument(record.ID.String()).
		AddField(bluge.NewTextField("text", record.Text)).
		AddField(bluge.NewKeywordField("conversation", record.ConversationKey)).
		AddField(bluge.NewKeywordField("sender", record.Sender))

	if err := s.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("indexing message %s: %w", record.ID, err)
	}
	return nil
}

// Search returns the IDs of messages in one conversation matching the terms.
func (s *SearchRepository) Search(ctx context.Context, conversationKey, terms string, limit int) ([]uuid.UUID, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			s.log.Error("closing index reader", "error", closeErr)
		}
	}()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("text")).
		AddMust(bluge.NewTermQuery(conversationKey).SetField("conversation"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				if id, parseErr := uuid.Parse(string(value)); parseErr == nil {
					ids = append(ids, id)
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
