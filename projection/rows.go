// Package projection builds display rows from thread snapshots.
// Handles side classification and caption formatting only; it does not
// touch storage or the terminal.
package projection

import (
	"support-thread/domain"

	"github.com/samber/lo"
)

// CaptionLayout is the fixed, locale-independent timestamp format shown
// under each bubble.
const CaptionLayout = "2006-01-02 15:04"

// Row is one rendered line of the thread.
type Row struct {
	Side    domain.Side
	Author  string
	Text    string
	Caption string
}

// BuildRows maps an ordered snapshot to one row per record. Building the
// same snapshot twice yields identical rows.
func BuildRows(records []domain.MessageRecord, viewerIsAdmin bool) []Row {
	return lo.Map(records, func(record domain.MessageRecord, _ int) Row {
		return Row{
			Side:    domain.Classify(viewerIsAdmin, record.IsAdminSender),
			Author:  record.Sender,
			Text:    record.Text,
			Caption: record.CreatedAt.Format(CaptionLayout),
		}
	})
}
