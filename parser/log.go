package parser

import "github.com/sirupsen/logrus"

var defaultLogger = logrus.New()

// defaultLogHandlers returns the OnRecover/OnDropStatement hooks used when
// the caller doesn't supply their own: a structured Warn-level log instead
// of a bare stderr print, matching how the wider pack's services report
// non-fatal per-item failures in a batch.
func defaultLogHandlers() (func(int, error), func(int, int, error)) {
	onRecover := func(stmtIndex int, err error) {
		defaultLogger.WithFields(logrus.Fields{
			"statement_index": stmtIndex,
		}).WithError(err).Warn("sqlriver: recovered from parse error")
	}
	onDrop := func(stmtIndex, total int, err error) {
		defaultLogger.WithFields(logrus.Fields{
			"statement_index":  stmtIndex,
			"total_statements": total,
		}).WithError(err).Warn("sqlriver: dropped statement")
	}
	return onRecover, onDrop
}
