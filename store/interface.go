package store

import "github.com/josephgoksu/qutimport/models"

// HistoryWriter defines the contract converters use to persist normalized history.
type HistoryWriter interface {
	// Initialize configures the writer with backend-specific settings such as
	// the destination root and the archive subdirectory.
	// It should be called before any other operation.
	Initialize(config map[string]string) error

	// Write partitions messages by year-month and stores one file per bucket
	// under the account and contact identities of the given protocol,
	// replacing any existing file for the same bucket.
	// An empty message list writes nothing.
	// It returns the paths that were written.
	Write(proto models.Protocol, account, contact string, messages []models.Message) ([]string, error)
}

// HistoryMaintainer covers the tree maintenance operations. Neither operation
// takes a lock; the caller must own the tree exclusively while they run.
type HistoryMaintainer interface {
	// Merge folds every bucket of src into this tree without duplicating
	// messages. Buckets missing here are copied byte for byte.
	Merge(src *HistoryStore) (MergeResult, error)

	// Sort rewrites every bucket with its messages in chronological order.
	Sort() (SortResult, error)
}
