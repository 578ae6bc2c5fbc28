package repo

// DedupRepo remembers the ids of messages that have already been answered
type DedupRepo interface {
	HasHandled(id string) bool
	MarkHandled(id string)

	// TryMark marks id and reports whether this call was the one that did it.
	// Check and insert happen atomically.
	TryMark(id string) bool
}
