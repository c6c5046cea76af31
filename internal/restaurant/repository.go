package restaurant

import "context"

// Repository durably stores the encoded snapshot of every record.
type Repository interface {
	// Load returns the last saved snapshot, or nil if nothing was saved yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, snapshot []byte) error
}

// Backuper keeps one extra copy of the snapshot per calendar day.
type Backuper interface {
	Backup(ctx context.Context, day string, snapshot []byte) error
}
