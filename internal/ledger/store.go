package ledger

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// SQLStore adapts the availability repository to the ledger's Store
// contract, mapping the repository's *sql.Tx plumbing onto the Tx
// interface.
type SQLStore struct {
    repo *repository.AvailabilityRepo
}

// NewSQLStore wraps an availability repository.
func NewSQLStore(repo *repository.AvailabilityRepo) *SQLStore {
    if repo == nil {
        panic("nil repository passed to NewSQLStore")
    }
    return &SQLStore{repo: repo}
}

// InTx opens a transaction, runs fn against it, and commits when fn
// returns nil.  Any error from fn rolls back every mutation applied so
// far, which is what makes a multi-date reservation all-or-nothing.
func (s *SQLStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
    dbTx, err := s.repo.DB().BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    if err := fn(&sqlTx{repo: s.repo, tx: dbTx}); err != nil {
        _ = dbTx.Rollback()
        return err
    }
    return dbTx.Commit()
}

// ListRange delegates to the repository.
func (s *SQLStore) ListRange(ctx context.Context, kind model.ResourceKind, resourceID string, from, to time.Time) ([]model.AvailabilityEntry, error) {
    return s.repo.ListRange(ctx, kind, resourceID, from, to)
}

// StatsRange delegates to the repository.
func (s *SQLStore) StatsRange(ctx context.Context, kind model.ResourceKind, resourceID string, from, to time.Time) (model.OccupancyStats, error) {
    return s.repo.StatsRange(ctx, kind, resourceID, from, to)
}

type sqlTx struct {
    repo *repository.AvailabilityRepo
    tx   *sql.Tx
}

func (t *sqlTx) EnsureEntry(ctx context.Context, kind model.ResourceKind, resourceID string, date time.Time, total int) error {
    return t.repo.EnsureEntryTx(ctx, t.tx, kind, resourceID, date, total)
}

func (t *sqlTx) ReserveDate(ctx context.Context, kind model.ResourceKind, resourceID string, date time.Time, units int) error {
    err := t.repo.ReserveDateTx(ctx, t.tx, kind, resourceID, date, units)
    if errors.Is(err, repository.ErrCapacityExhausted) {
        return ErrInsufficient
    }
    return err
}

func (t *sqlTx) ReleaseDate(ctx context.Context, kind model.ResourceKind, resourceID string, date time.Time, units int) error {
    return t.repo.ReleaseDateTx(ctx, t.tx, kind, resourceID, date, units)
}
