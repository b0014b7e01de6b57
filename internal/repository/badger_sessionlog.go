package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/dgraph-io/badger/v4"
)

// Key layout:
//
//	h/<seq, 20 digits>   history entry JSON, ordered by seq
//	hs/<session id>      seq of the session's history entry
//	cp/<session id>      checkpoint JSON
const (
	historyPrefix    = "h/"
	historyIdxPrefix = "hs/"
	checkpointPrefix = "cp/"
	historySeqKey    = "seq/history"
)

// BadgerSessionLog implements SessionLog on an embedded Badger store. Every
// write is a single Badger transaction.
type BadgerSessionLog struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerSessionLog wraps an open Badger database. Close releases the
// sequence lease but leaves the database open.
func NewBadgerSessionLog(bdb *badger.DB) (*BadgerSessionLog, error) {
	seq, err := bdb.GetSequence([]byte(historySeqKey), 64)
	if err != nil {
		return nil, fmt.Errorf("leasing history sequence: %w", err)
	}
	return &BadgerSessionLog{db: bdb, seq: seq}, nil
}

func (l *BadgerSessionLog) Close() error {
	return l.seq.Release()
}

func historyKey(seq int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", historyPrefix, seq))
}

func (l *BadgerSessionLog) AppendHistoryEntry(ctx context.Context, e *domain.HistoryEntry) error {
	next, err := l.seq.Next()
	if err != nil {
		return fmt.Errorf("allocating history seq: %w", err)
	}
	seq := int64(next) + 1

	entry := *e
	entry.Seq = seq
	if entry.Reason == "" {
		entry.Reason = domain.ReasonExplicit
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding history entry: %w", err)
	}

	err = l.db.Update(func(txn *badger.Txn) error {
		idxKey := []byte(historyIdxPrefix + e.SessionID)
		if _, err := txn.Get(idxKey); err == nil {
			return fmt.Errorf("history entry for session %s: %w", e.SessionID, ErrDuplicate)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(historyKey(seq), data); err != nil {
			return err
		}
		if err := txn.Set(idxKey, []byte(strconv.FormatInt(seq, 10))); err != nil {
			return err
		}
		return txn.Delete([]byte(checkpointPrefix + e.SessionID))
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return err
		}
		return fmt.Errorf("appending history entry: %w", err)
	}
	e.Seq = seq
	e.Reason = entry.Reason
	return nil
}

func (l *BadgerSessionLog) LoadHistory(ctx context.Context, kind *domain.SessionKind) ([]domain.HistoryEntry, error) {
	return l.scanHistory(ctx, HistoryFilter{Kind: kind})
}

func (l *BadgerSessionLog) ListHistory(ctx context.Context, f HistoryFilter) ([]domain.HistoryEntry, error) {
	limit := f.Limit
	f.Limit = 0
	entries, err := l.scanHistory(ctx, f)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (l *BadgerSessionLog) scanHistory(ctx context.Context, f HistoryFilter) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(historyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec domain.HistoryEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decoding history entry: %w", err)
			}
			if f.Kind != nil && rec.Kind != *f.Kind {
				continue
			}
			if f.Since != nil && rec.CompletedAt.Before(*f.Since) {
				continue
			}
			entries = append(entries, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning history: %w", err)
	}
	return entries, nil
}

// SaveCheckpoint skips sessions that already have a history entry.
func (l *BadgerSessionLog) SaveCheckpoint(ctx context.Context, cp domain.Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encoding checkpoint: %w", err)
	}
	err = l.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(historyIdxPrefix + cp.SessionID)); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set([]byte(checkpointPrefix+cp.SessionID), data)
	})
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

func (l *BadgerSessionLog) GetCheckpoint(ctx context.Context, sessionID string) (*domain.Checkpoint, error) {
	var cp domain.Checkpoint
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(checkpointPrefix + sessionID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cp)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("checkpoint %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading checkpoint: %w", err)
	}
	return &cp, nil
}

func (l *BadgerSessionLog) ListCheckpoints(ctx context.Context) ([]domain.Checkpoint, error) {
	var out []domain.Checkpoint
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(checkpointPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var cp domain.Checkpoint
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &cp)
			}); err != nil {
				return err
			}
			out = append(out, cp)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing checkpoints: %w", err)
	}
	return out, nil
}

func (l *BadgerSessionLog) DeleteCheckpoint(ctx context.Context, sessionID string) error {
	err := l.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(checkpointPrefix + sessionID))
	})
	if err != nil {
		return fmt.Errorf("deleting checkpoint: %w", err)
	}
	return nil
}
