package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ItemRepository хранит содержимое держателей (тайлов, инвентарей, хранилищ).
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository создаёт новый ItemRepository.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// Save replaces the stored contents of holderKey with rows in one transaction.
func (r *ItemRepository) Save(ctx context.Context, holderKey string, rows []Row) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx for %s: %w", holderKey, err)
	}
	defer tx.Rollback(ctx)

	if err := r.saveTx(ctx, tx, holderKey, rows); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s: %w", holderKey, err)
	}
	return nil
}

// SaveAll saves several holders in one transaction.
func (r *ItemRepository) SaveAll(ctx context.Context, holders map[string][]Row) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for key, rows := range holders {
		if err := r.saveTx(ctx, tx, key, rows); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *ItemRepository) saveTx(ctx context.Context, tx pgx.Tx, holderKey string, rows []Row) error {
	if _, err := tx.Exec(ctx, `DELETE FROM world_items WHERE holder_key = $1`, holderKey); err != nil {
		return fmt.Errorf("delete old items of %s: %w", holderKey, err)
	}
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		attrs, err := json.Marshal(row.Attributes)
		if err != nil {
			return fmt.Errorf("encoding attributes of %s/%d: %w", holderKey, row.Seq, err)
		}
		if row.Attributes == nil {
			attrs = []byte("{}")
		}
		batch.Queue(`
			INSERT INTO world_items
				(holder_key, seq, parent_seq, slot, type_id, count, duration_ms,
				 owner_tag, unique_id, text, attributes, bound)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			holderKey, row.Seq, row.ParentSeq, row.Slot, row.TypeID, row.Count,
			row.Duration.Milliseconds(), int64(row.OwnerTag), int64(row.UniqueID),
			row.Text, attrs, row.Bound,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert item of %s: %w", holderKey, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch for %s: %w", holderKey, err)
	}
	return nil
}

// Load returns the stored rows of holderKey ordered by seq.
func (r *ItemRepository) Load(ctx context.Context, holderKey string) ([]Row, error) {
	query := `
		SELECT seq, parent_seq, slot, type_id, count, duration_ms,
		       owner_tag, unique_id, text, attributes, bound
		FROM world_items
		WHERE holder_key = $1
		ORDER BY seq
	`

	rows, err := r.pool.Query(ctx, query, holderKey)
	if err != nil {
		return nil, fmt.Errorf("querying items of %s: %w", holderKey, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			row        Row
			durationMs int64
			ownerTag   int64
			uniqueID   int64
			attrs      []byte
		)
		err := rows.Scan(
			&row.Seq, &row.ParentSeq, &row.Slot, &row.TypeID, &row.Count, &durationMs,
			&ownerTag, &uniqueID, &row.Text, &attrs, &row.Bound,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning item row of %s: %w", holderKey, err)
		}
		row.Duration = time.Duration(durationMs) * time.Millisecond
		row.OwnerTag = uint32(ownerTag)
		row.UniqueID = uint32(uniqueID)
		if err := json.Unmarshal(attrs, &row.Attributes); err != nil {
			return nil, fmt.Errorf("decoding attributes of %s/%d: %w", holderKey, row.Seq, err)
		}
		if len(row.Attributes) == 0 {
			row.Attributes = nil
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows of %s: %w", holderKey, err)
	}
	return out, nil
}

// Keys returns every stored holder key with the given prefix ("tile:", "vault:").
func (r *ItemRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT holder_key FROM world_items WHERE starts_with(holder_key, $1) ORDER BY holder_key`,
		prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("querying holder keys %q: %w", prefix, err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collecting holder keys %q: %w", prefix, err)
	}
	return keys, nil
}
