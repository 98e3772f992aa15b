package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/pierrec/lz4/v4"
)

// Engine-state blob keys. The boss and season rows have stable ids so a save
// always overwrites the previous snapshot.
const (
	StateKeyParties     = "parties"
	StateKeyDungeons    = "dungeons"
	StateKeyEngagements = "engagements"
	StateKeyLeviathan   = "leviathan"
	StateKeyNull        = "null"
	StateKeyArena       = "arena"
	StateKeyQuests      = "quests"
	StateKeyCooldowns   = "cooldowns"
	StateKeyFeatured    = "featured"
	StateKeyResources   = "resources"
	StateKeyBounties    = "bounties"
)

// Blobs over this size are lz4-compressed; a leading marker byte records the
// encoding so old rows stay readable.
const compressThreshold = 4 * 1024

const (
	encodingRaw = 0x00
	encodingLZ4 = 0x01
)

// StateRepo stores engine subsystems as JSON snapshots keyed by name.
type StateRepo struct {
	db *DB
}

func NewStateRepo(db *DB) *StateRepo {
	return &StateRepo{db: db}
}

// Save marshals v and writes it under key.
func (r *StateRepo) Save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	data, err := encodeBlob(raw)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO engine_state (key, data) VALUES ($1,$2)
		 ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		key, data)
	return err
}

// Load unmarshals the blob under key into v. Returns (false, nil) when no
// snapshot exists.
func (r *StateRepo) Load(ctx context.Context, key string, v any) (bool, error) {
	var data []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT data FROM engine_state WHERE key = $1`, key,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	raw, err := decodeBlob(data)
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func encodeBlob(raw []byte) ([]byte, error) {
	if len(raw) < compressThreshold {
		return append([]byte{encodingRaw}, raw...), nil
	}
	var buf bytes.Buffer
	buf.WriteByte(encodingLZ4)
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeBlob(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty blob")
	}
	switch data[0] {
	case encodingRaw:
		return data[1:], nil
	case encodingLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data[1:])))
	default:
		return nil, fmt.Errorf("unknown blob encoding 0x%02x", data[0])
	}
}
