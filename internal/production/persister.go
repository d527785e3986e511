// Package production provides integrations for running fiber trees in
// services: snapshot persistence, lifecycle event publishing, visualization.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"

	"github.com/comalice/fiberx"
)

// Persister stores tree snapshots by tree id.
type Persister interface {
	Save(ctx context.Context, snapshot fiberx.TreeSnapshot) error
	Load(ctx context.Context, treeID string) (fiberx.TreeSnapshot, error)
}

// JSONPersister is a file-based persister using JSON serialization.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, snapshot fiberx.TreeSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return writeSnapshot(filepath.Join(p.dir, snapshot.TreeID+".json"), data)
}

func (p *JSONPersister) Load(ctx context.Context, treeID string) (fiberx.TreeSnapshot, error) {
	data, err := readSnapshot(filepath.Join(p.dir, treeID+".json"), treeID)
	if err != nil {
		return fiberx.TreeSnapshot{}, err
	}
	var snapshot fiberx.TreeSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fiberx.TreeSnapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snapshot.TreeID = treeID
	return snapshot, nil
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, snapshot fiberx.TreeSnapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return writeSnapshot(filepath.Join(p.dir, snapshot.TreeID+".yaml"), data)
}

func (p *YAMLPersister) Load(ctx context.Context, treeID string) (fiberx.TreeSnapshot, error) {
	data, err := readSnapshot(filepath.Join(p.dir, treeID+".yaml"), treeID)
	if err != nil {
		return fiberx.TreeSnapshot{}, err
	}
	var snapshot fiberx.TreeSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return fiberx.TreeSnapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snapshot.TreeID = treeID
	return snapshot, nil
}

func writeSnapshot(fn string, data []byte) error {
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func readSnapshot(fn, treeID string) ([]byte, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("tree %q: %w", treeID, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}

const bucketSnapshots = "snapshots"

// BoltPersister keeps snapshots in a single bbolt database file, one
// JSON-encoded value per tree id.
type BoltPersister struct {
	db *bolt.DB
}

// NewBoltPersister opens (creating if needed) the database at path.
func NewBoltPersister(path string) (*BoltPersister, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshots))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize snapshot bucket: %w", err)
	}
	return &BoltPersister{db: db}, nil
}

func (p *BoltPersister) Save(ctx context.Context, snapshot fiberx.TreeSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return p.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		return b.Put([]byte(snapshot.TreeID), data)
	})
}

func (p *BoltPersister) Load(ctx context.Context, treeID string) (fiberx.TreeSnapshot, error) {
	var snapshot fiberx.TreeSnapshot
	err := p.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		v := b.Get([]byte(treeID))
		if v == nil {
			return fmt.Errorf("tree %q: %w", treeID, os.ErrNotExist)
		}
		// v is only valid inside the transaction; Unmarshal copies.
		if err := json.Unmarshal(v, &snapshot); err != nil {
			return fmt.Errorf("json unmarshal: %w", err)
		}
		return nil
	})
	if err != nil {
		return fiberx.TreeSnapshot{}, err
	}
	snapshot.TreeID = treeID
	return snapshot, nil
}

// Delete removes the snapshot of treeID. Deleting a missing tree is not an
// error.
func (p *BoltPersister) Delete(ctx context.Context, treeID string) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshots)).Delete([]byte(treeID))
	})
}

// TreeIDs lists the stored tree ids in key order.
func (p *BoltPersister) TreeIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := p.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshots)).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

func (p *BoltPersister) Close() error {
	return p.db.Close()
}
