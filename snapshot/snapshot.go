// Package snapshot stores a source document together with the model resolved from
// it, so a diagram can be reopened without resolving again.
//
// Snapshots are MessagePack encoded. Field names follow the model's json tags.
package snapshot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lucasefe/dbdiagram/model"
)

// Version is the format version written by Encode.
const Version = 1

// Snapshot pairs a DBML source with its resolved model.
type Snapshot struct {
	Version int                 `json:"version"`
	Source  string              `json:"source"`
	Model   *model.ProjectModel `json:"model"`
}

// New returns a snapshot of the current format version.
func New(source string, m *model.ProjectModel) *Snapshot {
	return &Snapshot{Version: Version, Source: source, Model: m}
}

// Encode writes s to w.
func Encode(w io.Writer, s *Snapshot) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// Decode reads a snapshot from r. Snapshots of another format version are
// rejected.
func Decode(r io.Reader) (*Snapshot, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	return &s, nil
}

// Save writes s to path, replacing any existing file atomically.
func Save(path string, s *Snapshot) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = Encode(f, s); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot stored at path.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
