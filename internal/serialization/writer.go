package serialization

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/corvvs/mlp/internal/nn"
)

// Write encodes m with its envelope to w. metadata may be nil.
func Write(w io.Writer, m *nn.Model, metadata map[string]string) error {
	if err := ValidateModel(m); err != nil {
		return fmt.Errorf("refusing to write model: %w", err)
	}

	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	env := envelope{
		Header: Header{
			FormatVersion: FormatVersion,
			MLPVersion:    LibraryVersion,
			CreatedAt:     time.Now().UTC().Truncate(time.Second),
			Metadata:      metadata,
		},
		Checksum: ComputeChecksum(body),
		Model:    body,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}

// WriteModel writes m to path. The file is written next to its destination
// and renamed into place, so an existing model is never left half written.
func WriteModel(path string, m *nn.Model, metadata map[string]string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()           // Best effort close on error
			_ = os.Remove(tmp.Name()) // Best effort cleanup on error
		}
	}()

	if err = Write(tmp, m, metadata); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
