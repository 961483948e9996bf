package serialization

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/corvvs/mlp/internal/nn"
)

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool // Skip checksum validation (for hand edited files)
}

// Read decodes a model file from r and validates it.
func Read(r io.Reader) (*nn.Model, Header, error) {
	return ReadWithOptions(r, ReaderOptions{})
}

// ReadWithOptions decodes a model file from r with custom options.
func ReadWithOptions(r io.Reader, opts ReaderOptions) (*nn.Model, Header, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to read model file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, Header{}, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, MaxFileSize)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, Header{}, fmt.Errorf("failed to parse model file: %w", err)
	}
	if err := ValidateHeader(&env.Header); err != nil {
		return nil, env.Header, err
	}
	if len(env.Model) == 0 || bytes.Equal(env.Model, []byte("null")) {
		return nil, env.Header, ErrMissingModel
	}

	if !opts.SkipChecksumValidation {
		var compact bytes.Buffer
		if err := json.Compact(&compact, env.Model); err != nil {
			return nil, env.Header, fmt.Errorf("failed to parse model: %w", err)
		}
		if err := ValidateChecksum(ComputeChecksum(compact.Bytes()), env.Checksum); err != nil {
			return nil, env.Header, err
		}
	}

	m := new(nn.Model)
	if err := json.Unmarshal(env.Model, m); err != nil {
		return nil, env.Header, fmt.Errorf("failed to parse model: %w", err)
	}
	if err := ValidateModel(m); err != nil {
		return nil, env.Header, fmt.Errorf("validation failed: %w", err)
	}
	return m, env.Header, nil
}

// ReadModel reads and validates the model stored at path.
func ReadModel(path string) (*nn.Model, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	m, _, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
