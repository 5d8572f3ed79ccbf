// Package dataset reads and writes the circuit corpus files: the circuits JSON array,
// the .npy embedding matrix and the build metadata.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kailas-cloud/circuitdex/internal/domain"
	"github.com/kailas-cloud/circuitdex/internal/domain/circuit"
	"github.com/kailas-cloud/circuitdex/internal/domain/component"
	"github.com/kailas-cloud/circuitdex/internal/index/vector"
)

// Repo is a file-backed dataset repository.
type Repo struct {
	logger *zap.Logger
}

// New creates a dataset repository.
func New(logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{logger: logger}
}

// LoadRecords decodes a JSON array of circuit objects, keeping each raw object.
func (r *Repo) LoadRecords(ctx context.Context, path string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read circuits %s: %w", path, err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode circuits %s: %w: %w", path, domain.ErrCorpusMalformed, err)
	}

	records := make([]Record, len(raws))
	unknown := make(map[component.Type]int)
	for i, raw := range raws {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode circuit %d: %w: %w", i, domain.ErrCorpusMalformed, err)
		}
		var row circuitRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("decode circuit %d: %w: %w", i, domain.ErrCorpusMalformed, err)
		}
		c := rowToCircuit(&row)
		for _, t := range c.Breakdown().Unknown() {
			unknown[t]++
		}
		records[i] = Record{Circuit: c, raw: obj}
	}

	for t, n := range unknown {
		r.logger.Warn("unknown component type in corpus",
			zap.String("type", string(t)),
			zap.Int("circuits", n),
		)
	}
	return records, nil
}

// LoadCircuits decodes a JSON array of circuits in file order.
func (r *Repo) LoadCircuits(ctx context.Context, path string) ([]circuit.Circuit, error) {
	records, err := r.LoadRecords(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]circuit.Circuit, len(records))
	for i := range records {
		out[i] = records[i].Circuit
	}
	return out, nil
}

// SaveRecords writes records as an indented JSON array.
func (r *Repo) SaveRecords(ctx context.Context, path string, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode circuits: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

// LoadEmbeddings reads the .npy embedding matrix.
func (r *Repo) LoadEmbeddings(ctx context.Context, path string) (*vector.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open embeddings %s: %w", path, err)
	}
	defer f.Close()

	m, err := vector.ReadNPY(f)
	if err != nil {
		return nil, fmt.Errorf("read embeddings %s: %w", path, err)
	}
	return m, nil
}

// SaveEmbeddings writes m as a .npy file.
func (r *Repo) SaveEmbeddings(ctx context.Context, path string, m *vector.Matrix) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := vector.WriteNPY(&buf, m); err != nil {
		return fmt.Errorf("encode embeddings: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

// LoadMetadata reads a build metadata file.
func (r *Repo) LoadMetadata(ctx context.Context, path string) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata %s: %w", path, err)
	}
	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return Metadata{}, fmt.Errorf("decode metadata %s: %w: %w", path, domain.ErrCorpusMalformed, err)
	}
	return md, nil
}

// SaveMetadata writes build metadata as indented JSON.
func (r *Repo) SaveMetadata(ctx context.Context, path string, md Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// writeFileAtomic writes through a temp file in the target directory and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
