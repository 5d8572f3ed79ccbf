package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/circuitdex/internal/domain"
	"github.com/kailas-cloud/circuitdex/internal/domain/circuit"
	"github.com/kailas-cloud/circuitdex/internal/index/vector"
	repo "github.com/kailas-cloud/circuitdex/internal/repository/dataset"
)

// Defaults for Options.
const (
	DefaultBatchSize = 32
	DefaultWorkers   = 4
)

const timestampLayout = "20060102_150405"

// Options tune a build.
type Options struct {
	// Model is recorded in the metadata file.
	Model string
	// BatchSize is the number of texts per embedding call.
	BatchSize int
	// Workers bounds concurrent embedding calls.
	Workers int
	// Normalize rescales every vector to unit length before saving.
	Normalize bool
}

// TextStats summarizes embedding text lengths in characters.
type TextStats struct {
	Mean float64
	Min  int
	Max  int
}

// Output names the files a build produced.
type Output struct {
	CircuitsPath   string
	EmbeddingsPath string
	MetadataPath   string
	Metadata       repo.Metadata
	Text           TextStats
	TotalTokens    int
}

// Builder turns a raw circuit export into the files the search service loads:
// enriched circuits JSON, an .npy embedding matrix and a metadata file.
type Builder struct {
	store  Store
	embed  Embedder
	opts   Options
	now    func() time.Time
	logger *zap.Logger
}

// New creates a Builder. Zero-valued options take their defaults.
func New(store Store, embed Embedder, opts Options, logger *zap.Logger) *Builder {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{store: store, embed: embed, opts: opts, now: time.Now, logger: logger}
}

// WithClock overrides the clock used for output file names.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build reads circuits from inputPath and writes the dataset files into outputDir.
func (b *Builder) Build(ctx context.Context, inputPath, outputDir string) (Output, error) {
	records, err := b.store.LoadRecords(ctx, inputPath)
	if err != nil {
		return Output{}, fmt.Errorf("load circuits: %w", err)
	}
	if len(records) == 0 {
		return Output{}, fmt.Errorf("no circuits in %s: %w", inputPath, domain.ErrCorpusMalformed)
	}

	texts := make([]string, len(records))
	for i := range records {
		texts[i] = circuit.BuildEmbeddingText(&records[i].Circuit)
		records[i].Circuit = records[i].Circuit.WithEmbeddingText(texts[i])
	}
	stats := textStats(texts)
	b.logger.Info("embedding texts built",
		zap.Int("circuits", len(texts)),
		zap.Float64("mean_length", stats.Mean),
		zap.Int("min_length", stats.Min),
		zap.Int("max_length", stats.Max),
	)

	vectors, tokens, err := b.embedAll(ctx, texts)
	if err != nil {
		return Output{}, err
	}
	m, err := vector.FromRows(vectors)
	if err != nil {
		return Output{}, fmt.Errorf("assemble matrix: %w", err)
	}

	ts := b.now().Format(timestampLayout)
	n := len(records)
	out := Output{
		EmbeddingsPath: filepath.Join(outputDir, fmt.Sprintf("embeddings_%d_%s.npy", n, ts)),
		CircuitsPath:   filepath.Join(outputDir, fmt.Sprintf("circuits_enriched_%d_%s.json", n, ts)),
		MetadataPath:   filepath.Join(outputDir, fmt.Sprintf("metadata_%d_%s.json", n, ts)),
		Text:           stats,
		TotalTokens:    tokens,
	}
	out.Metadata = b.metadata(records, m, stats, ts, out)

	if err := b.store.SaveEmbeddings(ctx, out.EmbeddingsPath, m); err != nil {
		return Output{}, fmt.Errorf("save embeddings: %w", err)
	}
	if err := b.store.SaveRecords(ctx, out.CircuitsPath, records); err != nil {
		return Output{}, fmt.Errorf("save circuits: %w", err)
	}
	if err := b.store.SaveMetadata(ctx, out.MetadataPath, out.Metadata); err != nil {
		return Output{}, fmt.Errorf("save metadata: %w", err)
	}

	b.logger.Info("dataset built",
		zap.String("embeddings", out.EmbeddingsPath),
		zap.String("circuits", out.CircuitsPath),
		zap.String("metadata", out.MetadataPath),
		zap.Int("dimension", m.Dim()),
		zap.Int("total_tokens", tokens),
	)
	return out, nil
}

// embedAll embeds texts in batches on a bounded pool. The first failing batch
// cancels the rest and its error is returned.
func (b *Builder) embedAll(parent context.Context, texts []string) ([][]float32, int, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	pool, err := ants.NewPool(b.opts.Workers)
	if err != nil {
		return nil, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	vectors := make([][]float32, len(texts))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		tokens   int
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for start := 0; start < len(texts); start += b.opts.BatchSize {
		end := min(start+b.opts.BatchSize, len(texts))
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			res, err := domain.EmbedBatch(ctx, b.embed, texts[start:end])
			if err != nil {
				fail(fmt.Errorf("embed circuits %d-%d: %w", start, end-1, err))
				return
			}
			if len(res.Embeddings) != end-start {
				fail(fmt.Errorf("embed circuits %d-%d: got %d vectors: %w",
					start, end-1, len(res.Embeddings), domain.ErrEmbeddingProviderError))
				return
			}
			for i, v := range res.Embeddings {
				if b.opts.Normalize {
					v = vector.Normalize(v)
				}
				vectors[start+i] = v
			}
			mu.Lock()
			tokens += res.TotalTokens
			mu.Unlock()
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			fail(fmt.Errorf("submit batch: %w", err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, 0, firstErr
	}
	if err := parent.Err(); err != nil {
		return nil, 0, fmt.Errorf("embed circuits: %w", err)
	}
	return vectors, tokens, nil
}

func (b *Builder) metadata(records []repo.Record, m *vector.Matrix, stats TextStats, ts string, out Output) repo.Metadata {
	md := repo.Metadata{
		Timestamp:            ts,
		NumCircuits:          len(records),
		EmbeddingDimension:   m.Dim(),
		ModelName:            b.opts.Model,
		MeanTextLength:       stats.Mean,
		EmbeddingsNormalized: b.opts.Normalize,
		Files: repo.MetadataFiles{
			Embeddings: filepath.Base(out.EmbeddingsPath),
			Circuits:   filepath.Base(out.CircuitsPath),
		},
	}
	for i := range records {
		c := &records[i].Circuit
		if c.Description() != "" {
			md.CircuitsWithDescriptions++
		}
		if len(c.ScopeNames()) > 0 {
			md.CircuitsWithScopeNames++
		}
		if c.ComponentCount() > 0 {
			md.CircuitsWithComponents++
		}
	}
	return md
}

func textStats(texts []string) TextStats {
	if len(texts) == 0 {
		return TextStats{}
	}
	st := TextStats{Min: -1}
	total := 0
	for _, t := range texts {
		n := utf8.RuneCountInString(t)
		total += n
		if st.Min < 0 || n < st.Min {
			st.Min = n
		}
		if n > st.Max {
			st.Max = n
		}
	}
	st.Mean = float64(total) / float64(len(texts))
	return st
}
