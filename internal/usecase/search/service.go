package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/circuitdex/internal/corpus"
	"github.com/kailas-cloud/circuitdex/internal/domain"
	"github.com/kailas-cloud/circuitdex/internal/domain/circuit"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/intent"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/mode"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/request"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/result"
	"github.com/kailas-cloud/circuitdex/internal/index/bm25"
	"github.com/kailas-cloud/circuitdex/internal/index/tokenize"
	"github.com/kailas-cloud/circuitdex/internal/index/vector"
	"github.com/kailas-cloud/circuitdex/internal/logger"
	"github.com/kailas-cloud/circuitdex/internal/metrics"
)

// Source names the dataset files to open. EmbeddingsPath may be empty for a lexical-only service.
type Source struct {
	CircuitsPath   string
	EmbeddingsPath string
}

// Stats describes the loaded index.
type Stats struct {
	Circuits       int
	LexicallyValid int
	Dimension      int
	Semantic       bool
}

// Service ranks circuits for free-text queries. It is read-only after construction
// and safe for concurrent use.
type Service struct {
	corpus  *corpus.Corpus
	lexical *bm25.Index
	vectors *vector.Matrix
	embed   Embedder
	logger  *zap.Logger
}

// Open loads the dataset and builds the lexical index. It fails on any load or
// integrity error and never returns a partially built service.
func Open(ctx context.Context, loader Loader, src Source, embed Embedder, l *zap.Logger) (*Service, error) {
	circuits, err := loader.LoadCircuits(ctx, src.CircuitsPath)
	if err != nil {
		return nil, fmt.Errorf("load circuits: %w", err)
	}

	var vectors *vector.Matrix
	if src.EmbeddingsPath != "" {
		vectors, err = loader.LoadEmbeddings(ctx, src.EmbeddingsPath)
		if err != nil {
			return nil, fmt.Errorf("load embeddings: %w", err)
		}
	}

	return New(corpus.New(circuits), vectors, embed, l)
}

// New builds a service over an in-memory corpus. vectors and embed may be nil,
// in which case only lexical queries are served.
func New(c *corpus.Corpus, vectors *vector.Matrix, embed Embedder, l *zap.Logger) (*Service, error) {
	if l == nil {
		l = zap.NewNop()
	}
	if vectors != nil && vectors.Rows() != c.Len() {
		return nil, fmt.Errorf("embedding matrix has %d rows, corpus has %d circuits: %w",
			vectors.Rows(), c.Len(), domain.ErrCorpusIntegrity)
	}

	s := &Service{
		corpus:  c,
		lexical: bm25.New(c.LexicalDocuments(), bm25.DefaultParams),
		vectors: vectors,
		embed:   embed,
		logger:  l,
	}

	st := s.Stats()
	metrics.SetCorpusSize(st.Circuits, st.LexicallyValid)
	l.Info("search index ready",
		zap.Int("circuits", st.Circuits),
		zap.Int("lexically_valid", st.LexicallyValid),
		zap.Int("dimension", st.Dimension),
		zap.Bool("semantic", st.Semantic),
	)
	return s, nil
}

// Stats returns the size of the loaded index.
func (s *Service) Stats() Stats {
	st := Stats{
		Circuits:       s.corpus.Len(),
		LexicallyValid: len(s.corpus.ValidPositions()),
		Semantic:       s.semanticReady(),
	}
	if s.vectors != nil {
		st.Dimension = s.vectors.Dim()
	}
	return st
}

// Get returns a circuit by its stable ID.
func (s *Service) Get(_ context.Context, id int64) (circuit.Circuit, error) {
	c, _, err := s.corpus.ByID(id)
	if err != nil {
		return circuit.Circuit{}, err
	}
	return c, nil
}

// Search ranks the corpus for req and returns at most req.TopK() results.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	start := time.Now()
	results, err := s.search(ctx, req)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ObserveSearch(string(req.Mode()), status, len(results), time.Since(start))
	return results, err
}

func (s *Service) search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	tokens := tokenize.Tokenize(req.Query())
	raw, err := s.corpus.LexicalScores(s.lexical, tokens)
	if err != nil {
		return nil, fmt.Errorf("score lexical: %w", err)
	}
	keyword := normalizeLexical(raw, s.corpus.ValidPositions())

	n := s.corpus.Len()
	semantic := make([]float64, n)
	structural := make([]float64, n)

	var order []int
	var final []float64
	switch req.Mode() {
	case mode.Lexical:
		final = fuse(semantic, keyword, structural, LexicalWeights)
		// Documents without a lexical match are dropped rather than ranked last.
		order = rank(final, req.TopK(), func(pos int) bool { return raw[pos] > 0 })

	case mode.Hybrid:
		semantic, err = s.semanticScores(ctx, req.Query())
		if err != nil {
			return nil, err
		}
		in := intent.Detect(req.Query())
		metrics.ObserveIntent(in.Keyword())
		for pos := range structural {
			c := s.corpus.At(pos)
			structural[pos] = intent.Score(c.Breakdown(), in)
		}
		final = fuse(semantic, keyword, structural, HybridWeights)
		order = rank(final, req.TopK(), nil)

	default:
		return nil, fmt.Errorf("unsupported search mode %q: %w", req.Mode(), domain.ErrInvalidRequest)
	}

	results := make([]result.Result, len(order))
	for i, pos := range order {
		results[i] = result.New(pos, s.corpus.At(pos), result.Breakdown{
			Final:     final[pos],
			Semantic:  semantic[pos],
			Keyword:   keyword[pos],
			Component: structural[pos],
		})
	}

	logger.FromContext(ctx).Debug("search ranked",
		zap.String("mode", string(req.Mode())),
		zap.Int("tokens", len(tokens)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

func (s *Service) semanticReady() bool {
	return s.vectors != nil && s.embed != nil
}

// semanticScores embeds the query, rescales it to unit length and scores every row.
func (s *Service) semanticScores(ctx context.Context, query string) ([]float64, error) {
	if !s.semanticReady() {
		return nil, domain.ErrSemanticUnavailable
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingProviderError) || ctx.Err() != nil {
			return nil, fmt.Errorf("vectorize query: %w", err)
		}
		return nil, fmt.Errorf("vectorize query: %w: %w", domain.ErrEmbeddingProviderError, err)
	}
	domain.UsageFromContext(ctx).AddTokens(emb.TotalTokens)

	scores, err := s.vectors.Dot(vector.Normalize(emb.Embedding))
	if err != nil {
		return nil, fmt.Errorf("score semantic: %w", err)
	}
	return scores, nil
}
