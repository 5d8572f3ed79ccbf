// Package bm25 implements the Okapi BM25 ranking function over pre-tokenized documents.
package bm25

import "math"

// Params are the BM25Okapi tuning constants.
type Params struct {
	K1      float64
	B       float64
	Epsilon float64
}

// DefaultParams are the conventional Okapi settings.
var DefaultParams = Params{K1: 1.5, B: 0.75, Epsilon: 0.25}

// Index is an immutable BM25 index. Safe for concurrent reads.
type Index struct {
	params   Params
	termFreq []map[string]int
	docLen   []float64
	idf      map[string]float64
	avgDL    float64
}

// New builds an index over docs. Document order defines score order.
func New(docs [][]string, params Params) *Index {
	idx := &Index{
		params:   params,
		termFreq: make([]map[string]int, len(docs)),
		docLen:   make([]float64, len(docs)),
		idf:      make(map[string]float64),
	}

	docFreq := make(map[string]int)
	total := 0
	for i, doc := range docs {
		freq := make(map[string]int, len(doc))
		for _, term := range doc {
			freq[term]++
		}
		for term := range freq {
			docFreq[term]++
		}
		idx.termFreq[i] = freq
		idx.docLen[i] = float64(len(doc))
		total += len(doc)
	}

	if len(docs) > 0 {
		idx.avgDL = float64(total) / float64(len(docs))
	}
	if idx.avgDL == 0 {
		idx.avgDL = 1
	}

	idx.computeIDF(docFreq, len(docs))
	return idx
}

// computeIDF applies ln(N-df+0.5) - ln(df+0.5). Terms present in more than half
// the documents get a negative value, which is replaced by Epsilon times the mean IDF.
func (idx *Index) computeIDF(docFreq map[string]int, n int) {
	if len(docFreq) == 0 {
		return
	}

	sum := 0.0
	var negative []string
	for term, df := range docFreq {
		v := math.Log(float64(n)-float64(df)+0.5) - math.Log(float64(df)+0.5)
		idx.idf[term] = v
		sum += v
		if v < 0 {
			negative = append(negative, term)
		}
	}

	eps := idx.params.Epsilon * sum / float64(len(docFreq))
	if eps < 0 {
		eps = 0
	}
	for _, term := range negative {
		idx.idf[term] = eps
	}
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int { return len(idx.docLen) }

// AvgDocLen returns the mean document length in tokens (1 for an all-empty index).
func (idx *Index) AvgDocLen() float64 { return idx.avgDL }

// IDF returns the inverse document frequency of term, 0 for unknown terms.
func (idx *Index) IDF(term string) float64 { return idx.idf[term] }

// Score returns one score per indexed document. Every occurrence of a query term
// contributes, so repeated terms weigh more. Unknown terms contribute nothing.
func (idx *Index) Score(query []string) []float64 {
	scores := make([]float64, len(idx.docLen))
	k1, b := idx.params.K1, idx.params.B

	for _, term := range query {
		idf, ok := idx.idf[term]
		if !ok || idf == 0 {
			continue
		}
		for i, freq := range idx.termFreq {
			tf := float64(freq[term])
			if tf == 0 {
				continue
			}
			norm := k1 * (1 - b + b*idx.docLen[i]/idx.avgDL)
			scores[i] += idf * tf * (k1 + 1) / (tf + norm)
		}
	}
	return scores
}
