package domain

// KeyPrefix namespaces every key circuitdex writes to a shared cache store.
const KeyPrefix = "circuitdex:"

// VectorConfig describes the embedding space the dataset was built in.
type VectorConfig struct {
	Model          string
	Dimensions     int
	DistanceMetric string
}

// DefaultVectorConfig matches the sentence-transformers model the reference dataset was encoded with.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "sentence-transformers/all-MiniLM-L12-v2",
		Dimensions:     384,
		DistanceMetric: "dot",
	}
}
