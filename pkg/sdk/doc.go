// Package circuitdex embeds the circuitdex hybrid search engine in a Go program.
//
// A Client loads a prepared corpus (circuits JSON plus an optional .npy
// embedding matrix) once and then answers queries from memory. Hybrid queries
// need an Embedder for the query text; lexical queries never call it.
//
// # From dataset files
//
//	client, _ := circuitdex.Open(ctx,
//	    circuitdex.WithDataset("data/circuits_enriched.json", "data/embeddings.npy"),
//	    circuitdex.WithEmbedder(myEmbedder),
//	    circuitdex.WithMemoryCache(32<<20),
//	)
//	defer client.Close()
//
//	hits, _ := client.Search(ctx, "4 bit counter", circuitdex.Limit(5))
//	for _, h := range hits {
//	    fmt.Println(h.Rank, h.Circuit.Title(), h.Score)
//	}
//
// # From memory
//
//	client, _ := circuitdex.Open(ctx, circuitdex.WithCircuits(circuits, vectors))
//	hits, _ := client.Search(ctx, "seven segment", circuitdex.Lexical())
package circuitdex
