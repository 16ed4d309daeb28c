// Package marketlens provides a Go client for the marketlens semantic
// market-clustering engine backed by Redis.
//
// The client embeds the full analysis pipeline, so it talks to Redis
// directly instead of going through the HTTP API:
//
//	client, _ := marketlens.New(ctx,
//	    marketlens.WithRedis("localhost:6379", ""),
//	    marketlens.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	version, _ := client.Analyze(ctx, "Pilates Studios", marketlens.AnalysisParams{})
//	for _, c := range version.Clusters {
//	    fmt.Println(c.Label, c.Size, c.PriorityScore)
//	}
//
// Read-only operations (Latest, History, Version, Compare, ListMarkets,
// EmbeddingStatus) work without an embedder.
package marketlens
