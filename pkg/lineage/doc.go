// Package lineage fetches the taxonomic ancestry of a resolved taxon key.
//
// [Fetcher.Fetch] walks the parent chain through the taxonomy service, keeps
// the first record for each of the eight main ranks and orders the result
// from DOMAIN down to SPECIES:
//
//	f := lineage.New(gbifClient, logger)
//	path, err := f.Fetch(ctx, 5219404)
//	// Eukaryota > Animalia > Chordata > Mammalia > Carnivora > Felidae > Panthera > Panthera leo
//
// GBIF has no domain rank, so the DOMAIN node is usually inferred from the
// kingdom name. Inferred nodes carry a key built by [InferredDomainKey].
package lineage
