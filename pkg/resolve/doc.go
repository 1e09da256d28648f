// Package resolve turns free-text species names into GBIF taxon keys.
//
// # Pipeline
//
// [Resolver.Resolve] tries a fixed sequence of stages and stops at the first
// one that yields a key:
//
//  1. Override: a few everyday words ("cat", "dogs") map to a scientific name
//     and go straight to stage 2. An override never falls through.
//  2. Scientific: inputs shaped like "Genus species" ([IsScientificName]) use
//     the name matcher, then a narrow and a broad search picked by
//     [PickExactScientificKey].
//  3. Vernacular: the input is expanded with [Variants], each variant is
//     searched among vernacular names (Animalia first, then everything), and
//     candidates are ranked by [ScoreCommonCandidate] plus alias enrichment.
//  4. Broad: a plain species search on the raw input ranked by
//     [ScoreSearchCandidate] in prefer-common-animal mode, Animalia first.
//
// Stages 3 and 4 only accept a winner scoring at least [MinCommonScore].
// Nothing weaker is ever returned: an unmatched common word yields a
// NOT_FOUND error rather than an unrelated organism.
//
// # Alias enrichment
//
// The top candidates of a vernacular search are re-scored against their full
// vernacular-name lists, fetched concurrently and kept in an [AliasCache].
// A failed alias lookup leaves that candidate's score unchanged.
package resolve
