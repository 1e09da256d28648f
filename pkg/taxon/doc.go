// Package taxon defines the shared taxonomy vocabulary: ranks, remote taxon
// records, lineage nodes and paths, and the kingdom to domain table.
//
// # Ranks
//
// A lineage uses eight ranks, in order:
//
//	DOMAIN, KINGDOM, PHYLUM, CLASS, ORDER, FAMILY, GENUS, SPECIES
//
// Search candidates may additionally carry SUBSPECIES, VARIETY or FORM. Those
// ranks take part in scoring through [Rank.Priority] but never appear in a
// [Path].
//
// # Name folding
//
// [NormalizeName] is the single comparison form used by variant generation,
// vernacular scoring and kingdom lookup.
package taxon
