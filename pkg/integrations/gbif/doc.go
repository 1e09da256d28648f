// Package gbif provides a client for the GBIF species API.
//
// # Overview
//
// GBIF (Global Biodiversity Information Facility) publishes a backbone
// taxonomy at https://api.gbif.org/v1. evotree uses four endpoints:
//
//   - GET /species/match?name=         fuzzy name match ([Client.MatchByName])
//   - GET /species/search?q=&...       full-text search ([Client.SearchSpecies])
//   - GET /species/{key}               one name usage ([Client.GetTaxon])
//   - GET /species/{key}/vernacularNames  common names ([Client.VernacularNames])
//
// Results are converted into [taxon.Record] values. GBIF reports the
// taxonomic status as "taxonomicStatus"; it is copied into Record.Status.
//
// # Caching
//
// Responses can be cached through the shared [integrations.Client]. Caching
// is off unless a positive TTL and a real backend are passed to [NewClient].
//
// [taxon.Record]: github.com/evotree/evotree/pkg/taxon.Record
// [integrations.Client]: github.com/evotree/evotree/pkg/integrations.Client
package gbif
