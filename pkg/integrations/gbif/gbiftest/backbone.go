package gbiftest

import (
	"github.com/evotree/evotree/pkg/integrations/gbif"
	"github.com/evotree/evotree/pkg/taxon"
)

// Keys of frequently used fixture taxa.
const (
	KeyAnimalia      = 1
	KeyPlantae       = 6
	KeyPantheraLeo   = 5219404
	KeyFelisCatus    = 2435035
	KeyCanisLupus    = 5219173
	KeyDog           = 6164210
	KeyVulpesVulpes  = 5219243
	KeyQuercusRobur  = 2878688
	KeyCatDistractor = 9100001
)

func en(names ...string) []gbif.VernacularName {
	out := make([]gbif.VernacularName, len(names))
	for i, n := range names {
		out[i] = gbif.VernacularName{VernacularName: n, Language: "eng"}
	}
	return out
}

// Backbone returns the default fixture taxa. Keys follow the real GBIF
// backbone where one exists.
func Backbone() []Taxon {
	a := "Animalia"
	return []Taxon{
		{Key: KeyAnimalia, Name: "Animalia", Rank: taxon.Kingdom, Kingdom: a},
		{Key: 44, Name: "Chordata", Rank: taxon.Phylum, Kingdom: a, Parent: KeyAnimalia},
		{Key: 359, Name: "Mammalia", Rank: taxon.Class, Kingdom: a, Parent: 44},
		{Key: 732, Name: "Carnivora", Rank: taxon.Order, Kingdom: a, Parent: 359},

		{Key: 9703, Name: "Felidae", Rank: taxon.Family, Kingdom: a, Parent: 732},
		{Key: 2435194, Name: "Panthera", Rank: taxon.Genus, Kingdom: a, Parent: 9703},
		{Key: KeyPantheraLeo, Name: "Panthera leo", Author: "(Linnaeus, 1758)", Rank: taxon.Species,
			Kingdom: a, Parent: 2435194, Vernacular: "Lion", Aliases: en("Lion", "African Lion")},
		{Key: 2435022, Name: "Felis", Rank: taxon.Genus, Kingdom: a, Parent: 9703},
		{Key: KeyFelisCatus, Name: "Felis catus", Author: "Linnaeus, 1758", Rank: taxon.Species,
			Kingdom: a, Parent: 2435022, Vernacular: "Domestic Cat",
			Aliases: append(en("Domestic Cat", "House Cat"), gbif.VernacularName{VernacularName: "Hauskatze", Language: "deu"})},

		{Key: 9701, Name: "Canidae", Rank: taxon.Family, Kingdom: a, Parent: 732},
		{Key: 5219142, Name: "Canis", Rank: taxon.Genus, Kingdom: a, Parent: 9701},
		{Key: KeyCanisLupus, Name: "Canis lupus", Author: "Linnaeus, 1758", Rank: taxon.Species,
			Kingdom: a, Parent: 5219142, Vernacular: "Gray Wolf", Aliases: en("Gray Wolf", "Grey Wolf", "Wolf")},
		{Key: KeyDog, Name: "Canis lupus familiaris", Author: "Linnaeus, 1758", Rank: taxon.Subspecies,
			Kingdom: a, Parent: KeyCanisLupus, Vernacular: "Dog", Aliases: en("Dog", "Domestic Dog")},
		{Key: 5219234, Name: "Vulpes", Rank: taxon.Genus, Kingdom: a, Parent: 9701},
		{Key: KeyVulpesVulpes, Name: "Vulpes vulpes", Author: "(Linnaeus, 1758)", Rank: taxon.Species,
			Kingdom: a, Parent: 5219234, Vernacular: "Red Fox", Aliases: en("Red Fox", "Fox")},

		// A flatworm whose Latin name contains "cat": must never win for "cat".
		{Key: 52, Name: "Platyhelminthes", Rank: taxon.Phylum, Kingdom: a, Parent: KeyAnimalia},
		{Key: 9100000, Name: "Catenula", Rank: taxon.Genus, Kingdom: a, Parent: 52},
		{Key: KeyCatDistractor, Name: "Catenula lemnae", Author: "Dugès, 1832", Rank: taxon.Species,
			Kingdom: a, Parent: 9100000},

		{Key: KeyPlantae, Name: "Plantae", Rank: taxon.Kingdom, Kingdom: "Plantae"},
		{Key: 7707728, Name: "Tracheophyta", Rank: taxon.Phylum, Kingdom: "Plantae", Parent: KeyPlantae},
		{Key: 220, Name: "Magnoliopsida", Rank: taxon.Class, Kingdom: "Plantae", Parent: 7707728},
		{Key: 1354, Name: "Fagales", Rank: taxon.Order, Kingdom: "Plantae", Parent: 220},
		{Key: 4689, Name: "Fagaceae", Rank: taxon.Family, Kingdom: "Plantae", Parent: 1354},
		{Key: 2877951, Name: "Quercus", Rank: taxon.Genus, Kingdom: "Plantae", Parent: 4689},
		{Key: KeyQuercusRobur, Name: "Quercus robur", Author: "L.", Rank: taxon.Species,
			Kingdom: "Plantae", Parent: 2877951, Vernacular: "English Oak", Aliases: en("English Oak", "Pedunculate Oak")},
	}
}
