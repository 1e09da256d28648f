package tree

import (
	"slices"
	"testing"
)

func legacy(children ...*Node) *Node {
	return &Node{Name: RootName, Children: children}
}

func leaf(name string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Name: name, Children: children}
}

func TestNormalizeLegacyGroupsKingdoms(t *testing.T) {
	in := legacy(leaf("Animalia"), leaf("Plantae"))
	out := NormalizeLegacy(in)

	if got := childNames(out); !slices.Equal(got, []string{"Eukaryota"}) {
		t.Fatalf("root children = %v", got)
	}
	if got := childNames(out.Children[0]); !slices.Equal(got, []string{"Animalia", "Plantae"}) {
		t.Errorf("Eukaryota children = %v", got)
	}
	if got := childNames(in); !slices.Equal(got, []string{"Animalia", "Plantae"}) {
		t.Errorf("input modified: %v", got)
	}
}

func TestNormalizeLegacyMergesCaseInsensitively(t *testing.T) {
	in := legacy(
		leaf("eukaryota", leaf("Animalia", leaf("Chordata", leaf("Mammalia")))),
		leaf("ANIMALIA", leaf("chordata", leaf("Aves")), leaf("Arthropoda")),
		leaf("Bacteria"),
		leaf("Archaea"),
		leaf("Unplaced"),
	)
	in.Children[1].CommonName = "animals"

	out := NormalizeLegacy(in)

	if got := childNames(out); !slices.Equal(got, []string{"eukaryota", "Bacteria", "Archaea", "Unplaced"}) {
		t.Fatalf("root children = %v", got)
	}
	animalia := out.Find("eukaryota", "Animalia")
	if animalia == nil {
		t.Fatal("Animalia missing")
	}
	if animalia.CommonName != "animals" {
		t.Errorf("commonName = %q, want adopted from merged node", animalia.CommonName)
	}
	if got := childNames(animalia); !slices.Equal(got, []string{"Chordata", "Arthropoda"}) {
		t.Errorf("Animalia children = %v", got)
	}
	if got := childNames(animalia.Children[0]); !slices.Equal(got, []string{"Mammalia", "Aves"}) {
		t.Errorf("Chordata children = %v", got)
	}
}

func TestNormalizeLegacyKeepsExistingCommonName(t *testing.T) {
	kept := leaf("Animalia")
	kept.CommonName = "kept"
	moved := leaf("animalia")
	moved.CommonName = "dropped"

	out := NormalizeLegacy(legacy(leaf("Eukaryota", kept), moved))
	if got := out.Find("Eukaryota", "Animalia").CommonName; got != "kept" {
		t.Errorf("commonName = %q", got)
	}
}

func TestNormalizeLegacyIdempotent(t *testing.T) {
	inputs := []*Node{
		New(),
		legacy(leaf("Animalia"), leaf("Plantae")),
		legacy(leaf("Fungi", leaf("Ascomycota")), leaf("Eukaryota", leaf("fungi")), leaf("Bacteria", leaf("Pseudomonadota"))),
		Merge(New(), lionPath()),
	}
	for i, in := range inputs {
		once := NormalizeLegacy(in)
		twice := NormalizeLegacy(once)
		if !Equal(once, twice) {
			t.Errorf("input %d: second normalization changed the tree", i)
		}
	}
}

func TestNormalizeLegacyNoop(t *testing.T) {
	in := Merge(New(), lionPath())
	out := NormalizeLegacy(in)
	if !Equal(in, out) {
		t.Error("already-grouped tree changed")
	}
	if out == in {
		t.Error("NormalizeLegacy returned its input instead of a copy")
	}
	if got := NormalizeLegacy(nil); !Equal(got, New()) {
		t.Error("nil input should give an empty tree")
	}
}
