package tree

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/evotree/evotree/pkg/taxon"
)

func path(names ...string) taxon.Path {
	p := make(taxon.Path, len(names))
	for i, n := range names {
		p[i] = taxon.Node{Name: n, Rank: taxon.MainRanks[i], Key: n}
	}
	return p
}

func lionPath() taxon.Path {
	p := path("Eukaryota", "Animalia", "Chordata", "Mammalia", "Carnivora", "Felidae", "Panthera", "Panthera leo")
	p[7].CommonName = "Lion"
	return p
}

func childNames(n *Node) []string {
	names := make([]string, len(n.Children))
	for i, c := range n.Children {
		names[i] = c.Name
	}
	return names
}

func TestMergeSingleChain(t *testing.T) {
	root := Merge(New(), lionPath())

	st := root.Stats()
	if st.Depth != 8 || st.Nodes != 8 || st.Leaves != 1 {
		t.Errorf("Stats = %+v, want depth 8, 8 nodes, 1 leaf", st)
	}
	root.Walk(func(n *Node, _ int) bool {
		if len(n.Children) > 1 {
			t.Errorf("%s has %d children", n.Name, len(n.Children))
		}
		return true
	})
	leaf := root.Find(lionPath().Names()...)
	if leaf == nil || leaf.CommonName != "Lion" {
		t.Fatalf("leaf = %+v", leaf)
	}
	if root.Find("Eukaryota").CommonName != "" {
		t.Error("interior node got a common name")
	}
}

func TestMergeIdempotent(t *testing.T) {
	once := Merge(New(), lionPath())
	twice := Merge(Merge(New(), lionPath()), lionPath())
	if !Equal(once, twice) {
		t.Error("merging the same path twice changed the tree")
	}
}

func TestMergeSharedPrefix(t *testing.T) {
	fox := path("Eukaryota", "Animalia", "Chordata", "Mammalia", "Carnivora", "Canidae", "Vulpes", "Vulpes vulpes")
	root := Merge(Merge(New(), lionPath()), fox)

	order := root.Find("Eukaryota", "Animalia", "Chordata", "Mammalia", "Carnivora")
	if order == nil {
		t.Fatal("shared prefix missing")
	}
	if got := childNames(order); !slices.Equal(got, []string{"Felidae", "Canidae"}) {
		t.Errorf("Carnivora children = %v", got)
	}
	if len(root.Children) != 1 {
		t.Errorf("root children = %v", childNames(root))
	}
	if st := root.Stats(); st.Leaves != 2 || st.Nodes != 11 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestMergeBackfillsCommonName(t *testing.T) {
	bare := lionPath()
	bare[7].CommonName = ""
	root := Merge(New(), bare)
	Merge(root, lionPath())

	leaf := root.Find(lionPath().Names()...)
	if leaf.CommonName != "Lion" {
		t.Errorf("commonName = %q, want backfilled", leaf.CommonName)
	}

	renamed := lionPath()
	renamed[7].CommonName = "African Lion"
	Merge(root, renamed)
	if leaf.CommonName != "Lion" {
		t.Errorf("commonName overwritten with %q", leaf.CommonName)
	}
}

func TestMergeIsCaseSensitive(t *testing.T) {
	root := Merge(New(), path("Eukaryota", "Animalia"))
	Merge(root, path("Eukaryota", "animalia"))
	if got := childNames(root.Find("Eukaryota")); !slices.Equal(got, []string{"Animalia", "animalia"}) {
		t.Errorf("children = %v", got)
	}
}

func TestClone(t *testing.T) {
	orig := Merge(New(), lionPath())
	c := orig.Clone()
	if !Equal(orig, c) {
		t.Fatal("clone differs")
	}
	Merge(c, path("Bacteria"))
	c.Find("Eukaryota").CommonName = "changed"
	if len(orig.Children) != 1 || orig.Find("Eukaryota").CommonName != "" {
		t.Error("clone shares state with the original")
	}
	if (*Node)(nil).Clone() != nil {
		t.Error("nil clone should be nil")
	}
}

func TestDecodeEncode(t *testing.T) {
	root := Merge(New(), lionPath())
	data, err := root.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), `{"name":"Life","children":[{"name":"Eukaryota","children":`) {
		t.Errorf("unexpected JSON shape: %s", data)
	}
	if !strings.Contains(string(data), `{"name":"Panthera leo","commonName":"Lion","children":[]}`) {
		t.Errorf("leaf not encoded with empty children: %s", data)
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(root, back) {
		t.Error("decoded tree differs")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"legacy without children", `{"name":"Life","children":[{"name":"Animalia"}]}`, false},
		{"missing name", `{"children":[]}`, true},
		{"blank name", `{"name":"  "}`, true},
		{"not an object", `[1,2]`, true},
		{"garbage", `not json`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Decode([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			n.Walk(func(node *Node, _ int) bool {
				if node.Children == nil {
					t.Errorf("%s has nil children", node.Name)
				}
				return true
			})
			out, _ := json.Marshal(n)
			if strings.Contains(string(out), "null") {
				t.Errorf("re-encoded with null: %s", out)
			}
		})
	}
}

func TestToDOT(t *testing.T) {
	root := Merge(New(), path("Eukaryota", "Animalia"))
	Merge(root, path("Bacteria", "Animalia"))
	root.Find("Eukaryota", "Animalia").CommonName = "animals"

	dot := ToDOT(root, DOTOptions{CommonNames: true})
	for _, want := range []string{
		`"Life" -> "Life/Eukaryota";`,
		`"Life/Eukaryota" -> "Life/Eukaryota/Animalia";`,
		`"Life/Bacteria" -> "Life/Bacteria/Animalia";`,
		`label="Animalia\n(animals)"`,
		"rankdir=TB;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if !strings.Contains(ToDOT(root, DOTOptions{LeftToRight: true}), "rankdir=LR;") {
		t.Error("LeftToRight not applied")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200">`) {
		t.Errorf("got %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("without viewBox: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz render in -short mode")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(Merge(New(), lionPath()), DOTOptions{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Panthera leo") {
		t.Error("SVG missing expected content")
	}
}
