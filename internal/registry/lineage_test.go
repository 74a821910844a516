package registry

import (
	"testing"
)

// mapLookup is an in-memory Lookup fixture.
type mapLookup map[string]LineageAsset

func (m mapLookup) FindByID(id string) (LineageAsset, bool) {
	a, ok := m[id]
	return a, ok
}

func (m mapLookup) FindByHash(hash string) (LineageAsset, bool) {
	for _, a := range m {
		if a.Hash == hash {
			return a, true
		}
	}
	return LineageAsset{}, false
}

func asset(id, hash string, remix bool, originalHash string) LineageAsset {
	return LineageAsset{
		ID:           id,
		Name:         "asset-" + id,
		Creator:      "creator-" + id,
		Hash:         hash,
		Version:      "1.0",
		IsRemix:      remix,
		OriginalHash: originalHash,
	}
}

func ids(chain []ChainEntry) []string {
	out := make([]string, len(chain))
	for i, e := range chain {
		out[i] = e.ID
	}
	return out
}

func TestResolveChain_NonRemix(t *testing.T) {
	lk := mapLookup{"d": asset("d", "hash-d", false, "")}

	chain := ResolveChain("d", lk)

	if len(chain) != 1 || chain[0].ID != "d" {
		t.Errorf("chain = %v, want [d]", ids(chain))
	}
}

func TestResolveChain_TwoLevelRemix(t *testing.T) {
	lk := mapLookup{
		"c": asset("c", "hash-c", false, ""),
		"b": asset("b", "hash-b", true, "hash-c"),
		"a": asset("a", "hash-a", true, "hash-b"),
	}

	chain := ResolveChain("a", lk)

	want := []string{"c", "b", "a"}
	got := ids(chain)
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("chain = %v, want %v", got, want)
	}
	if chain[0].IsRemix {
		t.Error("root entry flagged as remix")
	}
	if !chain[2].IsRemix {
		t.Error("queried remix entry not flagged as remix")
	}
}

func TestResolveChain_UnresolvableOriginal(t *testing.T) {
	lk := mapLookup{"a": asset("a", "hash-a", true, "hash-gone")}

	chain := ResolveChain("a", lk)

	if len(chain) != 1 || chain[0].ID != "a" {
		t.Errorf("chain = %v, want degenerate [a]", ids(chain))
	}
}

func TestResolveChain_Cycle(t *testing.T) {
	lk := mapLookup{
		"a": asset("a", "hash-a", true, "hash-b"),
		"b": asset("b", "hash-b", true, "hash-a"),
	}

	chain := ResolveChain("a", lk)

	// Walk is a->b, then b points back to visited a; reversed chain is [b a].
	got := ids(chain)
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("cycle chain = %v, want [b a]", got)
	}
}

func TestResolveChain_SelfReference(t *testing.T) {
	lk := mapLookup{"a": asset("a", "hash-a", true, "hash-a")}

	chain := ResolveChain("a", lk)

	if len(chain) != 1 || chain[0].ID != "a" {
		t.Errorf("self-referencing chain = %v, want [a]", ids(chain))
	}
}

func TestResolveChain_UnknownStart(t *testing.T) {
	lk := mapLookup{}

	if chain := ResolveChain("missing", lk); len(chain) != 0 {
		t.Errorf("chain for unknown id = %v, want empty", ids(chain))
	}
}

func TestResolveChain_RemixWithoutOriginalHash(t *testing.T) {
	lk := mapLookup{"a": asset("a", "hash-a", true, "")}

	chain := ResolveChain("a", lk)

	if len(chain) != 1 || chain[0].ID != "a" {
		t.Errorf("chain = %v, want [a]", ids(chain))
	}
}
