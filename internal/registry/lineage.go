package registry

// LineageAsset is the read-model the resolver needs from storage. The
// caller adapts its own asset records into this shape.
type LineageAsset struct {
	ID           string
	Name         string
	Creator      string
	Company      string
	Timestamp    string
	Hash         string
	Version      string
	IsRemix      bool
	OriginalHash string
}

// Lookup is the read-only capability the resolver walks against. It
// must reflect a consistent snapshot for the duration of one call.
type Lookup interface {
	FindByID(id string) (LineageAsset, bool)
	FindByHash(hash string) (LineageAsset, bool)
}

// ChainEntry is one link in an attribution chain.
type ChainEntry struct {
	ID        string
	Name      string
	Creator   string
	Company   string
	Timestamp string
	Hash      string
	IsRemix   bool
	Version   string
}

// ResolveChain walks the remix graph from startID back to its root
// original and returns the chain ordered root-first. Links are resolved
// purely by identity-hash equality.
//
// The walk is iterative with an explicit visited set: a cycle or an
// unresolvable original terminates the walk and yields the partial
// chain accumulated so far. These are defined outcomes, not errors; an
// unknown startID yields an empty chain.
func ResolveChain(startID string, lk Lookup) []ChainEntry {
	var (
		chain   []ChainEntry
		visited = map[string]struct{}{}
		current = startID
	)

	for current != "" {
		if _, ok := visited[current]; ok {
			break
		}
		visited[current] = struct{}{}

		asset, ok := lk.FindByID(current)
		if !ok {
			break
		}

		chain = append(chain, ChainEntry{
			ID:        asset.ID,
			Name:      asset.Name,
			Creator:   asset.Creator,
			Company:   asset.Company,
			Timestamp: asset.Timestamp,
			Hash:      asset.Hash,
			IsRemix:   asset.IsRemix,
			Version:   asset.Version,
		})

		if !asset.IsRemix || asset.OriginalHash == "" {
			break
		}

		original, ok := lk.FindByHash(asset.OriginalHash)
		if !ok {
			break
		}
		current = original.ID
	}

	// root first, queried asset last
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
