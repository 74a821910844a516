package usecase

import (
	"context"
	"time"

	"github.com/carbonroom/carbonroom/internal/registry"
)

// AttributionEntry is one link of a remix lineage, root original first.
type AttributionEntry struct {
	ID        string
	Name      string
	Creator   string
	Company   string
	Timestamp string
	Hash      string
	IsRemix   bool
	Version   string
}

type AttributionChain struct {
	IsRemix bool
	Chain   []AttributionEntry
}

// repoLookup adapts the repository to the resolver's read capability.
// Lookup misses (including storage errors) resolve to not-found: the
// resolver degrades to a partial chain rather than failing.
type repoLookup struct {
	ctx  context.Context
	repo Repository
}

func (l repoLookup) FindByID(id string) (registry.LineageAsset, bool) {
	p, err := l.repo.GetProtocolByShortID(l.ctx, id)
	if err != nil {
		return registry.LineageAsset{}, false
	}
	return toLineageAsset(p), true
}

func (l repoLookup) FindByHash(hash string) (registry.LineageAsset, bool) {
	p, err := l.repo.GetProtocolByHash(l.ctx, hash)
	if err != nil {
		return registry.LineageAsset{}, false
	}
	return toLineageAsset(p), true
}

func toLineageAsset(p Protocol) registry.LineageAsset {
	a := registry.LineageAsset{
		ID:           p.ShortID,
		Name:         p.Name,
		Timestamp:    p.CreatedAt.UTC().Format(time.RFC3339Nano),
		Hash:         p.BlockchainHash,
		Version:      p.Version,
		IsRemix:      p.IsRemix,
		OriginalHash: p.OriginalHash,
	}
	if owner := p.Owner(); owner != nil {
		a.Creator = owner.Name
		a.Company = owner.Company
	}
	return a
}

// GetAttributionChain resolves the remix lineage of a protocol, ordered
// from the root original to the queried protocol.
func (u Usecase) GetAttributionChain(ctx context.Context, shortID string) (AttributionChain, error) {
	p, err := u.repo.GetProtocolByShortID(ctx, shortID)
	if err != nil {
		return AttributionChain{}, err
	}

	chain := registry.ResolveChain(shortID, repoLookup{ctx: ctx, repo: u.repo})

	entries := make([]AttributionEntry, 0, len(chain))
	for _, e := range chain {
		entries = append(entries, AttributionEntry{
			ID:        e.ID,
			Name:      e.Name,
			Creator:   e.Creator,
			Company:   e.Company,
			Timestamp: e.Timestamp,
			Hash:      e.Hash,
			IsRemix:   e.IsRemix,
			Version:   e.Version,
		})
	}

	return AttributionChain{IsRemix: p.IsRemix, Chain: entries}, nil
}
