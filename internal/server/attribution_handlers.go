package server

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/carbonroom/carbonroom/internal/usecase"
)

type AttributionEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Creator   string `json:"creator,omitempty"`
	Company   string `json:"company,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Hash      string `json:"hash"`
	IsRemix   bool   `json:"is_remix"`
	Version   string `json:"version,omitempty"`
}

type AttributionChain struct {
	IsRemix bool               `json:"is_remix"`
	Depth   int                `json:"depth"`
	Chain   []AttributionEntry `json:"chain"`
}

type GetAttributionChainRequest struct {
	ID string `param:"id" validate:"required,len=8,alphanum"`
}

func (s *Server) GetAttributionChain(ctx echo.Context) error {
	var req GetAttributionChainRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	chain, err := s.server.GetAttributionChain(ctx.Request().Context(), req.ID)
	if errors.Is(err, usecase.ErrProtocolNotFound) {
		return ctx.JSON(404, Res{Error: err.Error()})
	}
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	out := AttributionChain{
		IsRemix: chain.IsRemix,
		Depth:   len(chain.Chain),
		Chain:   make([]AttributionEntry, 0, len(chain.Chain)),
	}
	for _, e := range chain.Chain {
		out.Chain = append(out.Chain, AttributionEntry{
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

	return ctx.JSON(200, Res{Data: out})
}
