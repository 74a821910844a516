package server

import (
	"errors"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/carbonroom/carbonroom/internal/usecase"
)

type VerifyWatermarkRequest struct {
	Content string `json:"content" validate:"required,max=1048576"`
}

type VerifyResult struct {
	Found      bool   `json:"found"`
	Registered bool   `json:"registered"`
	Watermark  string `json:"watermark,omitempty"`
	Protocol   string `json:"protocol,omitempty"`
	Creator    string `json:"creator,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// VerifyWatermark is the public check: paste content, learn whether it
// carries a registered watermark and who owns it.
func (s *Server) VerifyWatermark(ctx echo.Context) error {
	var req VerifyWatermarkRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	res, err := s.server.VerifyWatermark(ctx.Request().Context(), req.Content)
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	out := VerifyResult{
		Found:      res.Found,
		Registered: res.Registered,
		Watermark:  res.Watermark,
		Protocol:   res.Protocol,
		Creator:    res.Creator,
	}
	if res.CreatedAt != nil {
		out.CreatedAt = res.CreatedAt.String()
	}

	return ctx.JSON(200, Res{Data: out})
}

type StampContentRequest struct {
	ID       string `param:"id" validate:"required,len=8,alphanum"`
	Content  string `json:"content" validate:"required,max=1048576"`
	Filename string `json:"filename" validate:"max=255"`
}

// StampContent embeds the protocol's watermark into pasted content as
// a comment header matched to the file kind.
func (s *Server) StampContent(ctx echo.Context) error {
	var req StampContentRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	stamped, err := s.server.StampContent(ctx.Request().Context(), req.ID, req.Content, filepath.Ext(req.Filename))
	if errors.Is(err, usecase.ErrProtocolNotFound) {
		return ctx.JSON(404, Res{Error: err.Error()})
	}
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	return ctx.JSON(200, Res{Data: map[string]string{"content": stamped}})
}
