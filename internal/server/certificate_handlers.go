package server

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/carbonroom/carbonroom/internal/usecase"
)

type GetCertificateRequest struct {
	ID string `param:"id" validate:"required,len=8,alphanum"`
}

// GetCertificate serves the registration certificate as a standalone
// HTML page.
func (s *Server) GetCertificate(ctx echo.Context) error {
	var req GetCertificateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	cert, err := s.server.GetCertificate(ctx.Request().Context(), req.ID)
	if errors.Is(err, usecase.ErrProtocolNotFound) || errors.Is(err, usecase.ErrCertificateNotFound) {
		return ctx.JSON(404, Res{Error: err.Error()})
	}
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	return ctx.HTML(200, cert.HTML)
}

// GetDocument serves the plain-text legal document as a download.
func (s *Server) GetDocument(ctx echo.Context) error {
	var req GetCertificateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	cert, err := s.server.GetCertificate(ctx.Request().Context(), req.ID)
	if errors.Is(err, usecase.ErrProtocolNotFound) || errors.Is(err, usecase.ErrCertificateNotFound) {
		return ctx.JSON(404, Res{Error: err.Error()})
	}
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	ctx.Response().Header().Set("Content-Disposition", `attachment; filename="`+cert.CertificateID+`.txt"`)
	return ctx.Blob(200, "text/plain; charset=utf-8", []byte(cert.DocumentText))
}
