package server

import (
	"errors"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carbonroom/carbonroom/internal/config"
	"github.com/carbonroom/carbonroom/internal/usecase"
)

type Creator struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Company   string `json:"company,omitempty"`
	Role      string `json:"role,omitempty"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at,omitempty"`
}

type Protocol struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Type            string    `json:"type"`
	Filename        string    `json:"filename,omitempty"`
	Version         string    `json:"version"`
	Tags            []string  `json:"tags,omitempty"`
	FileHash        string    `json:"file_hash"`
	BlockchainHash  string    `json:"blockchain_hash"`
	Watermark       string    `json:"watermark"`
	CertificateID   string    `json:"certificate_id"`
	IsRemix         bool      `json:"is_remix"`
	OriginalHash    string    `json:"original_hash,omitempty"`
	OriginalCreator string    `json:"original_creator,omitempty"`
	OriginalAsset   string    `json:"original_asset,omitempty"`
	Invocations     int       `json:"invocations"`
	Creators        []Creator `json:"creators,omitempty"`
	CreatedAt       string    `json:"created_at,omitempty"`
	UpdatedAt       string    `json:"updated_at,omitempty"`
}

func convertProtocol(p usecase.Protocol) Protocol {
	out := Protocol{
		ID:              p.ShortID,
		Name:            p.Name,
		Description:     p.Description,
		Type:            string(p.Type),
		Filename:        p.Filename,
		Version:         p.Version,
		Tags:            p.Tags,
		FileHash:        p.FileHash,
		BlockchainHash:  p.BlockchainHash,
		Watermark:       p.Watermark,
		CertificateID:   p.CertificateID,
		IsRemix:         p.IsRemix,
		OriginalHash:    p.OriginalHash,
		OriginalCreator: p.OriginalCreator,
		OriginalAsset:   p.OriginalAsset,
		Invocations:     p.InvocationCount,
	}
	if !p.CreatedAt.IsZero() {
		out.CreatedAt = p.CreatedAt.String()
		out.UpdatedAt = p.UpdatedAt.String()
	}
	for _, pc := range p.Creators {
		out.Creators = append(out.Creators, Creator{
			ID:       pc.Creator.ID.String(),
			Name:     pc.Creator.Name,
			Company:  pc.Creator.Company,
			Role:     string(pc.Role),
			Verified: pc.Creator.Verified,
		})
	}
	return out
}

type ListProtocolsRequest struct {
	Skip    int    `query:"skip"`
	Limit   int    `query:"limit" validate:"required,gte=1,lte=100"`
	Type    string `query:"type" validate:"omitempty,oneof=code config agent document design media"`
	Keyword string `query:"keyword"`
	SortBy  string `query:"sort_by" validate:"omitempty,oneof=created_at name invocation_count"`
	SortIn  string `query:"sort_in" validate:"omitempty,oneof=asc desc"`
}

func (s *Server) ListProtocols(ctx echo.Context) error {
	var req = ListProtocolsRequest{Limit: 20}
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	list, total, err := s.server.ListProtocols(ctx.Request().Context(), usecase.ListProtocolsOption{
		Skip:    req.Skip,
		Limit:   req.Limit,
		Type:    usecase.ProtocolType(req.Type),
		Keyword: req.Keyword,
		SortBy:  req.SortBy,
		SortIn:  req.SortIn,
	})
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	protocols := make([]Protocol, 0, len(list))
	for _, p := range list {
		protocols = append(protocols, convertProtocol(p))
	}

	return ctx.JSON(200, Res{
		Data: protocols,
		Meta: &Meta{Total: total, Skip: req.Skip, Limit: req.Limit},
	})
}

type RegisterProtocolRequest struct {
	Name            string `form:"name" validate:"required,max=255"`
	Description     string `form:"description" validate:"max=2000"`
	Type            string `form:"type" validate:"omitempty,oneof=code config agent document design media"`
	Version         string `form:"version" validate:"omitempty,max=32"`
	Tags            string `form:"tags"`
	CreatorName     string `form:"creator_name" validate:"required,max=255"`
	CreatorEmail    string `form:"creator_email" validate:"omitempty,email"`
	CreatorCompany  string `form:"creator_company" validate:"max=255"`
	CoCreators      string `form:"co_creators"`
	IsRemix         bool   `form:"is_remix"`
	OriginalCreator string `form:"original_creator" validate:"max=255"`
	OriginalAsset   string `form:"original_asset" validate:"max=255"`
	OriginalHash    string `form:"original_hash" validate:"omitempty,len=64,hexadecimal"`
}

func (s *Server) RegisterProtocol(ctx echo.Context) error {
	var req RegisterProtocolRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(400, Res{Error: "file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	p, err := s.server.RegisterProtocol(ctx.Request().Context(), usecase.RegisterProtocolInput{
		Name:            req.Name,
		Description:     req.Description,
		Type:            usecase.ProtocolType(req.Type),
		Version:         req.Version,
		Tags:            splitCSV(req.Tags),
		Filename:        fh.Filename,
		Content:         content,
		CreatorName:     req.CreatorName,
		CreatorEmail:    req.CreatorEmail,
		CreatorCompany:  req.CreatorCompany,
		CoCreators:      splitCSV(req.CoCreators),
		IsRemix:         req.IsRemix,
		OriginalCreator: req.OriginalCreator,
		OriginalAsset:   req.OriginalAsset,
		OriginalHash:    strings.ToLower(req.OriginalHash),
	})
	if err != nil {
		if errors.Is(err, usecase.ErrHashCollision) || errors.Is(err, usecase.ErrWatermarkCollision) {
			return ctx.JSON(409, Res{Error: err.Error()})
		}
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	return ctx.JSON(201, Res{Data: convertProtocol(p), Message: "protocol registered"})
}

type GetProtocolByIDRequest struct {
	ID string `param:"id" validate:"required,len=8,alphanum"`
}

func (s *Server) GetProtocolByID(ctx echo.Context) error {
	var req GetProtocolByIDRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	p, err := s.server.GetProtocolByShortID(ctx.Request().Context(), req.ID)
	if errors.Is(err, usecase.ErrProtocolNotFound) {
		return ctx.JSON(404, Res{Error: err.Error()})
	}
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	return ctx.JSON(200, Res{Data: convertProtocol(p)})
}

type InvokeProtocolRequest struct {
	Keyword   string `json:"keyword" validate:"required,max=255"`
	UserEmail string `json:"user_email" validate:"omitempty,email"`
}

func (s *Server) InvokeProtocol(ctx echo.Context) error {
	var req InvokeProtocolRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	p, err := s.server.InvokeProtocol(ctx.Request().Context(), usecase.InvokeProtocolInput{
		Keyword:   req.Keyword,
		UserID:    ctx.Request().Header.Get(config.HEADER_KEY_X_USER_ID),
		UserEmail: req.UserEmail,
		UserIP:    ctx.RealIP(),
		UserAgent: ctx.Request().UserAgent(),
	})
	if errors.Is(err, usecase.ErrProtocolNotFound) {
		return ctx.JSON(404, Res{Error: err.Error()})
	}
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	return ctx.JSON(200, Res{Data: convertProtocol(p), Message: "invocation recorded"})
}

type GetDownloadURLRequest struct {
	ID string `param:"id" validate:"required,len=8,alphanum"`
}

func (s *Server) GetDownloadURL(ctx echo.Context) error {
	var req GetDownloadURLRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	url, err := s.server.GetVaultDownloadURL(ctx.Request().Context(), req.ID)
	if errors.Is(err, usecase.ErrProtocolNotFound) {
		return ctx.JSON(404, Res{Error: err.Error()})
	}
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	return ctx.JSON(200, Res{Data: map[string]string{"url": url}})
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
