package server

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carbonroom/carbonroom/internal/usecase"
)

type ListCreatorsRequest struct {
	Skip  int    `query:"skip"`
	Limit int    `query:"limit" validate:"required,gte=1,lte=100"`
	Name  string `query:"name"`
}

func (s *Server) ListCreators(ctx echo.Context) error {
	var req = ListCreatorsRequest{Limit: 20}
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	list, total, err := s.server.ListCreators(ctx.Request().Context(), usecase.ListCreatorsOption{
		Skip:  req.Skip,
		Limit: req.Limit,
		Name:  req.Name,
	})
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	creators := make([]Creator, 0, len(list))
	for _, c := range list {
		creators = append(creators, convertCreator(c))
	}

	return ctx.JSON(200, Res{
		Data: creators,
		Meta: &Meta{Total: total, Skip: req.Skip, Limit: req.Limit},
	})
}

type GetCreatorByIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (s *Server) GetCreatorByID(ctx echo.Context) error {
	var req GetCreatorByIDRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	c, err := s.server.GetCreatorByID(ctx.Request().Context(), id)
	if errors.Is(err, usecase.ErrCreatorNotFound) {
		return ctx.JSON(404, Res{Error: err.Error()})
	}
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	return ctx.JSON(200, Res{Data: convertCreator(c)})
}

func convertCreator(c usecase.Creator) Creator {
	return Creator{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Company:   c.Company,
		Verified:  c.Verified,
		CreatedAt: c.CreatedAt.String(),
	}
}
