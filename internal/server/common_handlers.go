package server

import (
	"github.com/labstack/echo/v4"
)

func (s *Server) healthHandler(ctx echo.Context) error {
	return ctx.JSON(200, s.server.Health())
}

type StatsResponse struct {
	TotalProtocols      int `json:"total_protocols"`
	TotalInvocations    int `json:"total_invocations"`
	CertificatesIssued  int `json:"certificates_issued"`
	WatermarkDetections int `json:"watermark_detections"`
}

func (s *Server) GetStats(ctx echo.Context) error {
	stats, err := s.server.GetStats(ctx.Request().Context())
	if err != nil {
		return ctx.JSON(500, Res{Error: err.Error()})
	}

	return ctx.JSON(200, Res{Data: StatsResponse{
		TotalProtocols:      stats.TotalProtocols,
		TotalInvocations:    stats.TotalInvocations,
		CertificatesIssued:  stats.CertificatesIssued,
		WatermarkDetections: stats.WatermarkDetections,
	}})
}
