package controller

import (
	"context"
	"errors"

	"github.com/benbeisheim/movegen-backend/internal/chess"
	"github.com/benbeisheim/movegen-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type AnalysisController struct {
	analysisService *service.AnalysisService
}

func NewAnalysisController(analysisService *service.AnalysisService) *AnalysisController {
	return &AnalysisController{analysisService: analysisService}
}

func (ac *AnalysisController) PseudoLegal(c *fiber.Ctx) error {
	return ac.handle(c, ac.analysisService.PseudoLegal)
}

func (ac *AnalysisController) Legal(c *fiber.Ctx) error {
	return ac.handle(c, ac.analysisService.Legal)
}

func (ac *AnalysisController) handle(c *fiber.Ctx, analyze func(context.Context, service.AnalysisRequest) (service.AnalysisResult, error)) error {
	var req service.AnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, err)
	}
	if req.FEN == "" {
		return sendError(c, fiber.StatusBadRequest, errors.New("fen is required"))
	}

	res, err := analyze(c.UserContext(), req)
	switch {
	case errors.Is(err, chess.ErrContractViolation):
		return sendError(c, fiber.StatusUnprocessableEntity, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return sendError(c, fiber.StatusRequestTimeout, err)
	case err != nil:
		// anything else is a malformed FEN or square
		return sendError(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(res)
}
