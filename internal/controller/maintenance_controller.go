// FILE: internal/controller/maintenance_controller.go
package controller

import (
	"errors"

	"ux-collector-be/internal/dto"
	"ux-collector-be/internal/pkg/serverutils"
	"ux-collector-be/internal/service"
	"ux-collector-be/pkg/maintenance"

	"github.com/gofiber/fiber/v2"
)

type IMaintenanceController interface {
	RegisterRoutes(r fiber.Router)
	CleanupOldRuns(ctx *fiber.Ctx) error
}

type maintenanceController struct {
	service service.IMaintenanceService
}

func NewMaintenanceController(service service.IMaintenanceService) IMaintenanceController {
	return &maintenanceController{service: service}
}

func (c *maintenanceController) RegisterRoutes(r fiber.Router) {
	for _, path := range []string{"/api/cleanup_old_runs", "/.netlify/functions/cleanup_old_runs"} {
		r.Get(path, c.CleanupOldRuns)
		r.Post(path, c.CleanupOldRuns)
	}
}

func (c *maintenanceController) CleanupOldRuns(ctx *fiber.Ctx) error {
	return administerStore(ctx, c.service)
}

// administerStore is shared with the collect route, which answers GET with the same operation.
func administerStore(ctx *fiber.Ctx, svc service.IMaintenanceService) error {
	var query dto.MaintenanceQuery
	if err := ctx.QueryParser(&query); err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "invalid query")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, err.Error())
	}

	res, err := svc.AdministerStore(ctx.UserContext(), query)
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return serverutils.Fail(ctx, fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, maintenance.ErrListFailed):
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(serverutils.ErrorResponseWithDetails("List failed", err.Error()))
	case err != nil:
		return err
	}
	return ctx.JSON(res)
}
