// FILE: internal/controller/collect_controller.go
package controller

import (
	"errors"

	"ux-collector-be/internal/pkg/serverutils"
	"ux-collector-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICollectController interface {
	RegisterRoutes(r fiber.Router)
	Collect(ctx *fiber.Ctx) error
}

type collectController struct {
	submission  service.ISubmissionService
	maintenance service.IMaintenanceService
}

func NewCollectController(submission service.ISubmissionService, maintenance service.IMaintenanceService) ICollectController {
	return &collectController{submission: submission, maintenance: maintenance}
}

func (c *collectController) RegisterRoutes(r fiber.Router) {
	r.All("/api/collect", c.Collect)
	r.All("/.netlify/functions/collect", c.Collect)
}

// Collect takes submissions on POST and serves store maintenance on GET.
// Preflight never gets here: serverutils.CORS answers OPTIONS.
func (c *collectController) Collect(ctx *fiber.Ctx) error {
	switch ctx.Method() {
	case fiber.MethodPost:
		return c.submit(ctx)
	case fiber.MethodGet:
		return administerStore(ctx, c.maintenance)
	default:
		return serverutils.Fail(ctx, fiber.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (c *collectController) submit(ctx *fiber.Ctx) error {
	// Body() is only valid inside the handler; the store may keep the slice.
	body := append([]byte(nil), ctx.Body()...)

	res, err := c.submission.Submit(ctx.UserContext(), body)
	switch {
	case errors.Is(err, service.ErrInvalidJSON):
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "Invalid JSON")
	case errors.Is(err, service.ErrInvalidPayload):
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "invalid payload")
	case errors.Is(err, service.ErrStoreFailed):
		return serverutils.Fail(ctx, fiber.StatusInternalServerError, "Store failed")
	case err != nil:
		return err
	}
	return ctx.JSON(serverutils.KeyResponse(res.Key))
}
