package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/application/usecase"
)

// PlatformHandler maneja las peticiones HTTP de canales de venta (protegido).
type PlatformHandler struct {
	uc *usecase.PlatformUseCase
}

// NewPlatformHandler construye el handler.
func NewPlatformHandler(uc *usecase.PlatformUseCase) *PlatformHandler {
	return &PlatformHandler{uc: uc}
}

// Create godoc
// @Summary      Crear canal
// @Tags         platforms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlatformRequest  true  "Datos del canal"
// @Success      201   {object}  dto.PlatformResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/platforms [post]
func (h *PlatformHandler) Create(c *fiber.Ctx) error {
	var in dto.PlatformRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetOwnerID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener canal por ID
// @Tags         platforms
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del canal"
// @Success      200  {object}  dto.PlatformResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/platforms/{id} [get]
func (h *PlatformHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetOwnerID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar canales
// @Description  Ordenados por nombre.
// @Tags         platforms
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PlatformListResponse
// @Router       /api/platforms [get]
func (h *PlatformHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetOwnerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Reemplazar canal
// @Description  Incluye medios de pago y configuración por artículo; el canal habilita solo los artículos listados.
// @Tags         platforms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del canal"
// @Param        body  body  dto.PlatformRequest  true  "Datos del canal"
// @Success      200   {object}  dto.PlatformResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/platforms/{id} [put]
func (h *PlatformHandler) Update(c *fiber.Ctx) error {
	var in dto.PlatformRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetOwnerID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar canal
// @Description  Las ventas ya registradas conservan el nombre del canal y sus tarifas.
// @Tags         platforms
// @Security     Bearer
// @Param        id   path  string  true  "ID del canal"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/platforms/{id} [delete]
func (h *PlatformHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetOwnerID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
