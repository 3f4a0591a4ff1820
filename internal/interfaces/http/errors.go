package http

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/transfer"
	"github.com/jhoicas/Inventario-core/internal/domain"
)

// errorJSON mapea los errores de dominio (envueltos con %w) al código HTTP y
// cuerpo de error. Las fallas por línea de un traslado devuelven el detalle
// agregado.
func errorJSON(c *fiber.Ctx, err error) error {
	var linesErr *transfer.LinesError
	if errors.As(err, &linesErr) {
		return linesErrorJSON(c, linesErr)
	}
	var valErr validator.ValidationErrors
	if errors.As(err, &valErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: valErr.Error()})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrSelfApproval):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrBatchDepleted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BATCH_DEPLETED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// errBadQuery error de parámetro de query inválido o ausente.
func errBadQuery(name string) error {
	return fmt.Errorf("parámetro %s inválido: %w", name, domain.ErrInvalidInput)
}

func linesErrorJSON(c *fiber.Ctx, linesErr *transfer.LinesError) error {
	out := dto.TransferLinesErrorResponse{
		Code:    "TRANSFER_LINES",
		Message: "ninguna línea se aplicó",
	}
	status := fiber.StatusBadRequest
	for _, l := range linesErr.Lines {
		code := "VALIDATION"
		switch {
		case errors.Is(l.Err, domain.ErrInsufficientStock):
			code = "INSUFFICIENT_STOCK"
			status = fiber.StatusConflict
		case errors.Is(l.Err, domain.ErrNotFound):
			code = "NOT_FOUND"
		}
		out.Lines = append(out.Lines, dto.TransferLineError{
			LineID:  l.LineID,
			Code:    code,
			Message: l.Err.Error(),
		})
	}
	return c.Status(status).JSON(out)
}
