package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/inventory"
	"github.com/logistock/logistock-api/internal/domain"
)

var validate = validator.New()

func init() {
	// decimal.Decimal se valida como número (gte=0, gt=0...).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

// requestError cuerpo o query mal formados; se responde 400 sin pasar por el caso de uso.
type requestError struct {
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

// bindAndValidate parsea el body JSON y aplica los tags validate.
func bindAndValidate(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return &requestError{code: "INVALID_BODY", message: "cuerpo inválido: " + err.Error()}
	}
	return validateStruct(req)
}

// bindQuery parsea los parámetros de query y aplica los tags validate.
func bindQuery(c *fiber.Ctx, req any) error {
	if err := c.QueryParser(req); err != nil {
		return &requestError{code: "INVALID_QUERY", message: "parámetros inválidos: " + err.Error()}
	}
	return validateStruct(req)
}

func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &requestError{code: "VALIDATION", message: err.Error()}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
	}
	return &requestError{code: "VALIDATION", message: "campos inválidos: " + strings.Join(fields, ", ")}
}

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// Orden importa: el primer errors.Is que coincide define la respuesta.
var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "registro duplicado"},
	{domain.ErrAlreadyFinalized, fiber.StatusConflict, "ALREADY_FINALIZED", "el documento ya fue finalizado"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "el registro está en uso"},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", "estoque insuficiente"},
	{domain.ErrInsufficientBalance, fiber.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", "saldo insuficiente del técnico"},
	{domain.ErrNothingTransferred, fiber.StatusUnprocessableEntity, "NOTHING_TRANSFERRED", "ninguna línea pudo procesarse"},
	{domain.ErrNothingCounted, fiber.StatusUnprocessableEntity, "NOTHING_COUNTED", "ninguna cantidad contada"},
	{domain.ErrNotEquipment, fiber.StatusUnprocessableEntity, "NOT_EQUIPMENT", "el ítem no es un equipo"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"},
}

// respondError traduce errores de dominio a {code, message, issues} con su status HTTP.
func respondError(c *fiber.Ctx, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: reqErr.code, Message: reqErr.message})
	}
	var issues []dto.LineIssue
	var ie *inventory.IssuesError
	if errors.As(err, &ie) {
		issues = ie.Issues
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			msg := m.message
			if err.Error() != m.err.Error() {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg, Issues: issues})
		}
	}
	requestLog(c).Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// ErrorHandler es el fiber.Config.ErrorHandler: rutas inexistentes, body demasiado grande
// y panics recuperados salen con el mismo formato que los errores de dominio.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			code = "PAYLOAD_TOO_LARGE"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}

// pathParam lee un parámetro de ruta obligatorio.
func pathParam(c *fiber.Ctx, name string) (string, error) {
	v := strings.TrimSpace(c.Params(name))
	if v == "" {
		return "", &requestError{code: "MISSING_ID", message: name + " es requerido"}
	}
	return v, nil
}

// pathID lee un parámetro de ruta que debe ser UUID; las columnas id son de tipo uuid.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id, err := pathParam(c, name)
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", &requestError{code: "INVALID_ID", message: name + " debe ser un UUID"}
	}
	return id, nil
}

// wantsXLSX indica si el cliente pidió la exportación en planilla (?format=xlsx).
func wantsXLSX(c *fiber.Ctx) bool {
	return strings.EqualFold(c.Query("format"), "xlsx")
}
