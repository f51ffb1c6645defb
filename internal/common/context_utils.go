package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"auraportal/internal/models"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	CPFKey    contextKey = "cpf"
	MemberKey contextKey = "member"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// SendForbiddenError sends a forbidden error response
func SendForbiddenError(c echo.Context) error {
	return c.JSON(http.StatusForbidden, CreateErrorResponse("FORBIDDEN", "Insufficient permissions", nil))
}

// SendConflictError sends a duplicate-key error response
func SendConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, CreateErrorResponse("DUPLICATE_KEY", message, nil))
}

// NormalizeCPF strips everything but digits from a CPF string.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCPF checks a normalized CPF for the expected 11-digit shape.
func ValidateCPF(cpf, fieldName string) (string, error) {
	normalized := NormalizeCPF(cpf)
	if normalized == "" {
		return "", fmt.Errorf("%s is required", fieldName)
	}
	if len(normalized) != 11 {
		return "", fmt.Errorf("%s must contain exactly 11 digits", fieldName)
	}
	return normalized, nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ParsePaymentDate parses the DataPagamento column (DD/MM/YYYY).
func ParsePaymentDate(value string) (time.Time, error) {
	return time.Parse("02/01/2006", strings.TrimSpace(value))
}

// ValidateTipo validates the member role column.
func ValidateTipo(tipo string) error {
	if tipo != models.TipoAdmin && tipo != models.TipoColaborador {
		return fmt.Errorf("tipo must be either 'admin' or 'colaborador'")
	}
	return nil
}

// ValidateStatus validates the member lifecycle status column.
func ValidateStatus(status string) error {
	validStatuses := map[string]bool{
		models.StatusAtivo: true, models.StatusInativo: true, models.StatusDesativado: true,
	}
	if !validStatuses[status] {
		return fmt.Errorf("status must be one of: ativo, inativo, desativado")
	}
	return nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetCPFFromContext extracts the authenticated CPF from the request context
func GetCPFFromContext(ctx context.Context) (string, bool) {
	cpf, ok := ctx.Value(CPFKey).(string)
	return cpf, ok
}

// GetMemberFromContext extracts the authenticated member record from the request context
func GetMemberFromContext(ctx context.Context) (*models.Member, bool) {
	member, ok := ctx.Value(MemberKey).(*models.Member)
	return member, ok
}

// WithMember stores the authenticated member and its CPF in the context.
func WithMember(ctx context.Context, member *models.Member) context.Context {
	ctx = context.WithValue(ctx, CPFKey, member.CPF)
	return context.WithValue(ctx, MemberKey, member)
}

// SecureErrorMessage creates standardized error messages to prevent information leakage
func SecureErrorMessage(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: operation could not be completed", operation)
}
