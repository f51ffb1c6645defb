package handlers

import (
	"errors"
	"net/http"

	"auraportal/internal/common"
	"auraportal/internal/models"
	"auraportal/internal/repositories"
	"auraportal/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminHandlers handles the admin record manager and dashboard endpoints
type AdminHandlers struct {
	memberService services.MemberService
}

// NewAdminHandlers creates a new admin handlers instance
func NewAdminHandlers(memberService services.MemberService) *AdminHandlers {
	return &AdminHandlers{memberService: memberService}
}

// ListUsers returns every member record, passwords stripped.
func (h *AdminHandlers) ListUsers(c echo.Context) error {
	members, err := h.memberService.ListMembers(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list members")
	}
	return c.JSON(http.StatusOK, members)
}

// CreateUser appends a new member row.
func (h *AdminHandlers) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()

	actor, _ := common.GetMemberFromContext(ctx)

	var input services.CreateMemberInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	member, err := h.memberService.CreateMember(ctx, actor, &input)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateCPF) {
			return common.SendConflictError(c, "CPF já cadastrado")
		}
		if isValidationError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return common.SendServerError(c, "Failed to create member")
	}

	return c.JSON(http.StatusCreated, member)
}

// UpdateUser overwrites an existing member row; absent fields keep their
// stored values.
func (h *AdminHandlers) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	actor, _ := common.GetMemberFromContext(ctx)

	cpf, err := common.ValidateCPF(c.Param("cpf"), "cpf")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var patch models.MemberPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	member, err := h.memberService.UpdateMember(ctx, actor, cpf, &patch)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return common.SendNotFoundError(c, "Member")
		}
		if isValidationError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return common.SendServerError(c, "Failed to update member")
	}

	return c.JSON(http.StatusOK, member)
}

// Dashboard returns the aggregate metrics block.
func (h *AdminHandlers) Dashboard(c echo.Context) error {
	metrics, err := h.memberService.Dashboard(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to compute dashboard metrics")
	}
	return c.JSON(http.StatusOK, metrics)
}

// isValidationError distinguishes input errors from upstream failures; the
// member service returns plain errors for invalid fields and wrapped errors
// for store failures.
func isValidationError(err error) bool {
	return !errors.Is(err, repositories.ErrDuplicateCPF) &&
		!errors.Is(err, repositories.ErrMemberNotFound) &&
		errors.Unwrap(err) == nil
}
