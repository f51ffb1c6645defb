package handlers

import (
	"fmt"
	"net/http"

	"auraportal/internal/common"
	"auraportal/internal/services"

	"github.com/labstack/echo/v4"
)

// CardHandlers handles membership card requests
type CardHandlers struct {
	cardService services.CardService
	exporter    services.CardExporter
}

// NewCardHandlers creates a new card handlers instance
func NewCardHandlers(cardService services.CardService, exporter services.CardExporter) *CardHandlers {
	return &CardHandlers{cardService: cardService, exporter: exporter}
}

// GetCarteira returns the assembled card payload for the authenticated member.
func (h *CardHandlers) GetCarteira(c echo.Context) error {
	ctx := c.Request().Context()

	member, ok := common.GetMemberFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Member not authenticated")
	}

	card, err := h.cardService.BuildCard(ctx, member.CPF)
	if err != nil {
		return common.SendServerError(c, "Failed to assemble card")
	}

	return c.JSON(http.StatusOK, card)
}

// ExportCarteira streams the card as a PDF attachment.
func (h *CardHandlers) ExportCarteira(c echo.Context) error {
	ctx := c.Request().Context()

	member, ok := common.GetMemberFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Member not authenticated")
	}

	card, err := h.cardService.BuildCard(ctx, member.CPF)
	if err != nil {
		return common.SendServerError(c, "Failed to assemble card")
	}

	data, err := h.exporter.RenderPDF(card)
	if err != nil {
		return common.SendServerError(c, "Failed to render card PDF")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="carteira-aura-%s.pdf"`, member.CPF))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// ShareCarteira uploads the rendered card and returns a presigned link.
func (h *CardHandlers) ShareCarteira(c echo.Context) error {
	ctx := c.Request().Context()

	member, ok := common.GetMemberFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Member not authenticated")
	}

	card, err := h.cardService.BuildCard(ctx, member.CPF)
	if err != nil {
		return common.SendServerError(c, "Failed to assemble card")
	}

	url, err := h.exporter.ShareCard(ctx, card)
	if err != nil {
		return common.SendServerError(c, "Failed to share card")
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
