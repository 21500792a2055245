package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexmo-community/dial-ynab/internal/apierrors"
)

type ResolveRequest struct {
	Query string `form:"q" binding:"required"`
}

// HandleListBalances returns every category the balance provider reports.
func (h *Handler) HandleListBalances(c *gin.Context) {
	records, err := h.voiceProcessor.ListBalances(c.Request.Context())
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": records})
}

// HandleResolveCategory shows which category a phrase would be answered with.
func (h *Handler) HandleResolveCategory(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	resolution, err := h.voiceProcessor.ResolveCategory(c.Request.Context(), req.Query)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolution)
}
