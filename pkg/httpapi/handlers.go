package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/allocation"
	"github.com/hallatus/roundbooker/pkg/core/engine"
	"github.com/hallatus/roundbooker/pkg/core/services"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

// acceptSlotBody is the request body for the accept command. Times are wire
// format, day of week is 0=Monday..6=Sunday.
type acceptSlotBody struct {
	DayOfWeek int    `json:"dayOfWeek" binding:"min=0,max=6"`
	BeginTime string `json:"beginTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

type lockBody struct {
	Locked *bool `json:"locked" binding:"required"`
}

type rejectBody struct {
	Locked bool `json:"locked"`
}

// ListSections handles GET /v1/rounds/:roundID/units/:unitID/sections.
func (h *Handler) ListSections(c *gin.Context) {
	grouped, err := services.SectionQueues(c.Request.Context(), h.Store, h.Logger,
		c.Param("roundID"), c.Param("unitID"))
	if err != nil {
		h.Logger.Error("ListSections: failed to build queues", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch sections", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, grouped)
}

// Summary handles GET /v1/rounds/:roundID/units/:unitID/summary.
func (h *Handler) Summary(c *gin.Context) {
	summary, err := services.SummarizeQueues(c.Request.Context(), h.Store, h.Logger,
		c.Param("roundID"), c.Param("unitID"))
	if err != nil {
		h.Logger.Error("Summary: failed to summarize queues", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize sections", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// AcceptSlot handles POST .../sections/:sectionID/options/:optionID/accept.
func (h *Handler) AcceptSlot(c *gin.Context) {
	var body acceptSlotBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}

	day, err := timegrid.ParseWeekday(body.DayOfWeek)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day of week", "message": err.Error()})
		return
	}
	begin, err := timegrid.ParseTimeOfDay(body.BeginTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid begin time", "message": err.Error()})
		return
	}
	end, err := timegrid.ParseTimeOfDay(body.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end time", "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	roundID := c.Param("roundID")
	unitID := c.Param("unitID")

	section, err := h.sectionSnapshot(ctx, roundID, unitID, c.Param("sectionID"))
	if err != nil {
		h.Logger.Error("AcceptSlot: failed to fetch section", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch section", "message": err.Error()})
		return
	}
	if section == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}

	related, err := services.RelatedOverlay(ctx, h.Store, h.Logger, roundID, unitID)
	if err != nil {
		h.Logger.Error("AcceptSlot: failed to build related overlay", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build conflict overlay", "message": err.Error()})
		return
	}

	result, err := h.Engine.AcceptSlot(ctx, engine.AcceptSlotRequest{
		ApplicationRoundID: roundID,
		ReservationUnitID:  unitID,
		Section:            section,
		OptionID:           c.Param("optionID"),
		Selection:          allocation.Selection{Day: day, Begin: begin, End: end},
		Related:            related,
	})
	if err != nil {
		h.writeCommandError(c, "AcceptSlot", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"allocatedTimeSlot": result.Slot,
		"warnings":          result.Warnings,
		"sections":          result.Sections,
	})
}

// RemoveAllocation handles DELETE .../allocations/:slotID.
func (h *Handler) RemoveAllocation(c *gin.Context) {
	sections, err := h.Engine.RemoveAllocation(c.Request.Context(), engine.RemoveAllocationRequest{
		ApplicationRoundID: c.Param("roundID"),
		ReservationUnitID:  c.Param("unitID"),
		SectionID:          c.Param("sectionID"),
		OptionID:           c.Param("optionID"),
		AllocatedSlotID:    c.Param("slotID"),
	})
	if err != nil {
		h.writeCommandError(c, "RemoveAllocation", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// SetLocked handles PUT .../options/:optionID/lock.
func (h *Handler) SetLocked(c *gin.Context) {
	var body lockBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	roundID := c.Param("roundID")
	unitID := c.Param("unitID")

	section, err := h.sectionSnapshot(ctx, roundID, unitID, c.Param("sectionID"))
	if err != nil {
		h.Logger.Error("SetLocked: failed to fetch section", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch section", "message": err.Error()})
		return
	}
	if section == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}

	sections, err := h.Engine.SetLocked(ctx, engine.SetLockedRequest{
		ApplicationRoundID: roundID,
		ReservationUnitID:  unitID,
		Section:            section,
		OptionID:           c.Param("optionID"),
		Locked:             *body.Locked,
	})
	if err != nil {
		h.writeCommandError(c, "SetLocked", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// RejectRest handles POST .../options/:optionID/reject.
func (h *Handler) RejectRest(c *gin.Context) {
	var body rejectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	roundID := c.Param("roundID")
	unitID := c.Param("unitID")

	section, err := h.sectionSnapshot(ctx, roundID, unitID, c.Param("sectionID"))
	if err != nil {
		h.Logger.Error("RejectRest: failed to fetch section", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch section", "message": err.Error()})
		return
	}
	if section == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}

	sections, err := h.Engine.RejectRest(ctx, engine.RejectRestRequest{
		ApplicationRoundID: roundID,
		ReservationUnitID:  unitID,
		Section:            section,
		OptionID:           c.Param("optionID"),
		Locked:             body.Locked,
	})
	if err != nil {
		h.writeCommandError(c, "RejectRest", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// writeCommandError maps engine errors onto HTTP responses: precondition
// violations are client errors carrying their reason category, everything
// else surfaces verbatim as a server error.
func (h *Handler) writeCommandError(c *gin.Context, op string, err error) {
	if reason, ok := engine.ReasonOf(err); ok {
		status := http.StatusUnprocessableEntity
		if reason == engine.ReasonMutationPending {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": string(reason), "message": err.Error()})
		return
	}

	h.Logger.Error(op+": command failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": "command failed", "message": err.Error()})
}
