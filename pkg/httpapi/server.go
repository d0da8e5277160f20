// Package httpapi exposes the allocation engine's commands and queues to the
// staff operations UI over HTTP. Transport only; all allocation semantics
// live in the core packages.
package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/engine"
	"github.com/hallatus/roundbooker/pkg/core/model"
)

// Store combines the engine store with the related-unit lookup the handlers
// need to build conflict overlays.
type Store interface {
	engine.Store
	RelatedUnitIDs(ctx context.Context, reservationUnitID string) ([]string, error)
}

// Handler serves the staff allocation API.
type Handler struct {
	Engine *engine.Engine
	Store  Store
	Logger *zap.Logger
}

// NewRouter builds the gin engine with all allocation routes registered.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/v1/rounds/:roundID/units/:unitID")
	{
		v1.GET("/sections", h.ListSections)
		v1.GET("/summary", h.Summary)
		v1.POST("/sections/:sectionID/options/:optionID/accept", h.AcceptSlot)
		v1.DELETE("/sections/:sectionID/options/:optionID/allocations/:slotID", h.RemoveAllocation)
		v1.PUT("/sections/:sectionID/options/:optionID/lock", h.SetLocked)
		v1.POST("/sections/:sectionID/options/:optionID/reject", h.RejectRest)
	}

	return router
}

// sectionSnapshot fetches fresh section state and returns the named section,
// or nil if it is not part of the unit's allocation set.
func (h *Handler) sectionSnapshot(ctx context.Context, roundID, unitID, sectionID string) (*model.ApplicationSection, error) {
	sections, err := h.Store.FetchAllocations(ctx, roundID, unitID)
	if err != nil {
		return nil, err
	}
	for i := range sections {
		if sections[i].ID == sectionID {
			return &sections[i], nil
		}
	}
	return nil, nil
}
