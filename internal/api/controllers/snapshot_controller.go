package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitfunnel/internal/services"
	"fitfunnel/pkg/utils"
)

type SnapshotController struct {
	snapshotService services.SnapshotServiceInterface
	logger          *zap.Logger
}

func NewSnapshotController(snapshotService services.SnapshotServiceInterface, logger *zap.Logger) *SnapshotController {
	return &SnapshotController{
		snapshotService: snapshotService,
		logger:          logger,
	}
}

// GetSnapshot godoc
// @Summary Last saved results for a client
// @Tags Snapshot
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} response_models.SnapshotResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/clients/{clientId}/snapshot [get]
func (s *SnapshotController) GetSnapshot(c *gin.Context) {
	snap, err := s.snapshotService.Load(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		utils.HandleServiceError(c, s.logger, err)
		return
	}
	utils.RespondSuccess(c, snap, "Snapshot fetched successfully")
}
