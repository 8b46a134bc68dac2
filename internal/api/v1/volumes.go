// internal/api/v1/volumes.go
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/dasdcalc/internal/diskmanager"
	"github.com/tphakala/dasdcalc/internal/observability/metrics"
)

// VolumeResponse is the live usage of one volume
type VolumeResponse struct {
	diskmanager.VolumeInfo
	Usage UsageResponse `json:"usage"`
}

func (c *Controller) initVolumeRoutes() {
	c.Group.GET("/volumes", c.GetVolumes)
}

// GetVolumes handles GET /api/v1/volumes. With ?path= it returns the state
// of the filesystem holding path, otherwise every mounted volume.
func (c *Controller) GetVolumes(ctx echo.Context) error {
	start := time.Now()
	defer c.recordDuration(metrics.OpVolume, start)

	if path := ctx.QueryParam("path"); path != "" {
		state, err := c.volumes.StateForPath(path)
		if err != nil {
			c.recordError(metrics.OpVolume, err)
			return c.HandleError(ctx, err, "Failed to read volume usage", statusForError(err))
		}
		if c.metrics != nil {
			c.metrics.Calculator.RecordOperation(metrics.OpVolume)
		}
		return ctx.JSON(http.StatusOK, c.usageResponse(state))
	}

	volumes, err := c.volumes.ListVolumes()
	if err != nil {
		c.recordError(metrics.OpVolume, err)
		return c.HandleError(ctx, err, "Failed to list volumes", http.StatusInternalServerError)
	}

	response := make([]VolumeResponse, 0, len(volumes))
	for _, v := range volumes {
		response = append(response, VolumeResponse{
			VolumeInfo: v,
			Usage:      c.usageResponse(diskmanager.DiskSpaceInfo{TotalBytes: v.Total, UsedBytes: v.Used, FreeBytes: v.Free}.State()),
		})
	}

	if c.metrics != nil {
		c.metrics.Calculator.RecordOperation(metrics.OpVolume)
	}
	return ctx.JSON(http.StatusOK, response)
}
