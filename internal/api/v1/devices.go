// internal/api/v1/devices.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/dasdcalc/internal/geometry"
)

// DeviceResponse describes one device geometry profile
type DeviceResponse struct {
	geometry.Profile
	BytesPerCylinder int  `json:"bytes_per_cylinder"`
	Default          bool `json:"default"`
}

func (c *Controller) initDeviceRoutes() {
	devicesGroup := c.Group.Group("/devices")
	devicesGroup.GET("", c.GetDevices)
	devicesGroup.GET("/:key", c.GetDevice)
}

func (c *Controller) deviceResponse(p geometry.Profile) DeviceResponse {
	return DeviceResponse{
		Profile:          p,
		BytesPerCylinder: p.BytesPerCylinder(),
		Default:          p.Key == c.Settings.Calculator.DefaultDevice,
	}
}

// GetDevices handles GET /api/v1/devices
func (c *Controller) GetDevices(ctx echo.Context) error {
	profiles := geometry.Profiles()
	response := make([]DeviceResponse, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, c.deviceResponse(p))
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetDevice handles GET /api/v1/devices/:key
func (c *Controller) GetDevice(ctx echo.Context) error {
	profile, err := geometry.Lookup(ctx.Param("key"))
	if err != nil {
		return c.HandleError(ctx, err, "Unknown device type", http.StatusNotFound)
	}
	return ctx.JSON(http.StatusOK, c.deviceResponse(profile))
}
