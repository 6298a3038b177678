package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ocfox/ventora/internal/controller"
	"github.com/qdm12/reprint"
)

func registerDeviceEndpoints(rest *echo.Echo) {
	group := rest.Group("/device")

	group.GET("/", getDevices)
	group.GET("/:"+urlParamId+"/", getDevice)
}

// returns the status of all controlled devices
func getDevices(c echo.Context) error {
	data := reprint.This(controller.SnapshotAll())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getDevice(c echo.Context) error {
	id := c.Param(urlParamId)
	deviceController, exists := controller.GetDeviceController(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, deviceController.Snapshot(), indentationChar)
}
