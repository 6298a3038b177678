package controller

import (
	"github.com/ocfox/ventora/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// DeviceControllerMap holds all running device controllers by bus id
var DeviceControllerMap = cmap.New[*DeviceController]()

func RegisterDeviceController(c *DeviceController) {
	DeviceControllerMap.Set(c.GetId(), c)
}

func GetDeviceController(busId string) (*DeviceController, bool) {
	return DeviceControllerMap.Get(busId)
}

// SnapshotAll returns the status of all registered controllers sorted by bus id
func SnapshotAll() []DeviceStatus {
	items := DeviceControllerMap.Items()
	var result []DeviceStatus
	for _, id := range util.SortedKeys(items) {
		result = append(result, items[id].Snapshot())
	}
	return result
}
