package controller

import (
	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/fans"
	"github.com/ocfox/ventora/internal/sensors"
)

// DeviceStatus is a point in time view of a DeviceController
type DeviceStatus struct {
	BusId string `json:"busId"`
	Card  string `json:"card"`

	Policy  configuration.CurvePolicy `json:"policy"`
	PwmMode fans.PwmMode              `json:"pwmMode"`

	// Temperature is the aggregated temperature of the last tick, nil if absent
	Temperature *int                        `json:"temperature"`
	Samples     []sensors.TemperatureSample `json:"samples"`

	Target  int `json:"target"`
	Percent int `json:"percent"`

	Stopped bool   `json:"stopped"`
	Error   string `json:"error,omitempty"`
}

func (c *DeviceController) Snapshot() DeviceStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := c.status
	if status.Temperature != nil {
		temp := *status.Temperature
		status.Temperature = &temp
	}
	status.Samples = append([]sensors.TemperatureSample(nil), status.Samples...)
	return status
}

func (c *DeviceController) updateStatus(update func(s *DeviceStatus)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	update(&c.status)
}
