package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/device"
	"github.com/ocfox/ventora/internal/fans"
	"github.com/ocfox/ventora/internal/persistence"
	"github.com/ocfox/ventora/internal/sensors"
	"github.com/ocfox/ventora/internal/ui"
	"github.com/ocfox/ventora/internal/util"
)

// ErrTooManyFailures is returned once the number of failed writes within the failure window reaches its limit
var ErrTooManyFailures = errors.New("too many actuation failures")

// Settings configures the behaviour of a DeviceController
type Settings struct {
	TickRate      time.Duration
	RestoreOnExit bool
	MaxFailures   int
	FailureWindow int
}

// SettingsFromConfig extracts the controller settings of the given configuration
func SettingsFromConfig(config configuration.Configuration) Settings {
	return Settings{
		TickRate:      config.ControlTickRate,
		RestoreOnExit: config.RestoreOnExit,
		MaxFailures:   config.MaxActuationFailures,
		FailureWindow: config.ActuationFailureWindow,
	}
}

// DeviceController drives the fan of a single GPU
type DeviceController struct {
	device      *device.Device
	config      configuration.DeviceConfig
	actuator    *fans.Actuator
	persistence persistence.Persistence
	settings    Settings

	failures *rolling.PointPolicy

	mu     sync.RWMutex
	status DeviceStatus
}

func NewDeviceController(
	dev *device.Device,
	config configuration.DeviceConfig,
	actuator *fans.Actuator,
	pers persistence.Persistence,
	settings Settings,
) *DeviceController {
	windowSize := settings.FailureWindow
	if windowSize < settings.MaxFailures {
		windowSize = settings.MaxFailures
	}
	if windowSize <= 0 {
		windowSize = 1
	}

	return &DeviceController{
		device:      dev,
		config:      config,
		actuator:    actuator,
		persistence: pers,
		settings:    settings,
		failures:    util.CreateRollingWindow(windowSize),
		status: DeviceStatus{
			BusId:   dev.BusId,
			Card:    dev.Card,
			Policy:  config.Mode,
			Percent: actuator.GetPercent(),
			PwmMode: actuator.State().Mode,
		},
	}
}

func (c *DeviceController) GetId() string {
	return c.device.BusId
}

func (c *DeviceController) Device() *device.Device {
	return c.device
}

func (c *DeviceController) Config() configuration.DeviceConfig {
	return c.config
}

// Run controls the device until ctx is done.
// A device that fails permanently is restored and then idles, other devices are not affected.
func (c *DeviceController) Run(ctx context.Context) error {
	id := c.GetId()

	c.loadOriginalEnable()

	if c.config.Mode == configuration.CurvePolicyAuto {
		ui.Info("Device %s: handing fan control to the firmware", id)
		err := SetMode(c.actuator, fans.Auto)
		c.updateStatus(func(s *DeviceStatus) {
			s.PwmMode = c.actuator.State().Mode
		})
		if err != nil {
			c.stop(err)
		}
		<-ctx.Done()
		c.shutdown()
		return nil
	}

	ui.Info("Starting controller loop for device %s (%s)", id, c.config.Mode)

	ticker := time.NewTicker(c.settings.TickRate)
	defer ticker.Stop()

	for {
		err := c.UpdateDutyCycle()
		if err != nil && !errors.Is(err, sensors.ErrSensorAbsent) {
			c.stop(err)
			<-ctx.Done()
			c.shutdown()
			return nil
		}

		select {
		case <-ctx.Done():
			c.shutdown()
			return nil
		case <-ticker.C:
		}
	}
}

// UpdateDutyCycle runs a single control iteration.
// sensors.ErrSensorAbsent means the tick was skipped, every other error is fatal for this device.
func (c *DeviceController) UpdateDutyCycle() error {
	id := c.GetId()

	samples := []sensors.TemperatureSample{}
	if len(c.device.HwmonPath) > 0 {
		samples = sensors.ReadTemperatures(c.device.HwmonPath)
	}
	temp, ok := sensors.Aggregate(samples, c.config.TempMode)
	c.updateStatus(func(s *DeviceStatus) {
		s.Samples = samples
		if ok {
			s.Temperature = &temp
		} else {
			s.Temperature = nil
		}
	})
	if !ok {
		ui.Warning("Device %s: no %s temperature available, skipping", id, c.config.TempMode)
		return sensors.ErrSensorAbsent
	}

	target, err := ComputeTarget(temp, c.config)
	if err != nil {
		return err
	}

	err = Apply(c.actuator, target)
	state := c.actuator.State()
	c.updateStatus(func(s *DeviceStatus) {
		s.Target = target
		s.Percent = state.CurrentPercent
		s.PwmMode = state.Mode
	})

	if err == nil {
		c.failures.Append(0)
		ui.Debug("Device %s: %d°C -> %d%%", id, temp, target)
		return nil
	}

	var actuationErr *fans.ActuationError
	if !errors.As(err, &actuationErr) {
		return err
	}

	c.failures.Append(1)
	failed := int(util.SumWindow(c.failures))
	ui.Warning("Device %s: unable to apply %d%% (%d/%d failures): %v", id, target, failed, c.settings.MaxFailures, err)
	if failed >= c.settings.MaxFailures {
		return fmt.Errorf("%w: %v", ErrTooManyFailures, err)
	}
	return nil
}

// loadOriginalEnable prefers the pwm_enable value persisted by an earlier run,
// which did not necessarily exit cleanly.
func (c *DeviceController) loadOriginalEnable() {
	if c.persistence == nil {
		return
	}
	id := c.GetId()

	saved, err := c.persistence.LoadDeviceState(id)
	if err == nil {
		ui.Debug("Device %s: using persisted original pwm_enable %d", id, saved.OriginalPwmEnable)
		c.actuator.SetOriginalEnable(saved.OriginalPwmEnable)
		return
	}
	if !errors.Is(err, os.ErrNotExist) {
		ui.Warning("Device %s: unable to load persisted state: %v", id, err)
	}

	state := persistence.DeviceState{
		OriginalPwmEnable: c.actuator.OriginalEnable(),
		LastPercent:       c.actuator.GetPercent(),
	}
	err = c.persistence.SaveDeviceState(id, state)
	if err != nil {
		ui.Warning("Device %s: unable to persist original pwm_enable: %v", id, err)
	}
}

// stop hands the device back to its original mode after a fatal error
func (c *DeviceController) stop(reason error) {
	id := c.GetId()
	ui.Error("Controller for device %s stopped: %v", id, reason)
	c.updateStatus(func(s *DeviceStatus) {
		s.Stopped = true
		s.Error = reason.Error()
	})

	if errors.Is(reason, fans.ErrPermission) {
		return
	}
	ui.Info("Trying to restore fan settings for %s...", id)
	c.restore()
}

func (c *DeviceController) shutdown() {
	id := c.GetId()
	if c.settings.RestoreOnExit && !c.Snapshot().Stopped {
		ui.Info("Restoring original fan mode of %s...", id)
		if !c.restore() {
			return
		}
	}

	if c.persistence != nil {
		if c.settings.RestoreOnExit {
			err := c.persistence.DeleteDeviceState(id)
			if err != nil {
				ui.Warning("Device %s: unable to clear persisted state: %v", id, err)
			}
		} else {
			state := persistence.DeviceState{
				OriginalPwmEnable: c.actuator.OriginalEnable(),
				LastPercent:       c.actuator.GetPercent(),
			}
			if err := c.persistence.SaveDeviceState(id, state); err != nil {
				ui.Warning("Device %s: unable to persist state: %v", id, err)
			}
		}
	}
}

func (c *DeviceController) restore() bool {
	id := c.GetId()
	err := c.actuator.RestoreEnable()
	c.updateStatus(func(s *DeviceStatus) {
		s.PwmMode = c.actuator.State().Mode
	})
	if err == nil {
		return true
	}

	// if this fails, try to run the fan at full speed instead
	ui.Warning("Unable to restore pwm_enable of %s: %v", id, err)
	err = c.actuator.SetDutyCycle(100)
	if err != nil {
		ui.ErrorAndNotify("Fan restore failed", "Unable to restore fan of %s, make sure it is running!", id)
	}
	return false
}
