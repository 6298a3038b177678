package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/controller"
	"github.com/ocfox/ventora/internal/fans"
	"github.com/ocfox/ventora/internal/sysfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var privileged = fans.PrivilegeFunc(func() bool { return true })

// createCard builds a sysfs layout for a single amdgpu card below root, optionally with a pwm channel
func createCard(t *testing.T, root string, card string, busId string, withPwm bool) {
	pciDevice := filepath.Join(root, "sys", "devices", "pci0000:00", busId)
	hwmon := filepath.Join(pciDevice, "hwmon", "hwmon2")
	require.NoError(t, os.MkdirAll(hwmon, 0755))

	files := map[string]string{
		filepath.Join(pciDevice, "uevent"):   "DRIVER=amdgpu\nPCI_ID=1002:73BF\n",
		filepath.Join(pciDevice, "device"):   "0x73bf\n",
		filepath.Join(pciDevice, "revision"): "0xc1\n",
		filepath.Join(hwmon, "temp1_label"):  "edge\n",
		filepath.Join(hwmon, "temp1_input"):  "45000\n",
	}
	if withPwm {
		files[filepath.Join(hwmon, "pwm1_enable")] = "2\n"
		files[filepath.Join(hwmon, "pwm1")] = "0\n"
		files[filepath.Join(hwmon, "pwm1_min")] = "0\n"
		files[filepath.Join(hwmon, "pwm1_max")] = "255\n"
	}
	for path, content := range files {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cardDir := filepath.Join(root, "sys", "class", "drm", card)
	require.NoError(t, os.MkdirAll(cardDir, 0755))
	require.NoError(t, os.Symlink(pciDevice, filepath.Join(cardDir, "device")))
}

func createConfig(devices ...configuration.DeviceConfig) configuration.Configuration {
	return configuration.Configuration{
		ControlTickRate:        time.Second,
		RestoreOnExit:          true,
		MaxActuationFailures:   3,
		ActuationFailureWindow: 5,
		Devices:                devices,
	}
}

func curveConfig(busId string) configuration.DeviceConfig {
	return configuration.DeviceConfig{
		BusId:  busId,
		Mode:   configuration.CurvePolicyLadder,
		Points: []configuration.CurvePoint{{Temp: 40, Duty: 30}, {Temp: 80, Duty: 100}},
	}
}

func TestInitializeObjects(t *testing.T) {
	// GIVEN
	root := t.TempDir()
	createCard(t, root, "card0", "0000:03:00.0", true)
	createCard(t, root, "card1", "0000:0a:00.0", true)
	config := createConfig(curveConfig("0000:0a:00.0"))
	t.Cleanup(func() {
		controller.DeviceControllerMap.Clear()
	})

	// WHEN
	result, err := InitializeObjects(sysfs.NewPaths(root), nil, config, privileged)

	// THEN
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "0000:0a:00.0", result[0].GetId())
	assert.Equal(t, "card1", result[0].Device().Card)
	_, ok := controller.GetDeviceController("0000:0a:00.0")
	assert.True(t, ok)
}

func TestInitializeObjects_SkipsBrokenDevices(t *testing.T) {
	// GIVEN
	root := t.TempDir()
	createCard(t, root, "card0", "0000:03:00.0", false)
	createCard(t, root, "card1", "0000:0a:00.0", true)
	createCard(t, root, "card2", "0000:0d:00.0", true)

	emptyCurve := curveConfig("0000:0d:00.0")
	emptyCurve.Points = nil
	config := createConfig(
		// no pwm channel
		curveConfig("0000:03:00.0"),
		curveConfig("0000:0a:00.0"),
		emptyCurve,
		// not present
		curveConfig("0000:0f:00.0"),
	)
	t.Cleanup(func() {
		controller.DeviceControllerMap.Clear()
	})

	// WHEN
	result, err := InitializeObjects(sysfs.NewPaths(root), nil, config, privileged)

	// THEN
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "0000:0a:00.0", result[0].GetId())
}

func TestInitializeObjects_NoDrm(t *testing.T) {
	// WHEN
	_, err := InitializeObjects(sysfs.NewPaths(t.TempDir()), nil, createConfig(), privileged)

	// THEN
	assert.Error(t, err)
}
