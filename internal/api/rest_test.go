package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/controller"
	"github.com/ocfox/ventora/internal/device"
	"github.com/ocfox/ventora/internal/fans"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBusId = "0000:03:00.0"

func registerController(t *testing.T) {
	hwmon := t.TempDir()
	for name, value := range map[string]string{
		"pwm1_enable": "2",
		"pwm1":        "127",
		"pwm1_min":    "0",
		"pwm1_max":    "255",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(hwmon, name), []byte(value), 0644))
	}

	channel, err := fans.ProbeChannel(hwmon, fans.SysfsAccess{})
	require.NoError(t, err)
	actuator := fans.NewActuator(testBusId, *channel, fans.SysfsAccess{}, fans.RootPrivilege{})
	dev := &device.Device{Card: "card0", BusId: testBusId, HwmonPath: hwmon}
	config := configuration.DeviceConfig{BusId: testBusId, Mode: configuration.CurvePolicyLadder}
	settings := controller.Settings{TickRate: time.Second, MaxFailures: 1, FailureWindow: 1}

	controller.RegisterDeviceController(controller.NewDeviceController(dev, config, actuator, nil, settings))
	t.Cleanup(func() {
		controller.DeviceControllerMap.Clear()
	})
}

func serve(t *testing.T, path string) *httptest.ResponseRecorder {
	rest := CreateRestService(prometheus.NewRegistry())
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	rest.ServeHTTP(rec, req)
	return rec
}

func TestIsAlive(t *testing.T) {
	// WHEN
	rec := serve(t, "/alive")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetDevices(t *testing.T) {
	// GIVEN
	registerController(t)

	// WHEN
	rec := serve(t, "/device/")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result, 1)
	assert.Equal(t, testBusId, result[0]["busId"])
	assert.Equal(t, 50.0, result[0]["percent"])
	assert.Equal(t, "uninitialized", result[0]["pwmMode"])
}

func TestGetDevice(t *testing.T) {
	// GIVEN
	registerController(t)

	// WHEN
	rec := serve(t, "/device/"+testBusId)

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"busId": "0000:03:00.0"`)
	assert.Contains(t, rec.Body.String(), `"policy": "ladder"`)
}

func TestGetDevice_NotFound(t *testing.T) {
	// WHEN
	rec := serve(t, "/device/0000:0a:00.0/")

	// THEN
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "0000:0a:00.0")
}

func TestMetrics(t *testing.T) {
	// GIVEN
	rest := CreateRestService(prometheus.NewRegistry())
	rest.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/alive/", nil))

	// WHEN
	rec := httptest.NewRecorder()
	rest.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics/", nil))

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ventora_api_requests_total")
}
