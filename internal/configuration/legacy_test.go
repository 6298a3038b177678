package configuration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyConfig = `
["0000:03:00.0"]
mode = "trapezoidal"
temp_mode = "junction"
point = [[80, 100], [40, 20], [60, 50]]

["0000:0b:00.0"]
mode = "ladder"
temp_mode = "edge"
point = [[50, 40]]
`

func TestDecodeLegacyDevices(t *testing.T) {
	// WHEN
	result, err := decodeLegacyDevices(strings.NewReader(legacyConfig))

	// THEN
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "0000:03:00.0", result[0].BusId)
	assert.Equal(t, CurvePolicyTrapezoidal, result[0].Mode)
	assert.Equal(t, TempModeJunction, result[0].TempMode)
	assert.Equal(t, []CurvePoint{{40, 20}, {60, 50}, {80, 100}}, result[0].Points)

	assert.Equal(t, "0000:0b:00.0", result[1].BusId)
	assert.Equal(t, CurvePolicyLadder, result[1].Mode)
	assert.Equal(t, TempModeEdge, result[1].TempMode)
	assert.Equal(t, []CurvePoint{{50, 40}}, result[1].Points)
}

func TestDecodeLegacyDevices_IgnoresCurrentLayout(t *testing.T) {
	// GIVEN
	content := `
controlTickRate = "1s"

[api]
enabled = true

[[devices]]
busId = "0000:03:00.0"
mode = "ladder"
points = [[40, 20]]
`

	// WHEN
	result, err := decodeLegacyDevices(strings.NewReader(content))

	// THEN
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestDecodeLegacyDevices_InvalidPoint(t *testing.T) {
	// GIVEN
	content := `
["0000:03:00.0"]
mode = "ladder"
temp_mode = "avg"
point = [[40, 20, 10]]
`

	// WHEN
	_, err := decodeLegacyDevices(strings.NewReader(content))

	// THEN
	assert.ErrorContains(t, err, "0000:03:00.0")
}

func TestMergeLegacyDevices_CurrentLayoutWins(t *testing.T) {
	// GIVEN
	devices := []DeviceConfig{
		{BusId: "0000:03:00.0", Mode: CurvePolicyAuto},
	}
	legacy, err := decodeLegacyDevices(strings.NewReader(legacyConfig))
	require.NoError(t, err)

	// WHEN
	result := mergeLegacyDevices(devices, legacy)

	// THEN
	require.Len(t, result, 2)
	assert.Equal(t, CurvePolicyAuto, result[0].Mode)
	assert.Equal(t, "0000:0b:00.0", result[1].BusId)
}

func TestReadLegacyDevicesFromFile(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "ventora.toml")
	require.NoError(t, os.WriteFile(path, []byte(legacyConfig), 0644))

	// WHEN
	result, err := readLegacyDevicesFromFile(path)

	// THEN
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestDecodeConfig_LegacyLayoutDoesNotBreakCurrentDecoder(t *testing.T) {
	// WHEN
	config, err := readConfigString(t, legacyConfig)

	// THEN
	require.NoError(t, err)
	assert.Empty(t, config.Devices)
}
