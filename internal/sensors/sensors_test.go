package sensors

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSensor(t *testing.T, dir string, index int, label string, input string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("temp%d_label", index)), []byte(label+"\n"), 0644))
	if len(input) > 0 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("temp%d_input", index)), []byte(input+"\n"), 0644))
	}
}

func TestReadTemperatures(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	writeSensor(t, dir, 1, "edge", "45000")
	writeSensor(t, dir, 2, "junction", "52999")
	writeSensor(t, dir, 3, "mem", "60000")

	// WHEN
	samples := ReadTemperatures(dir)

	// THEN
	assert.Equal(t, []TemperatureSample{
		{Sensor: SensorEdge, Celsius: 45},
		{Sensor: SensorJunction, Celsius: 52},
		{Sensor: SensorMemory, Celsius: 60},
	}, samples)
}

func TestReadTemperatures_StopsAtFirstGap(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	writeSensor(t, dir, 1, "edge", "45000")
	writeSensor(t, dir, 3, "mem", "60000")

	// WHEN
	samples := ReadTemperatures(dir)

	// THEN
	assert.Equal(t, []TemperatureSample{{Sensor: SensorEdge, Celsius: 45}}, samples)
}

func TestReadTemperatures_SkipsUnreadableInput(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	writeSensor(t, dir, 1, "edge", "")
	writeSensor(t, dir, 2, "junction", "70000")

	// WHEN
	samples := ReadTemperatures(dir)

	// THEN
	assert.Equal(t, []TemperatureSample{{Sensor: SensorJunction, Celsius: 70}}, samples)
}

func TestReadTemperatures_NoSensors(t *testing.T) {
	// WHEN
	samples := ReadTemperatures(t.TempDir())

	// THEN
	assert.Empty(t, samples)
}
