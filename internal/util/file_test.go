package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadIntFromFile(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "temp1_input")
	err := os.WriteFile(path, []byte("52000\n"), 0644)
	assert.NoError(t, err)

	// WHEN
	value, err := ReadIntFromFile(path)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 52000, value)
}

func TestReadIntFromFile_Empty(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "pwm1")
	err := os.WriteFile(path, []byte(""), 0644)
	assert.NoError(t, err)

	// WHEN
	value, err := ReadIntFromFile(path)

	// THEN
	assert.Error(t, err)
	assert.Equal(t, -1, value)
}

func TestReadIntFromFile_NotANumber(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "pwm1")
	err := os.WriteFile(path, []byte("abc"), 0644)
	assert.NoError(t, err)

	// WHEN
	_, err = ReadIntFromFile(path)

	// THEN
	assert.Error(t, err)
}

func TestWriteIntToFile(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "pwm1")

	// WHEN
	err := WriteIntToFile(127, path)

	// THEN
	assert.NoError(t, err)
	value, err := ReadIntFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 127, value)
}

func TestWriteIntToFile_FollowsSymlink(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	target := filepath.Join(dir, "real_pwm1")
	link := filepath.Join(dir, "pwm1")
	assert.NoError(t, os.WriteFile(target, []byte("0"), 0644))
	assert.NoError(t, os.Symlink(target, link))

	// WHEN
	err := WriteIntToFile(200, link)

	// THEN
	assert.NoError(t, err)
	value, err := ReadIntFromFile(target)
	assert.NoError(t, err)
	assert.Equal(t, 200, value)
}

func TestWriteFileAtomic(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "ventora.toml")

	// WHEN
	err := WriteFileAtomic(path, "controlTickRate = '2s'\n")

	// THEN
	assert.NoError(t, err)
	text, err := ReadTrimmedString(path)
	assert.NoError(t, err)
	assert.Equal(t, "controlTickRate = '2s'", text)
}

func TestParseHexUint16(t *testing.T) {
	// GIVEN
	expectedInputOutput := map[string]uint16{
		"0x1234": 0x1234,
		"0x73bf": 0x73BF,
		"0xc1":   0xC1,
		"0X00":   0,
	}

	for input, output := range expectedInputOutput {
		// WHEN
		result, err := ParseHexUint16(input)

		// THEN
		assert.NoError(t, err)
		assert.Equal(t, output, result)
	}
}

func TestParseHexUint16_Invalid(t *testing.T) {
	for _, input := range []string{"invalid", "1234", "0x", "0x123456", "0xzz"} {
		// WHEN
		_, err := ParseHexUint16(input)

		// THEN
		assert.Error(t, err, input)
	}
}

func TestReadHexUint16(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "device")
	assert.NoError(t, os.WriteFile(path, []byte("0x1234\n"), 0644))

	// WHEN
	value, err := ReadHexUint16(path)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), value)
}

func TestResolveLinkBase(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	target := filepath.Join(dir, "devices", "pci0000:00", "0000:03:00.0")
	assert.NoError(t, os.MkdirAll(target, 0755))
	link := filepath.Join(dir, "device")
	assert.NoError(t, os.Symlink(target, link))

	// WHEN
	busId, err := ResolveLinkBase(link)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "0000:03:00.0", busId)
}

func TestResolveLinkBase_NotALink(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "device")
	assert.NoError(t, os.WriteFile(path, []byte(""), 0644))

	// WHEN
	_, err := ResolveLinkBase(path)

	// THEN
	assert.Error(t, err)
}
