package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
)

// ReadTrimmedString reads the whole file and strips surrounding whitespace
func ReadTrimmedString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func ReadIntFromFile(path string) (value int, err error) {
	text, err := ReadTrimmedString(path)
	if err != nil {
		return -1, err
	}
	if len(text) <= 0 {
		return -1, fmt.Errorf("file is empty: %s", path)
	}
	value, err = strconv.Atoi(text)
	if err != nil {
		return -1, fmt.Errorf("failed to parse %q from %s: %w", text, path, err)
	}
	return value, nil
}

// WriteIntToFile writes a single integer to the given path.
// sysfs attributes cannot be replaced atomically, so this is a plain write.
func WriteIntToFile(value int, path string) error {
	evaluatedPath, err := filepath.EvalSymlinks(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	return os.WriteFile(path, []byte(strconv.Itoa(value)), 0644)
}

// WriteFileAtomic replaces the file at path with content in a single rename
func WriteFileAtomic(path string, content string) error {
	return atomic.WriteFile(path, strings.NewReader(content))
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadHexUint16 parses files like "0x73bf\n" as found in PCI device/revision attributes
func ReadHexUint16(path string) (uint16, error) {
	text, err := ReadTrimmedString(path)
	if err != nil {
		return 0, err
	}
	return ParseHexUint16(text)
}

func ParseHexUint16(text string) (uint16, error) {
	if !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
		return 0, fmt.Errorf("missing 0x prefix: %q", text)
	}
	value, err := strconv.ParseUint(text[2:], 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid hex value %q: %w", text, err)
	}
	return uint16(value), nil
}

// ResolveLinkBase returns the last path element of the symlink target at path,
// e.g. the PCI bus id "0000:03:00.0" for /sys/class/drm/card0/device
func ResolveLinkBase(path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	base := filepath.Base(target)
	if base == "." || base == string(filepath.Separator) {
		return "", errors.New("invalid link target: " + target)
	}
	return base, nil
}
