package ids

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

//go:embed amdgpu.ids
var amdgpuIds string

type DeviceInfo struct {
	DeviceId    uint16
	RevisionId  uint16
	ProductName string
}

type key struct {
	deviceId   uint16
	revisionId uint16
}

var (
	tableOnce sync.Once
	table     map[key]string
)

// ParseLine parses a single "DEVID,\tREVID,\tNAME" line of the amdgpu.ids table
func ParseLine(line string) (DeviceInfo, error) {
	parts := strings.SplitN(line, ",", 3)
	if len(parts) != 3 {
		return DeviceInfo{}, errors.New("expected 3 comma separated fields")
	}
	deviceId, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 16, 16)
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("invalid device id: %w", err)
	}
	revisionId, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 16, 16)
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("invalid revision id: %w", err)
	}
	name := strings.TrimSpace(parts[2])
	if len(name) <= 0 {
		return DeviceInfo{}, errors.New("missing product name")
	}
	return DeviceInfo{
		DeviceId:    uint16(deviceId),
		RevisionId:  uint16(revisionId),
		ProductName: name,
	}, nil
}

// Parse reads all entries of the given table, skipping comments and
// lines that cannot be parsed (like the version header)
func Parse(contents string) []DeviceInfo {
	var result []DeviceInfo
	for _, line := range strings.Split(contents, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		info, err := ParseLine(line)
		if err != nil {
			continue
		}
		result = append(result, info)
	}
	return result
}

// ProductName looks up the marketing name of the given device/revision pair
func ProductName(deviceId uint16, revisionId uint16) (string, bool) {
	tableOnce.Do(func() {
		table = map[key]string{}
		for _, info := range Parse(amdgpuIds) {
			k := key{deviceId: info.DeviceId, revisionId: info.RevisionId}
			if _, exists := table[k]; !exists {
				table[k] = info.ProductName
			}
		}
	})
	name, ok := table[key{deviceId: deviceId, revisionId: revisionId}]
	return name, ok
}
