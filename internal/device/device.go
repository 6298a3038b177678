package device

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ocfox/ventora/internal/ids"
	"github.com/ocfox/ventora/internal/sysfs"
	"github.com/ocfox/ventora/internal/ui"
	"github.com/ocfox/ventora/internal/util"
)

// AmdPciVendorId is the PCI vendor id of AMD/ATI as reported in the uevent file
const AmdPciVendorId = "1002"

var (
	ErrDeviceNotFound     = errors.New("no AMD GPU with this bus id")
	ErrUnrecognizedDevice = errors.New("unrecognized graphics card")

	cardNamePattern = regexp.MustCompile(`^card\d+$`)
)

// Device is a single AMD GPU as exposed below /sys/class/drm/cardN
type Device struct {
	// Card is the drm entry name, e.g. "card0"
	Card string `json:"card"`
	// Path is the resolved "device" directory of the card
	Path string `json:"path"`
	// BusId is the PCI address, e.g. "0000:03:00.0"
	BusId string `json:"busId"`
	// HwmonPath is the hwmon directory of the card, empty if the driver exposes none
	HwmonPath string `json:"hwmonPath"`
}

func (d Device) GetId() string {
	return d.BusId
}

// FindCards lists all AMD GPUs known to the drm subsystem
func FindCards(paths sysfs.Paths) ([]*Device, error) {
	entries, err := os.ReadDir(paths.Drm())
	if err != nil {
		return nil, err
	}

	var cards []*Device
	for _, entry := range entries {
		name := entry.Name()
		if !cardNamePattern.MatchString(name) {
			continue
		}

		devicePath := filepath.Join(paths.Drm(), name, "device")
		uevent, err := util.ReadTrimmedString(filepath.Join(devicePath, "uevent"))
		if err != nil {
			continue
		}
		if !strings.Contains(uevent, "PCI_ID="+AmdPciVendorId) {
			continue
		}

		busId, err := util.ResolveLinkBase(devicePath)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve bus id of %s: %w", name, err)
		}

		hwmonPath, err := findHwmonPath(devicePath)
		if err != nil {
			ui.Warning("No hwmon interface found for %s (%s): %v", name, busId, err)
		}

		cards = append(cards, &Device{
			Card:      name,
			Path:      devicePath,
			BusId:     busId,
			HwmonPath: hwmonPath,
		})
	}

	sort.Slice(cards, func(i, j int) bool {
		return cards[i].BusId < cards[j].BusId
	})
	return cards, nil
}

// FindCard returns the AMD GPU with the given PCI bus id
func FindCard(paths sysfs.Paths, busId string) (*Device, error) {
	cards, err := FindCards(paths)
	if err != nil {
		return nil, err
	}
	for _, card := range cards {
		if card.BusId == busId {
			return card, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, busId)
}

func findHwmonPath(devicePath string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(devicePath, "hwmon"))
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "hwmon") {
			return filepath.Join(devicePath, "hwmon", entry.Name()), nil
		}
	}
	return "", os.ErrNotExist
}

// ProductName resolves the marketing name from the PCI device and revision ids
func (d Device) ProductName() (string, error) {
	deviceId, err := util.ReadHexUint16(filepath.Join(d.Path, "device"))
	if err != nil {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}
	revisionId, err := util.ReadHexUint16(filepath.Join(d.Path, "revision"))
	if err != nil {
		return "", fmt.Errorf("failed to read revision id: %w", err)
	}

	name, ok := ids.ProductName(deviceId, revisionId)
	if !ok {
		return "", fmt.Errorf("%w: 0x%04x rev 0x%02x", ErrUnrecognizedDevice, deviceId, revisionId)
	}
	return name, nil
}
