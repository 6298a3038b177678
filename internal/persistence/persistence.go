package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ocfox/ventora/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketDevices = "devices"
)

// DeviceState is what is remembered about a device across restarts
type DeviceState struct {
	// pwm_enable value found before ventora took over the device
	OriginalPwmEnable int `json:"originalPwmEnable"`
	// last duty cycle successfully applied
	LastPercent int `json:"lastPercent"`
}

type Persistence interface {
	Init() error

	LoadDeviceState(busId string) (*DeviceState, error)
	SaveDeviceState(busId string, state DeviceState) error
	DeleteDeviceState(busId string) error
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// SaveDeviceState saves the state of the given device to persistence
func (p persistence) SaveDeviceState(busId string, state DeviceState) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketDevices))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(busId), data)
	})
}

// LoadDeviceState loads the state of the given device from persistence.
// os.ErrNotExist is returned if nothing was saved for it yet.
func (p persistence) LoadDeviceState(busId string) (*DeviceState, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var state *DeviceState
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketDevices))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(busId))
		if v == nil {
			return os.ErrNotExist
		}

		var result DeviceState
		err := json.Unmarshal(v, &result)
		if err != nil {
			// if we cannot read the saved data, delete it
			ui.Warning("Unable to unmarshal saved device data for %s: %v", busId, err)
			err := b.Delete([]byte(busId))
			if err != nil {
				ui.Error("Unable to delete corrupt data key %s: %v", busId, err)
			}
			return nil
		}

		state = &result
		return nil
	})
	if err == nil && state == nil {
		err = os.ErrNotExist
	}

	return state, err
}

func (p persistence) DeleteDeviceState(busId string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketDevices))
		if b == nil {
			// no device bucket yet
			return nil
		}
		v := b.Get([]byte(busId))
		if v == nil {
			return nil
		}
		return b.Delete([]byte(busId))
	})
}
