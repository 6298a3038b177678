package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

const busId = "0000:03:00.0"

func createPersistence(t *testing.T) (Persistence, string) {
	dbPath := filepath.Join(t.TempDir(), "ventora", "ventora.db")
	p := NewPersistence(dbPath)
	require.NoError(t, p.Init())
	return p, dbPath
}

func TestPersistence_Init_CreatesParentDir(t *testing.T) {
	// GIVEN
	dbPath := filepath.Join(t.TempDir(), "a", "b", "ventora.db")
	p := NewPersistence(dbPath)

	// WHEN
	err := p.Init()

	// THEN
	assert.NoError(t, err)
	assert.DirExists(t, filepath.Dir(dbPath))
}

func TestPersistence_SaveAndLoadDeviceState(t *testing.T) {
	// GIVEN
	p, _ := createPersistence(t)
	expected := DeviceState{OriginalPwmEnable: 2, LastPercent: 42}

	// WHEN
	err := p.SaveDeviceState(busId, expected)
	require.NoError(t, err)
	state, err := p.LoadDeviceState(busId)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, expected, *state)
}

func TestPersistence_LoadDeviceState_Missing(t *testing.T) {
	// GIVEN
	p, _ := createPersistence(t)

	// WHEN
	state, err := p.LoadDeviceState(busId)

	// THEN
	assert.Nil(t, state)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPersistence_DeleteDeviceState(t *testing.T) {
	// GIVEN
	p, _ := createPersistence(t)
	_ = p.SaveDeviceState(busId, DeviceState{OriginalPwmEnable: 2})

	// WHEN
	err := p.DeleteDeviceState(busId)
	assert.NoError(t, err)

	// THEN
	state, err := p.LoadDeviceState(busId)
	assert.Nil(t, state)
	assert.Error(t, err)
}

func TestPersistence_DeleteDeviceState_NoBucket(t *testing.T) {
	// GIVEN
	p, _ := createPersistence(t)

	// WHEN
	err := p.DeleteDeviceState(busId)

	// THEN
	assert.NoError(t, err)
}

func TestPersistence_LoadDeviceState_CorruptEntryIsDeleted(t *testing.T) {
	// GIVEN
	p, dbPath := createPersistence(t)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	require.NoError(t, err)
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketDevices))
		if err != nil {
			return err
		}
		return b.Put([]byte(busId), []byte("{not json"))
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// WHEN
	state, err := p.LoadDeviceState(busId)

	// THEN
	assert.Nil(t, state)
	assert.ErrorIs(t, err, os.ErrNotExist)

	db, err = bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	_ = db.View(func(tx *bolt.Tx) error {
		assert.Nil(t, tx.Bucket([]byte(BucketDevices)).Get([]byte(busId)))
		return nil
	})
}
