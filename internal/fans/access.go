package fans

import (
	"os"

	"github.com/ocfox/ventora/internal/util"
)

// FileAccess abstracts the sysfs attribute files of a PWM channel
type FileAccess interface {
	Exists(path string) bool
	ReadInt(path string) (int, error)
	WriteInt(path string, value int) error
}

// SysfsAccess reads and writes the real attribute files
type SysfsAccess struct{}

func (SysfsAccess) Exists(path string) bool {
	return util.FileExists(path)
}

func (SysfsAccess) ReadInt(path string) (int, error) {
	return util.ReadIntFromFile(path)
}

func (SysfsAccess) WriteInt(path string, value int) error {
	return util.WriteIntToFile(value, path)
}

// PrivilegeChecker decides whether the current process may change fan settings
type PrivilegeChecker interface {
	IsPrivileged() bool
}

// RootPrivilege grants access to processes running with effective uid 0
type RootPrivilege struct{}

func (RootPrivilege) IsPrivileged() bool {
	return os.Geteuid() == 0
}

// PrivilegeFunc adapts a plain function to a PrivilegeChecker
type PrivilegeFunc func() bool

func (f PrivilegeFunc) IsPrivileged() bool {
	return f()
}
