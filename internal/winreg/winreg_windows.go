//go:build windows

package winreg

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"hivescan/internal/registry"
)

var procRegEnumValueW = windows.NewLazySystemDLL("advapi32.dll").NewProc("RegEnumValueW")

var predefined = map[registry.Root]windows.Handle{
	registry.ClassesRoot:   windows.HKEY_CLASSES_ROOT,
	registry.CurrentUser:   windows.HKEY_CURRENT_USER,
	registry.LocalMachine:  windows.HKEY_LOCAL_MACHINE,
	registry.Users:         windows.HKEY_USERS,
	registry.CurrentConfig: windows.HKEY_CURRENT_CONFIG,
}

// regEnumValue calls RegEnumValueW. The function returns its status code
// directly rather than through GetLastError.
func regEnumValue(key windows.Handle, index uint32, name *uint16, nameLen *uint32, typ *uint32, data *byte, dataLen *uint32) error {
	r0, _, _ := procRegEnumValueW.Call(
		uintptr(key),
		uintptr(index),
		uintptr(unsafe.Pointer(name)),
		uintptr(unsafe.Pointer(nameLen)),
		0,
		uintptr(unsafe.Pointer(typ)),
		uintptr(unsafe.Pointer(data)),
		uintptr(unsafe.Pointer(dataLen)),
	)
	if r0 != 0 {
		return syscall.Errno(r0)
	}
	return nil
}

// OpenKey implements registry.Resolver.
func (r *Resolver) OpenKey(root registry.Root, path string) (registry.Key, error) {
	parent, ok := predefined[root]
	if !ok {
		return nil, fmt.Errorf("%w: %d", registry.ErrUnknownRoot, root)
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("encoding path: %w", err)
	}
	var h windows.Handle
	if err := windows.RegOpenKeyEx(parent, p, 0, windows.KEY_READ, &h); err != nil {
		return nil, fmt.Errorf("opening %s\\%s: %w", root.Short(), path, err)
	}
	return &key{h: h}, nil
}

type key struct {
	h windows.Handle
}

func (k *key) ValueCount() (uint32, error) {
	var n uint32
	err := windows.RegQueryInfoKey(k.h, nil, nil, nil, nil, nil, nil, &n, nil, nil, nil, nil)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (k *key) FetchValue(index uint32, name []uint16, data []byte) registry.Fetch {
	offeredName, offeredData := uint32(len(name)), uint32(len(data))
	if f, empty := emptyBuffer(offeredName, offeredData); empty {
		return f
	}
	nameLen, dataLen := offeredName, offeredData
	var typ uint32

	err := regEnumValue(k.h, index, &name[0], &nameLen, &typ, &data[0], &dataLen)
	switch {
	case err == nil:
		return registry.Fetch{
			Status:  registry.Success,
			NameLen: nameLen,
			DataLen: dataLen,
			Type:    registry.Type(typ),
		}
	case errors.Is(err, windows.ERROR_MORE_DATA):
		return moreData(nameLen, dataLen, offeredName, offeredData)
	default:
		return registry.Fetch{Status: registry.Failure, Err: err}
	}
}

func (k *key) Close() error {
	return windows.RegCloseKey(k.h)
}
