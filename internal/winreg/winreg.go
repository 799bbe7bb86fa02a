// Package winreg resolves keys of the live Windows registry for the
// enumeration core. On other platforms every OpenKey fails with
// ErrUnsupported.
package winreg

import (
	"errors"
	"fmt"

	"hivescan/internal/registry"
)

// maxValueNameLen is the documented limit for value names, in UTF-16
// units, excluding the terminator.
const maxValueNameLen = 16383

var (
	ErrUnsupported = errors.New("the windows registry is not available on this platform")
	ErrNameTooLong = errors.New("value name exceeds the registry limit")
)

// Resolver opens keys read-only. The zero value is ready to use.
type Resolver struct{}

func New() *Resolver {
	return &Resolver{}
}

// emptyBuffer reports MoreData for a zero-length buffer, which
// RegEnumValue cannot be handed.
func emptyBuffer(offeredName, offeredData uint32) (registry.Fetch, bool) {
	if offeredName > 0 && offeredData > 0 {
		return registry.Fetch{}, false
	}
	return registry.Fetch{
		Status:  registry.MoreData,
		NameLen: max(offeredName, 1),
		DataLen: max(offeredData, 1),
	}, true
}

// moreData maps an ERROR_MORE_DATA answer onto a Fetch. RegEnumValue
// writes back the required data size but not the required name size, so
// when the data already fits the name must be at fault: its requirement
// is doubled, up to the documented maximum. A name buffer already past
// that maximum cannot be the problem, and the index fails outright.
func moreData(gotName, gotData, offeredName, offeredData uint32) registry.Fetch {
	if gotName > offeredName || gotData > offeredData {
		return registry.Fetch{Status: registry.MoreData, NameLen: gotName, DataLen: gotData}
	}
	if offeredName > maxValueNameLen {
		return registry.Fetch{
			Status: registry.Failure,
			Err:    fmt.Errorf("%w: %d units offered", ErrNameTooLong, offeredName),
		}
	}
	return registry.Fetch{
		Status:  registry.MoreData,
		NameLen: min(max(offeredName*2, 1), maxValueNameLen+1),
		DataLen: gotData,
	}
}
