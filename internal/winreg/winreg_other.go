//go:build !windows

package winreg

import "hivescan/internal/registry"

func (r *Resolver) OpenKey(root registry.Root, path string) (registry.Key, error) {
	return nil, ErrUnsupported
}
