//go:build !windows

package retrobar

import "syscall"

func detachedAttr() *syscall.SysProcAttr {
	return nil
}
