//go:build windows

package retrobar

import "syscall"

const createNoWindow = 0x08000000

func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow,
	}
}
