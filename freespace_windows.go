//go:build windows

package main

import "golang.org/x/sys/windows"

// getFreeSpace returns the bytes available to the caller on the volume holding path
func getFreeSpace(path string) (uint64, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	var available, total, free uint64
	if err := windows.GetDiskFreeSpaceEx(p, &available, &total, &free); err != nil {
		return 0, err
	}
	return available, nil
}
