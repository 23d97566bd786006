//go:build !(linux || darwin || freebsd || windows)

package main

import "errors"

func getFreeSpace(string) (uint64, error) {
	return 0, errors.New("free space check not supported on this platform")
}
