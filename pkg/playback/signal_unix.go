//go:build !windows

package playback

import "syscall"

func processTerminateSignal() syscall.Signal {
	return syscall.SIGTERM
}
