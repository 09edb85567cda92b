//go:build windows

package playback

import "os"

func processTerminateSignal() os.Signal {
	return os.Kill
}
