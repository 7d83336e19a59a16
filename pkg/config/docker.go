package config

import (
	"os"
	"sync"
)

var (
	inContainerOnce   sync.Once
	inContainerResult bool
)

// runningInContainer reports whether /.dockerenv exists. Cached after the first call.
func runningInContainer() bool {
	inContainerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		inContainerResult = err == nil
	})
	return inContainerResult
}

// resolveHost points loopback database hosts at the container host when the
// service itself runs inside Docker.
func resolveHost(host string) string {
	if !runningInContainer() {
		return host
	}
	if host == "localhost" || host == "127.0.0.1" {
		return "host.docker.internal"
	}
	return host
}
