package handler

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jolt-ai/jolt-host/src/jolt/internal/serverinfofile"
)

const _infoKeyPID = "host-pid"

// outputHostInfo publishes the host process ID so that plugins can tell a stale info file from a live host.
// The JSON-RPC inbound adds its own bound address to the same file once it is listening.
func outputHostInfo(infofile serverinfofile.ServerInfoFile) error {
	if err := infofile.UpdateField(_infoKeyPID, strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("outputting %q to info file: %w", _infoKeyPID, err)
	}
	return nil
}
