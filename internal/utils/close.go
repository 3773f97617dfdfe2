package utils

import "io"

// maxDrainBytes bounds how much of an unread body is discarded before closing.
const maxDrainBytes = 64 << 10

// DrainAndClose discards what is left of an HTTP response body (up to 64 KiB)
// and closes it, so the underlying connection can be reused.
func DrainAndClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, maxDrainBytes))
	_ = rc.Close()
}
