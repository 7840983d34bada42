package domain

import (
	"math/rand"
	"strconv"
	"time"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewEntryID generates a row key from the current millisecond timestamp and a
// short random base36 suffix. The result is practically unique but carries no
// ordering or collision guarantee; callers must treat it as an opaque string.
func NewEntryID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + string(suffix)
}
