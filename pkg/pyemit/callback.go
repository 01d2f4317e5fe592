package pyemit

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// MaxCallbackData is Telegram's limit for callback_data, in bytes.
const MaxCallbackData = 64

// CallbackData is the callback_data a button uses to reach key. Keys longer
// than Telegram allows are replaced by a stable digest.
func CallbackData(key string) string {
	if len(key) <= MaxCallbackData {
		return key
	}
	sum := sha1.Sum([]byte(key))
	return "n_" + hex.EncodeToString(sum[:])[:24]
}

// ToggleData is the callback_data of option index of a multi-select node.
func ToggleData(nodeID string, index int) string {
	return CallbackData("ms:" + nodeID + ":" + strconv.Itoa(index))
}

// DoneData is the callback_data of a multi-select continue button.
func DoneData(nodeID string) string {
	return CallbackData("ms_done:" + nodeID)
}
