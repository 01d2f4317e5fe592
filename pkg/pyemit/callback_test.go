package pyemit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/botforge/pkg/pyemit"
)

func TestCallbackData(t *testing.T) {
	assert.Equal(t, "m1", pyemit.CallbackData("m1"))

	long := strings.Repeat("x", 80)
	got := pyemit.CallbackData(long)
	assert.LessOrEqual(t, len(got), pyemit.MaxCallbackData)
	assert.True(t, strings.HasPrefix(got, "n_"))
	assert.Equal(t, got, pyemit.CallbackData(long))
	assert.NotEqual(t, got, pyemit.CallbackData(long+"y"))
}

func TestMultiSelectData(t *testing.T) {
	assert.Equal(t, "ms:pick:2", pyemit.ToggleData("pick", 2))
	assert.Equal(t, "ms_done:pick", pyemit.DoneData("pick"))
	assert.LessOrEqual(t, len(pyemit.DoneData(strings.Repeat("p", 70))), pyemit.MaxCallbackData)
}
