package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTextStripsTagsAndControls(t *testing.T) {
	got := sanitizeText("hi <script>alert('x')</script> there\x00!", maxMessageLen)
	assert.Equal(t, "hi alert('x') there!", got)

	got = sanitizeText("<img src=x onerror=alert(1)>plain", maxTargetLen)
	assert.Equal(t, "plain", got)

	got = sanitizeText(strings.Repeat("a", 500), maxTargetLen)
	assert.Len(t, got, maxTargetLen)
}

func TestCommandSanitizeLowersAction(t *testing.T) {
	c := &Command{Action: "  GATHER<b> ", Target: " moonstone\n"}
	c.sanitize()
	assert.Equal(t, "gather", c.Action)
	assert.Equal(t, "moonstone", c.Target)
}
