package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "disk.img", truncateString("disk.img", 20))
	assert.Equal(t, "...ages/disk.img", truncateString("/var/lib/images/disk.img", 16))
	assert.Equal(t, "img", truncateString("disk.img", 3))
}
