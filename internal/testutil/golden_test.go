package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	assert.Empty(t, Diff("same", "a\nb\n", "a\nb\n"))

	d := Diff("out", "a\nb\nc\n", "a\nB\nc\n")
	assert.Contains(t, d, "--- out (golden)")
	assert.Contains(t, d, "+++ out (actual)")
	assert.Contains(t, d, "-b\n")
	assert.Contains(t, d, "+B\n")
}

func TestGolden(t *testing.T) {
	Golden(t, "sample", []byte("line one\nline two\n"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\nb\n", normalize("a\r\nb\r\n"))
}
