package pseudonym

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfIsStableAndKeyed(t *testing.T) {
	a := New("key-a")
	b := New("key-b")

	first := a.Of("student-1")
	assert.Equal(t, first, a.Of("student-1"))
	assert.NotEqual(t, first, a.Of("student-2"))
	assert.NotEqual(t, first, b.Of("student-1"))
	assert.True(t, strings.HasPrefix(first, "u_"))
	assert.NotContains(t, first, "student")
	assert.Len(t, first, 2+16)
}

func TestOfEmptyID(t *testing.T) {
	assert.Equal(t, "", New("k").Of(""))
}

func TestOfTruncatesLongKey(t *testing.T) {
	h := New(strings.Repeat("x", 100))
	assert.NotEqual(t, "invalid-key", h.Of("student-1"))
}
