package text

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("short message unchanged", func(t *testing.T) {
		assert.Equal(t, "bucket is public", truncate("bucket is\npublic"))
	})

	t.Run("ascii", func(t *testing.T) {
		got := truncate(strings.Repeat("a", maxMessageLen+10))
		assert.Len(t, got, maxMessageLen)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("multi-byte rune at the cut", func(t *testing.T) {
		msg := strings.Repeat("a", maxMessageLen-4) + "ééé"
		got := truncate(msg)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, strings.Repeat("a", maxMessageLen-4)+"...", got)
	})
}
