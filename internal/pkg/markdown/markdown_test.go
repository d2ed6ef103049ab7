package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	assert.Equal(t, "", Render("   "))
	assert.Equal(t, "<p>Already <b>html</b></p>", Render("<p>Already <b>html</b></p>"))

	out := Render("# Grace\n\nSaved **through** faith")
	assert.Contains(t, out, "<h1>Grace</h1>")
	assert.Contains(t, out, "<strong>through</strong>")

	table := Render("| a | b |\n|---|---|\n| 1 | 2 |")
	assert.Contains(t, table, "<table>")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Hello world", Excerpt("<p>Hello <em>world</em></p>", 50))
	assert.Equal(t, "Fish & loaves", Excerpt("<p>Fish &amp; loaves</p>", 50))
	assert.Equal(t, "Psalm 23", Excerpt("<p>Psalm<script>alert(1)</script> 23</p>", 50))

	long := Excerpt("In the beginning was the Word, and the Word was with God", 20)
	assert.Equal(t, "In the beginning was…", long)
}
