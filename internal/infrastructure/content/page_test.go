package content

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_InlineDataHasEmptyOrigin(t *testing.T) {
	page, err := LoadFile("testdata/geolocation.html", LoadOptions{})
	require.NoError(t, err)

	assert.Empty(t, page.URL)
	assert.Empty(t, page.Origin)
	assert.Equal(t, "Geolocation", page.Title)
	require.Len(t, page.Scripts, 1)
	assert.Equal(t, "geolocation.html#0", page.Scripts[0].Name)
	assert.Contains(t, page.Scripts[0].Source, "getCurrentPosition")
}

func TestLoadFile_BaseURLSetsOrigin(t *testing.T) {
	page, err := LoadFile("testdata/geolocation.html", LoadOptions{BaseURL: "HTTPS://Maps.Example:443/geo"})
	require.NoError(t, err)

	assert.Equal(t, "HTTPS://Maps.Example:443/geo", page.URL)
	assert.Equal(t, "https://maps.example", page.Origin)
}

func TestLoadFile_SkipsExternalAndNonJavaScriptScripts(t *testing.T) {
	page, err := LoadFile("testdata/watch.html", LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Skipped)
	assert.Len(t, page.Scripts, 2)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/nope.html", LoadOptions{})
	assert.ErrorContains(t, err, "read page")
}

func TestParseDataURL(t *testing.T) {
	doc := `<html><body><script>console.log("hi")</script></body></html>`
	raw := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(doc))

	page, err := ParseDataURL(raw)
	require.NoError(t, err)

	assert.Empty(t, page.Origin)
	require.Len(t, page.Scripts, 1)
	assert.Equal(t, `console.log("hi")`, page.Scripts[0].Source)
}

func TestParseDataURL_RejectsNonHTML(t *testing.T) {
	raw := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'})

	_, err := ParseDataURL(raw)
	assert.ErrorIs(t, err, ErrUnsupportedPage)
}

func TestOpen_RejectsNetworkURLs(t *testing.T) {
	_, err := Open("http://html5demos.com/geo", LoadOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedPage)
}

func TestParse_ScriptOrder(t *testing.T) {
	page, err := Parse("inline", strings.NewReader(`
		<script>var a = 1;</script>
		<div><script type="text/javascript">var b = 2;</script></div>
		<script type="module">import x from "y";</script>
	`), "")
	require.NoError(t, err)

	require.Len(t, page.Scripts, 2)
	assert.Equal(t, "var a = 1;", page.Scripts[0].Source)
	assert.Equal(t, "inline#1", page.Scripts[1].Name)
	assert.Equal(t, 1, page.Skipped)
}
