package weibo

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchContainerID(t *testing.T) {
	assert.Equal(t, "100103type=1&q=hello", SearchContainerID("hello"))

	// Chinese keywords must be percent-encoded inside the container id.
	id := SearchContainerID("疫苗")
	assert.Equal(t, "100103type=1&q="+url.QueryEscape("疫苗"), id)
	assert.NotContains(t, id, "疫苗")
}

func TestSearchURL(t *testing.T) {
	rawURL := SearchURL("", "疫苗", 3)
	assert.True(t, strings.HasPrefix(rawURL, BaseURL+SearchEndpoint+"?"))

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, SearchContainerID("疫苗"), query.Get("containerid"))
	assert.Equal(t, "searchall", query.Get("page_type"))
	assert.Equal(t, "3", query.Get("page"))
}

func TestSearchURLCustomBase(t *testing.T) {
	rawURL := SearchURL("http://127.0.0.1:8080", "test", 1)
	assert.True(t, strings.HasPrefix(rawURL, "http://127.0.0.1:8080"+SearchEndpoint))
}
