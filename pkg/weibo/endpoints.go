package weibo

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// BaseURL is the default base URL for the mobile Weibo API.
	BaseURL = "https://m.weibo.cn"

	// SearchEndpoint is the container index endpoint used for keyword search.
	SearchEndpoint = "/api/container/getIndex"

	// containerIDTemplate embeds the percent-encoded keyword in the
	// provider-specific composite container identifier.
	containerIDTemplate = "100103type=1&q=%s"
)

// SearchContainerID builds the provider-specific container identifier
// for a keyword search.
func SearchContainerID(keyword string) string {
	return fmt.Sprintf(containerIDTemplate, url.QueryEscape(keyword))
}

// SearchURL constructs the URL for one page of keyword search results.
func SearchURL(baseURL, keyword string, page int) string {
	if baseURL == "" {
		baseURL = BaseURL
	}
	params := url.Values{}
	params.Set("containerid", SearchContainerID(keyword))
	params.Set("page_type", "searchall")
	params.Set("page", strconv.Itoa(page))

	return fmt.Sprintf("%s%s?%s", baseURL, SearchEndpoint, params.Encode())
}
