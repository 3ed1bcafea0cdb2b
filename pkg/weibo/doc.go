// Package weibo provides a typed HTTP client for the mobile Weibo API.
//
// It covers the container search index endpoint used for keyword crawls:
// URL construction, the fixed request header set, JSON response models
// for the card structures, and a typed error taxonomy that the fetch
// loop uses to distinguish transient failures from fatal ones.
package weibo
