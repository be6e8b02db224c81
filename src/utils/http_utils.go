package utils

import (
	"net/http"
	"strings"
)

// NextPageURL returns the target of the rel="next" entry of the Link headers,
// or "" when there is none. Entries look like
// <https://shop/admin/api/2024-07/orders.json?page_info=abc&limit=250>; rel="next"
func NextPageURL(header http.Header) string {
	for _, value := range header.Values("Link") {
		for _, link := range strings.Split(value, ",") {
			if url, rel := parseLink(link); rel == "next" {
				return url
			}
		}
	}
	return ""
}

func parseLink(link string) (url, rel string) {
	parts := strings.Split(link, ";")
	target := strings.TrimSpace(parts[0])
	if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
		return "", ""
	}
	url = strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")

	for _, param := range parts[1:] {
		key, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}
		for _, r := range strings.Fields(strings.Trim(strings.TrimSpace(value), `"`)) {
			if strings.EqualFold(r, "next") {
				return url, "next"
			}
		}
		rel = value
	}
	return url, rel
}
