package utils

import (
	"net/http"
	"testing"
)

func TestNextPageURL(t *testing.T) {
	tests := []struct {
		name  string
		links []string
		want  string
	}{
		{
			name:  "no header",
			links: nil,
			want:  "",
		},
		{
			name:  "next only",
			links: []string{`<https://shop.example/admin/api/2024-07/orders.json?limit=250&page_info=abc>; rel="next"`},
			want:  "https://shop.example/admin/api/2024-07/orders.json?limit=250&page_info=abc",
		},
		{
			name:  "previous and next in one header",
			links: []string{`<https://shop.example/orders.json?page_info=prev>; rel="previous", <https://shop.example/orders.json?page_info=nxt>; rel="next"`},
			want:  "https://shop.example/orders.json?page_info=nxt",
		},
		{
			name:  "previous only",
			links: []string{`<https://shop.example/orders.json?page_info=prev>; rel="previous"`},
			want:  "",
		},
		{
			name:  "separate header values and unquoted rel",
			links: []string{`<https://a.example/1>; rel=previous`, `<https://a.example/2>; rel=next`},
			want:  "https://a.example/2",
		},
		{
			name:  "malformed target ignored",
			links: []string{`https://a.example/2; rel="next"`},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			for _, l := range tt.links {
				header.Add("Link", l)
			}
			if got := NextPageURL(header); got != tt.want {
				t.Errorf("NextPageURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
