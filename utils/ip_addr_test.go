package utils

import (
	"net/http"
	"testing"
)

func TestGetIpAddress(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"plain ipv4", nil, "203.0.113.9:51234", "203.0.113.9"},
		{"ipv6 with brackets", nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"ipv4 mapped ipv6", nil, "[::ffff:203.0.113.9]:443", "203.0.113.9"},
		{"cloudflare header wins", map[string]string{"CF-Connecting-IP": "198.51.100.7"}, "203.0.113.9:1", "198.51.100.7"},
		{"forwarded-for first hop", map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.1"}, "203.0.113.9:1", "198.51.100.7"},
		{"no port", nil, "garbage", ""},
		{"empty", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var header http.Header
			if tt.headers != nil {
				header = http.Header{}
				for k, v := range tt.headers {
					header.Set(k, v)
				}
			}
			if got := GetIpAddress(header, tt.remoteAddr); got != tt.want {
				t.Errorf("GetIpAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}
