package helpers

import "testing"

func TestNormalizedDomain(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.example.com/path", "example.com"},
		{"https://Example.COM:443/x", "example.com"},
		{"http://news.example.com:80/a", "news.example.com"},
		{"https://sub.news.example.com/a?b=c", "sub.news.example.com"},
		{"not a url", "unknown"},
		{"", "unknown"},
	}
	for _, tc := range cases {
		if got := NormalizedDomain(tc.in); got != tc.want {
			t.Errorf("NormalizedDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
