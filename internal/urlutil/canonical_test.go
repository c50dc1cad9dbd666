package urlutil

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://cfcarts.com", "https://cfcarts.com/", false},
		{"https://cfcarts.com/", "https://cfcarts.com/", false},
		{"HTTPS://CFCarts.com:443/", "https://cfcarts.com/", false},
		{"http://cfcarts.com:80/about/", "http://cfcarts.com/about", false},
		{"https://cfcarts.com./#top", "https://cfcarts.com/", false},
		{"https://cfcarts.com:8443", "https://cfcarts.com:8443/", false},
		{"ftp://cfcarts.com", "", true},
		{"/relative", "", true},
		{"://bad", "", true},
	}

	for _, tt := range tests {
		got, err := Canonicalize(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Canonicalize(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Canonicalize(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSame(t *testing.T) {
	if !Same("https://cfcarts.com", "https://cfcarts.com/") {
		t.Error("root with and without slash should match")
	}
	if Same("https://cfcarts.com", "http://cfcarts.com") {
		t.Error("scheme must matter")
	}
	if Same("https://cfcarts.com", "/") {
		t.Error("relative url should never match")
	}
}

func TestCanonicalize_IPv6(t *testing.T) {
	got, err := Canonicalize("http://[::1]:80/x/")
	if err != nil || got != "http://[::1]/x" {
		t.Errorf("Expected http://[::1]/x, got %q (%v)", got, err)
	}
	got, err = Canonicalize("https://[::1]:8443")
	if err != nil || got != "https://[::1]:8443/" {
		t.Errorf("Expected https://[::1]:8443/, got %q (%v)", got, err)
	}
}
