package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "manual-1/guide.pdf", want: "manual-1/guide.pdf"},
		{name: "simple prefix", prefix: "root", key: "manual-1/guide.pdf", want: "root/manual-1/guide.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "manual-1/guide.pdf", want: "root/manual-1/guide.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/manual-1/guide.pdf", want: "root/manual-1/guide.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "manual-1/guide.pdf", want: "root/sub/manual-1/guide.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}
