package textx_test

import (
	"testing"

	"github.com/aussiebroadwan/roster/pkg/textx"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Hello, World!", "Hello, World!"},
		{"arabic", "برمجة وتصميم", "برمجة وتصميم"},
		{"trims", "  spaced  ", "spaced"},
		{"strips tags", "<p><strong>Bold</strong> text</p>", "Bold text"},
		{"removes script", "<script>alert('xss')</script>hello", "hello"},
		{"drops attributes", `<a href="javascript:alert(1)">click</a>`, "click"},
		{"keeps ampersand", "Tom & Jerry", "Tom & Jerry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, textx.Sanitize(tt.in))
		})
	}
}

func TestLength(t *testing.T) {
	require.Equal(t, 5, textx.Length("hello"))
	require.Equal(t, 4, textx.Length("علوم"))
}
