package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantNot []string
	}{
		{
			name: "scripts and styles removed",
			input: `<html>
				<head>
					<title>Test Page</title>
					<script>alert('evil');</script>
					<style>body { color: red; }</style>
				</head>
				<body>
					<h1 id="main-title">Hello World</h1>
					<p class="intro">This is a test.</p>
				</body>
			</html>`,
			want:    []string{"Hello World", "This is a test."},
			wantNot: []string{"alert", "color: red", "Test Page"},
		},
		{
			name: "hidden elements skipped",
			input: `<body>
				<div hidden>secret one</div>
				<div style="display: none">secret two</div>
				<span style="visibility:hidden">secret three</span>
				<p>shown</p>
			</body>`,
			want:    []string{"shown"},
			wantNot: []string{"secret"},
		},
		{
			name:    "comments skipped",
			input:   `<body><!-- note -->visible</body>`,
			want:    []string{"visible"},
			wantNot: []string{"note"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractText(tt.input)
			require.NoError(t, err)
			for _, s := range tt.want {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.wantNot {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestExtractText_Layout(t *testing.T) {
	got, err := extractText(`<body><div>  Order
		<b>#42</b>  </div><div>Status: <span>shipped</span></div>line<br>break</body>`)
	require.NoError(t, err)
	assert.Equal(t, "Order #42\nStatus: shipped\nline\nbreak", got)
}
