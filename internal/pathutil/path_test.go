package pathutil

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{`bin\app.exe`, "bin/app.exe", true},
		{`C:\Program Files\App\app.exe`, "Program Files/App/app.exe", true},
		{`\\server\share\x.txt`, "server/share/x.txt", true},
		{`/etc/passwd`, "etc/passwd", true},
		{`a\..\..\b`, "a/b", true},
		{`.\readme.txt`, "readme.txt", true},
		{`dir\\\file`, "dir/file", true},
		{`what?.txt`, "what_.txt", true},
		{"tab\there", "tab_here", true},
		{`a<b>c|d*e"f`, "a_b_c_d_e_f", true},
		{`data\café.dat`, "data/café.dat", true},
		{`c:x`, "x", true},
		{`1:x`, "1_x", true},
		{"", "", false},
		{`..\..`, "", false},
		{`C:\`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Sanitize(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.True(t, fs.ValidPath(got), "fs.ValidPath(%q)", got)
			}
		})
	}
}

func TestSanitizeClampsComponents(t *testing.T) {
	long := strings.Repeat("é", 200) // 400 bytes
	got, ok := Sanitize(`dir\` + long)
	assert.True(t, ok)
	name := strings.TrimPrefix(got, "dir/")
	assert.LessOrEqual(t, len(name), MaxComponent)
	assert.Equal(t, strings.Repeat("é", 127), name)
}

func TestSanitizeClampsPath(t *testing.T) {
	elem := strings.Repeat("a", 100)
	raw := strings.Repeat(elem+`\`, 60)
	got, ok := Sanitize(raw)
	assert.True(t, ok)
	assert.LessOrEqual(t, len(got), MaxPath)
	assert.True(t, fs.ValidPath(got))
	assert.False(t, strings.HasSuffix(got, "/"))
}
