package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	Version, Commit = "v0.3.0", "none"
	if got := Short(); got != "v0.3.0" {
		t.Errorf("Short() = %q", got)
	}
	Commit = "0123456789abcdef"
	if got := Short(); got != "v0.3.0 (0123456)" {
		t.Errorf("Short() = %q", got)
	}
	if !strings.Contains(Template(), "{{.Name}} version v0.3.0") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.HasPrefix(String(), "version: v0.3.0\n") {
		t.Errorf("String() = %q", String())
	}
}
