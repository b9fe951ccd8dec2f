package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	i := Get()
	if i.Version == "" || i.Commit == "" || i.Date == "" {
		t.Errorf("Get() has empty fields: %+v", i)
	}
	if Get() != i {
		t.Error("Get() is not stable")
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} "+Get().Version) {
		t.Errorf("Template() = %q", tmpl)
	}
	if !strings.Contains(String(), "commit: "+Get().Commit) {
		t.Errorf("String() = %q", String())
	}
}
