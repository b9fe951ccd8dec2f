package render

import (
	"os/exec"
	"testing"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

func TestMissingConverter(t *testing.T) {
	orig := lookPath
	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	t.Cleanup(func() { lookPath = orig })

	if Available() {
		t.Error("Available() = true without rsvg-convert")
	}
	_, err := ToPDF([]byte("<svg/>"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF err = %v, want UNSUPPORTED", err)
	}
	_, err = ToPNG([]byte("<svg/>"), 2)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG err = %v, want UNSUPPORTED", err)
	}
}

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	out, err := ToPNG([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) < 8 || string(out[1:4]) != "PNG" {
		t.Errorf("output is not a PNG")
	}
}
