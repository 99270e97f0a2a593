package main

import (
	"os/exec"
	"strings"
	"testing"
)

// The web server is pure Go and must not pull in the local audio driver.
func TestNoAudioDeviceDependency(t *testing.T) {
	gobin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go tool not on PATH")
	}
	out, err := exec.Command(gobin, "list", "-deps", ".").Output()
	if err != nil {
		t.Fatalf("go list: %v", err)
	}
	for _, pkg := range strings.Fields(string(out)) {
		if pkg == "github.com/gopxl/beep/speaker" || strings.HasPrefix(pkg, "github.com/ebitengine/oto") {
			t.Errorf("cmd/web depends on %s", pkg)
		}
	}
}
