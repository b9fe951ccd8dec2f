package cli

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

// openBrowser opens rawURL with the platform's default handler.
func openBrowser(rawURL string) error {
	if err := errors.ValidateURL(rawURL); err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
