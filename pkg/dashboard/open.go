package dashboard

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches the platform's default handler for a file or directory,
// used for both the rendered view and the reports folder. The handler is
// started without waiting for it to exit.
func Open(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	// Reap the handler in the background so it never turns into a zombie.
	go func() { _ = cmd.Wait() }()

	return nil
}
