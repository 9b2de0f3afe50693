package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"clipper/internal/services"
)

// Requirement defines an external binary clipper relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// Required returns the binaries a clip run needs, honoring configured
// overrides for the tool paths.
func Required(ytdlpBinary, ffmpegBinary string) []Requirement {
	return []Requirement{
		{Name: "yt-dlp", Command: ytdlpBinary, Description: "probes formats and downloads the source video"},
		{Name: "ffmpeg", Command: ffmpegBinary, Description: "cuts clips from the downloaded source"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Verify returns a configuration error naming every missing binary, or nil
// when all requirements resolve. Missing tools are reported before any
// network work starts so the failure reads differently from a runtime
// failure of the same tool.
func Verify(requirements []Requirement) error {
	var missing []string
	for _, status := range CheckBinaries(requirements) {
		if !status.Available {
			missing = append(missing, status.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return services.Wrap(
		services.ErrConfiguration,
		"deps",
		"verify binaries",
		fmt.Sprintf("missing dependencies on PATH: %s", strings.Join(missing, ", ")),
		nil,
	)
}
