package pm

import (
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"updatebin/config"

	"github.com/charmbracelet/log"
)

// Detector locates a binary on PATH and classifies which package manager
// installed it. The lookPath and runOutput hooks default to the real OS
// facilities; tests swap them out so no external tool is ever spawned.
type Detector struct {
	lookPath  func(name string) (string, error)
	runOutput func(name string, args ...string) (string, error)
	runStream func(name string, args []string, stdout, stderr io.Writer) error

	extraMarkers map[Manager][]string
	disabled     map[Manager]bool
}

func NewDetector() *Detector {
	return &Detector{
		lookPath:  exec.LookPath,
		runOutput: runOutput,
		runStream: streamCommand,
	}
}

func runOutput(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Configure merges user settings into the built-in classification table.
// Unknown manager names are skipped with a warning rather than rejected.
func (d *Detector) Configure(s config.Settings) {
	for name, markers := range s.Markers {
		m, ok := knownManager(name)
		if !ok {
			log.Warn("Unknown manager in settings, ignoring markers", "manager", name)
			continue
		}
		if d.extraMarkers == nil {
			d.extraMarkers = make(map[Manager][]string)
		}
		for _, marker := range markers {
			d.extraMarkers[m] = append(d.extraMarkers[m], strings.ToLower(NormalizePath(marker)))
		}
	}

	for _, name := range s.Disabled {
		m, ok := knownManager(name)
		if !ok {
			log.Warn("Unknown manager in settings, cannot disable", "manager", name)
			continue
		}
		if d.disabled == nil {
			d.disabled = make(map[Manager]bool)
		}
		d.disabled[m] = true
	}
}

func knownManager(name string) (Manager, bool) {
	for _, spec := range managerSpecs {
		if string(spec.manager) == name {
			return spec.manager, true
		}
	}
	return "", false
}

// managerSpec is one row of the classification table: static path markers
// and/or a command that reports the manager's global bin directory. Order in
// managerSpecs matters, first match wins.
type managerSpec struct {
	manager  Manager
	markers  []string
	binDir   func(d *Detector) (string, error)
	unixOnly bool
}

var managerSpecs = []managerSpec{
	{manager: Homebrew, unixOnly: true, markers: []string{"/opt/homebrew/", "/usr/local/", "linuxbrew/"}},
	{manager: Bun, markers: []string{"/.bun/", "/appdata/roaming/bun/"}},
	{manager: Cargo, markers: []string{"/.cargo/bin/"}},
	{manager: Pnpm, binDir: func(d *Detector) (string, error) { return d.runOutput("pnpm", "bin", "-g") }},
	{manager: Npm, binDir: npmGlobalBinDir},
	{manager: Yarn, binDir: func(d *Detector) (string, error) { return d.runOutput("yarn", "global", "bin") }},
}

// NormalizePath rewrites a path to forward slashes so markers match either
// separator convention. Idempotent.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Detect resolves binName on PATH and matches the resulting path against the
// classification table.
func (d *Detector) Detect(binName string) (*Detection, error) {
	binPath, err := d.findBinary(binName)
	if err != nil {
		return nil, err
	}

	// Markers are lowercase; matching on the lowered path keeps Windows
	// drive-letter paths working without a second pass.
	path := strings.ToLower(NormalizePath(binPath))

	for _, spec := range managerSpecs {
		if d.disabled[spec.manager] {
			continue
		}
		if spec.unixOnly && runtime.GOOS == "windows" {
			continue
		}
		if d.matches(spec, path) {
			return &Detection{
				Manager:     spec.manager,
				PackageName: d.resolvePackage(spec.manager, binName),
			}, nil
		}
	}

	return nil, fmt.Errorf("could not detect package manager for '%s'", binName)
}

func (d *Detector) matches(spec managerSpec, path string) bool {
	for _, marker := range spec.markers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	for _, marker := range d.extraMarkers[spec.manager] {
		if strings.Contains(path, marker) {
			return true
		}
	}
	if spec.binDir != nil {
		dir, err := spec.binDir(d)
		if err == nil && dir != "" {
			return strings.Contains(path, strings.ToLower(NormalizePath(dir)))
		}
	}
	return false
}

func (d *Detector) findBinary(name string) (string, error) {
	path, err := d.lookPath(name)
	if err != nil {
		return "", fmt.Errorf("binary '%s' not found", name)
	}
	return path, nil
}

// npmGlobalBinDir derives npm's global bin directory from the npm executable
// itself, since npm has no cheap "report bin dir" command.
func npmGlobalBinDir(d *Detector) (string, error) {
	npmPath, err := d.lookPath("npm")
	if err != nil {
		return "", err
	}
	return filepath.Dir(npmPath), nil
}

// npmGlobalNodeModules is the sibling global node_modules directory of npm's
// bin directory: <prefix>/lib/node_modules, or <prefix>\node_modules on
// Windows where there is no lib level.
func npmGlobalNodeModules(binDir string) string {
	prefix := filepath.Dir(binDir)
	if runtime.GOOS == "windows" {
		return filepath.Join(prefix, "node_modules")
	}
	return filepath.Join(prefix, "lib", "node_modules")
}
