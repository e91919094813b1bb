package pm

import (
	"errors"
	"strings"

	"golang.org/x/mod/semver"
)

// UnknownVersion is what callers display when no version can be scraped.
// Version lookup failing must never block an update.
const UnknownVersion = "unknown"

var versionFlags = []string{"--version", "-v", "-V", "version"}

// PackageVersion scrapes a human-readable version for the detected package,
// degrading to UnknownVersion when every source fails.
func (d *Detector) PackageVersion(det *Detection, binName string) string {
	v, err := d.packageVersion(det, binName)
	if err != nil {
		return UnknownVersion
	}
	return v
}

func (d *Detector) packageVersion(det *Detection, binName string) (string, error) {
	switch det.Manager {
	case Homebrew:
		return d.homebrewVersion(det.PackageName)
	case Bun, Npm, Pnpm:
		return d.nodeVersion(det.Manager, det.PackageName, binName)
	case Cargo:
		return d.cargoVersion(binName)
	}
	return d.binaryVersion(binName)
}

func (d *Detector) homebrewVersion(pkg string) (string, error) {
	out, err := d.runOutput("brew", "list", "--versions", pkg)
	if err != nil {
		return "", errors.New("package not found in homebrew")
	}
	return parseBrewVersion(out), nil
}

// parseBrewVersion extracts the version from a "brew list --versions" line
// of the form "<formula> <version> [<older versions>...]".
func parseBrewVersion(out string) string {
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return UnknownVersion
	}
	return fields[1]
}

func (d *Detector) nodeVersion(m Manager, pkg, binName string) (string, error) {
	out, err := d.runOutput(string(m), "list", "-g", "--depth=0")
	if err != nil {
		return d.binaryVersion(binName)
	}
	if v, ok := parseNodeListVersion(out, pkg); ok {
		return v, nil
	}
	return d.binaryVersion(binName)
}

// parseNodeListVersion scans "list -g --depth=0" output for a "<pkg>@<ver>"
// line and returns the version part.
func parseNodeListVersion(out, pkg string) (string, bool) {
	marker := pkg + "@"
	for _, line := range strings.Split(out, "\n") {
		if _, after, found := strings.Cut(line, marker); found {
			return strings.TrimSpace(after), true
		}
	}
	return "", false
}

func (d *Detector) cargoVersion(binName string) (string, error) {
	out, err := d.runOutput("cargo", "install", "--list")
	if err != nil {
		return d.binaryVersion(binName)
	}
	if v, ok := parseCargoVersion(out, binName); ok {
		return v, nil
	}
	return d.binaryVersion(binName)
}

// parseCargoVersion scans "cargo install --list" output for the crate's
// header line, "<crate> v<version>:", and returns the bare version.
func parseCargoVersion(out, binName string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, binName+" ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return UnknownVersion, true
		}
		return strings.TrimSuffix(strings.TrimPrefix(fields[1], "v"), ":"), true
	}
	return "", false
}

// binaryVersion asks the binary itself, trying the common version flags in
// order and taking the first line of the first one that succeeds.
func (d *Detector) binaryVersion(binName string) (string, error) {
	for _, flag := range versionFlags {
		out, err := d.runOutput(binName, flag)
		if err != nil {
			continue
		}
		line, _, _ := strings.Cut(out, "\n")
		return strings.TrimSpace(line), nil
	}
	return "", errors.New("could not determine version")
}

// SameVersion reports whether two scraped version strings denote the same
// release, tolerating a leading "v" when both parse as semver.
func SameVersion(a, b string) bool {
	av, bv := ensureVersionPrefix(a), ensureVersionPrefix(b)
	if semver.IsValid(av) && semver.IsValid(bv) {
		return semver.Compare(av, bv) == 0
	}
	return a == b
}

func ensureVersionPrefix(version string) string {
	if version == "" || version[0] == 'v' {
		return version
	}
	return "v" + version
}
