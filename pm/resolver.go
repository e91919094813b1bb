package pm

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// A globally installed package may expose its executable under a different
// name than the package itself, declared by the manifest's "bin" field. Each
// node-based manager only differs in how the global package list is obtained
// and where manifests live, so the scan is one routine fed per-manager
// candidate listings.

// candidate is one globally installed package and the manifest that
// describes it.
type candidate struct {
	name         string
	manifestPath string
}

// resolveFromManifests returns the name of the first candidate whose
// manifest declares binName, falling back to binName when the listing fails
// or nothing matches.
func resolveFromManifests(binName string, list func() ([]candidate, error)) string {
	candidates, err := list()
	if err != nil {
		return binName
	}
	for _, c := range candidates {
		if manifestDeclaresBin(c.manifestPath, binName) {
			return c.name
		}
	}
	return binName
}

type packageManifest struct {
	Bin          binField          `json:"bin"`
	Dependencies map[string]string `json:"dependencies"`
}

// binField is a package.json "bin" value: either a single executable name or
// a map of executable name to entry point. Anything malformed decodes as
// empty.
type binField struct {
	single string
	names  map[string]string
}

func (b *binField) UnmarshalJSON(data []byte) error {
	if json.Unmarshal(data, &b.single) == nil {
		return nil
	}
	json.Unmarshal(data, &b.names)
	return nil
}

func (b binField) declares(binName string) bool {
	if b.single == binName {
		return true
	}
	_, ok := b.names[binName]
	return ok
}

// manifestDeclaresBin reads a package.json and reports whether its bin field
// declares binName. Missing or malformed manifests count as no.
func manifestDeclaresBin(manifestPath, binName string) bool {
	manifest, err := readManifest(manifestPath)
	if err != nil {
		return false
	}
	return manifest.Bin.declares(binName)
}

func readManifest(path string) (packageManifest, error) {
	var manifest packageManifest
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest, err
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return manifest, err
	}
	return manifest, nil
}

func (d *Detector) resolvePackage(m Manager, binName string) string {
	switch m {
	case Homebrew:
		return d.resolveHomebrew(binName)
	case Npm:
		return resolveFromManifests(binName, d.listNpmGlobals)
	case Pnpm:
		return resolveFromManifests(binName, d.listPnpmGlobals)
	case Yarn:
		return resolveFromManifests(binName, d.listYarnGlobals)
	case Bun:
		return resolveFromManifests(binName, d.listBunGlobals)
	}
	// Cargo installs crates under their own name.
	return binName
}

func (d *Detector) listNpmGlobals() ([]candidate, error) {
	binDir, err := npmGlobalBinDir(d)
	if err != nil {
		return nil, err
	}
	nodeModules := npmGlobalNodeModules(binDir)

	out, err := d.runOutput("npm", "list", "-g", "--json", "--depth=0")
	if err != nil {
		return nil, err
	}
	var list struct {
		Dependencies map[string]json.RawMessage `json:"dependencies"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		return nil, err
	}

	var candidates []candidate
	for name := range list.Dependencies {
		candidates = append(candidates, candidate{
			name:         name,
			manifestPath: filepath.Join(nodeModules, name, "package.json"),
		})
	}
	return candidates, nil
}

func (d *Detector) listPnpmGlobals() ([]candidate, error) {
	out, err := d.runOutput("pnpm", "list", "-g", "--json")
	if err != nil {
		return nil, err
	}
	// pnpm reports one object per global project dir.
	var list []struct {
		Dependencies map[string]struct {
			Path string `json:"path"`
		} `json:"dependencies"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		return nil, err
	}

	var candidates []candidate
	for _, project := range list {
		for name, info := range project.Dependencies {
			if info.Path == "" {
				continue
			}
			candidates = append(candidates, candidate{
				name:         name,
				manifestPath: filepath.Join(info.Path, "package.json"),
			})
		}
	}
	return candidates, nil
}

func (d *Detector) listYarnGlobals() ([]candidate, error) {
	dir, err := d.runOutput("yarn", "global", "dir")
	if err != nil {
		return nil, err
	}
	return listGlobalProject(dir)
}

func (d *Detector) listBunGlobals() ([]candidate, error) {
	return listGlobalProject(bunGlobalDir())
}

// listGlobalProject lists packages of a node_modules-style global install
// rooted at dir: dependencies come from dir/package.json and each package's
// manifest lives under dir/node_modules.
func listGlobalProject(dir string) ([]candidate, error) {
	manifest, err := readManifest(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, err
	}

	var candidates []candidate
	for name := range manifest.Dependencies {
		candidates = append(candidates, candidate{
			name:         name,
			manifestPath: filepath.Join(dir, "node_modules", name, "package.json"),
		})
	}
	return candidates, nil
}

func bunGlobalDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "bun")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bun", "install", "global")
}

// resolveHomebrew asks brew which formulas provide binName and picks the
// first one that is actually installed.
func (d *Detector) resolveHomebrew(binName string) string {
	installed, err := d.runOutput("brew", "list", "--formula")
	if err != nil {
		return binName
	}
	installedSet := make(map[string]bool)
	for _, line := range strings.Split(installed, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			installedSet[line] = true
		}
	}

	formulas, err := d.runOutput("brew", "which-formula", binName)
	if err != nil {
		return binName
	}
	for _, line := range strings.Split(formulas, "\n") {
		if line = strings.TrimSpace(line); line != "" && installedSet[line] {
			return line
		}
	}
	return binName
}
