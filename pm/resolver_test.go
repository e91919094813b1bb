package pm

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func TestManifestDeclaresBinString(t *testing.T) {
	tmp := t.TempDir()
	manifest := filepath.Join(tmp, "package.json")
	writeFile(t, manifest, `{"name": "foo-cli", "bin": "foo"}`)

	if !manifestDeclaresBin(manifest, "foo") {
		t.Error("Expected string bin field to match")
	}
	if manifestDeclaresBin(manifest, "bar") {
		t.Error("Did not expect string bin field to match bar")
	}
}

func TestManifestDeclaresBinMap(t *testing.T) {
	tmp := t.TempDir()
	manifest := filepath.Join(tmp, "package.json")
	writeFile(t, manifest, `{"bin": {"foo": "bin/foo.js", "foox": "bin/foox.js"}}`)

	if !manifestDeclaresBin(manifest, "foo") {
		t.Error("Expected bin map key foo to match")
	}
	if manifestDeclaresBin(manifest, "baz") {
		t.Error("Did not expect bin map to match baz")
	}
}

func TestManifestDeclaresBinMalformed(t *testing.T) {
	tmp := t.TempDir()

	missing := filepath.Join(tmp, "nope", "package.json")
	if manifestDeclaresBin(missing, "foo") {
		t.Error("Missing manifest should not match")
	}

	broken := filepath.Join(tmp, "package.json")
	writeFile(t, broken, `{"bin": {`)
	if manifestDeclaresBin(broken, "foo") {
		t.Error("Malformed manifest should not match")
	}

	oddBin := filepath.Join(tmp, "odd.json")
	writeFile(t, oddBin, `{"bin": 42}`)
	if manifestDeclaresBin(oddBin, "foo") {
		t.Error("Non-string non-map bin field should not match")
	}
}

func TestResolveFromManifestsFirstMatchWins(t *testing.T) {
	tmp := t.TempDir()
	for i, bin := range []string{`"other"`, `{"foo": "a.js"}`, `{"foo": "b.js"}`} {
		writeFile(t, filepath.Join(tmp, fmt.Sprintf("pkg%d", i), "package.json"),
			fmt.Sprintf(`{"bin": %s}`, bin))
	}

	list := func() ([]candidate, error) {
		return []candidate{
			{name: "pkg0", manifestPath: filepath.Join(tmp, "pkg0", "package.json")},
			{name: "pkg1", manifestPath: filepath.Join(tmp, "pkg1", "package.json")},
			{name: "pkg2", manifestPath: filepath.Join(tmp, "pkg2", "package.json")},
		}, nil
	}

	if got := resolveFromManifests("foo", list); got != "pkg1" {
		t.Errorf("Expected pkg1, got %s", got)
	}
}

func TestResolveFromManifestsFallsBack(t *testing.T) {
	noMatch := func() ([]candidate, error) { return nil, nil }
	if got := resolveFromManifests("foo", noMatch); got != "foo" {
		t.Errorf("Expected fallback to foo, got %s", got)
	}

	failing := func() ([]candidate, error) { return nil, errors.New("exit status 1") }
	if got := resolveFromManifests("foo", failing); got != "foo" {
		t.Errorf("Expected fallback to foo on listing failure, got %s", got)
	}
}

func TestListGlobalProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"),
		`{"dependencies": {"foo-cli": "^1.0.0", "bar-cli": "^2.0.0"}}`)

	candidates, err := listGlobalProject(dir)
	if err != nil {
		t.Fatalf("listGlobalProject failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		want := filepath.Join(dir, "node_modules", c.name, "package.json")
		if c.manifestPath != want {
			t.Errorf("Expected manifest path %s, got %s", want, c.manifestPath)
		}
	}
}

func TestPnpmListingResolvesByPath(t *testing.T) {
	tmp := t.TempDir()
	pkgDir := filepath.Join(tmp, "foo-cli")
	writeFile(t, filepath.Join(pkgDir, "package.json"), `{"bin": {"foo": "cli.js"}}`)

	d := stubDetector(nil, map[string]string{
		"pnpm list -g --json": fmt.Sprintf(`[{"dependencies": {"foo-cli": {"path": %q}}}]`, pkgDir),
	})

	if got := d.resolvePackage(Pnpm, "foo"); got != "foo-cli" {
		t.Errorf("Expected foo-cli, got %s", got)
	}
}
