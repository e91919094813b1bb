package pm

import "github.com/fatih/color"

// Manager identifies a supported package manager.
type Manager string

const (
	Homebrew Manager = "homebrew"
	Bun      Manager = "bun"
	Cargo    Manager = "cargo"
	Pnpm     Manager = "pnpm"
	Npm      Manager = "npm"
	Yarn     Manager = "yarn"
)

// Detection is the result of classifying an installed binary: which manager
// put it on disk and which package that manager knows it as. The package name
// can differ from the binary name when a manifest's "bin" field renames it.
type Detection struct {
	Manager     Manager
	PackageName string
}

var (
	Check = color.GreenString("✓")
	Info  = color.BlueString("ℹ")
)
