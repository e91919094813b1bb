package pm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// UpdateCommand maps a manager and package name to the command that updates
// that package.
func UpdateCommand(manager Manager, pkg string) (string, []string, error) {
	switch manager {
	case Homebrew:
		return "brew", []string{"upgrade", pkg}, nil
	case Bun:
		return "bun", []string{"update", "-g", pkg}, nil
	case Npm:
		return "npm", []string{"update", "-g", pkg}, nil
	case Pnpm:
		return "pnpm", []string{"update", "-g", pkg}, nil
	case Cargo:
		return "cargo", []string{"install", pkg}, nil
	case Yarn:
		return "yarn", []string{"global", "upgrade", pkg}, nil
	}
	return "", nil, fmt.Errorf("unsupported package manager: %s", manager)
}

// UpdateBinary is the whole flow: classify the binary, report its current
// version, run the detected manager's update command, and report the result.
func (d *Detector) UpdateBinary(binName string, stdout, stderr io.Writer) error {
	det, err := d.Detect(binName)
	if err != nil {
		return err
	}

	oldVersion := d.PackageVersion(det, binName)
	fmt.Fprintln(stdout, "Current version:", oldVersion)

	fmt.Fprintf(stdout, "Updating %s with %s\n", det.PackageName, det.Manager)
	if err := d.RunUpdate(det, stdout, stderr); err != nil {
		return err
	}

	newVersion := d.PackageVersion(det, binName)
	if SameVersion(oldVersion, newVersion) {
		fmt.Fprintf(stdout, "%s %s is already up to date (%s)\n", Info, det.PackageName, oldVersion)
		return nil
	}

	fmt.Fprintln(stdout, "Updated to version:", newVersion)
	fmt.Fprintf(stdout, "%s Successfully updated %s from %s to %s\n", Check, det.PackageName, oldVersion, newVersion)
	return nil
}

// RunUpdate runs the manager's update command for det, echoing each output
// line as it appears.
func (d *Detector) RunUpdate(det *Detection, stdout, stderr io.Writer) error {
	command, args, err := UpdateCommand(det.Manager, det.PackageName)
	if err != nil {
		return err
	}
	if err := d.runStream(command, args, stdout, stderr); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("failed to update %s with %s", det.PackageName, det.Manager)
		}
		return err
	}
	return nil
}

var streamStyle = lipgloss.NewStyle().Faint(true)

// streamCommand runs name with args, dimming and prefixing each output line.
// Stdout and stderr each get their own reader so neither stream can stall
// the other before the exit status is collected.
func streamCommand(name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		streamLines(outPipe, stdout)
	}()
	go func() {
		defer wg.Done()
		streamLines(errPipe, stderr)
	}()
	wg.Wait()

	return cmd.Wait()
}

func streamLines(r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	// npm-style progress output can run far past Scanner's default token
	// limit without a newline.
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		fmt.Fprintln(w, streamStyle.Render("---> "+scanner.Text()))
	}
	if scanner.Err() != nil {
		// Keep draining unprefixed rather than drop the rest of the stream.
		io.Copy(w, r)
	}
}
