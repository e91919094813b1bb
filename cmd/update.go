package cmd

import (
	"fmt"
	"os"

	"updatebin/config"
	"updatebin/pm"

	"github.com/charmbracelet/log"
)

func newDetector() *pm.Detector {
	d := pm.NewDetector()
	settings, err := config.LoadSettings()
	if err != nil {
		log.Warn("Ignoring user settings", "error", err)
		return d
	}
	d.Configure(settings)
	return d
}

func displayInfo(binName string) error {
	det, err := newDetector().Detect(binName)
	if err != nil {
		return err
	}
	fmt.Println("Package name:", det.PackageName)
	fmt.Println("Package manager:", det.Manager)
	return nil
}

func updateBinary(binName string) error {
	return newDetector().UpdateBinary(binName, os.Stdout, os.Stderr)
}
