package slide

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Calibration holds microscope metadata for raster slides, which carry none
// of their own. It is read from a YAML sidecar named "<image>.yaml":
//
//	objective-power: "20"
//	mpp-x: "0.2527"
//	mpp-y: "0.2527"
//	associated:
//	  label: label.png
//	properties:
//	  aperio.AppMag: "20"
type Calibration struct {
	ObjectivePower string            `yaml:"objective-power"`
	MPPX           string            `yaml:"mpp-x"`
	MPPY           string            `yaml:"mpp-y"`
	Associated     map[string]string `yaml:"associated"`
	Properties     map[string]string `yaml:"properties"`
}

// SidecarPath returns the calibration sidecar path for an image.
func SidecarPath(imagePath string) string {
	return imagePath + ".yaml"
}

// LoadCalibration reads a sidecar file. A missing file yields an empty
// calibration.
func LoadCalibration(path string) (*Calibration, error) {
	cal := &Calibration{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cal, nil
		}
		return nil, fmt.Errorf("error reading calibration file: %w", err)
	}

	if err := yaml.Unmarshal(data, cal); err != nil {
		return nil, fmt.Errorf("error parsing calibration file: %w", err)
	}
	return cal, nil
}

// properties flattens the calibration into slide properties. Explicit
// calibration fields win over entries of the free-form map.
func (c *Calibration) properties(format string) map[string]string {
	props := make(map[string]string, len(c.Properties)+5)
	for k, v := range c.Properties {
		props[k] = v
	}
	props[PropertyVendor] = RasterVendor
	props["raster.format"] = format
	if c.ObjectivePower != "" {
		props[PropertyObjectivePower] = c.ObjectivePower
	}
	if c.MPPX != "" {
		props[PropertyMPPX] = c.MPPX
	}
	if c.MPPY != "" {
		props[PropertyMPPY] = c.MPPY
	}
	return props
}

func sidecarDir(imagePath string) string {
	return filepath.Dir(imagePath)
}

// resolveSidecarPath interprets relative associated-image paths against the
// directory holding the image.
func resolveSidecarPath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
