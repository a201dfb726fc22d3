// Package rsc locates the resource directory (height images, robot descriptions, meshes,
// activation key) and can populate it.
package rsc

import (
	"os"
	"path/filepath"
)

// Dir is a resource directory root.
type Dir string

// Resolve picks the resource directory: override when set, else "rsc" next to the binary
// named by argv0, else "rsc" under the working directory.
func Resolve(override, argv0 string) Dir {
	if override != "" {
		return Dir(override)
	}
	if argv0 != "" {
		if exe, err := filepath.Abs(argv0); err == nil {
			cand := filepath.Join(filepath.Dir(exe), "rsc")
			if info, err := os.Stat(cand); err == nil && info.IsDir() {
				return Dir(cand)
			}
		}
	}
	return Dir("rsc")
}

// Join returns a path below the root.
func (d Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{string(d)}, elem...)...)
}

// HeightMap returns the path of a named height image, e.g. "hill1".
func (d Dir) HeightMap(name string) string {
	return d.Join("raisimUnrealMaps", name+".png")
}

// Mesh returns the path of a mesh file, e.g. "Rock.obj".
func (d Dir) Mesh(file string) string { return d.Join("objs", file) }

// ActivationKey returns the default license key path.
func (d Dir) ActivationKey() string { return d.Join("activation.raisim") }

// Robot description paths.
func (d Dir) Aliengo() string        { return d.Join("aliengo", "aliengo.urdf") }
func (d Dir) AnymalB() string        { return d.Join("anymal", "urdf", "anymal.urdf") }
func (d Dir) AnymalSensored() string { return d.Join("anymal_c", "urdf", "anymal_sensored.urdf") }

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
