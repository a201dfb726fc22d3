package robot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jinzhu/copier"
)

// ErrUnknownRobot is returned when a description path does not name a catalogued robot.
var ErrUnknownRobot = errors.New("unknown robot description")

// Mount describes a sensor mount carried by a robot.
type Mount struct {
	Name        string
	Width       int
	Height      int
	MountHeight float64
}

// Description is what the engine needs to instantiate a legged robot. Joint order matches
// the generalized coordinate tail: LF, RF, LH, RH legs, each HAA, HFE, KFE.
type Description struct {
	Model       string
	JointNames  []string
	Mass        float64
	HalfExtents [3]float64
	// StandHeight is the base height above the terrain when standing on the nominal joints.
	StandHeight   float64
	NominalJoints []float64
	Mounts        []Mount
}

// DOF returns the number of generalized velocities (6 base + joints).
func (d Description) DOF() int { return 6 + len(d.JointNames) }

// GeneralizedCoordinateDim returns the number of generalized coordinates (7 base + joints).
func (d Description) GeneralizedCoordinateDim() int { return 7 + len(d.JointNames) }

var legJoints = []string{
	"LF_HAA", "LF_HFE", "LF_KFE",
	"RF_HAA", "RF_HFE", "RF_KFE",
	"LH_HAA", "LH_HFE", "LH_KFE",
	"RH_HAA", "RH_HFE", "RH_KFE",
}

var standingJoints = []float64{0.03, 0.4, -0.8, -0.03, 0.4, -0.8, 0.03, -0.4, 0.8, -0.03, -0.4, 0.8}

// catalog is keyed by description file stem (aliengo.urdf -> "aliengo").
var catalog = map[string]Description{
	"aliengo": {
		Model:         "aliengo",
		JointNames:    legJoints,
		Mass:          20.6,
		HalfExtents:   [3]float64{0.33, 0.15, 0.1},
		StandHeight:   0.38,
		NominalJoints: standingJoints,
	},
	"anymal": {
		Model:         "anymal_b",
		JointNames:    legJoints,
		Mass:          30.4,
		HalfExtents:   [3]float64{0.4, 0.2, 0.12},
		StandHeight:   0.5,
		NominalJoints: standingJoints,
	},
	"anymal_sensored": {
		Model:         "anymal_c",
		JointNames:    legJoints,
		Mass:          50.2,
		HalfExtents:   [3]float64{0.45, 0.2, 0.13},
		StandHeight:   0.5,
		NominalJoints: standingJoints,
		Mounts: []Mount{
			{Name: "depth_camera_front_camera_parent", Width: 64, Height: 48, MountHeight: 0.1},
			{Name: "depth_camera_rear_camera_parent", Width: 64, Height: 48, MountHeight: 0.1},
		},
	},
}

// Models returns the catalogued description names.
func Models() []string {
	out := make([]string, 0, len(catalog))
	for k := range catalog {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lookup resolves a description path such as rsc/aliengo/aliengo.urdf. A bare catalogued
// name ("aliengo") is accepted as is; any other path must exist on disk. The returned
// description is a deep copy and may be modified freely.
func Lookup(path string) (Description, error) {
	base := filepath.Base(filepath.ToSlash(path))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	desc, ok := catalog[stem]
	if !ok {
		return Description{}, fmt.Errorf("robot: %s: %w", path, ErrUnknownRobot)
	}
	if path != stem {
		if _, err := os.Stat(path); err != nil {
			return Description{}, fmt.Errorf("robot: %w", err)
		}
	}
	var out Description
	if err := copier.CopyWithOption(&out, &desc, copier.Option{DeepCopy: true}); err != nil {
		return Description{}, fmt.Errorf("robot: copy %s: %w", stem, err)
	}
	return out, nil
}
