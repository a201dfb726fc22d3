package robot

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLookup(t *testing.T) {
	desc, err := Lookup("aliengo")
	if err != nil {
		t.Fatal(err)
	}
	if desc.GeneralizedCoordinateDim() != 19 || desc.DOF() != 18 {
		t.Fatalf("dims = %d/%d, want 19/18", desc.GeneralizedCoordinateDim(), desc.DOF())
	}
	desc.JointNames[0] = "changed"
	again, _ := Lookup("aliengo")
	if again.JointNames[0] != "LF_HAA" {
		t.Fatal("Lookup returned a shared slice")
	}

	dir := filepath.Join(t.TempDir(), "anymal_c", "urdf")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "anymal_sensored.urdf")
	if err := os.WriteFile(path, []byte("<robot/>"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Lookup(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Mounts) != 2 {
		t.Fatalf("mounts = %d, want 2", len(c.Mounts))
	}

	if _, err := Lookup("spot"); !errors.Is(err, ErrUnknownRobot) {
		t.Fatalf("err = %v, want ErrUnknownRobot", err)
	}
	if _, err := Lookup(filepath.Join(t.TempDir(), "aliengo.urdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStandHoldsPose(t *testing.T) {
	desc, _ := Lookup("aliengo")
	a := New(desc)
	nominal, err := Stand(a, [3]float64{0, 0, 1.24}, Identity)
	if err != nil {
		t.Fatal(err)
	}
	q := a.GeneralizedCoordinate()
	q[8] += 0.3
	if err := a.SetGeneralizedCoordinate(q); err != nil {
		t.Fatal(err)
	}
	flat := func(x, y float64) float64 { return 0 }
	for i := 0; i < 5000; i++ {
		if !a.Step(0.001, -9.81, flat) {
			t.Fatalf("state diverged at step %d", i)
		}
	}
	got := a.GeneralizedCoordinate()
	if math.Abs(got[8]-nominal[8]) > 1e-2 {
		t.Fatalf("joint = %v, want close to %v", got[8], nominal[8])
	}
	if math.Abs(got[2]-desc.StandHeight) > 1e-9 {
		t.Fatalf("base z = %v, want resting at %v", got[2], desc.StandHeight)
	}
}

func TestDimensionChecks(t *testing.T) {
	desc, _ := Lookup("aliengo")
	a := New(desc)
	if err := a.SetGeneralizedCoordinate(make([]float64, 18)); err == nil {
		t.Fatal("expected error for short coordinate")
	}
	if err := a.SetPdGains(make([]float64, 18), make([]float64, 12)); err == nil {
		t.Fatal("expected error for short d gain")
	}
	if err := a.SetPdTarget(make([]float64, 19), make([]float64, 19)); err == nil {
		t.Fatal("expected error for long velocity target")
	}
}

func TestQuaternionNormalized(t *testing.T) {
	desc, _ := Lookup("aliengo")
	a := New(desc)
	q := NominalConfig(desc, [3]float64{10, 10, 1}, [4]float64{0.7071, 0, 0, 0.7071})
	if err := a.SetGeneralizedCoordinate(q); err != nil {
		t.Fatal(err)
	}
	o := a.BaseOrientation()
	n := math.Sqrt(o[0]*o[0] + o[1]*o[1] + o[2]*o[2] + o[3]*o[3])
	if math.Abs(n-1) > 1e-12 {
		t.Fatalf("|q| = %v", n)
	}
}

func TestSensorSets(t *testing.T) {
	desc, _ := Lookup("anymal_sensored")
	a := New(desc)
	set, err := a.SensorSet("depth_camera_front_camera_parent")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := set.DepthSensor("depth"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.SensorSet("nope"); err == nil {
		t.Fatal("expected error for unknown mount")
	}
	if m := a.MassMatrixDiag(); m[0] != desc.Mass {
		t.Fatalf("mass = %v, want %v", m[0], desc.Mass)
	}
}
