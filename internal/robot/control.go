package robot

// Standing gains used by every map in this repository.
const (
	StandingPGain = 100.0
	StandingDGain = 1.0
)

// NominalConfig returns the generalized coordinate for standing at pos with orientation
// quat (w, x, y, z) on the description's nominal joints.
func NominalConfig(desc Description, pos [3]float64, quat [4]float64) []float64 {
	q := make([]float64, desc.GeneralizedCoordinateDim())
	copy(q[0:3], pos[:])
	copy(q[3:7], quat[:])
	copy(q[7:], desc.NominalJoints)
	return q
}

// Stand places a at pos/quat on its nominal joints and holds the pose with the standing
// PD gains on the joints, a zero velocity target and no external force. It returns the
// nominal configuration so callers can reset the robot to it later.
func Stand(a *Articulated, pos [3]float64, quat [4]float64) ([]float64, error) {
	nominal := NominalConfig(a.desc, pos, quat)
	dof := a.DOF()
	p := make([]float64, dof)
	d := make([]float64, dof)
	for j := 6; j < dof; j++ {
		p[j] = StandingPGain
		d[j] = StandingDGain
	}
	if err := a.SetGeneralizedCoordinate(nominal); err != nil {
		return nil, err
	}
	if err := a.SetGeneralizedVelocity(make([]float64, dof)); err != nil {
		return nil, err
	}
	if err := a.SetGeneralizedForce(make([]float64, dof)); err != nil {
		return nil, err
	}
	if err := a.SetPdGains(p, d); err != nil {
		return nil, err
	}
	if err := a.SetPdTarget(nominal, make([]float64, dof)); err != nil {
		return nil, err
	}
	return nominal, nil
}

// Identity is the unit quaternion (w, x, y, z).
var Identity = [4]float64{1, 0, 0, 0}
