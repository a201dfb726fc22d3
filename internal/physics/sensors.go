package physics

import (
	"math"

	"sim-maps/internal/sensor"
)

// sensorGray is the color every synthesized pixel gets.
const sensorGray = 128

// UpdateSensors refreshes every robot camera whose measurement source is src. Depth is
// the mount height over the terrain under the base; color is a flat gray. Integrate
// refreshes engine-sourced cameras; the visualization server refreshes the rest.
func (w *World) UpdateSensors(src sensor.Source) {
	for _, h := range w.order {
		o := w.objects[h]
		if o.Robot == nil {
			continue
		}
		sets := o.Robot.SensorSets()
		if len(sets) == 0 {
			continue
		}
		floor, _ := w.TerrainHeight(o.Position[0], o.Position[1])
		if math.IsInf(floor, -1) {
			floor = 0
		}
		for _, name := range sets.Names() {
			s := sets[name]
			depth := float32(o.Position[2] + s.MountHeight - floor)
			if s.Depth != nil && s.Depth.MeasurementSource() == src {
				s.Depth.Fill(depth)
			}
			if s.Color != nil && s.Color.MeasurementSource() == src {
				s.Color.Fill(sensorGray)
			}
		}
	}
}
