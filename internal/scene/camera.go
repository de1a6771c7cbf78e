package scene

import "github.com/charmbracelet/harmonica"

// Spring parameters for easing camera velocity after a direction change.
const (
	cameraFrequency = 4.0
	cameraDamping   = 1.0
)

// rig moves the camera along -Z. Velocity eases toward the target speed with
// a critically damped spring so reversing does not snap.
type rig struct {
	z        float64
	velocity float64
	speed    float64
	forward  bool
	spring   harmonica.Spring
	accel    float64
}

func newRig(initialZ, speed float64, fps int) rig {
	return rig{
		z:        initialZ,
		velocity: speed,
		speed:    speed,
		forward:  true,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), cameraFrequency, cameraDamping),
	}
}

func (r *rig) target() float64 {
	if r.forward {
		return r.speed
	}
	return -r.speed
}

// advance moves the camera one frame and returns the new Z.
func (r *rig) advance() float64 {
	r.velocity, r.accel = r.spring.Update(r.velocity, r.accel, r.target())
	r.z -= r.velocity
	return r.z
}

func (r *rig) toggle() {
	r.forward = !r.forward
}
