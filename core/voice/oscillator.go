package voice

import "math"

const twopi = 2 * math.Pi

// Sample returns the amplitude of p at phase. For a sine voice the result
// never exceeds Volume in magnitude. Unknown kinds are silent.
func Sample(p Parameters, phase float64) float64 {
	switch p.Kind {
	case KindSine:
		return math.Sin(phase) * float64(p.Sine.Volume)
	default:
		return 0
	}
}

// Advance moves phase forward by one sample period at sampleRate.
//
// A single 2π subtraction is enough while frequency <= sampleRate. Above
// that the phase would stay out of range, so it is folded with math.Mod.
// A non-positive sample rate, a negative frequency or an unknown kind
// leaves phase unchanged.
func Advance(p Parameters, phase, sampleRate float64) float64 {
	if !(sampleRate > 0) {
		return phase
	}
	switch p.Kind {
	case KindSine:
		f := float64(p.Sine.Frequency)
		if !(f >= 0) {
			return phase
		}
		phase += twopi * f / sampleRate
		if phase >= twopi {
			phase -= twopi
			if phase >= twopi {
				phase = math.Mod(phase, twopi)
			}
		}
		return phase
	default:
		return phase
	}
}

// Step is the shorthand used by the mixer: sample, then advance st in place.
func Step(p Parameters, st *OscillatorState, sampleRate float64) float64 {
	v := Sample(p, st.Phase)
	st.Phase = Advance(p, st.Phase, sampleRate)
	return v
}
