package wavetable

import (
	"math"

	"notran/isa"
)

// Generate evaluates spec's Fourier series at each of the 256 wavetable
// points and quantizes the result to 8-bit samples.
//
// The per-harmonic angle is accumulated with 8-bit wraparound, exactly as
// the 6502 original does it: index_accumulator advances by point_index on
// every harmonic step and wraps at 256, which is what gives higher
// harmonics their expected multiple-cycles-per-period shape.
func Generate(spec Spec) [isa.WavetableSize]byte {
	var raw [isa.WavetableSize]float64
	for i := 0; i < isa.WavetableSize; i++ {
		raw[i] = evaluateFourierSeries(i, spec)
	}
	return normalizeAndQuantize(spec, raw)
}

func evaluateHarmonic(h Harmonic, angleOffset uint8) float64 {
	amplitude := byteToNormalizedAmplitude(h.amplitude())
	angleByte := h.phase() + angleOffset // uint8 wraparound is intentional
	return amplitude * math.Cos(byteToRadians(angleByte))
}

func evaluateFourierSeries(pointIndex int, spec Spec) float64 {
	var accumulator float64
	var indexAccumulator uint8

	for _, h := range spec.Harmonics {
		accumulator += evaluateHarmonic(h, indexAccumulator)
		indexAccumulator += uint8(pointIndex) // uint8 wraparound is intentional
	}
	return accumulator
}

func byteToNormalizedAmplitude(a uint8) float64 {
	return float64(a) / 255.0
}

func byteToRadians(angle uint8) float64 {
	return (float64(angle) / 256.0) * 2.0 * math.Pi
}

func doubleToByteSaturated(v float64) byte {
	if v < 0.0 {
		return 0
	}
	if v > 255.0 {
		return 255
	}
	return byte(v + 0.5)
}

func normalizeAndQuantize(spec Spec, raw [isa.WavetableSize]float64) [isa.WavetableSize]byte {
	lo, hi := raw[0], raw[0]
	for _, v := range raw {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	scale, offset := 1.0, 0.0
	if spec.Normalize {
		span := hi - lo
		if span > 0.0 {
			scale = float64(spec.Peak) / span
			offset = -lo
		}
	}

	var out [isa.WavetableSize]byte
	for i, v := range raw {
		normalized := v
		if spec.Normalize {
			normalized = (v + offset) * scale
		}
		out[i] = doubleToByteSaturated(normalized)
	}
	return out
}
