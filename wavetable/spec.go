// Package wavetable generates and loads the 256-byte waveform tables the
// synthesis engine indexes with a voice's phase accumulator.
package wavetable

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"notran/isa"
)

const (
	maxHarmonics = 16
	minHarmonics = 1
	defaultPeak  = 0x3F
)

// Harmonic packs one Fourier term the way the original tooling does: the
// high byte is normalized amplitude (0-255 -> 0.0-1.0), the low byte is
// phase angle (0-255 -> 0-2pi).
type Harmonic uint16

func (h Harmonic) amplitude() uint8 { return uint8(h >> 8) }
func (h Harmonic) phase() uint8     { return uint8(h) }

// Spec describes one named waveform to synthesize from a Fourier series:
// harmonics[0] is the DC term, harmonics[1:] are the overtones.
type Spec struct {
	Name      string     `yaml:"name"`
	Desc      string     `yaml:"desc"`
	Peak      uint8      `yaml:"peak"`
	Normalize bool       `yaml:"norm"`
	Harmonics []Harmonic `yaml:"list"`
}

// yamlSpec mirrors Spec but lets Peak/Normalize default when absent, and
// reads the harmonic list as raw integers so hex literals like 0x3F00
// parse the way the YAML front-end expects.
type yamlSpec struct {
	Name      string  `yaml:"name"`
	Desc      string  `yaml:"desc"`
	Segment   string  `yaml:"segment"`
	Peak      *int    `yaml:"peak"`
	Normalize *bool   `yaml:"norm"`
	List      []int64 `yaml:"list"`
}

// LoadSpecs parses zero or more YAML documents, each describing one
// waveform to generate. Documents with no name are skipped, matching the
// original tool's silent-skip behavior for malformed entries.
func LoadSpecs(r io.Reader) ([]Spec, error) {
	dec := yaml.NewDecoder(r)
	var specs []Spec

	for {
		var raw yamlSpec
		err := dec.Decode(&raw)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("wavetable: decoding YAML document: %w", err)
		}
		if raw.Name == "" {
			continue
		}

		spec := Spec{
			Name:      raw.Name,
			Desc:      raw.Desc,
			Peak:      defaultPeak,
			Normalize: true,
		}
		if raw.Peak != nil {
			spec.Peak = uint8(*raw.Peak)
		}
		if raw.Normalize != nil {
			spec.Normalize = *raw.Normalize
		}
		spec.Harmonics = make([]Harmonic, len(raw.List))
		for i, v := range raw.List {
			spec.Harmonics[i] = Harmonic(uint16(v))
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

// NumHarmonics returns the overtone count, excluding the DC term.
func (s Spec) NumHarmonics() int {
	return len(s.Harmonics) - 1
}

// Validate reports whether s has a harmonic count the synthesis
// algorithm can render.
func (s Spec) Validate() error {
	n := s.NumHarmonics()
	if n < minHarmonics || n > maxHarmonics {
		return fmt.Errorf("wavetable: %q has %d harmonics (valid range %d-%d)", s.Name, n, minHarmonics, maxHarmonics)
	}
	return nil
}

// Load reads a concatenated stream of one or more 256-byte wavetables,
// the format notint expects as its wavetable file argument.
func Load(r io.Reader) ([][isa.WavetableSize]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("wavetable: empty wavetable file")
	}
	if len(data)%isa.WavetableSize != 0 {
		return nil, fmt.Errorf("wavetable: size %d is not a multiple of %d", len(data), isa.WavetableSize)
	}

	n := len(data) / isa.WavetableSize
	tables := make([][isa.WavetableSize]byte, n)
	for i := 0; i < n; i++ {
		copy(tables[i][:], data[i*isa.WavetableSize:(i+1)*isa.WavetableSize])
	}
	return tables, nil
}

// Save concatenates tables into the same on-disk layout Load expects.
func Save(w io.Writer, tables [][isa.WavetableSize]byte) error {
	for _, t := range tables {
		if _, err := w.Write(t[:]); err != nil {
			return err
		}
	}
	return nil
}
