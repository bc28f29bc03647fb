// Package interp decodes NOTRAN bytecode and drives the wavetable
// synthesis engine that turns it into a stream of 8-bit samples.
package interp

import (
	"fmt"

	"notran/isa"
)

// Sink receives batches of mono 8-bit samples as they're produced. See
// package audio for concrete implementations (a live device, a WAV
// file, or a telemetry-publishing decorator around either).
type Sink interface {
	Write(samples []byte) error
}

// Interpreter holds all run time state for one bytecode program.
type Interpreter struct {
	voices [isa.NumVoices]Voice

	code    []byte
	codePtr int

	wavetables [][isa.WavetableSize]byte

	tempo    uint8
	duration uint8

	callStack []uint16
	stackPtr  int

	numActiveVoices int
	maxJumps        uint32

	warnings []string
}

// Option configures New.
type Option func(*Interpreter)

// WithMaxJumps bounds how many JUMP opcodes the interpreter will follow
// before stopping normally, preventing an unconditional loop from
// running forever. The zero value (default) means unlimited.
func WithMaxJumps(n uint32) Option {
	return func(it *Interpreter) { it.maxJumps = n }
}

// New builds an Interpreter for the given bytecode and wavetable set.
func New(code []byte, wavetables [][isa.WavetableSize]byte, opts ...Option) *Interpreter {
	it := &Interpreter{
		code:            code,
		wavetables:      wavetables,
		numActiveVoices: isa.NumVoices,
		maxJumps:        ^uint32(0),
		callStack:       make([]uint16, 0, isa.CallStackSize),
	}
	for i := range it.voices {
		it.voices[i] = newVoice()
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

func (it *Interpreter) readByte() uint8 {
	if it.codePtr >= len(it.code) {
		return 0
	}
	b := it.code[it.codePtr]
	it.codePtr++
	return b
}

func (it *Interpreter) readAddress() uint16 {
	lo := it.readByte()
	hi := it.readByte()
	return uint16(lo) | uint16(hi)<<8
}

func (it *Interpreter) warnf(format string, args ...any) {
	it.warnings = append(it.warnings, fmt.Sprintf(format, args...))
}
