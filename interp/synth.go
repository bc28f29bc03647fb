package interp

import (
	"context"

	"notran/isa"
)

const bufferFrames = 1024

// generateSample sums each active voice's current wavetable entry,
// saturates the accumulator to the 8-bit sample range, and advances
// every contributing voice's phase accumulator by one step.
func (it *Interpreter) generateSample() byte {
	var sum uint16
	for i := 0; i < it.numActiveVoices; i++ {
		v := &it.voices[i]
		if v.FreqIncrement == 0 || int(v.WavetablePage) >= len(it.wavetables) {
			continue
		}
		table := &it.wavetables[v.WavetablePage]
		sum += uint16(table[v.PhaseInt])
		v.advancePhase()
	}
	return isa.ClampSample(sum)
}

// playEvent renders tempo*duration samples for the current event,
// flushing to sink in fixed-size batches the way the original streams to
// its ALSA/WAV backends.
func (it *Interpreter) playEvent(ctx context.Context, sink Sink) error {
	total := int(it.tempo) * int(it.duration)
	buf := make([]byte, 0, bufferFrames)

	for generated := 0; generated < total; generated++ {
		buf = append(buf, it.generateSample())
		if len(buf) >= bufferFrames {
			if err := sink.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		if err := sink.Write(buf); err != nil {
			return err
		}
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Run decodes and synthesizes until the program ends, the jump budget is
// exhausted, ctx is cancelled, or a hard error occurs.
func (it *Interpreter) Run(ctx context.Context, sink Sink) RunResult {
	if it.tempo == 0 {
		it.warnf("tempo not set, using default of 32")
		it.tempo = 32
	}

	for it.codePtr < len(it.code) {
		select {
		case <-ctx.Done():
			return RunResult{Reason: StopCancelled, Err: ctx.Err(), Warnings: it.warnings}
		default:
		}

		res, err := it.processPureControlCommands()
		if err != nil {
			return RunResult{Reason: StopError, Err: err, Warnings: it.warnings}
		}
		switch res {
		case pccEnd:
			return RunResult{Reason: StopEnd, Warnings: it.warnings}
		case pccJumpBudget:
			return RunResult{Reason: StopJumpBudget, Warnings: it.warnings}
		}

		if it.codePtr >= len(it.code) {
			break
		}

		it.processNotesForVoices()
		it.duration = it.findShortestDuration()

		if it.duration == isa.VoiceInactive || it.duration == 0 {
			continue
		}

		if err := it.playEvent(ctx, sink); err != nil {
			return RunResult{Reason: StopError, Err: err, Warnings: it.warnings}
		}
	}

	return RunResult{Reason: StopEnd, Warnings: it.warnings}
}
