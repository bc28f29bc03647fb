package compiler

import "notran/isa"

// keyword describes one control-line mnemonic: whether parseKeyword should
// recognise it at all requires nothing beyond the 3-letter match, so this
// table -- unlike the note grammar -- is just a name-to-handler map,
// mirroring the shape of the teacher's operator dispatch table even though
// NOTRAN's keyword set carries no per-entry metadata worth a struct.
type keywordHandler func(*Compiler)

var keywords = map[string]keywordHandler{
	"NVC": (*Compiler).handleNVC,
	"ACT": (*Compiler).handleACT,
	"DCT": (*Compiler).handleDCT,
	"WAV": (*Compiler).handleWAV,
	"TPO": (*Compiler).handleTPO,
	"ABS": (*Compiler).handleABS,
	"JMP": (*Compiler).handleJMP,
	"JSR": (*Compiler).handleJSR,
	"RTS": (*Compiler).handleRTS,
	"SUB": (*Compiler).handleSUB,
	"ESB": (*Compiler).handleESB,
	"END": (*Compiler).handleEND,
}

func (c *Compiler) parseKeyword() bool {
	c.skipWhitespace()
	if c.pos+3 > len(c.line) {
		return false
	}
	word := c.line[c.pos : c.pos+3]
	handler, ok := keywords[word]
	if !ok {
		return false
	}
	c.pos += 3
	handler(c)
	return true
}

func (c *Compiler) checkEventConflict() {
	if c.eventBuilding {
		c.reportError(ErrExecCtrlInEvent)
		c.eventBuilding = false
	}
}

func isValidVoice(n int) bool    { return n >= 1 && n <= isa.NumVoices }
func isValidWaveform(n int) bool { return n >= isa.MinWaveform && n <= isa.MaxWaveform }

func (c *Compiler) handleNVC() {
	n := c.parseNumericArg()
	if !isValidVoice(n) {
		c.reportError(ErrArgOutOfRange)
		return
	}
	c.checkEventConflict()
	c.emitByte(isa.OpSetVoices)
	c.emitByte(byte(n))
}

func (c *Compiler) handleACT() { c.handleVoiceControl(true) }
func (c *Compiler) handleDCT() { c.handleVoiceControl(false) }

func (c *Compiler) handleVoiceControl(activate bool) {
	opcode := byte(isa.OpDeactivate)
	if activate {
		opcode = isa.OpActivate
	}
	for {
		c.skipWhitespace()
		voiceNum := c.parseNumericArg()
		voiceIdx := voiceNum - 1

		if !isValidVoice(voiceNum) {
			c.reportError(ErrArgOutOfRange)
			c.skipWhitespace()
			if c.peek() == ',' {
				c.pos++
				continue
			}
			break
		}

		c.checkEventConflict()
		c.emitByte(opcode)
		c.emitByte(byte(voiceIdx))

		if activate {
			c.activateVoice(voiceIdx)
		} else {
			c.deactivateVoice(voiceIdx)
		}

		c.skipWhitespace()
		if c.peek() != ',' {
			break
		}
		c.pos++
	}
}

func (c *Compiler) handleWAV() {
	c.skipWhitespace()
	waveform := c.parseNumericArg()
	if !isValidWaveform(waveform) {
		c.reportError(ErrArgOutOfRange)
		return
	}
	c.skipWhitespace()
	if c.peek() != ',' {
		c.reportError(ErrIncomprehensibleSpec)
		return
	}
	c.pos++

	c.skipWhitespace()
	voiceNum := c.parseNumericArg()
	voiceIdx := voiceNum - 1
	if !isValidVoice(voiceNum) {
		c.reportError(ErrArgOutOfRange)
		return
	}

	c.skipWhitespace()
	if next := c.peek(); next != ';' && next != 0 && next != ' ' {
		c.reportError(ErrIncomprehensibleSpec)
		for c.pos < len(c.line) && c.peek() != ';' {
			c.pos++
		}
		return
	}

	c.voices[voiceIdx].useAbsolute = true
	c.voices[voiceIdx].waveform = uint8(waveform - 1)
}

func (c *Compiler) handleTPO() {
	c.skipWhitespace()
	tempo := c.parseNumericArg()
	if tempo < isa.MinTempo || tempo > isa.MaxTempo {
		c.reportError(ErrArgOutOfRange)
		return
	}
	c.checkEventConflict()
	c.emitByte(isa.OpTempo)
	c.emitByte(byte(tempo))
}

func (c *Compiler) handleABS() {
	for i := range c.voices {
		c.voices[i].useAbsolute = true
	}
}

func (c *Compiler) handleJMP() { c.handleJump(isa.OpJump) }
func (c *Compiler) handleJSR() { c.handleJump(isa.OpCall) }

func (c *Compiler) handleJump(opcode byte) {
	c.skipWhitespace()
	targetID := c.parseNumericArg()
	if targetID < 1 || targetID > 255 {
		c.reportError(ErrArgOutOfRange)
		return
	}
	addr, ok := c.symbols.find(uint8(targetID))
	if !ok {
		c.reportError(ErrUndefinedIdentifier)
		c.checkEventConflict()
		return
	}
	c.checkEventConflict()
	c.emitByte(opcode)
	c.emitWord(addr - c.cfg.BaseAddress)
}

func (c *Compiler) handleRTS() {
	c.checkEventConflict()
	c.emitByte(isa.OpReturn)
}

func (c *Compiler) handleSUB() {
	if c.subAddress != 0 {
		c.reportError(ErrNestedSubEsb)
		c.checkEventConflict()
		return
	}
	c.checkEventConflict()
	c.emitByte(isa.OpJump)
	c.subAddress = len(c.code) + 1 // +1: reserve 0 as "no pending patch"
	c.emitWord(0x0000)
}

func (c *Compiler) handleESB() {
	if c.subAddress == 0 {
		c.reportError(ErrEsbWithoutSub)
		c.checkEventConflict()
		return
	}
	c.checkEventConflict()

	target := uint16(len(c.code)) // code offsets are already base-address-relative
	patchAt := c.subAddress - 1
	c.code[patchAt] = byte(target)
	c.code[patchAt+1] = byte(target >> 8)
	c.subAddress = 0
}

func (c *Compiler) handleEND() {
	c.emitByte(isa.OpEnd)
	c.endFlag = true
	if c.subAddress != 0 {
		c.reportError(ErrHangingSub)
	}
}
