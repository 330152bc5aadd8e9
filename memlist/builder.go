package memlist

import (
	"fmt"
	"slices"

	"github.com/arloliu/go-scpi/scpi"
)

// Program is a memory-list program ready to be written to an SMU.
type Program struct {
	Channel scpi.Channel
	Slot    scpi.MemorySlot
	// Commands is the complete command sequence, select through store.
	Commands []string
	// Steps is the number of list entries between clear and store, which is
	// the index of the last executable step.
	Steps int
	// Measurements is the number of readings one execution pass captures.
	Measurements int
	// Loops is the number of times the window is executed.
	Loops int
}

// Readings returns the number of readings a triggered run captures.
func (p Program) Readings() int {
	return p.Measurements * max(p.Loops, 1)
}

// Builder assembles a Program. Setters validate their arguments; the first
// failure sticks and is reported by Build, which then returns no program.
type Builder struct {
	ch           scpi.Channel
	slot         scpi.MemorySlot
	cmds         []string
	steps        int
	measurements int
	loops        int
	stored       bool
	err          error
}

// NewBuilder starts a program on ch in slot by selecting and clearing the slot.
func NewBuilder(ch scpi.Channel, slot scpi.MemorySlot) *Builder {
	b := &Builder{ch: ch, slot: slot, loops: 1}
	if err := scpi.CheckOptions(ch, slot); err != nil {
		b.err = err
		return b
	}
	b.cmds = append(b.cmds, scpi.MemSelect(ch, slot), scpi.MemClear(ch))

	return b
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error { return b.err }

// Steps returns the number of list entries emitted so far.
func (b *Builder) Steps() int { return b.steps }

func (b *Builder) entry(cmd string) *Builder {
	b.cmds = append(b.cmds, cmd)
	b.steps++

	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}

	return b
}

func (b *Builder) ok() bool {
	return b.err == nil && !b.stored
}

// Ranges sets the voltage and current ranges, in that order.
func (b *Builder) Ranges(v scpi.SMUVoltageRange, i scpi.SMUCurrentRange) *Builder {
	if !b.ok() {
		return b
	}
	if err := scpi.CheckOptions(v, i); err != nil {
		return b.fail(err)
	}
	b.entry(scpi.MemVoltageRange(b.ch, v))

	return b.entry(scpi.MemCurrentRange(b.ch, i))
}

// Limit sets the compliance limit of quantity q.
func (b *Builder) Limit(q scpi.Quantity, v float64) *Builder {
	if !b.ok() {
		return b
	}
	v, err := checkLevel(q, "limit", v)
	if err != nil {
		return b.fail(err)
	}

	return b.entry(scpi.MemLimit(b.ch, q, v))
}

// AutoDelay toggles the automatic settling delay between source steps.
func (b *Builder) AutoDelay(on bool) *Builder {
	if !b.ok() {
		return b
	}

	return b.entry(scpi.MemAutoDelay(b.ch, on))
}

// Delay inserts a single timed delay of ms milliseconds.
func (b *Builder) Delay(ms float64) *Builder {
	if !b.ok() {
		return b
	}
	ms, err := scpi.SMUDelayLimits.Check("memory list delay (ms)", ms)
	if err != nil {
		return b.fail(err)
	}

	return b.entry(scpi.MemDelay(b.ch, ms))
}

// Source sets the level of quantity q.
func (b *Builder) Source(q scpi.Quantity, v float64) *Builder {
	if !b.ok() {
		return b
	}
	v, err := checkLevel(q, "source", v)
	if err != nil {
		return b.fail(err)
	}

	return b.entry(scpi.MemSource(b.ch, q, v))
}

// Measure adds one measurement of quantity q.
func (b *Builder) Measure(q scpi.Quantity) *Builder {
	if !b.ok() {
		return b
	}
	if err := scpi.CheckOptions(q); err != nil {
		return b.fail(err)
	}
	b.measurements++

	return b.entry(scpi.MemMeasure(b.ch, q))
}

// Output switches the channel output from within the program.
func (b *Builder) Output(on bool) *Builder {
	if !b.ok() {
		return b
	}

	return b.entry(scpi.MemOutput(b.ch, on))
}

// Window restricts execution to every step emitted so far, repeated loops
// times. It does not add a list entry and needs at least one step.
func (b *Builder) Window(loops int) *Builder {
	if !b.ok() {
		return b
	}
	if b.steps == 0 {
		return b.fail(fmt.Errorf("%w: memory list window without steps", scpi.ErrInvalidOption))
	}
	loops, err := scpi.SMUPulseLoopsLimits.Check("memory list loops", loops)
	if err != nil {
		return b.fail(err)
	}
	b.loops = loops
	b.cmds = append(b.cmds, scpi.MemWindow(b.ch, 1, b.steps, loops))

	return b
}

// Build stores the program and returns it. It does not append an output-off
// step: SourceVoltageMeasureCurrent and SourceCurrentMeasureVoltage end with
// one, pulse programs leave the output alone, and hand-built programs get
// exactly the steps they were given.
func (b *Builder) Build() (Program, error) {
	if b.err != nil {
		return Program{}, b.err
	}
	if !b.stored {
		b.cmds = append(b.cmds, scpi.MemStore(b.ch))
		b.stored = true
	}

	return Program{
		Channel:      b.ch,
		Slot:         b.slot,
		Commands:     slices.Clone(b.cmds),
		Steps:        b.steps,
		Measurements: b.measurements,
		Loops:        b.loops,
	}, nil
}

func checkLevel(q scpi.Quantity, what string, v float64) (float64, error) {
	switch q {
	case scpi.Voltage:
		return scpi.SMUVoltageLimits.Check("memory list voltage "+what, v)
	case scpi.Current:
		return scpi.SMUCurrentLimits.Check("memory list current "+what, v)
	default:
		return 0, scpi.CheckOptions(q)
	}
}
