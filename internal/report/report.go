// Package report formats the per-interval statistics stream.
//
// The stream is line oriented and fixed width so it can be watched in a
// terminal, piped to awk, or diffed between runs:
//
//	   Inst_Min   Inst_Max   Inst_jitter last_Exec  Abs_min    Abs_max      tmp       Interval     Sample No
//	     80012      80840        828      80090      80005      93470    1661403136 1602511234          1
//
// Two Printer implementations are provided:
//   - Writer: formats and writes on the caller's goroutine
//   - Async: hands rows to a lock-free ring drained by another goroutine
package report

import (
	"fmt"
	"io"
)

// Header is the column title line.
const Header = "   Inst_Min   Inst_Max   Inst_jitter last_Exec  Abs_min    Abs_max      tmp       Interval     Sample No\n"

// HeaderEvery is the default header cadence, in sample numbers.
const HeaderEvery = 40

// Line is one display interval's row. All durations are counter ticks.
type Line struct {
	InstMin     uint64
	InstMax     uint64
	InstJitter  uint64
	LastExec    uint64 // the sample that closed the interval
	AbsMin      uint64
	AbsMax      uint64
	Accumulator uint32 // running workload result
	Interval    uint64 // ticks between this and the previous interval end
	SampleNo    uint64
}

const lineFormat = "%10d %10d %10d %10d %10d %10d %13d %10d %10d\n"

// AppendLine appends the formatted row to dst.
func AppendLine(dst []byte, l Line) []byte {
	return fmt.Appendf(dst, lineFormat,
		l.InstMin,
		l.InstMax,
		l.InstJitter,
		l.LastExec,
		l.AbsMin,
		l.AbsMax,
		l.Accumulator,
		l.Interval,
		l.SampleNo)
}

// Format returns the formatted row, newline included.
func Format(l Line) string {
	return string(AppendLine(nil, l))
}

// Printer receives the report stream.
//
// Implementations are called only from the sample loop, once per display
// interval, and must not block for long.
type Printer interface {
	// Header emits the column title line.
	Header()

	// Line emits one row.
	Line(Line)
}

// Legend writes the column descriptions.
func Legend(w io.Writer) error {
	_, err := io.WriteString(w, legend)
	return err
}

const legend = `Timings are in counter ticks (CPU core cycles on a TSC)
Inst_Min:    Minimum execution time during the display update interval (default is ~1 second)
Inst_Max:    Maximum execution time during the display update interval (default is ~1 second)
Inst_jitter: Jitter in the execution time during the display update interval. This is the value of interest
last_Exec:   The execution time of the last iteration just before the display update
Abs_Min:     Absolute minimum execution time since the program started or statistics were reset
Abs_Max:     Absolute maximum execution time since the program started or statistics were reset
tmp:         Cumulative value calculated by the workload
Interval:    Time interval between the display updates in counter ticks
Sample No:   Sample number

`
