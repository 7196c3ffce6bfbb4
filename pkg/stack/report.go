package stack

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// Info is the caller context attached to a diagnostic report.
type Info struct {
	// Label names the stack variable or purpose.
	Label string
	// Function, File and Line locate the call site.
	Function string
	File     string
	Line     int
	// ElemType names the element type; "int32" when empty.
	ElemType string
	// Faults is merged with whatever Verify finds.
	Faults Faults
}

// Here returns an Info for the caller of Here.
func Here(label string, faults Faults) Info {
	return HereSkip(label, faults, 1)
}

// HereSkip returns an Info for the caller skip frames above the caller of
// HereSkip. HereSkip(label, f, 0) is the direct caller.
func HereSkip(label string, faults Faults, skip int) Info {
	info := Info{Label: label, Faults: faults}
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return info
	}
	info.File = filepath.Base(file)
	info.Line = line
	if fn := runtime.FuncForPC(pc); fn != nil {
		info.Function = fn.Name()
	}
	return info
}

func (i Info) location() string {
	if i.File == "" {
		return "unknown location"
	}
	fn := i.Function
	if fn == "" {
		fn = "?"
	}
	return fmt.Sprintf("%s (%s:%d)", fn, i.File, i.Line)
}

// Report renders the state of s together with the faults in info and those
// Verify detects. It does not modify s.
func Report(s *Guarded, info Info) string {
	var b strings.Builder
	writeReport(&b, s, info)
	return b.String()
}

// Dump writes Report(s, info) to w.
func Dump(w io.Writer, s *Guarded, info Info) error {
	_, err := io.WriteString(w, Report(s, info))
	return err
}

// ReportFaults returns the faults a report for s and info would show.
func ReportFaults(s *Guarded, info Info) Faults {
	return info.Faults | s.Verify()
}

func writeReport(b *strings.Builder, s *Guarded, info Info) {
	faults := ReportFaults(s, info)
	elem := info.ElemType
	if elem == "" {
		elem = "int32"
	}
	label := info.Label
	if label == "" {
		label = "stack"
	}

	fmt.Fprintf(b, "Stack<%s> %q [%s] called from %s\n", elem, label, identity(s), info.location())
	if faults.Healthy() {
		b.WriteString("  status: ok\n")
	} else {
		fmt.Fprintf(b, "  status: FAILED (%d %s)\n", faults.Count(), plural(faults.Count(), "error", "errors"))
		for _, f := range faults.List() {
			fmt.Fprintf(b, "    %s: %s\n", f.String(), f.Message())
		}
	}

	if n := poisonViolations(s); n > 0 {
		fmt.Fprintf(b, "  poison: %d unused %s violated\n", n, plural(n, "slot", "slots"))
	}

	if s == nil {
		b.WriteString("  <nil>\n")
		return
	}

	fmt.Fprintf(b, "  state: %s\n", s.State())
	b.WriteString("  {\n")
	if s.protect.Guards {
		fmt.Fprintf(b, "    struct guard left  = %s\n", guardWord(s.leftGuard, true, LeftGuard))
		fmt.Fprintf(b, "    struct guard right = %s\n", guardWord(s.rightGuard, true, RightGuard))
	}
	fmt.Fprintf(b, "    size     = %d\n", s.size)
	fmt.Fprintf(b, "    capacity = %d\n", s.capacity)
	if s.protect.Checksums {
		fmt.Fprintf(b, "    structural checksum = 0x%016X (computed 0x%016X)\n", s.structSum, s.structuralChecksum())
		fmt.Fprintf(b, "    data checksum       = 0x%016X (computed 0x%016X)\n", s.dataSum, s.dataChecksum())
	}

	if s.buf == nil || s.buf.mem == nil {
		b.WriteString("    data = <nil>\n  }\n")
		return
	}

	if s.protect.Guards {
		w, ok := s.buf.wordAt(0)
		fmt.Fprintf(b, "    data guard left  = %s\n", guardWord(w, ok, LeftGuard))
		w, ok = s.buf.wordAt(s.buf.slotOffset(s.capacity))
		fmt.Fprintf(b, "    data guard right = %s\n", guardWord(w, ok, RightGuard))
	}

	b.WriteString("    data [\n")
	for i := 0; i < s.buf.capacity; i++ {
		b.WriteString(renderSlot(s, i))
	}
	b.WriteString("    ]\n  }\n")
}

func renderSlot(s *Guarded, i int) string {
	v := s.buf.element(i)
	if i < s.size {
		text := fmt.Sprintf("0x%08X", uint32(v))
		if s.formatter != nil {
			text = s.formatter.Format(v)
		}
		return fmt.Sprintf("      *[%d] = %s\n", i, text)
	}
	if s.formatter == nil {
		return fmt.Sprintf("       [%d] = 0x%08X\n", i, uint32(v))
	}
	if s.formatter.IsSentinel(v) {
		return fmt.Sprintf("       [%d] = %s (poison)\n", i, s.formatter.Format(v))
	}
	return fmt.Sprintf("       [%d] = %s (POISON VIOLATED)\n", i, s.formatter.Format(v))
}

// poisonViolations counts unused slots the formatter does not recognise as
// poison. Without a formatter nothing is judged.
func poisonViolations(s *Guarded) int {
	if s == nil || s.formatter == nil || s.buf == nil || s.buf.mem == nil {
		return 0
	}
	from := s.size
	if from < 0 {
		from = 0
	}
	n := 0
	for i := from; i < s.buf.capacity; i++ {
		if !s.formatter.IsSentinel(s.buf.element(i)) {
			n++
		}
	}
	return n
}

func identity(s *Guarded) string {
	if s == nil {
		return "nil"
	}
	if s.id == uuid.Nil {
		return "unconstructed"
	}
	return s.id.String()
}

func guardWord(w uint64, ok bool, want uint64) string {
	switch {
	case !ok:
		return "<out of bounds> (DAMAGED)"
	case w == want:
		return fmt.Sprintf("0x%016X", w)
	default:
		return fmt.Sprintf("0x%016X (DAMAGED, want 0x%016X)", w, want)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
