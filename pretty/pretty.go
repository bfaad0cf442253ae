// Package pretty renders a history.Execution as a human-readable,
// colorized threaded timeline (spec.md §4.8, C8), in the style of the
// teacher's model/format.go: strings.Builder, color banners, and an
// indenting io.Writer wrapper for nested detail blocks.
package pretty

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/linzcheck/linz/history"
)

// Fprint writes a threaded timeline rendering of exec to w: the init
// part, then each parallel thread in thread-id order under a
// "Thread N:" heading listing its invocations in recorded order with
// their [call,return) timestamps, then the post part. Threads are
// printed one after another; they are not laid out side by side as
// table columns, so overlap shows only in the timestamp numbers.
func Fprint[Op any, Ret comparable](w io.Writer, exec history.Execution[Op, Ret]) error {
	_, err := io.WriteString(w, Format(exec))
	return err
}

// Format renders exec the same way Fprint does, returning the result
// as a string.
func Format[Op any, Ret comparable](exec history.Execution[Op, Ret]) string {
	var b strings.Builder

	if len(exec.InitPart) > 0 {
		b.WriteString(color.Cyan.Sprint("Init:"))
		b.WriteString("\n")
		iw := &indentWriter{w: &b, indent: "  ", atLineStart: true}
		for _, inv := range exec.InitPart {
			fmt.Fprintf(iw, "%v -> %v\n", inv.Op, inv.Ret)
		}
	}

	if len(exec.ParallelPart) > 0 {
		b.WriteString(color.Cyan.Sprint("Parallel:"))
		b.WriteString("\n")
		writeThreadColumns(&b, exec.GetThreadParts())
	}

	if len(exec.PostPart) > 0 {
		b.WriteString(color.Cyan.Sprint("Post:"))
		b.WriteString("\n")
		iw := &indentWriter{w: &b, indent: "  ", atLineStart: true}
		for _, inv := range exec.PostPart {
			fmt.Fprintf(iw, "%v -> %v\n", inv.Op, inv.Ret)
		}
	}

	return b.String()
}

func writeThreadColumns[Op any, Ret comparable](b *strings.Builder, threads [][]history.ParallelInvocation[Op, Ret]) {
	for id, ops := range threads {
		fmt.Fprintf(b, "  %s\n", color.Bold.Sprintf("Thread %d:", id))
		iw := &indentWriter{w: b, indent: "    ", atLineStart: true}
		for _, inv := range ops {
			fmt.Fprintf(iw, "[%d,%d) %v -> %v\n", inv.CallTS, inv.ReturnTS, inv.Op, inv.Ret)
		}
	}
}

// FormatViolation renders a banner-wrapped report for a history that
// failed the linearizability check, mirroring the teacher's
// FormatPropertyViolation.
func FormatViolation[Op any, Ret comparable](exec history.Execution[Op, Ret]) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Gray.Sprint(strings.Repeat("=", 80)))
	b.WriteString("\n")
	b.WriteString(color.Red.Sprint("NOT LINEARIZABLE"))
	b.WriteString("\n")
	b.WriteString(color.Gray.Sprint(strings.Repeat("=", 80)))
	b.WriteString("\n")
	b.WriteString(Format(exec))
	b.WriteString(color.Gray.Sprint(strings.Repeat("=", 80)))
	b.WriteString("\n")
	return b.String()
}

// Statistics summarizes a Verifier run's trials (spec.md §4.9).
type Statistics struct {
	Trials          int
	Linearizable    int
	NotLinearizable int
	ShrinkSteps     int
}

// FormatStatistics renders trial statistics, mirroring the teacher's
// FormatStatistics.
func FormatStatistics(stats Statistics) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint("=== Linearizability check statistics ==="))
	b.WriteString("\n")
	b.WriteString(color.Bold.Sprint("Trials run: "))
	fmt.Fprintf(&b, "%d\n", stats.Trials)
	b.WriteString(color.Bold.Sprint("Linearizable: "))
	fmt.Fprintf(&b, "%d\n", stats.Linearizable)
	b.WriteString(color.Bold.Sprint("Not linearizable: "))
	if stats.NotLinearizable > 0 {
		b.WriteString(color.Red.Sprintf("%d\n", stats.NotLinearizable))
	} else {
		b.WriteString(color.Green.Sprintf("%d\n", stats.NotLinearizable))
	}
	b.WriteString(color.Bold.Sprint("Shrink steps: "))
	fmt.Fprintf(&b, "%d\n", stats.ShrinkSteps)
	return b.String()
}

// indentWriter wraps an io.Writer, prefixing every new line with
// indent. Ported from the teacher's model/format.go verbatim, since
// the line-buffering logic has nothing domain-specific about it.
type indentWriter struct {
	w           io.Writer
	indent      string
	atLineStart bool
}

func (iw *indentWriter) Write(p []byte) (n int, err error) {
	total := 0
	for len(p) > 0 {
		if iw.atLineStart {
			if _, err := io.WriteString(iw.w, iw.indent); err != nil {
				return total, err
			}
			iw.atLineStart = false
		}

		idx := 0
		for idx < len(p) && p[idx] != '\n' {
			idx++
		}
		if idx < len(p) {
			idx++
			iw.atLineStart = true
		}

		written, err := iw.w.Write(p[:idx])
		total += written
		if err != nil {
			return total, err
		}
		p = p[idx:]
	}
	return total, nil
}
