package errors

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Maximum number of frames to include on a stack trace.
const maxStackDepth = 64

var (
	goPath string
	goRoot string
)

func init() {
	goPath = os.Getenv("GOPATH")
	goRoot = runtime.GOROOT()
}

// A StackFrame contains all necessary information about a specific line
// in a callstack.
type StackFrame struct {
	File           string `json:"filename,omitempty"`
	LineNumber     int    `json:"line_number,omitempty"`
	Function       string `json:"function,omitempty"`
	Package        string `json:"package,omitempty"`
	ProgramCounter uintptr `json:"program_counter,omitempty"`
}

// Format implements fmt.Formatter for a single stack frame.
func (sf StackFrame) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		str := fmt.Sprintf("%s:%d (0x%x)\n", sf.File, sf.LineNumber, sf.ProgramCounter)
		_, _ = io.WriteString(s, str+fmt.Sprintf("\t%s\n", sf.Function))
	}
}

// getStack returns a properly formatted stack trace. Use `skip` to remove
// unwanted (noisy) frames from the produced stack.
func getStack(skip int) []StackFrame {
	stack := make([]uintptr, maxStackDepth)
	length := runtime.Callers(2+skip, stack[:])
	cf := runtime.CallersFrames(stack[:length])

	i := 0
	frames := make([]StackFrame, length-1)
	for frame, more := cf.Next(); more; frame, more = cf.Next() {
		if i >= len(frames) {
			break
		}
		frames[i] = convertFrame(frame)
		i++
	}
	return frames[:i]
}

func convertFrame(rf runtime.Frame) StackFrame {
	pkg, fnc := packageAndName(rf.Function)
	return StackFrame{
		File:           rf.File,
		LineNumber:     rf.Line,
		Function:       fnc,
		Package:        pkg,
		ProgramCounter: rf.PC,
	}
}

// packageAndName splits a fully qualified function name (as reported by
// the runtime) into its package and bare function name.
func packageAndName(fn string) (pkg string, name string) {
	name = fn
	if lastSlash := strings.LastIndex(name, "/"); lastSlash >= 0 {
		pkg += name[:lastSlash] + "/"
		name = name[lastSlash+1:]
	}
	if period := strings.Index(name, "."); period >= 0 {
		pkg += name[:period]
		name = name[period+1:]
	}
	name = strings.ReplaceAll(name, "·", ".")
	return pkg, name
}

// printFile scrubs local system paths from a source file location,
// producing a more portable trace.
func printFile(file string) string {
	if goRoot != "" {
		file = strings.Replace(file, goRoot, "GOROOT", 1)
	}
	if goPath != "" {
		file = strings.Replace(file, goPath, "GOPATH", 1)
	}
	return file
}
