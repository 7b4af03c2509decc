package vm

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/wudi/shellish/chunk"
)

// ErrorKind tags the six diagnostic categories of spec section 7.
type ErrorKind int

const (
	ArityError ErrorKind = iota
	TypeError
	ArithmeticError
	ParseError
	ResourceError
	InvariantViolation
)

var kindNames = [...]string{
	ArityError:         "ArityError",
	TypeError:          "TypeError",
	ArithmeticError:    "ArithmeticError",
	ParseError:         "ParseError",
	ResourceError:      "ResourceError",
	InvariantViolation: "InvariantViolation",
}

func (k ErrorKind) String() string { return kindNames[k] }

// Error is the VM's single diagnostic type, carrying the kind, a
// message, and the point attribution of the failing instruction —
// rendered as "<name>:<line>:<col>: <message>" per spec section 7.
// Grounded on wudi-hey's VMError (vm/errors.go), generalizing its
// single always-internal error type to the six-kind taxonomy the
// scripting language's own user-facing errors need.
type Error struct {
	Kind    ErrorKind
	Message string
	Chunk   string // chunk name, empty for top-level main-script errors
	Point   chunk.Point
	HasPoint bool
}

func (e *Error) Error() string {
	loc := "?:?"
	if e.HasPoint {
		loc = fmt.Sprintf("%d:%d", e.Point.Line, e.Point.Column)
	}
	if e.Chunk == "" {
		return fmt.Sprintf("%s: %s", loc, e.Message)
	}
	return fmt.Sprintf("%s:%s: %s", e.Chunk, loc, e.Message)
}

func newError(kind ErrorKind, chunkName string, pt chunk.Point, hasPoint bool, format string, args ...interface{}) *Error {
	if chunkName == "(main)" {
		chunkName = ""
	}
	return &Error{
		Kind: kind, Message: fmt.Sprintf(format, args...),
		Chunk: chunkName, Point: pt, HasPoint: hasPoint,
	}
}

// resourceLimitError formats a resource-exhaustion message using
// dustin/go-humanize for the byte/item count, matching the spec
// section 7 requirement that ResourceError messages be
// human-legible rather than raw integers.
func resourceLimitError(chunkName string, pt chunk.Point, hasPoint bool, what string, amount, limit uint64) *Error {
	return newError(ResourceError, chunkName, pt, hasPoint,
		"%s is %s, which exceeds the limit of %s", what, humanize.Comma(int64(amount)), humanize.Comma(int64(limit)))
}

// resourceLimitErr attributes a resourceLimitError to the VM's current
// instruction, the same point-lookup convention vm.err uses.
func (vm *VM) resourceLimitErr(what string, amount, limit uint64) error {
	pt, ok := vm.chunk.GetPoint(vm.ip)
	return resourceLimitError(vm.chunk.Name, pt, ok, what, amount, limit)
}

// stderrColor is the fatih/color printer used by PrintDiagnostic,
// only colorized when stderr is an actual terminal (mattn/go-isatty),
// matching the ambient convention of CLI tools in the example pack
// that colorize only for a TTY.
var stderrColor = color.New(color.FgRed, color.Bold)

func init() {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}
}

// PrintDiagnostic writes a VM error to stderr, colorized when
// supported.
func PrintDiagnostic(err *Error) {
	stderrColor.Fprintln(os.Stderr, err.Error())
}
