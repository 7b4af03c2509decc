// Package stdlib installs the core functions of spec section 3.1/6
// into a VM's global table — the built-in, Go-implemented counterpart
// to a user-defined NamedFunction, grounded on wudi-hey's stdlib
// package (stdlib/stdlib.go's StandardLibrary.Functions registry),
// generalized from PHP's single flat function namespace to this
// language's dotted core-function names (ip, ip.len, ip.size, ...).
package stdlib

import (
	"math/big"
	"strings"

	"github.com/wudi/shellish/generator"
	"github.com/wudi/shellish/values"
	"github.com/wudi/shellish/vm"
)

// Install defines every core function on target's globals, as if each
// had been bound by a VAR+SETVAR pair ahead of the user's program.
func Install(target *vm.VM) {
	for name, fn := range functions {
		target.DefineGlobal(name, values.NewCoreFunction(name, fn))
	}
}

var functions = map[string]values.CoreFunctionImpl{
	"ip":       coreIP,
	"ip.len":   coreIPLen,
	"ip.size":  coreIPSize,
	"keys":     coreKeys,
	"values":   coreValues,
	"each":     coreEach,
	"readdir":  coreReaddir,
	"command":  coreCommand,
	"command2": coreCommand2,
	"match":    coreMatch,
}

func asVM(iface interface{}) (*vm.VM, bool) {
	v, ok := iface.(*vm.VM)
	return v, ok
}

func arity(target *vm.VM, want int) ([]*values.Value, error) {
	args, ok := target.PopArgs(want)
	if !ok {
		return nil, target.Err(vm.ArityError, "core function requires %d argument(s) on the stack", want)
	}
	return args, nil
}

// coreIP implements the `ip` core function: parse a String operand
// per spec section 6's acceptance rules into an Ipv4/Ipv6/Ipv4Range/
// Ipv6Range value.
func coreIP(iface interface{}) error {
	target, _ := asVM(iface)
	args, err := arity(target, 1)
	if err != nil {
		return err
	}
	s, ok := args[0].ToDisplayString()
	if !ok {
		return target.Err(vm.TypeError, "ip requires a string argument")
	}
	parsed, perr := values.ParseIP(s)
	if perr != nil {
		return target.Err(vm.ParseError, "%s", perr)
	}
	target.PushValue(parsed)
	return nil
}

// coreIPLen implements `ip.len`: the prefix length of an Ipv4/Ipv6
// value (spec section 8 end-to-end scenario 4: "10.0.0.0/8" -> Int(8)).
func coreIPLen(iface interface{}) error {
	target, _ := asVM(iface)
	args, err := arity(target, 1)
	if err != nil {
		return err
	}
	switch d := args[0].Data.(type) {
	case values.Ipv4:
		target.PushValue(values.NewInt(int32(d.Len)))
	case values.Ipv6:
		target.PushValue(values.NewInt(int32(d.Len)))
	default:
		return target.Err(vm.TypeError, "ip.len requires an ipv4 or ipv6 value")
	}
	return nil
}

// coreIPSize implements `ip.size`: the inclusive address count of an
// Ipv4Range/Ipv6Range as an unnormalized BigInt (spec section 8
// end-to-end scenario 4: "10.0.0.0-10.0.0.3" -> BigInt("4") — left as
// BigInt even though it fits an i32, matching the literal expected
// value rather than values.Normalize's usual demotion).
func coreIPSize(iface interface{}) error {
	target, _ := asVM(iface)
	args, err := arity(target, 1)
	if err != nil {
		return err
	}
	var size *big.Int
	switch d := args[0].Data.(type) {
	case values.Ipv4Range:
		size = d.Size()
	case values.Ipv6Range:
		size = d.Size()
	default:
		return target.Err(vm.TypeError, "ip.size requires an ipv4 or ipv6 range value")
	}
	target.PushValue(values.NewBigInt(size))
	return nil
}

// coreKeys/coreValues/coreEach wrap a Hash argument in the matching
// generator (spec section 4.5), pushing the fresh generator value
// rather than iterating eagerly.
func coreKeys(iface interface{}) error   { return pushHashGenerator(iface, generator.NewKeysGenerator) }
func coreValues(iface interface{}) error { return pushHashGenerator(iface, generator.NewValuesGenerator) }
func coreEach(iface interface{}) error   { return pushHashGenerator(iface, generator.NewEachGenerator) }

func pushHashGenerator(iface interface{}, build func(*values.Hash) *values.Value) error {
	target, _ := asVM(iface)
	args, err := arity(target, 1)
	if err != nil {
		return err
	}
	h, ok := args[0].Data.(*values.Hash)
	if !ok {
		return target.Err(vm.TypeError, "expected a hash argument")
	}
	target.PushValue(build(h))
	return nil
}

// coreReaddir implements `readdir`: a path string becomes a
// DirectoryHandle generator, lazily listing entries (spec section
// 3.1/4.5), matching values.DirectoryHandle's Shift already wired as a
// values.Shifter.
func coreReaddir(iface interface{}) error {
	target, _ := asVM(iface)
	args, err := arity(target, 1)
	if err != nil {
		return err
	}
	p, ok := args[0].ToDisplayString()
	if !ok {
		return target.Err(vm.TypeError, "readdir requires a string path")
	}
	target.PushValue(values.NewDirectoryHandle(p))
	return nil
}

// coreCommand implements `command`: a shell command string becomes a
// CommandGenerator in split mode, yielding bare lines regardless of
// origin stream (spec section 4.5's first read mode).
func coreCommand(iface interface{}) error {
	return pushCommandGenerator(iface, false)
}

// coreCommand2 implements `command2`: the combined read mode, yielding
// [stream, line] pairs tagging each line's origin (spec section 4.5's
// second read mode).
func coreCommand2(iface interface{}) error {
	return pushCommandGenerator(iface, true)
}

// coreMatch implements `match`: tests a string against a pattern
// string, compiling (or reusing, from the fastcache-backed pattern
// cache) the pattern's regex the first time it's used this way — the
// one core function that actually drives StringTriple.Regex, per spec
// section 9's "String regex caching" design note. PopArgs preserves
// original push order, so args[0] is the subject pushed first and
// args[1] is the pattern pushed second.
func coreMatch(iface interface{}) error {
	target, _ := asVM(iface)
	args, err := arity(target, 2)
	if err != nil {
		return err
	}
	subject, pattern := args[0], args[1]
	patternStr, ok := pattern.Data.(*values.StringTriple)
	if !ok {
		return target.Err(vm.TypeError, "match requires a string pattern")
	}
	subjectStr, ok := subject.ToDisplayString()
	if !ok {
		return target.Err(vm.TypeError, "match requires a string subject")
	}
	re, rerr := patternStr.Regex(false)
	if rerr != nil {
		return target.Err(vm.ParseError, "%s", rerr)
	}
	target.PushValue(values.NewBool(re.MatchString(subjectStr)))
	return nil
}

func pushCommandGenerator(iface interface{}, combined bool) error {
	target, _ := asVM(iface)
	args, err := arity(target, 1)
	if err != nil {
		return err
	}
	raw, ok := args[0].ToDisplayString()
	if !ok {
		return target.Err(vm.TypeError, "command requires a string argument")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return target.Err(vm.TypeError, "command requires a non-empty string")
	}
	gen, cerr := generator.NewCommandGenerator(raw, combined)
	if cerr != nil {
		return target.Err(vm.ResourceError, "%s", cerr)
	}
	target.PushValue(gen)
	return nil
}
