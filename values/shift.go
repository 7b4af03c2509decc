package values

import (
	"io"
	"strings"
)

// Shifter is implemented by every value kind that can be the target of
// SHIFT (spec section 4.4 ISSHIFTABLE): Shift returns the next
// produced value and true, or (nil, false, nil) once the source is
// exhausted. The generator package implements this for Generator/
// CommandGenerator/KeysGenerator/ValuesGenerator/EachGenerator/
// MultiGenerator without values needing to import it (same
// import-cycle avoidance as Cloner).
type Shifter interface {
	Shift() (*Value, bool, error)
}

// Shift implements Shifter for FileReader: one line at a time,
// trimming the trailing newline, matching the original's read_line
// (original_source/src/chunk.rs).
func (r *FileReader) Shift() (*Value, bool, error) {
	line, err := r.Reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line == "" {
				return nil, false, nil
			}
			return NewString(line), true, nil
		}
		return nil, false, err
	}
	return NewString(strings.TrimRight(line, "\n")), true, nil
}

// Shift implements Shifter for DirectoryHandle: one entry name per
// call.
func (d *DirectoryHandle) Shift() (*Value, bool, error) {
	name, err, ok := d.Next()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return NewString(name), true, nil
}

// Shift implements Shifter for IpSet: one network at a time, IPv4
// networks first (in sorted order), then IPv6.
func (s *IpSet) Shift() (*Value, bool, error) {
	if s.shiftIdx < len(s.ipv4) {
		n := s.ipv4[s.shiftIdx]
		s.shiftIdx++
		return NewIpv4(n.Addr, n.Len), true, nil
	}
	v6i := s.shiftIdx - len(s.ipv4)
	if v6i < len(s.ipv6) {
		n := s.ipv6[v6i]
		s.shiftIdx++
		return NewIpv6(n.Addr, n.Len), true, nil
	}
	return nil, false, nil
}
