package values

import (
	"fmt"
	"math/big"
	"net/netip"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Ipv4 is an address/prefix-length object (spec section 3.1). len==32
// is a bare host address.
type Ipv4 struct {
	Addr netip.Addr // network address (host bits zeroed)
	Len  int
}

// NewIpv4 builds an Ipv4 value without validating it; ParseIP is what
// rejects a prefix whose host bits below Len are not all zero (spec
// section 3.1 invariant).
func NewIpv4(addr netip.Addr, length int) *Value {
	return &Value{Kind: KindIpv4, Data: Ipv4{Addr: addr, Len: length}}
}

// String renders the canonical textual form of spec section 6: a bare
// dotted quad at /32, otherwise "a.b.c.d/len".
func (ip Ipv4) String() string {
	if ip.Len == 32 {
		return ip.Addr.String()
	}
	return fmt.Sprintf("%s/%d", ip.Addr, ip.Len)
}

// Ipv6 is the IPv6 analogue of Ipv4.
type Ipv6 struct {
	Addr netip.Addr
	Len  int
}

func NewIpv6(addr netip.Addr, length int) *Value {
	return &Value{Kind: KindIpv6, Data: Ipv6{Addr: addr, Len: length}}
}

func (ip Ipv6) String() string {
	if ip.Len == 128 {
		return ip.Addr.String()
	}
	return fmt.Sprintf("%s/%d", ip.Addr, ip.Len)
}

// Ipv4Range is an inclusive [Start, End] address range with Start <
// End (spec section 3.1 invariant).
type Ipv4Range struct {
	Start, End netip.Addr
}

func NewIpv4Range(start, end netip.Addr) *Value {
	return &Value{Kind: KindIpv4Range, Data: Ipv4Range{Start: start, End: end}}
}

func (r Ipv4Range) String() string { return fmt.Sprintf("%s-%s", r.Start, r.End) }

// Ipv6Range is the IPv6 analogue of Ipv4Range.
type Ipv6Range struct {
	Start, End netip.Addr
}

func NewIpv6Range(start, end netip.Addr) *Value {
	return &Value{Kind: KindIpv6Range, Data: Ipv6Range{Start: start, End: end}}
}

func (r Ipv6Range) String() string { return fmt.Sprintf("%s-%s", r.Start, r.End) }

// IpSet holds prefix lists for v4 and v6 addresses, each kept sorted
// by network address (spec section 3.1), reference-shared and mutable.
// AddIpv4/AddIpv6 append and re-sort only: overlapping, adjacent or
// duplicate prefixes are not merged or removed.
type IpSet struct {
	id       uuid.UUID
	ipv4     []Ipv4
	ipv6     []Ipv6
	shiftIdx int // SHIFT cursor, spans ipv4 then ipv6 (values/shift.go)
}

// NewIpSet builds an empty IpSet value.
func NewIpSet() *Value {
	return &Value{Kind: KindIpSet, Data: &IpSet{id: newHandleID()}}
}

func (s *IpSet) AddIpv4(n Ipv4) {
	s.ipv4 = append(s.ipv4, n)
	sort.Slice(s.ipv4, func(i, j int) bool { return s.ipv4[i].Addr.Less(s.ipv4[j].Addr) })
}

func (s *IpSet) AddIpv6(n Ipv6) {
	s.ipv6 = append(s.ipv6, n)
	sort.Slice(s.ipv6, func(i, j int) bool { return s.ipv6[i].Addr.Less(s.ipv6[j].Addr) })
}

func (s *IpSet) Ipv4Nets() []Ipv4 { return s.ipv4 }
func (s *IpSet) Ipv6Nets() []Ipv6 { return s.ipv6 }
func (s *IpSet) ID() uuid.UUID    { return s.id }

// String renders the comma-separated, v4-then-v6, network-sorted form
// of spec section 6.
func (s *IpSet) String() string {
	parts := make([]string, 0, len(s.ipv4)+len(s.ipv6))
	for _, n := range s.ipv4 {
		parts = append(parts, n.String())
	}
	for _, n := range s.ipv6 {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, ",")
}

// ParseIP implements the `ip` core function's acceptance rules of spec
// section 6: a "-" names an inclusive range (start < end required); a
// "/" carries an explicit prefix length (every host bit below it must
// be zero); a "." without either marks a bare v4 host address (/32);
// anything else is parsed as a bare v6 host address (/128). Mirrors
// original_source/src/vm/vm_ip.rs's parser dispatch on the same three
// punctuation characters.
func ParseIP(s string) (*Value, error) {
	switch {
	case strings.Contains(s, "-"):
		return parseIPRange(s)
	case strings.Contains(s, "/"):
		return parseIPPrefixed(s)
	case strings.Contains(s, "."):
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid ip address %q: %w", s, err)
		}
		if !addr.Is4() {
			return nil, fmt.Errorf("invalid ipv4 address %q", s)
		}
		return NewIpv4(addr, 32), nil
	default:
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid ip address %q: %w", s, err)
		}
		return NewIpv6(addr, 128), nil
	}
}

func parseIPPrefixed(s string) (*Value, error) {
	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		return nil, fmt.Errorf("invalid ip prefix %q: %w", s, err)
	}
	addr := prefix.Addr()
	length := prefix.Bits()
	if !hostBitsZero(addr, length) {
		return nil, fmt.Errorf("ip prefix %q has non-zero host bits", s)
	}
	if addr.Is4() {
		return NewIpv4(addr, length), nil
	}
	return NewIpv6(addr, length), nil
}

// hostBitsZero reports whether every bit below length is zero, i.e.
// addr is already the network address of a /length prefix (spec
// section 3.1 Ipv4/Ipv6 prefix-validity invariant). length==0 is valid
// iff addr is the all-zero address, matching the original's 0.0.0.0/0
// and ::/0 special case.
func hostBitsZero(addr netip.Addr, length int) bool {
	bits := addr.BitLen()
	if length == 0 {
		return addr == zeroAddr(addr)
	}
	if length >= bits {
		return true
	}
	b := addr.AsSlice()
	// Zero every bit from `length` to the end and compare.
	zeroed := append([]byte(nil), b...)
	for bit := length; bit < bits; bit++ {
		byteIdx := bit / 8
		bitIdx := 7 - uint(bit%8)
		zeroed[byteIdx] &^= 1 << bitIdx
	}
	for i := range b {
		if b[i] != zeroed[i] {
			return false
		}
	}
	return true
}

func zeroAddr(addr netip.Addr) netip.Addr {
	if addr.Is4() {
		return netip.AddrFrom4([4]byte{})
	}
	return netip.AddrFrom16([16]byte{})
}

func parseIPRange(s string) (*Value, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid ip range %q", s)
	}
	start, err := netip.ParseAddr(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid ip range start %q: %w", s, err)
	}
	end, err := netip.ParseAddr(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid ip range end %q: %w", s, err)
	}
	if start.Is4() != end.Is4() {
		return nil, fmt.Errorf("ip range %q mixes ipv4 and ipv6 addresses", s)
	}
	if !start.Less(end) {
		return nil, fmt.Errorf("ip range %q requires start < end", s)
	}
	if start.Is4() {
		return NewIpv4Range(start, end), nil
	}
	return NewIpv6Range(start, end), nil
}

// Size returns the inclusive count of addresses in an
// Ipv4Range as a BigInt, matching end-to-end scenario 4
// ("ip.size").
func (r Ipv4Range) Size() *big.Int {
	lo, hi := new(big.Int).SetUint64(uint64(Ipv4ToUint32(r.Start))), new(big.Int).SetUint64(uint64(Ipv4ToUint32(r.End)))
	return new(big.Int).Add(new(big.Int).Sub(hi, lo), big.NewInt(1))
}

func (r Ipv6Range) Size() *big.Int {
	lo, hi := Ipv6ToBigInt(r.Start), Ipv6ToBigInt(r.End)
	return new(big.Int).Add(new(big.Int).Sub(hi, lo), big.NewInt(1))
}

// Ipv4ToUint32 converts an address to its big-endian unsigned integer
// form, mirroring the original cosh ipv4_addr_to_int helper.
func Ipv4ToUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// Uint32ToIpv4 is the inverse of Ipv4ToUint32.
func Uint32ToIpv4(n uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
}

// Ipv6ToBigInt converts an address to its big-endian unsigned integer
// form, mirroring the original cosh ipv6_addr_to_int helper.
func Ipv6ToBigInt(addr netip.Addr) *big.Int {
	b := addr.As16()
	return new(big.Int).SetBytes(b[:])
}

// BigIntToIpv6 is the inverse of Ipv6ToBigInt.
func BigIntToIpv6(n *big.Int) netip.Addr {
	var buf [16]byte
	n.FillBytes(buf[:])
	return netip.AddrFrom16(buf)
}
