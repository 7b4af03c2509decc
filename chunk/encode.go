package chunk

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/wudi/shellish/values"
)

// Encode serializes a chunk to the on-disk bytecode format (spec
// section 4.2/6): name, data, points, constants, nested functions, and
// generator metadata. constantValues is never persisted — it is a
// runtime cache rebuilt lazily from Constants on first use, matching
// the original's #[serde(skip)] on constant_values.
func (c *Chunk) Encode(w io.Writer) error {
	bw := &binWriter{w: w}
	bw.writeString(c.Name)
	bw.writeUint32(uint32(len(c.Data)))
	bw.write(c.Data)

	bw.writeUint32(uint32(len(c.Points)))
	for _, p := range c.Points {
		bw.writeUint32(p.Line)
		bw.writeUint32(p.Column)
	}

	bw.writeUint32(uint32(len(c.Constants)))
	for _, con := range c.Constants {
		bw.writeByte(byte(con.Kind))
		switch con.Kind {
		case ConstBool:
			bw.writeBool(con.Bool)
		case ConstInt:
			bw.writeUint32(uint32(con.Int))
		case ConstFloat:
			bw.writeFloat64(con.Float)
		case ConstBigInt:
			bw.writeString(con.BigInt)
		case ConstString, ConstCommand, ConstCommandUncaptured:
			bw.writeString(con.Raw)
			bw.writeString(con.Escaped)
		}
	}

	names := make([]string, 0, len(c.Functions))
	for name := range c.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	bw.writeUint32(uint32(len(names)))
	for _, name := range names {
		bw.writeString(name)
		if err := c.Functions[name].Encode(w); err != nil {
			return err
		}
	}

	bw.writeBool(c.IsGenerator)
	bw.writeBool(c.HasVars)
	bw.writeUint32(uint32(c.ArgCount))
	bw.writeUint32(uint32(c.ReqArgCount))
	bw.writeBool(c.Nested)
	bw.writeUint32(c.ScopeDepth)
	return bw.err
}

// Decode deserializes a chunk written by Encode.
func Decode(r io.Reader) (*Chunk, error) {
	br := &binReader{r: r}
	c := &Chunk{Functions: map[string]*Chunk{}}
	c.Name = br.readString()
	dataLen := br.readUint32()
	c.Data = make([]byte, dataLen)
	br.read(c.Data)

	pointsLen := br.readUint32()
	c.Points = make([]Point, pointsLen)
	for i := range c.Points {
		c.Points[i] = Point{Line: br.readUint32(), Column: br.readUint32()}
	}

	constLen := br.readUint32()
	c.Constants = make([]*Constant, constLen)
	c.constantValues = make([]*values.Value, constLen)
	for i := range c.Constants {
		con := &Constant{Kind: ConstantKind(br.readByte())}
		switch con.Kind {
		case ConstBool:
			con.Bool = br.readBool()
		case ConstInt:
			con.Int = int32(br.readUint32())
		case ConstFloat:
			con.Float = br.readFloat64()
		case ConstBigInt:
			con.BigInt = br.readString()
		case ConstString, ConstCommand, ConstCommandUncaptured:
			con.Raw = br.readString()
			con.Escaped = br.readString()
		}
		c.Constants[i] = con
	}

	fnCount := br.readUint32()
	for i := uint32(0); i < fnCount; i++ {
		name := br.readString()
		child, err := Decode(r)
		if err != nil {
			return nil, err
		}
		c.Functions[name] = child
	}

	c.IsGenerator = br.readBool()
	c.HasVars = br.readBool()
	c.ArgCount = int32(br.readUint32())
	c.ReqArgCount = int32(br.readUint32())
	c.Nested = br.readBool()
	c.ScopeDepth = br.readUint32()
	if br.err != nil {
		return nil, br.err
	}
	return c, nil
}

type binWriter struct {
	w   io.Writer
	err error
}

func (bw *binWriter) write(b []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(b)
}

func (bw *binWriter) writeByte(b byte)   { bw.write([]byte{b}) }
func (bw *binWriter) writeBool(b bool) {
	if b {
		bw.writeByte(1)
	} else {
		bw.writeByte(0)
	}
}

func (bw *binWriter) writeUint32(n uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	bw.write(buf[:])
}

func (bw *binWriter) writeFloat64(f float64) {
	var buf bytes.Buffer
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(&buf, binary.BigEndian, f)
	bw.write(buf.Bytes())
}

func (bw *binWriter) writeString(s string) {
	bw.writeUint32(uint32(len(s)))
	bw.write([]byte(s))
}

type binReader struct {
	r   io.Reader
	err error
}

func (br *binReader) read(b []byte) {
	if br.err != nil {
		return
	}
	_, br.err = io.ReadFull(br.r, b)
}

func (br *binReader) readByte() byte {
	var buf [1]byte
	br.read(buf[:])
	return buf[0]
}

func (br *binReader) readBool() bool { return br.readByte() != 0 }

func (br *binReader) readUint32() uint32 {
	var buf [4]byte
	br.read(buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (br *binReader) readFloat64() float64 {
	var buf [8]byte
	br.read(buf[:])
	if br.err != nil {
		return 0
	}
	var f float64
	br.err = binary.Read(bytes.NewReader(buf[:]), binary.BigEndian, &f)
	return f
}

func (br *binReader) readString() string {
	n := br.readUint32()
	buf := make([]byte, n)
	br.read(buf)
	return string(buf)
}
