package telopts

import "fmt"

// MSDP marker bytes, as defined by the Mud Server Data Protocol draft.
const (
	msdpVar        byte = 0x01
	msdpVal        byte = 0x02
	msdpTableOpen  byte = 0x03
	msdpTableClose byte = 0x04
	msdpArrayOpen  byte = 0x05
	msdpArrayClose byte = 0x06
)

// MSDPValueKind discriminates the three shapes an MSDPValue can take.
type MSDPValueKind byte

const (
	// MSDPString is a bare byte string value.
	MSDPString MSDPValueKind = iota + 1
	// MSDPArray is an ordered list of values, all introduced by the same
	// VAL marker and bracketed by ARRAY_OPEN/ARRAY_CLOSE.
	MSDPArray
	// MSDPTable is an ordered list of nested variables, bracketed by
	// TABLE_OPEN/TABLE_CLOSE.
	MSDPTable
)

// MSDPValue is the recursive value type MSDP variables carry: a string, an
// array of values, or a table of variables.
type MSDPValue struct {
	Kind MSDPValueKind

	String []byte
	Array  []MSDPValue
	Table  []MSDPVariable
}

// MSDPStringValue builds a string-kind MSDPValue.
func MSDPStringValue(s []byte) MSDPValue {
	return MSDPValue{Kind: MSDPString, String: s}
}

// MSDPArrayValue builds an array-kind MSDPValue.
func MSDPArrayValue(values ...MSDPValue) MSDPValue {
	return MSDPValue{Kind: MSDPArray, Array: values}
}

// MSDPTableValue builds a table-kind MSDPValue.
func MSDPTableValue(variables ...MSDPVariable) MSDPValue {
	return MSDPValue{Kind: MSDPTable, Table: variables}
}

// MSDPVariable is a single VAR/VAL pair: a name and the value bound to it.
type MSDPVariable struct {
	Name  []byte
	Value MSDPValue
}

// NewMSDPVariable builds an MSDPVariable from a name and value.
func NewMSDPVariable(name []byte, value MSDPValue) MSDPVariable {
	return MSDPVariable{Name: name, Value: value}
}

// EncodeMSDPVariables serializes a sequence of variables into the content of
// a single MSDP subnegotiation (everything between IAC SB 69 and IAC SE, not
// yet IAC-escaped - the frame codec handles that).
func EncodeMSDPVariables(variables []MSDPVariable) []byte {
	var out []byte
	for _, v := range variables {
		out = appendMSDPVariable(out, v)
	}
	return out
}

func appendMSDPVariable(out []byte, v MSDPVariable) []byte {
	out = append(out, msdpVar)
	out = append(out, v.Name...)
	out = append(out, msdpVal)
	return appendMSDPValue(out, v.Value)
}

func appendMSDPValue(out []byte, v MSDPValue) []byte {
	switch v.Kind {
	case MSDPString:
		return append(out, v.String...)

	case MSDPArray:
		out = append(out, msdpArrayOpen)
		for _, element := range v.Array {
			out = append(out, msdpVal)
			out = appendMSDPValue(out, element)
		}
		return append(out, msdpArrayClose)

	case MSDPTable:
		out = append(out, msdpTableOpen)
		for _, variable := range v.Table {
			out = appendMSDPVariable(out, variable)
		}
		return append(out, msdpTableClose)

	default:
		return out
	}
}

// msdpDecoder walks an MSDP subnegotiation payload byte by byte. It is built
// fresh for each call to DecodeMSDPVariables rather than kept as state on the
// option, since a subnegotiation always arrives as one complete buffer.
type msdpDecoder struct {
	data []byte
	pos  int
}

// DecodeMSDPVariables parses the content of one MSDP subnegotiation into the
// sequence of top-level variables it carries.
func DecodeMSDPVariables(content []byte) ([]MSDPVariable, error) {
	d := &msdpDecoder{data: content}
	return d.variables(func(b byte) bool { return false })
}

func (d *msdpDecoder) peek() (byte, bool) {
	if d.pos >= len(d.data) {
		return 0, false
	}
	return d.data[d.pos], true
}

// variables reads VAR/VAL pairs until the input is exhausted or stop reports
// that the next byte closes the enclosing bracket (without consuming it).
func (d *msdpDecoder) variables(stop func(byte) bool) ([]MSDPVariable, error) {
	var result []MSDPVariable

	for {
		b, ok := d.peek()
		if !ok || stop(b) {
			return result, nil
		}
		if b != msdpVar {
			return nil, fmt.Errorf("msdp: expected VAR marker, got byte %d", b)
		}
		d.pos++

		name := d.readUntilMarker()

		b, ok = d.peek()
		if !ok || b != msdpVal {
			return nil, fmt.Errorf("msdp: variable %q missing VAL marker", name)
		}
		d.pos++

		value, err := d.value()
		if err != nil {
			return nil, fmt.Errorf("msdp: variable %q: %w", name, err)
		}

		result = append(result, MSDPVariable{Name: name, Value: value})
	}
}

// readUntilMarker consumes bytes up to (not including) the next marker byte
// or the end of input, used for both variable names and plain string values.
func (d *msdpDecoder) readUntilMarker() []byte {
	start := d.pos
	for d.pos < len(d.data) && !isMSDPMarker(d.data[d.pos]) {
		d.pos++
	}
	return d.data[start:d.pos]
}

func isMSDPMarker(b byte) bool {
	switch b {
	case msdpVar, msdpVal, msdpTableOpen, msdpTableClose, msdpArrayOpen, msdpArrayClose:
		return true
	default:
		return false
	}
}

// value reads one MSDPValue starting at the current position: a table, an
// array, or a plain string run up to the next marker.
func (d *msdpDecoder) value() (MSDPValue, error) {
	b, ok := d.peek()
	if !ok {
		return MSDPStringValue(nil), nil
	}

	switch b {
	case msdpTableOpen:
		d.pos++
		vars, err := d.variables(func(b byte) bool { return b == msdpTableClose })
		if err != nil {
			return MSDPValue{}, err
		}
		closeByte, ok := d.peek()
		if !ok || closeByte != msdpTableClose {
			return MSDPValue{}, fmt.Errorf("msdp: unterminated table")
		}
		d.pos++
		return MSDPTableValue(vars...), nil

	case msdpArrayOpen:
		d.pos++
		var values []MSDPValue
		for {
			next, ok := d.peek()
			if !ok {
				return MSDPValue{}, fmt.Errorf("msdp: unterminated array")
			}
			if next == msdpArrayClose {
				d.pos++
				return MSDPArrayValue(values...), nil
			}
			if next != msdpVal {
				return MSDPValue{}, fmt.Errorf("msdp: expected VAL marker in array, got byte %d", next)
			}
			d.pos++

			elem, err := d.value()
			if err != nil {
				return MSDPValue{}, err
			}
			values = append(values, elem)
		}

	default:
		return MSDPStringValue(d.readUntilMarker()), nil
	}
}
