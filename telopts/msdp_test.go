package telopts

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/moodclient/telnet"
)

func activatedMSDPServer(t *testing.T) *MSDP {
	t.Helper()
	s := NewMSDPServer()
	s.Negotiate(telnet.DO, func(telnet.Element) {})
	if !s.Active() {
		t.Fatalf("expected MSDP server active after DO")
	}
	return s
}

func TestMSDPOptionCode(t *testing.T) {
	if NewMSDPServer().Code() != 69 {
		t.Fatalf("expected MSDP code 69")
	}
}

func TestMSDPSendString(t *testing.T) {
	s := activatedMSDPServer(t)

	var emitted telnet.Element
	err := s.Send(NewMSDPVariable([]byte("var"), MSDPStringValue([]byte("val"))),
		func(e telnet.Element) { emitted = e })
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	want := append([]byte{msdpVar}, []byte("var")...)
	want = append(want, msdpVal)
	want = append(want, []byte("val")...)

	if !bytes.Equal(emitted.Content, want) {
		t.Fatalf("got %v, want %v", emitted.Content, want)
	}
}

func TestMSDPSendArray(t *testing.T) {
	s := activatedMSDPServer(t)

	var emitted telnet.Element
	v := NewMSDPVariable([]byte("var"), MSDPArrayValue(
		MSDPStringValue([]byte("val0")),
		MSDPStringValue([]byte("val1")),
	))
	if err := s.Send(v, func(e telnet.Element) { emitted = e }); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	want := []byte{msdpVar}
	want = append(want, "var"...)
	want = append(want, msdpVal, msdpArrayOpen)
	want = append(want, msdpVal)
	want = append(want, "val0"...)
	want = append(want, msdpVal)
	want = append(want, "val1"...)
	want = append(want, msdpArrayClose)

	if !bytes.Equal(emitted.Content, want) {
		t.Fatalf("got %v, want %v", emitted.Content, want)
	}
}

func TestMSDPSendTable(t *testing.T) {
	s := activatedMSDPServer(t)

	var emitted telnet.Element
	v := NewMSDPVariable([]byte("var"), MSDPTableValue(
		NewMSDPVariable([]byte("tbl"), MSDPArrayValue(
			MSDPStringValue([]byte("val0")),
			MSDPStringValue([]byte("val1")),
		)),
	))
	if err := s.Send(v, func(e telnet.Element) { emitted = e }); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	want := []byte{msdpVar}
	want = append(want, "var"...)
	want = append(want, msdpVal, msdpTableOpen, msdpVar)
	want = append(want, "tbl"...)
	want = append(want, msdpVal, msdpArrayOpen)
	want = append(want, msdpVal)
	want = append(want, "val0"...)
	want = append(want, msdpVal)
	want = append(want, "val1"...)
	want = append(want, msdpArrayClose, msdpTableClose)

	if !bytes.Equal(emitted.Content, want) {
		t.Fatalf("got %v, want %v", emitted.Content, want)
	}
}

func TestMSDPSendWhileInactiveFails(t *testing.T) {
	s := NewMSDPServer()
	err := s.Send(NewMSDPVariable([]byte("var"), MSDPStringValue([]byte("val"))), func(telnet.Element) {})
	if err == nil {
		t.Fatalf("expected Send on an inactive option to fail")
	}
}

func TestMSDPReceiveNoVariables(t *testing.T) {
	s := activatedMSDPServer(t)

	var got []MSDPVariable
	s.OnReceive = func(v MSDPVariable) { got = append(got, v) }
	s.Subnegotiate(nil, func(telnet.Element) {})

	if len(got) != 0 {
		t.Fatalf("expected no variables, got %v", got)
	}
}

func TestMSDPReceiveOneVariable(t *testing.T) {
	s := activatedMSDPServer(t)

	var got []MSDPVariable
	s.OnReceive = func(v MSDPVariable) { got = append(got, v) }

	content := append([]byte{msdpVar}, "var"...)
	content = append(content, msdpVal)
	content = append(content, "val"...)
	s.Subnegotiate(content, func(telnet.Element) {})

	want := []MSDPVariable{NewMSDPVariable([]byte("var"), MSDPStringValue([]byte("val")))}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMSDPReceiveTwoVariables(t *testing.T) {
	s := activatedMSDPServer(t)

	var got []MSDPVariable
	s.OnReceive = func(v MSDPVariable) { got = append(got, v) }

	var content []byte
	content = append(content, msdpVar)
	content = append(content, "var0"...)
	content = append(content, msdpVal)
	content = append(content, "val0"...)
	content = append(content, msdpVar)
	content = append(content, "var1"...)
	content = append(content, msdpVal)
	content = append(content, "val1"...)

	s.Subnegotiate(content, func(telnet.Element) {})

	want := []MSDPVariable{
		NewMSDPVariable([]byte("var0"), MSDPStringValue([]byte("val0"))),
		NewMSDPVariable([]byte("var1"), MSDPStringValue([]byte("val1"))),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMSDPReceiveEmptyArray(t *testing.T) {
	s := activatedMSDPServer(t)

	var got []MSDPVariable
	s.OnReceive = func(v MSDPVariable) { got = append(got, v) }

	content := []byte{msdpVar}
	content = append(content, "arr"...)
	content = append(content, msdpVal, msdpArrayOpen, msdpArrayClose)

	s.Subnegotiate(content, func(telnet.Element) {})

	want := []MSDPVariable{NewMSDPVariable([]byte("arr"), MSDPArrayValue())}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMSDPReceiveArrayWithElements(t *testing.T) {
	s := activatedMSDPServer(t)

	var got []MSDPVariable
	s.OnReceive = func(v MSDPVariable) { got = append(got, v) }

	content := []byte{msdpVar}
	content = append(content, "arr"...)
	content = append(content, msdpVal, msdpArrayOpen)
	content = append(content, msdpVal)
	content = append(content, "val0"...)
	content = append(content, msdpVal)
	content = append(content, "val1"...)
	content = append(content, msdpArrayClose)

	s.Subnegotiate(content, func(telnet.Element) {})

	want := []MSDPVariable{NewMSDPVariable([]byte("arr"), MSDPArrayValue(
		MSDPStringValue([]byte("val0")),
		MSDPStringValue([]byte("val1")),
	))}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMSDPReceiveEmptyTable(t *testing.T) {
	s := activatedMSDPServer(t)

	var got []MSDPVariable
	s.OnReceive = func(v MSDPVariable) { got = append(got, v) }

	content := []byte{msdpVar}
	content = append(content, "tbl"...)
	content = append(content, msdpVal, msdpTableOpen, msdpTableClose)

	s.Subnegotiate(content, func(telnet.Element) {})

	want := []MSDPVariable{NewMSDPVariable([]byte("tbl"), MSDPTableValue())}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMSDPReceiveNestedTableAndArray(t *testing.T) {
	s := activatedMSDPServer(t)

	var got []MSDPVariable
	s.OnReceive = func(v MSDPVariable) { got = append(got, v) }

	// tbl = { arr: [val0, val1, val2] }
	content := []byte{msdpVar}
	content = append(content, "tbl"...)
	content = append(content, msdpVal, msdpTableOpen, msdpVar)
	content = append(content, "arr"...)
	content = append(content, msdpVal, msdpArrayOpen)
	content = append(content, msdpVal)
	content = append(content, "val0"...)
	content = append(content, msdpVal)
	content = append(content, "val1"...)
	content = append(content, msdpVal)
	content = append(content, "val2"...)
	content = append(content, msdpArrayClose, msdpTableClose)

	s.Subnegotiate(content, func(telnet.Element) {})

	want := []MSDPVariable{
		NewMSDPVariable([]byte("tbl"), MSDPTableValue(
			NewMSDPVariable([]byte("arr"), MSDPArrayValue(
				MSDPStringValue([]byte("val0")),
				MSDPStringValue([]byte("val1")),
				MSDPStringValue([]byte("val2")),
			)),
		)),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMSDPEncodeDecodeRoundTrip(t *testing.T) {
	variables := []MSDPVariable{
		NewMSDPVariable([]byte("var"), MSDPStringValue([]byte("val"))),
		NewMSDPVariable([]byte("tbl"), MSDPTableValue(
			NewMSDPVariable([]byte("in"), MSDPTableValue(
				NewMSDPVariable([]byte("var"), MSDPStringValue([]byte("val"))),
			)),
		)),
	}

	content := EncodeMSDPVariables(variables)
	decoded, err := DecodeMSDPVariables(content)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !reflect.DeepEqual(decoded, variables) {
		t.Fatalf("round trip mismatch: got %v, want %v", decoded, variables)
	}
}

func TestMSDPSubnegotiateWhileInactiveIsGatedBySession(t *testing.T) {
	// MSDP itself doesn't gate on Active in Subnegotiate - Session does, by
	// only calling it once the option reports Active. Decode correctness
	// doesn't depend on activation state.
	s := NewMSDPServer()
	var got []MSDPVariable
	s.OnReceive = func(v MSDPVariable) { got = append(got, v) }

	content := append([]byte{msdpVar}, "var"...)
	content = append(content, msdpVal)
	content = append(content, "val"...)
	s.Subnegotiate(content, func(telnet.Element) {})

	if len(got) != 1 {
		t.Fatalf("expected decode to still work, got %v", got)
	}
}
