package telopts

import (
	"testing"

	"github.com/moodclient/telnet"
)

func TestNAWSReportsSizeOnlyWhileActive(t *testing.T) {
	client := NewNAWS(telnet.LocalSide)

	// Setting the size before activation must not emit anything.
	var emitted []telnet.Element
	client.SetLocalSize(func(e telnet.Element) { emitted = append(emitted, e) }, 80, 24)
	if len(emitted) != 0 {
		t.Fatalf("expected no emission before activation, got %v", emitted)
	}

	client.Negotiate(telnet.DO, func(telnet.Element) {})
	if !client.Active() {
		t.Fatalf("expected NAWS active")
	}

	client.SetLocalSize(func(e telnet.Element) { emitted = append(emitted, e) }, 100, 40)
	if len(emitted) != 1 {
		t.Fatalf("expected one emission after activation, got %v", emitted)
	}
	want := []byte{0, 100, 0, 40}
	for i, b := range want {
		if emitted[0].Content[i] != b {
			t.Fatalf("got %v, want %v", emitted[0].Content, want)
		}
	}
}

func TestNAWSServerDecodesRemoteSize(t *testing.T) {
	server := NewNAWS(telnet.RemoteSide)
	server.Negotiate(telnet.WILL, func(telnet.Element) {})

	var gotW, gotH int
	server.OnRemoteSize = func(w, h int) { gotW, gotH = w, h }

	server.Subnegotiate([]byte{0, 80, 0, 24}, func(telnet.Element) {})

	if gotW != 80 || gotH != 24 {
		t.Fatalf("got %dx%d, want 80x24", gotW, gotH)
	}

	w, h := server.RemoteSize()
	if w != 80 || h != 24 {
		t.Fatalf("RemoteSize returned %dx%d", w, h)
	}
}
