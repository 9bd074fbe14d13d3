package telopts

import (
	"testing"

	"github.com/moodclient/telnet"
)

func TestSimpleOptionsNegotiate(t *testing.T) {
	cases := []struct {
		name   string
		option telnet.Option
		verb   byte
		reply  byte
	}{
		{"transmit-binary", NewTransmitBinary(telnet.LocalSide), telnet.DO, telnet.WILL},
		{"suppress-go-ahead", NewSuppressGoAhead(telnet.LocalSide), telnet.DO, telnet.WILL},
		{"eor", NewEOR(telnet.RemoteSide), telnet.WILL, telnet.DO},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var emitted []telnet.Element
			tc.option.Negotiate(tc.verb, func(e telnet.Element) { emitted = append(emitted, e) })

			if !tc.option.Active() {
				t.Fatalf("expected %s active after negotiation", tc.name)
			}
			if len(emitted) != 1 || emitted[0].Request != tc.reply {
				t.Fatalf("expected reply verb %d, got %v", tc.reply, emitted)
			}

			// No subnegotiation payload should ever be produced.
			var subEmitted []telnet.Element
			tc.option.Subnegotiate([]byte{1, 2, 3}, func(e telnet.Element) { subEmitted = append(subEmitted, e) })
			if len(subEmitted) != 0 {
				t.Fatalf("expected no output from Subnegotiate, got %v", subEmitted)
			}
		})
	}
}

func TestSimpleOptionCodes(t *testing.T) {
	if NewTransmitBinary(telnet.LocalSide).Code() != 0 {
		t.Fatalf("expected TRANSMIT-BINARY code 0")
	}
	if NewSuppressGoAhead(telnet.LocalSide).Code() != 3 {
		t.Fatalf("expected SUPPRESS-GO-AHEAD code 3")
	}
	if NewEOR(telnet.LocalSide).Code() != 25 {
		t.Fatalf("expected EOR code 25")
	}
}
