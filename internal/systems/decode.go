package systems

import (
	"github.com/open-betalpha/server/internal/codec"
	"github.com/open-betalpha/server/internal/netio"
	"github.com/open-betalpha/server/internal/packet"
)

// drain reads every currently-available byte off cs into its leftover
// buffer, decodes as many complete packets as possible, and writes the
// undecoded tail back as the new leftover (spec §4.5 event-emit/login).
// A decode error (InvalidPacketID, InvalidInput) or socket error aborts
// with whatever packets were already decoded.
func drain(cs *netio.ClientStream) ([]packet.Packet, error) {
	buf := cs.Leftover()
	readBuf := make([]byte, 4096)
	for {
		n, err := cs.ReadAvailable(readBuf)
		if err != nil {
			cs.SetLeftover(buf)
			return nil, err
		}
		if n == 0 {
			break
		}
		buf = append(buf, readBuf[:n]...)
	}

	var packets []packet.Packet
	for len(buf) > 0 {
		r := codec.NewReader(buf)
		p, err := packet.Decode(r)
		if err != nil {
			if err == codec.ErrShortBuffer {
				break
			}
			cs.SetLeftover(buf)
			return packets, err
		}
		packets = append(packets, p)
		buf = buf[r.Pos():]
	}

	cs.SetLeftover(buf)
	return packets, nil
}
