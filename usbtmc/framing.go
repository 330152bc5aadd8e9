package usbtmc

import (
	"encoding/binary"
	"fmt"
)

// USBTMC bulk message IDs.
const (
	msgDevDepOut       byte = 1
	msgRequestDevDepIn byte = 2
	msgDevDepIn        byte = 2
)

const (
	headerSize = 12
	attrEOM    = 0x01
)

// tagger hands out bTag values 1..255; zero is reserved by USBTMC.
type tagger struct {
	last byte
}

func (t *tagger) next() byte {
	t.last++
	if t.last == 0 {
		t.last = 1
	}

	return t.last
}

func header(msgID, tag byte, size uint32) []byte {
	h := make([]byte, headerSize)
	h[0] = msgID
	h[1] = tag
	h[2] = ^tag
	binary.LittleEndian.PutUint32(h[4:8], size)

	return h
}

// encodeDevDepOut frames payload as a DEV_DEP_MSG_OUT transfer, padded to a
// four byte boundary.
func encodeDevDepOut(tag byte, payload []byte, eom bool) []byte {
	buf := header(msgDevDepOut, tag, uint32(len(payload)))
	if eom {
		buf[8] = attrEOM
	}
	buf = append(buf, payload...)
	if pad := len(buf) % 4; pad != 0 {
		buf = append(buf, make([]byte, 4-pad)...)
	}

	return buf
}

// encodeRequestDevDepIn asks the device to send at most maxSize reply bytes.
func encodeRequestDevDepIn(tag byte, maxSize uint32) []byte {
	return header(msgRequestDevDepIn, tag, maxSize)
}

// inHeader is a decoded DEV_DEP_MSG_IN header.
type inHeader struct {
	size uint32
	eom  bool
}

func decodeDevDepInHeader(tag byte, buf []byte) (inHeader, error) {
	if len(buf) < headerSize {
		return inHeader{}, fmt.Errorf("short bulk-in header: %d bytes", len(buf))
	}
	if buf[0] != msgDevDepIn {
		return inHeader{}, fmt.Errorf("unexpected bulk-in message id %d", buf[0])
	}
	if buf[1] != tag || buf[2] != ^tag {
		return inHeader{}, fmt.Errorf("bulk-in tag mismatch: want %d, got %d/%d", tag, buf[1], buf[2])
	}

	return inHeader{
		size: binary.LittleEndian.Uint32(buf[4:8]),
		eom:  buf[8]&attrEOM != 0,
	}, nil
}
