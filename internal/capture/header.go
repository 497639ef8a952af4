package capture

import (
	"encoding/binary"
	"io"

	"github.com/yanun0323/errors"

	"parsequote/pkg/exception"
)

const (
	// HeaderSize is the size of the global file header.
	HeaderSize = 24

	utcOffsetPos = 8

	UnitMicro int64 = 1000
	UnitNano  int64 = 1
)

var (
	magicMicroLE = [4]byte{0xd4, 0xc3, 0xb2, 0xa1}
	magicMicroBE = [4]byte{0xa1, 0xb2, 0xc3, 0xd4}
	magicNanoLE  = [4]byte{0x4d, 0x3c, 0xb2, 0xa1}
	magicNanoBE  = [4]byte{0xa1, 0xb2, 0x3c, 0x4d}
)

// Context is derived once from the file header and stays fixed for the whole parse.
type Context struct {
	ByteOrder binary.ByteOrder
	// UnitScale converts the record sub-second field to nanoseconds.
	UnitScale int64
	// UTCOffset is the recorder's local-to-UTC correction in seconds.
	UTCOffset int64
}

// ReadHeader consumes the global header and returns the parse context.
func ReadHeader(r io.Reader) (Context, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Context{}, errors.Wrap(err, "read global header")
	}
	return decodeHeader(buf[:])
}

func decodeHeader(src []byte) (Context, error) {
	_ = src[HeaderSize-1]

	var magic [4]byte
	copy(magic[:], src[0:4])

	var ctx Context
	switch magic {
	case magicMicroLE:
		ctx = Context{ByteOrder: binary.LittleEndian, UnitScale: UnitMicro}
	case magicMicroBE:
		ctx = Context{ByteOrder: binary.BigEndian, UnitScale: UnitMicro}
	case magicNanoLE:
		ctx = Context{ByteOrder: binary.LittleEndian, UnitScale: UnitNano}
	case magicNanoBE:
		ctx = Context{ByteOrder: binary.BigEndian, UnitScale: UnitNano}
	default:
		return Context{}, errors.Wrapf(exception.ErrInvalidContainerFormat, "magic: % x", magic[:])
	}

	ctx.UTCOffset = int64(int32(ctx.ByteOrder.Uint32(src[utcOffsetPos : utcOffsetPos+4])))
	return ctx, nil
}
