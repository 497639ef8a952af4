package capture

import (
	"bufio"
	"io"

	"github.com/yanun0323/errors"
)

const defaultSourceBufferSize = 1 << 20

// BufferedSource is a buffered io.ReadSeeker supporting forward relative seeks.
// Seeking past the end is not an error, the next read reports io.EOF.
type BufferedSource struct {
	r   *bufio.Reader
	pos int64
}

// NewBufferedSource wraps r with a read buffer of size bytes (1MB when size <= 0).
func NewBufferedSource(r io.Reader, size int) *BufferedSource {
	if size <= 0 {
		size = defaultSourceBufferSize
	}
	return &BufferedSource{r: bufio.NewReaderSize(r, size)}
}

func (s *BufferedSource) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.pos += int64(n)
	return n, err
}

// Seek only supports io.SeekCurrent with a non-negative offset.
func (s *BufferedSource) Seek(offset int64, whence int) (int64, error) {
	if whence != io.SeekCurrent || offset < 0 {
		return s.pos, errors.Errorf("buffered source: unsupported seek, offset: %d, whence: %d", offset, whence)
	}
	for offset > 0 {
		step := offset
		if step > int64(^uint32(0)>>1) {
			step = int64(^uint32(0) >> 1)
		}
		n, err := s.r.Discard(int(step))
		s.pos += int64(n)
		offset -= int64(n)
		if err == io.EOF {
			s.pos += offset
			return s.pos, nil
		}
		if err != nil {
			return s.pos, err
		}
	}
	return s.pos, nil
}
