package player

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	outputRate      = 44100
	outputChannels  = 2
	outputFrameSize = outputChannels * 2
	outputByteRate  = outputRate * outputFrameSize
)

// stereoStream presents any mono or stereo decoder as 44.1 kHz stereo s16le,
// resampling with linear interpolation when the source rate differs.
type stereoStream struct {
	src      audioDecoder
	rate     int
	channels int

	length  int64 // output bytes
	pos     int64
	step    float64 // source frames per output frame
	cursor  float64 // source frame position relative to window[0]
	window  []int16 // buffered source frames, interleaved stereo
	scratch []byte
	srcEOF  bool
}

func newStereoStream(src audioDecoder) (*stereoStream, error) {
	rate, channels := src.SampleRate(), src.ChannelCount()
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, rate)
	}
	if channels < 1 || channels > outputChannels {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}
	srcFrames := src.Length() / int64(channels*2)
	return &stereoStream{
		src:      src,
		rate:     rate,
		channels: channels,
		length:   srcFrames * outputRate / int64(rate) * outputFrameSize,
		step:     float64(rate) / outputRate,
	}, nil
}

func (s *stereoStream) passthrough() bool {
	return s.rate == outputRate && s.channels == outputChannels
}

func (s *stereoStream) Length() int64     { return s.length }
func (s *stereoStream) SampleRate() int   { return outputRate }
func (s *stereoStream) ChannelCount() int { return outputChannels }

func (s *stereoStream) Read(p []byte) (int, error) {
	if s.passthrough() {
		n, err := s.src.Read(p)
		s.pos += int64(n)
		return n, err
	}

	frames := len(p) / outputFrameSize
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}
	written := 0
	for written < frames {
		i := int(s.cursor)
		if err := s.fill(i + 2); err != nil && i >= len(s.window)/2 {
			if written == 0 {
				return 0, err
			}
			break
		}
		frac := s.cursor - float64(i)
		next := min(i+1, len(s.window)/2-1)
		for ch := range outputChannels {
			a := float64(s.window[i*2+ch])
			b := float64(s.window[next*2+ch])
			putSample(p[written*outputFrameSize+ch*2:], int(a+(b-a)*frac))
		}
		written++
		s.cursor += s.step
		s.compact()
	}
	n := written * outputFrameSize
	s.pos += int64(n)
	return n, nil
}

// fill reads source data until the window holds at least frames frames.
func (s *stereoStream) fill(frames int) error {
	for len(s.window)/2 < frames {
		if s.srcEOF {
			return io.EOF
		}
		want := 2048 * s.channels * 2
		if cap(s.scratch) < want {
			s.scratch = make([]byte, want)
		}
		buf := s.scratch[:want]
		n, err := s.src.Read(buf)
		n -= n % (s.channels * 2)
		for off := 0; off < n; off += s.channels * 2 {
			left := int16(binary.LittleEndian.Uint16(buf[off:]))
			right := left
			if s.channels == 2 {
				right = int16(binary.LittleEndian.Uint16(buf[off+2:]))
			}
			s.window = append(s.window, left, right)
		}
		if err == io.EOF {
			s.srcEOF = true
		} else if err != nil {
			return err
		}
	}
	return nil
}

// compact drops source frames the cursor has moved past.
func (s *stereoStream) compact() {
	drop := int(s.cursor)
	if drop < 1024 {
		return
	}
	s.window = append(s.window[:0], s.window[drop*2:]...)
	s.cursor -= float64(drop)
}

func (s *stereoStream) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = s.pos + offset
	case io.SeekEnd:
		next = s.length + offset
	default:
		return s.pos, fmt.Errorf("invalid seek whence: %d", whence)
	}
	next = min(max(next, 0), s.length)
	next -= next % outputFrameSize

	if s.passthrough() {
		pos, err := s.src.Seek(next, io.SeekStart)
		if err != nil {
			return s.pos, err
		}
		s.pos = pos
		return pos, nil
	}

	srcFrame := next / outputFrameSize * int64(s.rate) / outputRate
	if _, err := s.src.Seek(srcFrame*int64(s.channels*2), io.SeekStart); err != nil {
		return s.pos, err
	}
	s.window = s.window[:0]
	s.cursor = 0
	s.srcEOF = false
	s.pos = next
	return next, nil
}
