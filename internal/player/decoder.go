package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// ErrUnsupportedFormat is returned for files no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// audioDecoder yields interleaved signed 16-bit little-endian PCM.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64 // total PCM bytes
	SampleRate() int
	ChannelCount() int
}

// newDecoder picks a decoder from the file extension.
func newDecoder(f *os.File) (audioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// pcmBuffer holds converted PCM that did not fit in the caller's slice and
// tracks the output position shared by the buffered decoders.
type pcmBuffer struct {
	pending []byte
	pos     int64
	total   int64
}

func (b *pcmBuffer) drain(p []byte) int {
	n := copy(p, b.pending)
	b.pending = b.pending[n:]
	b.pos += int64(n)
	return n
}

// emit copies raw into p and keeps the rest for the next read.
func (b *pcmBuffer) emit(p, raw []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		b.pending = append(b.pending[:0], raw[n:]...)
	}
	b.pos += int64(n)
	return n
}

// target resolves a seek request to an absolute byte offset clamped to the
// stream and aligned to a whole frame.
func (b *pcmBuffer) target(offset int64, whence, frameSize int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = b.pos + offset
	case io.SeekEnd:
		next = b.total + offset
	default:
		return b.pos, fmt.Errorf("invalid seek whence: %d", whence)
	}
	next = min(max(next, 0), b.total)
	return next - next%int64(frameSize), nil
}

func (b *pcmBuffer) moved(pos int64) {
	b.pending = b.pending[:0]
	b.pos = pos
}

func putSample(dst []byte, v int) {
	binary.LittleEndian.PutUint16(dst, uint16(int16(min(max(v, -32768), 32767))))
}

// mp3 output is always 44.1 kHz stereo s16le.
type mp3Decoder struct {
	*mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{Decoder: dec}, nil
}

func (d *mp3Decoder) ChannelCount() int { return 2 }

type wavDecoder struct {
	pcmBuffer
	file       *os.File
	pcmStart   int64
	rate       int
	channels   int
	srcBits    int
	srcFrame   int64
	srcScratch []byte
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV header", ErrUnsupportedFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	bits := int(dec.BitDepth)
	switch bits {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, bits)
	}
	channels := int(dec.NumChans)
	srcFrame := int64(channels * bits / 8)
	if srcFrame == 0 {
		return nil, fmt.Errorf("%w: WAV without channels", ErrUnsupportedFormat)
	}
	start, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating WAV PCM data: %w", err)
	}
	return &wavDecoder{
		pcmBuffer: pcmBuffer{total: dec.PCMLen() / srcFrame * int64(channels) * 2},
		file:      f,
		pcmStart:  start,
		rate:      int(dec.SampleRate),
		channels:  channels,
		srcBits:   bits,
		srcFrame:  srcFrame,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}
	width := d.srcBits / 8
	samples := max(len(p)/2, 1)
	if need := samples * width; cap(d.srcScratch) < need {
		d.srcScratch = make([]byte, need)
	}
	src := d.srcScratch[:samples*width]
	n, err := io.ReadFull(d.file, src)
	samples = n / width
	if samples == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samples*2)
	for i := range samples {
		off := i * width
		var v int
		switch d.srcBits {
		case 8:
			v = (int(src[off]) - 128) << 8
		case 16:
			v = int(int16(binary.LittleEndian.Uint16(src[off:])))
		case 24:
			s := int32(src[off]) | int32(src[off+1])<<8 | int32(src[off+2])<<16
			v = int(s<<8) >> 16
		case 32:
			v = int(int32(binary.LittleEndian.Uint32(src[off:])) >> 16)
		}
		putSample(raw[i*2:], v)
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return d.emit(p, raw), err
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	next, err := d.target(offset, whence, d.channels*2)
	if err != nil {
		return d.pos, err
	}
	frame := next / int64(d.channels*2)
	if _, err := d.file.Seek(d.pcmStart+frame*d.srcFrame, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.moved(next)
	return next, nil
}

func (d *wavDecoder) Length() int64     { return d.total }
func (d *wavDecoder) SampleRate() int   { return d.rate }
func (d *wavDecoder) ChannelCount() int { return d.channels }

type flacDecoder struct {
	pcmBuffer
	stream   *flac.Stream
	rate     int
	channels int
	bits     int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		pcmBuffer: pcmBuffer{total: int64(info.NSamples) * int64(channels) * 2},
		stream:    stream,
		rate:      int(info.SampleRate),
		channels:  channels,
		bits:      int(info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}
	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	count := int(frame.Subframes[0].NSamples)
	raw := make([]byte, count*d.channels*2)
	shift := d.bits - 16
	for i := range count {
		for ch := range d.channels {
			v := int(frame.Subframes[ch].Samples[i])
			if shift > 0 {
				v >>= shift
			} else {
				v <<= -shift
			}
			putSample(raw[(i*d.channels+ch)*2:], v)
		}
	}
	return d.emit(p, raw), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	next, err := d.target(offset, whence, d.channels*2)
	if err != nil {
		return d.pos, err
	}
	if _, err := d.stream.Seek(uint64(next / int64(d.channels*2))); err != nil {
		return d.pos, err
	}
	d.moved(next)
	return next, nil
}

func (d *flacDecoder) Length() int64     { return d.total }
func (d *flacDecoder) SampleRate() int   { return d.rate }
func (d *flacDecoder) ChannelCount() int { return d.channels }

type oggDecoder struct {
	pcmBuffer
	reader  *oggvorbis.Reader
	scratch []float32
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggDecoder{
		pcmBuffer: pcmBuffer{total: reader.Length() * int64(reader.Channels()) * 2},
		reader:    reader,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}
	want := max(len(p)/2, d.reader.Channels())
	if cap(d.scratch) < want {
		d.scratch = make([]float32, want)
	}
	samples := d.scratch[:want]
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, s := range samples[:n] {
		putSample(raw[i*2:], int(max(min(s, 1), -1)*32767))
	}
	return d.emit(p, raw), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	next, err := d.target(offset, whence, d.reader.Channels()*2)
	if err != nil {
		return d.pos, err
	}
	if err := d.reader.SetPosition(next / int64(d.reader.Channels()*2)); err != nil {
		return d.pos, err
	}
	d.moved(next)
	return next, nil
}

func (d *oggDecoder) Length() int64     { return d.total }
func (d *oggDecoder) SampleRate() int   { return d.reader.SampleRate() }
func (d *oggDecoder) ChannelCount() int { return d.reader.Channels() }
