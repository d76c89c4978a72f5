package mysql

import (
	"bufio"
	"fmt"
	"io"
	"time"
)

// PacketReader reads logical MySQL packets off a stream, merging any
// sequence of 0xFFFFFF-sized physical packets back into one payload
// (SPEC_FULL.md §4.1 "Wire framing"). It is not safe for concurrent use.
type PacketReader struct {
	r       *bufio.Reader
	conn    deadliner
	seq     byte
	timeout time.Duration
}

// PacketWriter writes logical MySQL packets, splitting any payload longer
// than MaxPacketSize into several physical packets sharing one sequence id
// run.
type PacketWriter struct {
	w       io.Writer
	conn    deadliner
	seq     byte
	timeout time.Duration
}

// deadliner is the subset of net.Conn used to bound read/write calls; tests
// can supply a no-op implementation over a plain io.ReadWriteCloser.
type deadliner interface {
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

type noDeadline struct{}

func (noDeadline) SetReadDeadline(time.Time) error  { return nil }
func (noDeadline) SetWriteDeadline(time.Time) error { return nil }

// NewPacketReader wraps r. If conn is nil, deadlines are not applied.
func NewPacketReader(r io.Reader, conn deadliner, timeout time.Duration) *PacketReader {
	if conn == nil {
		conn = noDeadline{}
	}
	return &PacketReader{r: bufio.NewReaderSize(r, 16*1024), conn: conn, timeout: timeout}
}

// NewPacketWriter wraps w. If conn is nil, deadlines are not applied.
func NewPacketWriter(w io.Writer, conn deadliner, timeout time.Duration) *PacketWriter {
	if conn == nil {
		conn = noDeadline{}
	}
	return &PacketWriter{w: w, conn: conn, timeout: timeout}
}

// Seq returns the next sequence id this reader expects to see.
func (pr *PacketReader) Seq() byte { return pr.seq }

// ResetSeq resets the sequence counter to 0, as happens at the start of
// each new command.
func (pr *PacketReader) ResetSeq() { pr.seq = 0 }

// ResetSeq resets the writer's sequence counter to 0.
func (pw *PacketWriter) ResetSeq() { pw.seq = 0 }

// Seq returns the next sequence id this writer will send.
func (pw *PacketWriter) Seq() byte { return pw.seq }

// SyncSeq makes the writer's next sequence id match the reader's, used
// after reading a command's final response before issuing the next
// command.
func (pw *PacketWriter) SyncSeq(pr *PacketReader) { pw.seq = pr.seq }

// ReadPacket reads one logical packet, merging split physical packets, and
// validates the sequence id strictly increments (mod 256) across the run.
func (pr *PacketReader) ReadPacket() ([]byte, error) {
	if pr.timeout > 0 {
		if err := pr.conn.SetReadDeadline(time.Now().Add(pr.timeout)); err != nil {
			return nil, fmt.Errorf("mysql: set read deadline: %w", err)
		}
	}

	var payload []byte
	for {
		var header [4]byte
		if _, err := io.ReadFull(pr.r, header[:]); err != nil {
			return nil, fmt.Errorf("mysql: read packet header: %w", err)
		}
		length := int(header[0]) | int(header[1])<<8 | int(header[2])<<16
		seq := header[3]
		if seq != pr.seq {
			return nil, fmt.Errorf("mysql: packet sequence mismatch: got %d, want %d", seq, pr.seq)
		}
		pr.seq++

		chunk := make([]byte, length)
		if length > 0 {
			if _, err := io.ReadFull(pr.r, chunk); err != nil {
				return nil, fmt.Errorf("mysql: read packet payload: %w", err)
			}
		}
		payload = append(payload, chunk...)
		if length < MaxPacketSize {
			break
		}
	}
	return payload, nil
}

// WritePacket writes payload as one or more physical packets, splitting on
// MaxPacketSize boundaries; a payload that is an exact multiple of
// MaxPacketSize (including the empty payload) always ends with a
// zero-length terminator packet so the peer can detect completion.
func (pw *PacketWriter) WritePacket(payload []byte) error {
	if pw.timeout > 0 {
		if err := pw.conn.SetWriteDeadline(time.Now().Add(pw.timeout)); err != nil {
			return fmt.Errorf("mysql: set write deadline: %w", err)
		}
	}

	for {
		chunkLen := len(payload)
		if chunkLen > MaxPacketSize {
			chunkLen = MaxPacketSize
		}
		var header [4]byte
		header[0] = byte(chunkLen)
		header[1] = byte(chunkLen >> 8)
		header[2] = byte(chunkLen >> 16)
		header[3] = pw.seq
		pw.seq++

		if _, err := pw.w.Write(header[:]); err != nil {
			return fmt.Errorf("mysql: write packet header: %w", err)
		}
		if chunkLen > 0 {
			if _, err := pw.w.Write(payload[:chunkLen]); err != nil {
				return fmt.Errorf("mysql: write packet payload: %w", err)
			}
		}
		payload = payload[chunkLen:]
		if chunkLen < MaxPacketSize {
			return nil
		}
	}
}
