package eventlog

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"log"

	"github.com/golang/snappy"
)

// Frame format: [Seq:8][Flags:1][DataLen:4][Data:N][Checksum:4]
// The checksum covers the encoded (possibly compressed) payload.
const frameFlagSnappy = 0x01

// frameOverhead is the byte count of a frame beyond its payload.
const frameOverhead = 8 + 1 + 4 + 4

// writeFrame buffers one frame and reports its full on-disk length.
func (l *FileLog) writeFrame(event *Event) (int64, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}

	var flags byte
	if l.compress {
		data = snappy.Encode(nil, data)
		flags |= frameFlagSnappy
	}

	if err := binary.Write(l.writer, binary.LittleEndian, event.Seq); err != nil {
		return 0, err
	}
	if err := l.writer.WriteByte(flags); err != nil {
		return 0, err
	}
	if err := binary.Write(l.writer, binary.LittleEndian, uint32(len(data))); err != nil {
		return 0, err
	}
	if _, err := l.writer.Write(data); err != nil {
		return 0, err
	}
	if err := binary.Write(l.writer, binary.LittleEndian, crc32.ChecksumIEEE(data)); err != nil {
		return 0, err
	}
	return int64(len(data)) + frameOverhead, nil
}

// readFrame decodes one frame and reports its on-disk length, so replay
// can track how far into the file the intact prefix extends.
func readFrame(reader *bufio.Reader) (*Event, int64, error) {
	var seq uint64
	if err := binary.Read(reader, binary.LittleEndian, &seq); err != nil {
		return nil, 0, err
	}

	flags, err := reader.ReadByte()
	if err != nil {
		return nil, 0, err
	}

	var dataLen uint32
	if err := binary.Read(reader, binary.LittleEndian, &dataLen); err != nil {
		return nil, 0, err
	}

	data := make([]byte, dataLen)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, 0, err
	}

	var checksum uint32
	if err := binary.Read(reader, binary.LittleEndian, &checksum); err != nil {
		return nil, 0, err
	}
	if crc32.ChecksumIEEE(data) != checksum {
		return nil, 0, fmt.Errorf("checksum mismatch at seq %d", seq)
	}

	if flags&frameFlagSnappy != 0 {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return nil, 0, fmt.Errorf("decompress event at seq %d: %w", seq, err)
		}
	}

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, 0, fmt.Errorf("unmarshal event at seq %d: %w", seq, err)
	}
	return &event, int64(dataLen) + frameOverhead, nil
}

// replay rebuilds the in-memory index from the segment file. Corruption is
// logged and truncates recovery at that point rather than failing the open,
// matching the rule that everything before a torn write is still good. The
// corrupt tail is cut off the file as well, so later appends land directly
// after the intact prefix instead of behind unreadable bytes.
func (l *FileLog) replay() error {
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	reader := bufio.NewReader(l.file)
	for {
		event, frameLen, err := readFrame(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARNING: event log corruption after %d events: %v", len(l.events), err)
			break
		}
		l.events = append(l.events, *event)
		l.byPair[pairKey{event.SourceID, event.TargetID}] = len(l.events) - 1
		l.size += frameLen
		if event.Seq > l.seq {
			l.seq = event.Seq
		}
	}

	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() > l.size {
		if err := l.file.Truncate(l.size); err != nil {
			return fmt.Errorf("truncate corrupt tail: %w", err)
		}
	}
	return nil
}
