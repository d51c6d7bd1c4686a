package protocol

import (
	"bytes"
	"encoding/binary"
	"strings"
	"unicode/utf8"
)

const entryIDLen = 2

type directoryCodec struct{}

// EncodePayload writes each entry as id (2 bytes BE), name, RecordSeparator,
// preserving listing order.
func (directoryCodec) EncodePayload(p Packet) ([]byte, error) {
	dir, ok := p.(DirectoryResponse)
	if !ok {
		return nil, wrongType(TypeDirectoryResponse, p)
	}
	size := 0
	for i, entry := range dir.Entries {
		if strings.IndexByte(entry.Name, RecordSeparator) >= 0 {
			return nil, malformed("entry %d name contains record separator", i)
		}
		if !utf8.ValidString(entry.Name) {
			return nil, malformed("entry %d name is not valid utf-8", i)
		}
		size += entryIDLen + len(entry.Name) + 1
	}
	buf := make([]byte, 0, size)
	for _, entry := range dir.Entries {
		buf = binary.BigEndian.AppendUint16(buf, entry.EntryID)
		buf = append(buf, entry.Name...)
		buf = append(buf, RecordSeparator)
	}
	return buf, nil
}

// DecodePayload reads the fixed-width id of each record before scanning for
// the separator, so ids whose bytes equal RecordSeparator still decode.
func (directoryCodec) DecodePayload(connID uint16, payload []byte) (Packet, error) {
	var entries []DirectoryEntry
	for offset := 0; offset < len(payload); {
		if len(payload)-offset < entryIDLen {
			return nil, malformed("directory record %d shorter than entry id", len(entries))
		}
		id := binary.BigEndian.Uint16(payload[offset : offset+entryIDLen])
		offset += entryIDLen
		end := bytes.IndexByte(payload[offset:], RecordSeparator)
		if end < 0 {
			return nil, malformed("directory record %d missing record separator", len(entries))
		}
		name, err := checkText("directory entry name", payload[offset:offset+end])
		if err != nil {
			return nil, err
		}
		entries = append(entries, DirectoryEntry{EntryID: id, Name: name})
		offset += end + 1
	}
	return DirectoryResponse{Entries: entries, ConnectionID: connID}, nil
}
