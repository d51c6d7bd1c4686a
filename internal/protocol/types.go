package protocol

import "fmt"

const (
	Magic         uint16 = 0xBB50
	Version       uint16 = 0x0001
	HeaderSize           = 8
	MaxPayloadLen        = 255

	// RecordSeparator terminates every entry of a directory listing.
	RecordSeparator byte = 0x1E
)

// PacketType is the one-byte tag selecting the payload codec.
type PacketType uint8

const (
	TypeRequest           PacketType = 0x00
	TypeDirectoryResponse PacketType = 0x01
	TypeArticleResponse   PacketType = 0x02
	TypeErrorResponse     PacketType = 0x03
)

func (t PacketType) String() string {
	switch t {
	case TypeRequest:
		return "request"
	case TypeDirectoryResponse:
		return "directory_response"
	case TypeArticleResponse:
		return "article_response"
	case TypeErrorResponse:
		return "error_response"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(t))
	}
}

// Header is the decoded fixed preamble. Magic is validated and not kept.
type Header struct {
	Version      uint16
	Type         PacketType
	ConnectionID uint16
	PayloadLen   uint8
}

// Packet is one typed protocol message. Length and type tag are derived at
// encode time and never stored on the value.
type Packet interface {
	Type() PacketType
	ConnID() uint16
}

// PendingRequest is a request that has not been assigned a connection id.
// It becomes a Request through Allocator.Assign.
type PendingRequest struct {
	ResourceID uint16
}

// Request asks the server for the resource with ResourceID.
type Request struct {
	ResourceID   uint16
	ConnectionID uint16
}

func (Request) Type() PacketType { return TypeRequest }
func (r Request) ConnID() uint16 { return r.ConnectionID }

// DirectoryEntry is one line of a directory listing.
type DirectoryEntry struct {
	EntryID uint16
	Name    string
}

// DirectoryResponse lists sub-resources in display order.
type DirectoryResponse struct {
	Entries      []DirectoryEntry
	ConnectionID uint16
}

func (DirectoryResponse) Type() PacketType { return TypeDirectoryResponse }
func (d DirectoryResponse) ConnID() uint16 { return d.ConnectionID }

// ArticleResponse carries the text of a single resource.
type ArticleResponse struct {
	Article      string
	ConnectionID uint16
}

func (ArticleResponse) Type() PacketType { return TypeArticleResponse }
func (a ArticleResponse) ConnID() uint16 { return a.ConnectionID }

// ErrorResponse reports a failure to serve a request.
type ErrorResponse struct {
	ErrorID      uint8
	Message      string
	ConnectionID uint16
}

func (ErrorResponse) Type() PacketType { return TypeErrorResponse }
func (e ErrorResponse) ConnID() uint16 { return e.ConnectionID }
