package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/danmuck/burrow/internal/catalog"
	"github.com/danmuck/burrow/internal/logging"
	"github.com/danmuck/burrow/internal/observability"
	"github.com/danmuck/burrow/internal/protocol"
	"github.com/danmuck/burrow/internal/protocol/frame"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const usage = `usage: burrowctl [-config FILE] [-log-level LEVEL] <command> [args]

commands:
  encode request   -resource N [-conn N]
  encode directory -conn N -entry ID:NAME [-entry ID:NAME ...]
  encode article   -conn N -text TEXT
  encode error     -conn N -id N -text TEXT
  decode HEX [HEX ...]
  decode -            (binary frames on stdin)
  respond [-catalog FILE] [-metrics] HEX
`

func main() {
	logging.ConfigureRuntime()
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "burrowctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("burrowctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "path to burrowctl toml config")
	logLevel := fs.String("log-level", "", "log level override")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if cfg.LogLevel != "" && !logging.SetLevel(cfg.LogLevel) {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing command")
	}
	switch rest[0] {
	case "encode":
		return runEncode(rest[1:], stdout, stderr)
	case "decode":
		if len(rest) == 2 && rest[1] == "-" {
			return runDecodeStream(stdin, stdout)
		}
		return runDecode(rest[1:], stdout)
	case "respond":
		return runRespond(cfg, rest[1:], stdout, stderr)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func runEncode(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New("encode: missing packet kind")
	}
	kind := args[0]
	fs := flag.NewFlagSet("encode "+kind, flag.ContinueOnError)
	fs.SetOutput(stderr)
	conn := fs.Int("conn", -1, "connection id (request: omit to allocate)")

	var build func() (protocol.Packet, error)
	switch kind {
	case "request":
		resource := fs.Uint("resource", 0, "resource id")
		build = func() (protocol.Packet, error) {
			id, err := toUint16("resource", int(*resource))
			if err != nil {
				return nil, err
			}
			if *conn < 0 {
				req := protocol.NewAllocator(nil).Assign(protocol.PendingRequest{ResourceID: id})
				log.Info().Uint16("conn_id", req.ConnectionID).Msg("allocated connection id")
				return req, nil
			}
			connID, err := toUint16("conn", *conn)
			if err != nil {
				return nil, err
			}
			return protocol.Request{ResourceID: id, ConnectionID: connID}, nil
		}
	case "directory":
		var entries entryList
		fs.Var(&entries, "entry", "directory entry as ID:NAME (repeatable)")
		build = func() (protocol.Packet, error) {
			connID, err := toUint16("conn", *conn)
			if err != nil {
				return nil, err
			}
			return protocol.DirectoryResponse{Entries: entries, ConnectionID: connID}, nil
		}
	case "article":
		text := fs.String("text", "", "article text")
		build = func() (protocol.Packet, error) {
			connID, err := toUint16("conn", *conn)
			if err != nil {
				return nil, err
			}
			return protocol.ArticleResponse{Article: *text, ConnectionID: connID}, nil
		}
	case "error":
		errID := fs.Uint("id", 0, "error id")
		text := fs.String("text", "", "error message")
		build = func() (protocol.Packet, error) {
			connID, err := toUint16("conn", *conn)
			if err != nil {
				return nil, err
			}
			if *errID > 0xFF {
				return nil, fmt.Errorf("id %d out of range", *errID)
			}
			return protocol.ErrorResponse{ErrorID: uint8(*errID), Message: *text, ConnectionID: connID}, nil
		}
	default:
		return fmt.Errorf("encode: unknown packet kind %q", kind)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	p, err := build()
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	b, err := protocol.Encode(p)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	_, err = fmt.Fprintln(stdout, hex.EncodeToString(b))
	return err
}

func runDecode(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("decode: no frames given")
	}
	lines := make([]string, len(args))
	failed := make([]bool, len(args))

	var g errgroup.Group
	g.SetLimit(4)
	for i, arg := range args {
		g.Go(func() error {
			b, err := parseHex(arg)
			if err == nil {
				var p protocol.Packet
				if p, err = protocol.Decode(b); err == nil {
					lines[i] = protocol.Describe(p)
					return nil
				}
			}
			lines[i] = "error: " + err.Error()
			failed[i] = true
			return nil
		})
	}
	// Workers record failures per frame and never return an error.
	_ = g.Wait()

	nFailed := 0
	for i, line := range lines {
		if failed[i] {
			nFailed++
		}
		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return err
		}
	}
	if nFailed > 0 {
		return fmt.Errorf("decode: %d of %d frames invalid", nFailed, len(args))
	}
	return nil
}

// runDecodeStream decodes back-to-back binary frames until EOF. A malformed
// frame stops the stream since the next frame boundary is unknown.
func runDecodeStream(stdin io.Reader, stdout io.Writer) error {
	codec := protocol.NewCodec(nil)
	for n := 0; ; n++ {
		p, err := frame.ReadPacket(stdin, codec)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode: frame %d: %w", n, err)
		}
		if _, err := fmt.Fprintln(stdout, protocol.Describe(p)); err != nil {
			return err
		}
	}
}

func runRespond(cfg Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("respond", flag.ContinueOnError)
	fs.SetOutput(stderr)
	catalogPath := fs.String("catalog", cfg.Catalog, "catalog toml file")
	metrics := fs.Bool("metrics", cfg.Metrics, "print metrics after responding")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *catalogPath == "" {
		return errors.New("respond: no catalog configured")
	}
	if fs.NArg() != 1 {
		return errors.New("respond: expected exactly one request frame")
	}

	c, err := catalog.Load(*catalogPath)
	if err != nil {
		return err
	}
	req, err := parseHex(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("respond: %w", err)
	}
	out, err := catalog.NewResponder(c, nil).Respond(req)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(stdout, hex.EncodeToString(out)); err != nil {
		return err
	}
	if *metrics {
		return observability.WriteMetrics(stderr)
	}
	return nil
}

// parseHex accepts hex with optional spaces or colons between bytes.
func parseHex(s string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(s)
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return b, nil
}

func toUint16(name string, v int) (uint16, error) {
	if v < 0 || v > 0xFFFF {
		return 0, fmt.Errorf("%s %d out of range", name, v)
	}
	return uint16(v), nil
}

type entryList []protocol.DirectoryEntry

func (e *entryList) String() string {
	parts := make([]string, 0, len(*e))
	for _, entry := range *e {
		parts = append(parts, fmt.Sprintf("%d:%s", entry.EntryID, entry.Name))
	}
	return strings.Join(parts, ",")
}

func (e *entryList) Set(v string) error {
	idStr, name, ok := strings.Cut(v, ":")
	if !ok {
		return fmt.Errorf("entry %q is not ID:NAME", v)
	}
	id, err := strconv.ParseUint(strings.TrimSpace(idStr), 0, 16)
	if err != nil {
		return fmt.Errorf("entry %q: %w", v, err)
	}
	*e = append(*e, protocol.DirectoryEntry{EntryID: uint16(id), Name: name})
	return nil
}
