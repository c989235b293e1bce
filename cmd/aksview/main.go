package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/akslib/aksview"
)

func main() {
	// Faults surface as a clean error message instead of a panic trace.
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*aksview.FaultError)
			if !ok {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", fe)
			os.Exit(1)
		}
	}()
	aksview.SetDefaultReporter(cliReporter{})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "len":
		runLen(os.Args[2:])
	case "get":
		runGet(os.Args[2:])
	case "put":
		runPut(os.Args[2:])
	case "dump":
		runDump(os.Args[2:])
	case "resize":
		runResize(os.Args[2:])
	case "copy":
		runCopy(os.Args[2:])
	case "version":
		fmt.Println(aksview.Version())
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// cliReporter keeps faults quiet (the recover path prints them once)
// and routes warnings to stderr.
type cliReporter struct{}

func (cliReporter) Fault(op string, err error) {}

func (cliReporter) Warn(op string, err error) {
	fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", op, err)
}

func printUsage() {
	fmt.Println(`aksview - Random access to files through a bounded mapped window

Usage:
    aksview <command> [arguments]

Commands:
    len      Print the length of a file
    get      Read an integer at an offset
    put      Write an integer at an offset
    dump     Hex dump a byte range
    resize   Grow or shrink a file
    copy     Snapshot a file, optionally LZ4 compressed
    version  Show version
    help     Show this help

Use "aksview <command> --help" for command-specific options.`)
}

func runLen(args []string) {
	fs := flag.NewFlagSet("len", flag.ExitOnError)
	file := fs.String("file", "", "File path")
	fs.Parse(args)

	v := openViewer(fs, *file, aksview.ReadOnly)
	defer v.Close()

	fmt.Println(v.Len())
}

func runGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	file := fs.String("file", "", "File path")
	at := fs.Int64("at", 0, "Byte offset to read at")
	width := fs.Int("width", 8, "Value width in bytes (1, 2, 4 or 8)")
	be := fs.Bool("be", false, "Read in big-endian byte order")
	signed := fs.Bool("signed", false, "Interpret the value as signed")
	fs.Parse(args)

	v := openViewer(fs, *file, aksview.ReadOnly)
	defer v.Close()

	le := !*be
	var x uint64
	switch *width {
	case 1:
		x = uint64(v.ReadUint8(*at))
	case 2:
		x = uint64(v.ReadUint16(*at, le))
	case 4:
		x = uint64(v.ReadUint32(*at, le))
	case 8:
		x = v.ReadUint64(*at, le)
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid --width %d\n", *width)
		os.Exit(1)
	}

	if *signed {
		// Sign-extend from the read width.
		shift := uint(64 - *width*8)
		fmt.Println(int64(x<<shift) >> shift)
		return
	}
	fmt.Printf("%d (%#x)\n", x, x)
}

func runPut(args []string) {
	fs := flag.NewFlagSet("put", flag.ExitOnError)
	file := fs.String("file", "", "File path")
	at := fs.Int64("at", 0, "Byte offset to write at")
	width := fs.Int("width", 8, "Value width in bytes (1, 2, 4 or 8)")
	be := fs.Bool("be", false, "Write in big-endian byte order")
	value := fs.String("value", "", "Value to write (decimal, 0x hex or negative)")
	fs.Parse(args)

	if *value == "" {
		fmt.Fprintln(os.Stderr, "Error: --value is required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	x, err := parseValue(*value, *width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	v := openViewer(fs, *file, aksview.ReadWrite)
	defer v.Close()

	le := !*be
	switch *width {
	case 1:
		v.WriteUint8(*at, uint8(x))
	case 2:
		v.WriteUint16(*at, le, uint16(x))
	case 4:
		v.WriteUint32(*at, le, uint32(x))
	case 8:
		v.WriteUint64(*at, le, x)
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid --width %d\n", *width)
		os.Exit(1)
	}
	v.Flush()
}

func runDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	file := fs.String("file", "", "File path")
	at := fs.Int64("at", 0, "Byte offset to start at")
	count := fs.Int64("n", 256, "Number of bytes to dump")
	fs.Parse(args)

	v := openViewer(fs, *file, aksview.ReadOnly)
	defer v.Close()

	if *at < 0 || *at >= v.Len() {
		fmt.Fprintf(os.Stderr, "Error: offset %d out of range [0, %d)\n", *at, v.Len())
		os.Exit(1)
	}
	n := *count
	if *at+n > v.Len() {
		n = v.Len() - *at
	}

	buf := make([]byte, 16)
	for row := int64(0); row < n; row += 16 {
		rowLen := n - row
		if rowLen > 16 {
			rowLen = 16
		}
		if _, err := v.ReadAt(buf[:rowLen], *at+row); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(formatDumpRow(*at+row, buf[:rowLen]))
	}
}

// formatDumpRow renders one hex dump line: offset, two groups of eight
// hex bytes and the printable ASCII column.
func formatDumpRow(off int64, row []byte) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%08x  ", off)
	for i := 0; i < 16; i++ {
		if i == 8 {
			sb.WriteByte(' ')
		}
		if i < len(row) {
			fmt.Fprintf(&sb, "%02x ", row[i])
		} else {
			sb.WriteString("   ")
		}
	}
	sb.WriteString(" |")
	for _, c := range row {
		if c < 0x20 || c > 0x7e {
			c = '.'
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('|')
	return sb.String()
}

func runResize(args []string) {
	fs := flag.NewFlagSet("resize", flag.ExitOnError)
	file := fs.String("file", "", "File path")
	length := fs.Int64("len", -1, "New file length in bytes")
	create := fs.Bool("create", false, "Create the file if it does not exist")
	fs.Parse(args)

	if *length < 0 {
		fmt.Fprintln(os.Stderr, "Error: --len is required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	mode := aksview.ReadWrite
	if *create {
		mode |= aksview.Create
	}
	v := openViewer(fs, *file, mode)
	defer v.Close()

	if err := v.SetLen(*length); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCopy(args []string) {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	file := fs.String("file", "", "File path")
	to := fs.String("to", "", "Destination path, must not exist")
	compress := fs.Bool("lz4", false, "Write an LZ4 compressed copy")
	fs.Parse(args)

	if *to == "" {
		fmt.Fprintln(os.Stderr, "Error: --to is required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	v := openViewer(fs, *file, aksview.ReadOnly)
	defer v.Close()

	flags := aksview.CopyDefaults
	if *compress {
		flags |= aksview.CopyLZ4
	}
	if err := v.Copy(*to, flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openViewer(fs *flag.FlagSet, path string, mode aksview.Mode) *aksview.Viewer {
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		fs.PrintDefaults()
		os.Exit(1)
	}
	v, err := aksview.Open(path, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return v
}

// parseValue parses a decimal, hex or negative integer and checks it
// fits the given width.
func parseValue(s string, width int) (uint64, error) {
	bits := width * 8
	if bits < 8 || bits > 64 {
		return 0, fmt.Errorf("invalid width %d", width)
	}
	if strings.HasPrefix(s, "-") {
		n, err := strconv.ParseInt(s, 0, bits)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q: %v", s, err)
		}
		return uint64(n) & (1<<uint(bits) - 1), nil
	}
	n, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %v", s, err)
	}
	return n, nil
}
