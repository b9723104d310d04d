package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meenmo/mcval/cmd/mcvalue/internal/book"
	"github.com/meenmo/mcval/cmd/mcvalue/internal/price"
	"github.com/meenmo/mcval/cmd/mcvalue/internal/trace"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "price":
		return price.Run(args[1:], stdin, stdout, stderr)
	case "book":
		return book.Run(args[1:], stdin, stdout, stderr)
	case "trace":
		return trace.Run(args[1:], stdin, stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mcvalue <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  price  Monte Carlo value of one product")
	fmt.Fprintln(w, "  book   Values of a book of named products")
	fmt.Fprintln(w, "  trace  Per-date state of a memory autocallable")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `mcvalue <command> -h` for command-specific help.")
}
