package lifecycle

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"
)

const helperEnv = "DAPPCTL_TEST_HELPER"

// The test binary doubles as the sub-process: with helperEnv set it behaves
// like a tiny fake docker-app selected by its first argument.
func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "1" {
		os.Exit(helperMain(os.Args[1:]))
	}
	os.Exit(m.Run())
}

func helperMain(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "no helper mode")
		return 2
	}
	switch args[0] {
	case "lines":
		n, _ := strconv.Atoi(args[1])
		// stderr first: a reader draining stdout to EOF before touching
		// stderr would deadlock here
		errw := bufio.NewWriter(os.Stderr)
		for i := 0; i < n; i++ {
			fmt.Fprintf(errw, "err %d\n", i)
		}
		errw.Flush()
		outw := bufio.NewWriter(os.Stdout)
		for i := 0; i < n; i++ {
			fmt.Fprintf(outw, "out %d\n", i)
		}
		outw.Flush()
		return 0

	case "exit":
		code, _ := strconv.Atoi(args[1])
		fmt.Fprintln(os.Stdout, "to stdout")
		fmt.Fprintln(os.Stderr, "to stderr")
		return code

	case "sleep":
		d, _ := time.ParseDuration(args[1])
		fmt.Fprintln(os.Stdout, "sleeping")
		time.Sleep(d)
		return 0

	case "silent":
		return 0

	case "pwd":
		dir, _ := os.Getwd()
		fmt.Fprintln(os.Stdout, dir)
		return 0

	case "args":
		for _, arg := range args[1:] {
			fmt.Fprintf(os.Stdout, "%q\n", arg)
		}
		return 0

	case "partial":
		fmt.Fprint(os.Stdout, "first\nno newline")
		fmt.Fprint(os.Stderr, "crlf\r\n")
		return 0

	case "version":
		fmt.Fprintf(os.Stdout, "Version:               %s\nGit commit:            abcdef\n", args[1])
		return 0
	}
	fmt.Fprintf(os.Stderr, "unknown helper mode %q\n", args[0])
	return 2
}
