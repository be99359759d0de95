// minaindexer-cli is a command-line client for querying a minaindexerd
// daemon over its local Unix socket.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/Klingon-tech/mina-indexer/config"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: minaindexer-cli [--socket path] <command> [args...]

Commands:
  account <pk> [token]   Look up an account balance
  best_chain [n]         List the last n state hashes of the best chain
  best_ledger            Show the best tip's state hash and height
  summary [verbose]      Show chain summary
  shutdown               Ask the daemon to shut down`)
}

func main() {
	socket := flag.String("socket", "", "path to the indexer's IPC socket (default: network data dir)")
	network := flag.String("network", "mainnet", "network, used only to locate the default socket path")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	path := *socket
	if path == "" {
		nt := config.NetworkType(*network)
		if nt != config.Mainnet && nt != config.Devnet {
			fmt.Fprintf(os.Stderr, "Error: unknown network %q\n", *network)
			os.Exit(1)
		}
		path = config.Default(nt).SocketPath()
	}

	conn, err := net.Dial("unix", path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: connecting to %s: %v\n", path, err)
		os.Exit(1)
	}
	defer conn.Close()

	if _, err := fmt.Fprintln(conn, strings.Join(args, " ")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: sending command: %v\n", err)
		os.Exit(1)
	}

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading reply: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error: daemon closed connection without a reply")
		}
		os.Exit(1)
	}
	fmt.Println(scanner.Text())
}
