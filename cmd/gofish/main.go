// Command gofish is a UCI chess engine supporting standard chess, Chess960,
// and King of the Hill. It speaks the protocol over stdin/stdout, the way
// the teacher's blunder/main.go wires inter.RunUCIProtocol() to os.Stdin.
package main

import (
	"log"
	"os"

	"github.com/gofish-engine/gofish/uci"
)

func main() {
	log.SetFlags(log.Lshortfile)
	log.SetOutput(os.Stderr)

	engine := uci.NewEngine(os.Stdin, os.Stdout)
	if err := engine.Run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
