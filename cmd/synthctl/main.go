//go:build !tinygo

// Command synthctl is an interactive console for an ADF4377 on a Linux host
// (or against the emulated chip with -board host).
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"synthcode-go/errcode"
	"synthcode-go/services/config"

	"github.com/chzyer/readline"
)

func main() {
	boardName := flag.String("board", "host", "embedded board document")
	open := flag.Bool("open", true, "open synth0 on start")
	flag.Parse()

	b, err := config.Load(*boardName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "synth> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "readline:", err)
		os.Exit(1)
	}
	defer rl.Close()

	sh, err := newShell(rl.Stdout(), b)
	if err != nil {
		fmt.Fprintln(os.Stderr, "platform:", err)
		os.Exit(1)
	}
	if *open {
		report(sh, sh.exec("open"))
	}

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			line = "quit"
		}
		err = sh.exec(line)
		if errors.Is(err, errQuit) {
			return
		}
		report(sh, err)
	}
}

func report(sh *shell, err error) {
	if err == nil {
		return
	}
	c := errcode.Of(err)
	fmt.Fprintf(sh.out, "error [%s]: %v\n", c, err)
	if errcode.IsResource(c) {
		fmt.Fprintln(sh.out, "  lines and buses come from the board document; 'close' releases ours")
	}
}
