// Copyright 2013 Google, Inc.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// lined-demo
//
// A basic REPL built on the lined line editor. Try typing a line and
// then hitting the up arrow on the next one; try Tab-completing a
// command name; try Ctrl-R to search what you've typed so far.
//
// Press ^D, or type "quit" or "exit", to exit; ^C abandons the current
// line and prompts again.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kylelemons/lined/complete"
	"github.com/kylelemons/lined/history"
	"github.com/kylelemons/lined/line"
	"github.com/kylelemons/lined/term"
)

var (
	promptFlag  = flag.String("prompt", "lined> ", "prompt string")
	historyFile = flag.String("history", defaultHistoryPath(), "history file path")
	listMode    = flag.Bool("list", false, "use grid list-mode completion instead of rotation")
	keyCodes    = flag.Bool("keycodes", false, "print decoded key codes instead of running the REPL")
)

// commands is the demo's completion dictionary — explicitly
// out-of-scope per the core's own rules, kept here as the thing a
// real caller would supply.
var commands = []string{
	"help", "history", "quit", "exit", "echo", "list", "load", "save",
}

func main() {
	flag.Parse()

	ta, err := term.Open()
	if err != nil {
		if errors.Is(err, term.ErrNotATerminal) || errors.Is(err, term.ErrUnsupportedTerm) {
			plainREPL()
			return
		}
		log.Fatalf("terminal: %s", err)
	}

	hist := history.New(history.DefaultMaxLen)
	if err := hist.Load(*historyFile); err != nil {
		log.Printf("history: load: %s", err)
	}

	ed := line.New(ta, hist)
	ed.SetListMode(*listMode)
	ed.SetCompletionCallback(func(word string, start, end int, sink *complete.Sink) {
		for _, c := range commands {
			if strings.HasPrefix(c, word) {
				sink.Add(c)
			}
		}
	})

	if *keyCodes {
		if err := ed.PrintKeyCodes(); err != nil {
			log.Fatalf("keycodes: %s", err)
		}
		return
	}

	for {
		text, err := ed.ReadLine(*promptFlag)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println("\r")
				break
			}
			if errors.Is(err, line.ErrInterrupted) {
				fmt.Println("^C\r")
				continue
			}
			log.Printf("read: %s", err)
			break
		}

		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		ed.HistoryAdd(text)

		switch trimmed {
		case "quit", "exit":
			if err := hist.Save(*historyFile); err != nil {
				log.Printf("history: save: %s", err)
			}
			return
		case "history":
			for i, entry := range ed.History() {
				fmt.Printf("%4d  %s\r\n", i+1, entry)
			}
		default:
			fmt.Printf("%s\r\n", text)
		}
	}

	if err := hist.Save(*historyFile); err != nil {
		log.Printf("history: save: %s", err)
	}
}

// plainREPL is the degraded loop for dumb terminals and pipes: no
// editing, no history, just buffered line reads with the trailing
// newline stripped.
func plainREPL() {
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(*promptFlag)
		if !sc.Scan() {
			fmt.Println()
			return
		}
		text := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "quit" || trimmed == "exit" {
			return
		}
		if trimmed != "" {
			fmt.Println(text)
		}
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lined_history"
	}
	return filepath.Join(home, ".lined_history")
}
