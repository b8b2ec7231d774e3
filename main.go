package main

import (
	"fmt"
	"os"

	"github.com/caretgo/caret/editor"
)

func main() {
	e := editor.NewEditor()
	if err := e.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "caret: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) >= 2 {
		if err := e.Open(os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "caret: %v\n", err)
			os.Exit(1)
		}
	}

	e.Run()
}
