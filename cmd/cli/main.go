package main

import (
	"fmt"
	"os"

	"github.com/pybo-board/pybo-client/cmd/cli/answers"
	"github.com/pybo-board/pybo-client/cmd/cli/questions"
	"github.com/pybo-board/pybo-client/cmd/cli/root"
	"github.com/pybo-board/pybo-client/cmd/cli/users"
)

func main() {
	rootCmd := root.New()
	questions.Init(rootCmd)
	answers.Init(rootCmd)
	users.Init(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
