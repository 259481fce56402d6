package main

import (
	"os"

	"github.com/bnema/llm-council/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
