package main

import "github.com/hargabyte/cppmuck/internal/cmd"

func main() {
	cmd.Execute()
}
