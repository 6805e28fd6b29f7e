package main

import "github.com/naka-gawa/github-stats-box/cmd"

func main() {
	cmd.Execute()
}
