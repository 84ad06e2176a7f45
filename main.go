package main

import "github.com/plateworks/menumetrics/cmd"

func main() {
	cmd.Execute()
}
