package main

import "github.com/esqtui/esq/cmd"

func main() {
	cmd.Execute()
}
