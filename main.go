package main

import (
	cmd "github.com/tilevision/segserve/cmd/segserve"
)

func main() {
	cmd.Execute()
}
