package main

import (
	"boscoin.io/agora/cmd/agora/cmd"
)

func main() {
	cmd.Execute()
}
