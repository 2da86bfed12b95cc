package main

import "github.com/vaultnet/vaultd/cmd"

func main() {
	cmd.Execute()
}
