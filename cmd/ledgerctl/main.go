package main

import "github.com/josh-kwaku/ledger-engine/cmd/ledgerctl/commands"

func main() {
	commands.Execute()
}
