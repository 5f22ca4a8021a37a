package main

import (
	"fmt"

	"github.com/nconklindev/tickdiff/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Execute(fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version, commit, date))
}
