package main

import (
	"github.com/daedaleanai/assetcp/cmd"
)

func main() {
	cmd.Execute()
}
