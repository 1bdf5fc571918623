package main

import (
	"os"

	"github.com/yuuki0xff/svgchart/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
