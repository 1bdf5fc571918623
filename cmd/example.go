package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yuuki0xff/svgchart/chart/render"
)

// exampleCmd represents the example command
var exampleCmd = &cobra.Command{
	Use:   "example KIND",
	Short: "Print an example source for a chart kind",
	Example: "  svgchart example tree > org.txt\n" +
		"  svgchart render tree org.txt",
	RunE: wrap(runExample),
}

func runExample(opt *handlerOpt) error {
	if len(opt.Args) != 1 {
		opt.ErrLog.Println("exactly one KIND is required")
		return errInvalidArgs
	}
	m, ok := render.Lookup(opt.Args[0])
	if !ok {
		opt.ErrLog.Printf("unknown chart kind %q", opt.Args[0])
		return errInvalidArgs
	}
	fmt.Fprint(opt.Stdout, m.Example())
	return nil
}

func init() {
	RootCmd.AddCommand(exampleCmd)
}
