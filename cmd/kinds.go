package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuuki0xff/svgchart/chart/color"
	"github.com/yuuki0xff/svgchart/chart/render"
	"github.com/yuuki0xff/svgchart/restapi"
)

// kindsCmd represents the kinds command
var kindsCmd = &cobra.Command{
	Use:                   "kinds",
	DisableFlagsInUseLine: true,
	Short:                 "Show the chart kinds",
	RunE:                  wrap(runKinds),
}

func runKinds(opt *handlerOpt) error {
	var res restapi.Kinds
	if server, _ := opt.Cmd.Flags().GetString("server"); server != "" {
		api, err := opt.Api(context.Background(), server)
		if err != nil {
			opt.ErrLog.Println(err)
			return errInvalidArgs
		}
		res, err = api.Kinds()
		if err != nil {
			opt.ErrLog.Println(err)
			return errIo
		}
	} else {
		for _, m := range render.Kinds() {
			res.Kinds = append(res.Kinds, restapi.KindInfo{
				Name:        m.Kind(),
				Description: m.Description(),
			})
		}
		res.Palettes = color.Names()
	}

	tbl := defaultTable(opt.Stdout)
	tbl.SetHeader([]string{"Kind", "Description"})
	for _, k := range res.Kinds {
		tbl.Append([]string{k.Name, k.Description})
	}
	tbl.Render()
	fmt.Fprintf(opt.Stdout, "Palettes: %s\n", strings.Join(res.Palettes, ", "))
	return nil
}

func init() {
	RootCmd.AddCommand(kindsCmd)
	kindsCmd.Flags().String("server", "", "List the kinds of the server at this URL")
}
