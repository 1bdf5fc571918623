package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yuuki0xff/svgchart/config"
	"github.com/yuuki0xff/svgchart/restapi"
)

// errors returned by func(*handlerOpt) error
var (
	errGeneral     = errors.New("general error")
	errInvalidArgs = errors.New("invalid args")
	errIo          = errors.New("io error")
)

// flagKeys lists the flags that override config keys.
var flagKeys = map[string]string{
	"listen": config.KeyListen,
	"cache":  config.KeyCachePath,
}

func Execute() int {
	return exitCode(RootCmd.Execute(), os.Stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch errors.Cause(err) {
	case nil:
		return 0
	case errGeneral:
		return 1
	case errInvalidArgs:
		// EX_USAGE 64
		return 64
	case errIo:
		// EX_IOERR 74
		return 74
	default:
		// Unknown error
		fmt.Fprintln(stderr, err)
		return 1
	}
}

type cobraHandler func(cmd *cobra.Command, args []string) error
type handlerOpt struct {
	Conf   *config.Config
	Cmd    *cobra.Command
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	ErrLog *log.Logger
}

// Api returns an API client for the server at baseUrl.
func (opt *handlerOpt) Api(ctx context.Context, baseUrl string) (restapi.ClientWithCtx, error) {
	api := &restapi.Client{
		BaseUrl: baseUrl,
	}
	if err := api.Init(); err != nil {
		return restapi.ClientWithCtx{}, errors.Wrap(err, "failed to initialize an API client")
	}
	return api.WithCtx(ctx), nil
}

func wrap(fn func(*handlerOpt) error) cobraHandler {
	return func(cmd *cobra.Command, args []string) error {
		stderr := cmd.ErrOrStderr()
		ha := handlerOpt{
			Cmd:    cmd,
			Args:   args,
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: stderr,
			ErrLog: log.New(stderr, "ERROR: ", 0),
		}

		c, err := getConfig(cmd)
		if err != nil {
			ha.ErrLog.Println(err)
			return errInvalidArgs
		}
		ha.Conf = c
		return fn(&ha)
	}
}

func getConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.NewConfig(cfgFile)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := c.BindFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c, nil
}

func defaultTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetCenterSeparator(" ")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	// the default column width is too narrow and wraps descriptions
	table.SetColWidth(120)
	return table
}
