// Copyright © 2017 yuuki0xff
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"log"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"github.com/yuuki0xff/svgchart/cache"
	"github.com/yuuki0xff/svgchart/httpserver"
	"github.com/yuuki0xff/svgchart/restapi"
)

// serverRunCmd represents the run command
var serverRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the chart rendering server",
	RunE:  wrap(runServerRun),
}

func runServerRun(opt *handlerOpt) error {
	conf := opt.Conf
	logger := log.New(opt.Stderr, "[server] ", log.LstdFlags)

	c, err := cache.Open(conf.Cache.Path, logger)
	if err != nil {
		opt.ErrLog.Println("failed to open the render cache:", err)
		return errIo
	}
	defer func() {
		if err := c.Close(); err != nil {
			opt.ErrLog.Println("failed to close the render cache:", err)
		}
	}()

	srv := httpserver.NewHttpServer(conf.Listen, restapi.NewRouter(restapi.RouterArgs{
		Config: conf,
		Cache:  c,
	}))
	srv.Logger = logger
	if err := srv.Start(); err != nil {
		opt.ErrLog.Println("failed to start the API server:", err)
		return errIo
	}
	fmt.Fprintf(opt.Stdout, "Started HTTP server on %s\n", srv.Url())

	if openFlag, _ := opt.Cmd.Flags().GetBool("open"); openFlag {
		if err := openBrowser(srv.Url() + restapi.APIPrefix + "/chart/bar/example?format=html"); err != nil {
			opt.ErrLog.Println("failed to open a browser:", err)
		}
	}

	// returns after a signal stopped the server
	if err := srv.Wait(); err != nil {
		opt.ErrLog.Println("API server stopped:", err)
		return errGeneral
	}
	return nil
}

// openBrowser is replaced in tests.
var openBrowser = open.Run

func init() {
	serverCmd.AddCommand(serverRunCmd)

	serverRunCmd.Flags().StringP("listen", "p", "", "Address and port for the REST API server")
	serverRunCmd.Flags().String("cache", "", "Path of the persistent render cache")
	serverRunCmd.Flags().Bool("open", false, "Open an example chart in the browser")
}
