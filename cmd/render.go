package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/chart/render"
	"github.com/yuuki0xff/svgchart/restapi"
	"golang.org/x/sync/errgroup"
)

const stdio = "-"

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render KIND FILE...",
	Short: "Render chart source files",
	Long: `Render chart source files into svg, html or png.

Input files ending in .json or .xlsx are read as JSON documents or
workbooks; anything else is read as the text language. "-" reads
standard input and writes the chart to standard output.`,
	RunE: wrap(runRender),
}

type renderJob struct {
	opt     *handlerOpt
	kind    string
	format  chart.Format
	outDir  string
	open    bool
	api     *restapi.ClientWithCtx
	stdoutM sync.Mutex
}

func runRender(opt *handlerOpt) error {
	if len(opt.Args) < 2 {
		opt.ErrLog.Println("KIND and at least one FILE are required")
		return errInvalidArgs
	}
	flags := opt.Cmd.Flags()
	formatName, _ := flags.GetString("format")
	outDir, _ := flags.GetString("output")
	server, _ := flags.GetString("server")
	openFlag, _ := flags.GetBool("open")
	printURL, _ := flags.GetBool("url")
	jobs, _ := flags.GetInt("jobs")

	job := &renderJob{
		opt:    opt,
		kind:   opt.Args[0],
		outDir: outDir,
		open:   openFlag,
	}
	files := opt.Args[1:]

	var err error
	job.format, err = chart.ParseFormat(formatName)
	if err != nil {
		opt.ErrLog.Println(err)
		return errInvalidArgs
	}
	nstdin := 0
	for _, f := range files {
		if f == stdio {
			nstdin++
		}
	}
	if nstdin > 1 {
		opt.ErrLog.Println(`"-" may be given only once`)
		return errInvalidArgs
	}
	if jobs < 1 {
		opt.ErrLog.Println("--jobs must be at least 1")
		return errInvalidArgs
	}

	if server != "" {
		api, err := opt.Api(context.Background(), server)
		if err != nil {
			opt.ErrLog.Println(err)
			return errInvalidArgs
		}
		job.api = &api
	} else if _, ok := render.Lookup(job.kind); !ok {
		opt.ErrLog.Printf("unknown chart kind %q", job.kind)
		return errInvalidArgs
	}

	if printURL {
		return job.printURLs(files)
	}
	outputs := map[string]string{}
	for _, f := range files {
		if f == stdio {
			continue
		}
		out := filepath.Clean(job.outputPath(f))
		if prev, ok := outputs[out]; ok {
			opt.ErrLog.Printf("%s and %s would both be written to %s", prev, f, out)
			return errInvalidArgs
		}
		outputs[out] = f
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			opt.ErrLog.Println(errors.Wrap(err, "failed to create the output directory"))
			return errIo
		}
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	for _, file := range files {
		file := file
		g.Go(func() error {
			return job.renderFile(file)
		})
	}
	return g.Wait()
}

// printURLs writes a GET URL per file that makes the server render it.
func (job *renderJob) printURLs(files []string) error {
	if job.api == nil {
		job.opt.ErrLog.Println("--url requires --server")
		return errInvalidArgs
	}
	for _, file := range files {
		data, err := job.read(file)
		if err != nil {
			return err
		}
		if contentType := chart.ContentTypeFromPath(file); contentType != chart.ContentTypeText {
			// GET payloads carry the text language only
			doc, err := chart.Parse(bytes.NewReader(data), contentType)
			if err != nil {
				job.opt.ErrLog.Printf("%s: %s", file, err)
				return errGeneral
			}
			data = []byte(doc.Text())
		}
		u, err := job.api.ChartURL(job.kind, job.format, data)
		if err != nil {
			job.opt.ErrLog.Printf("%s: %s", file, err)
			return errGeneral
		}
		fmt.Fprintln(job.opt.Stdout, u)
	}
	return nil
}

func (job *renderJob) read(file string) ([]byte, error) {
	var data []byte
	var err error
	if file == stdio {
		data, err = ioutil.ReadAll(job.opt.Stdin)
	} else {
		data, err = ioutil.ReadFile(file)
	}
	if err != nil {
		job.opt.ErrLog.Println(errors.Wrapf(err, "failed to read %s", file))
		return nil, errIo
	}
	return data, nil
}

func (job *renderJob) renderFile(file string) error {
	data, err := job.read(file)
	if err != nil {
		return err
	}
	contentType := chart.ContentTypeFromPath(file)

	var out []byte
	if job.api != nil {
		out, err = job.api.Render(job.kind, job.format, contentType, data)
	} else {
		out, err = job.renderLocal(contentType, data)
	}
	if err != nil {
		job.opt.ErrLog.Printf("%s: %s", file, err)
		return errGeneral
	}

	if file == stdio {
		job.stdoutM.Lock()
		defer job.stdoutM.Unlock()
		if _, err := job.opt.Stdout.Write(out); err != nil {
			job.opt.ErrLog.Println(errors.Wrap(err, "failed to write to stdout"))
			return errIo
		}
		return nil
	}

	outPath := job.outputPath(file)
	if err := ioutil.WriteFile(outPath, out, 0644); err != nil {
		job.opt.ErrLog.Println(errors.Wrapf(err, "failed to write %s", outPath))
		return errIo
	}
	job.stdoutM.Lock()
	fmt.Fprintf(job.opt.Stdout, "%s -> %s\n", file, outPath)
	job.stdoutM.Unlock()

	if job.open {
		if err := openBrowser(outPath); err != nil {
			job.opt.ErrLog.Printf("failed to open %s: %s", outPath, err)
		}
	}
	return nil
}

func (job *renderJob) renderLocal(contentType string, data []byte) ([]byte, error) {
	doc, err := chart.Parse(bytes.NewReader(data), contentType)
	if err != nil {
		return nil, err
	}
	job.opt.Conf.Render.Apply(doc)

	var buf bytes.Buffer
	if err := render.Render(&buf, job.kind, job.format, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// outputPath replaces the extension of file with the output format's. The
// file is placed in the output directory when one was given.
func (job *renderJob) outputPath(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + job.format.Ext()
	dir := job.outDir
	if dir == "" {
		dir = filepath.Dir(file)
	}
	return filepath.Join(dir, base)
}

func init() {
	RootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "Output directory (default: next to each input)")
	renderCmd.Flags().StringP("format", "f", string(chart.FormatSVG), "Output format: svg, html or png")
	renderCmd.Flags().String("server", "", "Render through the server at this URL")
	renderCmd.Flags().Bool("open", false, "Open each rendered file")
	renderCmd.Flags().Bool("url", false, "Print a shareable GET URL instead of rendering (needs --server)")
	renderCmd.Flags().IntP("jobs", "j", 4, "Number of files rendered at once")
}
