/*
prdparse is a console utility parsing files with a grammar and printing resulting trees.
Usage is

	prdparse [-c <job>] [-g <grammar>] [-r <rule>] [-s worklist|recursive] [-shape] [-j <n>] [<file> ...]

-c <job> loads YAML job file with keys grammar, root, strategy, shape, parallelism, depth_limit, and inputs,
flags override job file values, files are appended to inputs;

-g <grammar> defines grammar definition file name;

-r <rule> defines root rule name, default is the first rule;

-s defines parse strategy, default is worklist;

-shape prints shape strings instead of trees;

-j <n> defines number of files parsed in parallel, default is the number of CPUs.

File names may contain glob patterns, including **.
Exit status is 1 if any file fails to parse, 2 on usage error, 3 on grammar or job error.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ava12/prd"
	"github.com/ava12/prd/pipeline"
	"github.com/ava12/prd/tree"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("prdparse", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "Usage is  prdparse [-c <job>] [-g <grammar>] [-r <rule>] [-s worklist|recursive] [-shape] [-j <n>] [<file> ...]")
		flags.PrintDefaults()
	}

	var (
		jobName string
		flagJob job
	)
	flags.StringVar(&jobName, "c", "", "YAML job file name")
	flags.StringVar(&flagJob.Grammar, "g", "", "grammar definition file name")
	flags.StringVar(&flagJob.Root, "r", "", "root rule name, default is the first rule")
	flags.StringVar(&flagJob.Strategy, "s", "", "parse strategy: worklist or recursive")
	flags.BoolVar(&flagJob.Shape, "shape", false, "print shape strings instead of trees")
	flags.IntVar(&flagJob.Parallelism, "j", 0, "number of files parsed in parallel")
	if e := flags.Parse(args); e != nil {
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	j := &job{}
	if jobName != "" {
		var e error
		if j, e = loadJob(jobName); e != nil {
			logger.Error(e.Error())
			return 3
		}
	}
	j.merge(&flagJob, flags.Args())
	if j.Grammar == "" {
		flags.Usage()
		return 2
	}

	engine, e := j.engine(func(w *prd.Error) {
		logger.Warn(w.Message, slog.Int("code", w.Code))
	})
	if e != nil {
		logger.Error(e.Error())
		return 3
	}
	files, e := j.files()
	if e != nil {
		logger.Error(e.Error())
		return 3
	}

	results, e := engine.ParseFiles(ctx, files, j.Parallelism)
	if e != nil {
		logger.Error(e.Error())
		return 1
	}

	code := 0
	for _, r := range results {
		if !report(stdout, engine, r, j.Shape) {
			code = 1
		}
	}
	return code
}

// merge overrides job values with non-empty flag values.
func (j *job) merge(flags *job, files []string) {
	if flags.Grammar != "" {
		j.Grammar = flags.Grammar
	}
	if flags.Root != "" {
		j.Root = flags.Root
	}
	if flags.Strategy != "" {
		j.Strategy = flags.Strategy
	}
	if flags.Parallelism > 0 {
		j.Parallelism = flags.Parallelism
	}
	j.Shape = j.Shape || flags.Shape
	j.Inputs = append(j.Inputs, files...)
}

func report(w io.Writer, engine *pipeline.Engine, r pipeline.Result, shape bool) bool {
	fmt.Fprintf(w, "== %s\n", r.Source.Name())
	if r.Err != nil {
		fmt.Fprintf(w, "error: %s\n", r.Err.Error())
		return false
	}
	if shape {
		fmt.Fprintln(w, tree.Shape(r.Tree))
	} else {
		tree.Fprint(w, r.Tree, engine.Grammar().Strings)
	}
	return true
}
