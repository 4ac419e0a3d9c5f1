package main

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/ava12/prd"
	"github.com/ava12/prd/parser"
	"github.com/ava12/prd/pipeline"
)

// job describes a parse run, loaded from YAML file or assembled from flags.
type job struct {
	Grammar     string   `yaml:"grammar"`
	Root        string   `yaml:"root"`
	Strategy    string   `yaml:"strategy"`
	Shape       bool     `yaml:"shape"`
	Parallelism int      `yaml:"parallelism"`
	DepthLimit  int      `yaml:"depth_limit"`
	Inputs      []string `yaml:"inputs"`
}

const (
	jobError = prd.PipelineErrors + 50 + iota
	strategyError
	noInputsError
)

// loadJob reads YAML job file, relative paths are resolved against the directory of the file.
func loadJob(name string) (*job, error) {
	content, e := os.ReadFile(name)
	if e != nil {
		return nil, prd.FormatError(jobError, "cannot read job file %s: %s", name, e.Error())
	}

	j := &job{}
	if e = yaml.Unmarshal(content, j); e != nil {
		return nil, prd.FormatError(jobError, "wrong job file %s: %s", name, e.Error())
	}

	dir := filepath.Dir(name)
	if j.Grammar != "" && !filepath.IsAbs(j.Grammar) {
		j.Grammar = filepath.Join(dir, j.Grammar)
	}
	for i, input := range j.Inputs {
		if !filepath.IsAbs(input) {
			j.Inputs[i] = filepath.Join(dir, input)
		}
	}
	return j, nil
}

func (j *job) strategy() (parser.Strategy, error) {
	switch j.Strategy {
	case "", "worklist":
		return parser.Worklist, nil
	case "recursive":
		return parser.Recursive, nil
	}
	return 0, prd.FormatError(strategyError, "unknown strategy %q", j.Strategy)
}

func (j *job) parserOptions() ([]parser.Option, error) {
	s, e := j.strategy()
	if e != nil {
		return nil, e
	}
	opts := []parser.Option{parser.WithStrategy(s)}
	if j.DepthLimit > 0 {
		opts = append(opts, parser.WithDepthLimit(j.DepthLimit))
	}
	return opts, nil
}

// files expands input patterns, ** matches any number of directories.
// A pattern matching nothing is kept as is so that reading it reports an error.
func (j *job) files() ([]string, error) {
	var result []string
	for _, pattern := range j.Inputs {
		matches, e := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if e != nil {
			return nil, prd.FormatError(jobError, "wrong input pattern %s: %s", pattern, e.Error())
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		slices.Sort(matches)
		for _, m := range matches {
			if !slices.Contains(result, m) {
				result = append(result, m)
			}
		}
	}
	if len(result) == 0 {
		return nil, prd.FormatError(noInputsError, "no input files")
	}
	return result, nil
}

func (j *job) engine(warn func(*prd.Error)) (*pipeline.Engine, error) {
	opts, e := j.parserOptions()
	if e != nil {
		return nil, e
	}
	text, e := os.ReadFile(j.Grammar)
	if e != nil {
		return nil, prd.FormatError(pipeline.ReadError, "cannot read grammar %s: %s", j.Grammar, e.Error())
	}
	return pipeline.Compile(j.Grammar, string(text),
		pipeline.WithRoot(j.Root),
		pipeline.WithWarnings(warn),
		pipeline.WithParserOptions(opts...),
	)
}
