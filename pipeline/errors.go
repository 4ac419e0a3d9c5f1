package pipeline

import (
	"github.com/ava12/prd"
)

// Error codes used by pipeline:
const (
	ReadError = prd.PipelineErrors + iota
	LexerError
)

func readError(name string, e error) *prd.Error {
	return prd.FormatError(ReadError, "cannot read %s: %s", name, e.Error())
}

func lexerError(e error) *prd.Error {
	return prd.FormatError(LexerError, "cannot build tokenizer: %s", e.Error())
}
