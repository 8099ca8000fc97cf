// Package driver parses sets of minilet sources. Each source is parsed on its
// own goroutine and every defect is reported as an exc.Exception.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/tliron/commonlog"

	"gopkg.microglot.org/minilet.go/internal/exc"
	"gopkg.microglot.org/minilet.go/internal/fs"
	"gopkg.microglot.org/minilet.go/internal/idl"
	"gopkg.microglot.org/minilet.go/internal/iter"
	"gopkg.microglot.org/minilet.go/internal/stream"
	"gopkg.microglot.org/minilet.go/internal/syntax"
	"gopkg.microglot.org/minilet.go/internal/target"
)

var log = commonlog.GetLogger("minilet.driver")

type Option func(d *Driver) error

func OptionWithFS(fs idl.FileSystem) Option {
	return func(d *Driver) error {
		d.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(d *Driver) error {
		d.LookupENV = lookupEnv
		return nil
	}
}

// OptionWithExcReporter installs a reporter that is shared by every call to
// Parse. By default each call gets a new reporter built from the non-fatal
// codes.
func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(d *Driver) error {
		d.Reporter = reporter
		return nil
	}
}

// OptionWithNonFatal lists exception codes that are reported without failing
// the request.
func OptionWithNonFatal(codes []string) Option {
	return func(d *Driver) error {
		d.NonFatal = append(d.NonFatal, codes...)
		return nil
	}
}

func OptionWithMaxConcurrency(n int) Option {
	return func(d *Driver) error {
		if n < 0 {
			return fmt.Errorf("max concurrency must not be negative: %d", n)
		}
		d.MaxConcurrency = n
		return nil
	}
}

// OptionWithChunkSize sets the number of bytes read from a source at a time.
// Zero selects iter.DefaultChunkSize.
func OptionWithChunkSize(n int) Option {
	return func(d *Driver) error {
		if n < 0 {
			return fmt.Errorf("chunk size must not be negative: %d", n)
		}
		d.ChunkSize = n
		return nil
	}
}

// OptionWithStdin sets the reader used for the "-" target.
func OptionWithStdin(r io.Reader) Option {
	return func(d *Driver) error {
		d.Stdin = r
		return nil
	}
}

func New(opts ...Option) (*Driver, error) {
	d := &Driver{}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if d.LookupENV == nil {
		d.LookupENV = os.LookupEnv
	}
	if d.FS == nil {
		dfs, err := NewDefaultFS(d.LookupENV)
		if err != nil {
			return nil, err
		}
		d.FS = dfs
	}
	if d.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		d.MaxConcurrency = max
	}
	if d.Semaphore == nil {
		d.Semaphore = newSemaphore(d.MaxConcurrency)
	}
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	return d, nil
}

type Driver struct {
	LookupENV      func(string) (string, bool)
	FS             idl.FileSystem
	MaxConcurrency int
	ChunkSize      int
	Semaphore      *semaphore
	Reporter       exc.Reporter
	NonFatal       []string
	Stdin          io.Reader
}

// Request names the sources to parse. Files are paths or URIs resolved
// against the file system, or "-" for standard input. When Expression is set
// each source must hold a single expression instead of statements.
type Request struct {
	Files      []string
	Expression bool
}

// Result is the outcome of parsing one source. Tree is nil when the source
// could not be parsed.
type Result struct {
	Path   string
	Source string
	Tree   syntax.Node
}

// Response holds the parsed sources and every exception reported while
// parsing them, including non-fatal ones.
type Response struct {
	Results  []*Result
	Reported []exc.Exception
}

// request is the state shared by the goroutines of a single call to Parse.
type request struct {
	*Request
	reporter exc.Reporter
	fatal    atomic.Bool
}

// report records e and remembers whether it was fatal.
func (r *request) report(e exc.Exception) {
	if r.reporter.Report(e) != nil {
		r.fatal.Store(true)
	}
}

// Parse parses every source named by the request. Sources are returned in
// the order they were resolved. When any fatal exception was reported the
// error is a MultiException of every reported exception and the response
// holds whatever could be parsed.
func (self *Driver) Parse(ctx context.Context, req *Request) (*Response, error) {
	r := &request{
		Request:  req,
		reporter: self.Reporter,
	}
	if r.reporter == nil {
		r.reporter = exc.NewReporter(self.NonFatal)
	}
	files := make([]idl.File, 0, len(req.Files))
	loaded := make(map[string]bool, len(req.Files))
	for _, f := range req.Files {
		for _, file := range self.open(ctx, r, target.Normalize(f)) {
			if loaded[file.Path(ctx)] {
				continue
			}
			loaded[file.Path(ctx)] = true
			files = append(files, file)
		}
	}
	results := make(chan fileResult)
	collected := make([]*Result, len(files))

	for offset, file := range files {
		go func(offset int, file idl.File) {
			result := self.parseFile(ctx, r, file)
			select {
			case results <- fileResult{offset, result}:
			case <-ctx.Done():
			}
		}(offset, file)
	}

	for x := 0; x < len(files); x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			collected[result.offset] = result.result
		}
	}

	resp := &Response{Reported: r.reporter.Reported()}
	for _, result := range collected {
		if result != nil {
			resp.Results = append(resp.Results, result)
		}
	}
	if r.fatal.Load() {
		return resp, MultiException(resp.Reported)
	}
	return resp, nil
}

func (self *Driver) open(ctx context.Context, r *request, uri string) []idl.File {
	if target.IsStdin(uri) {
		return []idl.File{fs.NewFileReader(uri, self.Stdin, idl.FileKindMinilet)}
	}
	in, err := self.FS.Open(ctx, uri)
	if err != nil {
		log.Errorf("could not open %s: %s", uri, err)
		r.report(asException(uri, err))
		return nil
	}
	return in
}

// parseFile returns nil for a source that could not be read. Result.Tree is
// nil when the source has a syntax error.
func (self *Driver) parseFile(ctx context.Context, r *request, file idl.File) *Result {
	self.Semaphore.Lock()
	defer self.Semaphore.Unlock()
	path := file.Path(ctx)
	if file.Kind(ctx) != idl.FileKindMinilet {
		r.report(exc.New(exc.Location{URI: path}, exc.CodeUnsupportedFileFormat, "Unsupported file format"))
		return nil
	}
	log.Debugf("parsing %s", path)
	body, err := file.Body(ctx)
	if err != nil {
		log.Errorf("could not read %s: %s", path, err)
		r.report(asException(path, err))
		return nil
	}
	chunks := iter.NewTextFileBody(body, self.ChunkSize)
	in := stream.New(chunks)

	var tree syntax.Node
	var perr error
	if r.Expression {
		var expr syntax.Expr
		expr, perr = syntax.ParseExpression(ctx, in)
		if perr == nil {
			tree = expr
		}
	} else {
		var stmts *syntax.Stmts
		stmts, perr = syntax.Parse(ctx, in)
		if perr == nil {
			tree = stmts
		}
	}
	source := drain(ctx, in)
	if err := chunks.Close(ctx); err != nil {
		log.Errorf("could not read %s: %s", path, err)
		r.report(exc.Wrap(exc.Location{URI: path}, exc.CodeFileReadError, err))
		return nil
	}
	result := &Result{Path: path, Source: source}
	if perr != nil {
		e := Exception(path, perr)
		log.Debugf("parsing %s failed with %s", path, e.Code())
		r.report(e)
		return result
	}
	log.Debugf("parsed %s", path)
	result.Tree = tree
	return result
}

// drain returns the whole text of the source behind in, reading whatever
// the parse left unread.
func drain(ctx context.Context, in stream.Stream) string {
	var b strings.Builder
	segments := in.Segments()
	defer segments.Close(ctx)
	for {
		next, ok := segments.Next(ctx).Get()
		if !ok {
			return b.String()
		}
		b.WriteString(next)
	}
}

func asException(uri string, err error) exc.Exception {
	if e, ok := err.(exc.Exception); ok {
		return e
	}
	return exc.WrapUnknown(exc.Location{URI: uri}, err)
}

type fileResult struct {
	offset int
	result *Result
}

type MultiException []exc.Exception

func (self MultiException) Error() string {
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}
