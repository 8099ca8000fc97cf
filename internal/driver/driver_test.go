package driver

import (
	"context"
	"errors"
	iofs "io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/minilet.go/internal/exc"
	"gopkg.microglot.org/minilet.go/internal/fs"
	"gopkg.microglot.org/minilet.go/internal/idl"
	"gopkg.microglot.org/minilet.go/internal/syntax"
)

const testRoot = "/src"

func newTestDriver(t *testing.T, files map[string]string, opts ...Option) *Driver {
	t.Helper()
	mapFS := fstest.MapFS{}
	for name, content := range files {
		mapFS[name] = &fstest.MapFile{Data: []byte(content)}
	}
	local, err := fs.NewFileSystemLocal(testRoot, fs.WithOptionFSFactory(func(string) iofs.FS {
		return mapFS
	}))
	require.NoError(t, err)
	opts = append([]Option{
		OptionWithFS(fs.FileSystemMulti{local}),
		OptionWithLookupEnv(func(string) (string, bool) { return "", false }),
		OptionWithMaxConcurrency(2),
	}, opts...)
	d, err := New(opts...)
	require.NoError(t, err)
	return d
}

func testPath(name string) string {
	return filepath.Join(testRoot, name)
}

func TestParseSources(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDriver(t, map[string]string{
		"a.minilet": "let x = 1; x",
		"b.minilet": "1 + 2 * 3\n",
		"c.minilet": "{ f(1, \"two\"); }",
	})
	resp, err := d.Parse(ctx, &Request{Files: []string{"b.minilet", "a.minilet", "c.minilet", "a.minilet"}})
	require.NoError(t, err)
	require.Empty(t, resp.Reported)
	require.Len(t, resp.Results, 3)

	expected := []struct {
		path  string
		sexpr string
	}{
		{path: "b.minilet", sexpr: "(stmts (+ 1 (* 2 3)))"},
		{path: "a.minilet", sexpr: "(stmts (let x 1) x)"},
		{path: "c.minilet", sexpr: `(stmts (block (app f (tuple 1 "two")) ;))`},
	}
	for offset, e := range expected {
		result := resp.Results[offset]
		require.Equal(t, testPath(e.path), result.Path)
		require.NotNil(t, result.Tree)
		require.Equal(t, e.sexpr, syntax.Sexpr(result.Tree))
	}
	require.Equal(t, "1 + 2 * 3\n", resp.Results[0].Source)
}

func TestParseDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDriver(t, map[string]string{
		"lib/one.minilet": "1",
		"lib/two.minilet": "2",
		"lib/skip.txt":    "not parsed",
	})
	resp, err := d.Parse(ctx, &Request{Files: []string{"lib"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
}

func TestParseExceptions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	testCases := []struct {
		source  string
		code    string
		at      idl.Location
		checkAt bool
	}{
		{source: "let x", code: exc.CodeUnexpectedEOF, at: idl.Location{Line: 1, Column: 6, Offset: 5}, checkAt: true},
		{source: "let = 1", code: exc.CodeExpectedIdentifier, at: idl.Location{Line: 1, Column: 5, Offset: 4}, checkAt: true},
		{source: "let let = 1", code: exc.CodeExpectedIdentifier, at: idl.Location{Line: 1, Column: 5, Offset: 4}, checkAt: true},
		{source: "let", code: exc.CodeMissingWhitespace, at: idl.Location{Line: 1, Column: 4, Offset: 3}, checkAt: true},
		{source: "1; let x 2", code: exc.CodeExpectedToken, at: idl.Location{Line: 1, Column: 10, Offset: 9}, checkAt: true},
		{source: "letter = 1", code: exc.CodeUnexpectedInput, at: idl.Location{Line: 1, Column: 8, Offset: 7}, checkAt: true},
		{source: `let x = (1, "\n")`, code: exc.CodeInvalidEscape, at: idl.Location{Line: 1, Column: 14, Offset: 13}, checkAt: true},
		{source: `"abc`, code: exc.CodeUnterminatedString},
		{source: "1 + )", code: exc.CodeExpectedExpression},
		{source: "-;", code: exc.CodeExpectedExpression},
		{source: "(1", code: exc.CodeUnexpectedEOF},
		{source: "{ 1 2 }", code: exc.CodeExpectedToken},
		{source: "1 + 99999999999999999999", code: exc.CodeInvalidNumber, at: idl.Location{Line: 1, Column: 5, Offset: 4}, checkAt: true},
		{source: "99999999999999999999", code: exc.CodeInvalidNumber, at: idl.Location{Line: 1, Column: 1, Offset: 0}, checkAt: true},
		{source: "let x = (0x)", code: exc.CodeInvalidNumber, at: idl.Location{Line: 1, Column: 10, Offset: 9}, checkAt: true},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.source, func(t *testing.T) {
			t.Parallel()
			d := newTestDriver(t, map[string]string{"bad.minilet": testCase.source})
			resp, err := d.Parse(ctx, &Request{Files: []string{"bad.minilet"}})
			var me MultiException
			require.True(t, errors.As(err, &me))
			require.Len(t, me, 1)
			e := me[0]
			require.Equal(t, testCase.code, e.Code())
			require.Equal(t, testPath("bad.minilet"), e.Location().URI)
			if testCase.checkAt {
				require.Equal(t, testCase.at, e.Location().Location)
			}
			require.True(t, e.Location().HasSpan())
			var serr syntax.Error
			require.True(t, errors.As(e, &serr))

			require.Len(t, resp.Results, 1)
			require.Nil(t, resp.Results[0].Tree)
			require.Equal(t, testCase.source, resp.Results[0].Source)
		})
	}
}

func TestExceptionMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDriver(t, map[string]string{"bad.minilet": "let x = (1, \"\\n\")"})
	_, err := d.Parse(ctx, &Request{Files: []string{"bad.minilet"}})
	require.EqualError(t, err, testPath("bad.minilet")+`:1:14 -- M0010: expected a value in let binding: invalid escape sequence \n`)

	var serr *syntax.StringError
	require.True(t, errors.As(err.(MultiException)[0], &serr))
	require.Equal(t, syntax.StringInvalidEscape, serr.Kind)
}

func TestParseMissingFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDriver(t, map[string]string{"ok.minilet": "1"})
	resp, err := d.Parse(ctx, &Request{Files: []string{"missing.minilet", "ok.minilet"}})
	var me MultiException
	require.True(t, errors.As(err, &me))
	require.Len(t, me, 1)
	require.Equal(t, exc.CodeFileNotFound, me[0].Code())
	require.Len(t, resp.Results, 1)
	require.NotNil(t, resp.Results[0].Tree)
}

func TestParseUnsupportedFormat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDriver(t, map[string]string{"notes.txt": "1"})
	resp, err := d.Parse(ctx, &Request{Files: []string{"notes.txt"}})
	var me MultiException
	require.True(t, errors.As(err, &me))
	require.Equal(t, exc.CodeUnsupportedFileFormat, me[0].Code())
	require.Empty(t, resp.Results)
}

func TestParseNonFatal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDriver(t, map[string]string{"bad.minilet": "1 2"}, OptionWithNonFatal([]string{exc.CodeUnexpectedInput}))
	resp, err := d.Parse(ctx, &Request{Files: []string{"bad.minilet"}})
	require.NoError(t, err)
	require.Len(t, resp.Reported, 1)
	require.Equal(t, exc.CodeUnexpectedInput, resp.Reported[0].Code())
	require.Nil(t, resp.Results[0].Tree)

	// Each request starts with no reported exceptions.
	resp, err = d.Parse(ctx, &Request{Files: []string{"bad.minilet"}})
	require.NoError(t, err)
	require.Len(t, resp.Reported, 1)
}

func TestParseExpressionMode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDriver(t, map[string]string{
		"expr.minilet": " f(1)(2) - -3 ",
		"stmt.minilet": "let x = 1",
	})
	resp, err := d.Parse(ctx, &Request{Files: []string{"expr.minilet"}, Expression: true})
	require.NoError(t, err)
	require.Equal(t, "(- (app (app f 1) 2) (- 3))", syntax.Sexpr(resp.Results[0].Tree))

	_, err = d.Parse(ctx, &Request{Files: []string{"stmt.minilet"}, Expression: true})
	var me MultiException
	require.True(t, errors.As(err, &me))
	require.Equal(t, exc.CodeExpectedExpression, me[0].Code())
}

func TestParseStdin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDriver(t, nil, OptionWithStdin(strings.NewReader("let y = 0b101;\ny")))
	resp, err := d.Parse(ctx, &Request{Files: []string{"-"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	require.Equal(t, "-", resp.Results[0].Path)
	require.Equal(t, "(stmts (let y 5) y)", syntax.Sexpr(resp.Results[0].Tree))
}

func TestParseChunkSize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := "let s = \"日本語\";\nlet n = { s; 0x1F };\nn(s, 1 / 2)"
	for _, size := range []int{1, 2, 5, 0} {
		d := newTestDriver(t, map[string]string{"a.minilet": source}, OptionWithChunkSize(size))
		resp, err := d.Parse(ctx, &Request{Files: []string{"a.minilet"}})
		require.NoError(t, err, size)
		require.Equal(t, source, resp.Results[0].Source)
		require.Equal(t, `(stmts (let s "日本語") (let n (block s 31)) (app n (tuple s (/ 1 2))))`, syntax.Sexpr(resp.Results[0].Tree))
	}
}

func TestParseCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := newTestDriver(t, map[string]string{"a.minilet": "1"})
	_, err := d.Parse(ctx, &Request{Files: []string{"a.minilet"}})
	require.Error(t, err)
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	_, err := New(OptionWithMaxConcurrency(-1))
	require.Error(t, err)
	_, err = New(OptionWithChunkSize(-1))
	require.Error(t, err)
}

func TestCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, exc.CodeUnexpectedInput, Code(&syntax.UnexpectedInputError{}))
	require.Equal(t, exc.CodeMissingWhitespace, Code(&syntax.OpError{Kind: syntax.OpMissingTrailingSpace}))
	require.Equal(t, exc.CodeUnexpectedInput, Code(&syntax.OpError{Kind: syntax.OpUnknownSymbol}))
	require.Equal(t, exc.CodeInvalidNumber, Code(&syntax.IntegerError{Kind: syntax.IntegerOutOfRange}))
	require.Equal(t, exc.CodeExpectedExpression, Code(&syntax.TermError{}))
	require.Equal(t, exc.CodeUnknownFatal, Code(&syntax.LetError{}))
}

func TestSharedReporter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reporter := exc.NewReporter(nil)
	d := newTestDriver(t, map[string]string{"bad.minilet": "1 2"}, OptionWithExcReporter(reporter))
	for x := 0; x < 2; x = x + 1 {
		_, err := d.Parse(ctx, &Request{Files: []string{"bad.minilet"}})
		require.Error(t, err)
	}
	require.Len(t, reporter.Reported(), 2)
}
