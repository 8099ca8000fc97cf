package iter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/minilet.go/internal/idl"
)

type elem struct {
	value int
}

func TestSlice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	numValues := 10
	elems := make([]*elem, 0, numValues)
	for y := 0; y < numValues; y = y + 1 {
		elems = append(elems, &elem{value: y})
	}
	it := NewSlice(elems)
	for y := 0; y < numValues; y = y + 1 {
		val := it.Next(ctx)
		require.True(t, val.IsPresent())
		require.Equal(t, y, val.Value().value)
	}
	require.False(t, it.Next(ctx).IsPresent())
	require.False(t, it.Next(ctx).IsPresent())
	require.Nil(t, it.Close(ctx))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	numValues := 10
	filter := idl.Filter[*elem](FilterFunc[*elem](func(ctx context.Context, val *elem) bool {
		return val.value%2 == 0
	}))
	elems := make([]*elem, 0, numValues)
	for y := 0; y < numValues; y = y + 1 {
		elems = append(elems, &elem{value: y})
	}
	it := NewIteratorFilter(NewSlice(elems), filter)
	for y := 0; y < numValues; y = y + 2 {
		val := it.Next(ctx)
		require.True(t, val.IsPresent())
		require.Equal(t, y, val.Value().value)
	}
	require.False(t, it.Next(ctx).IsPresent())
	require.Nil(t, it.Close(ctx))
}

func TestNonEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	it := NewIteratorFilter(NewSlice([]string{"", "a", "", "", "bc", ""}), NonEmpty())
	var got []string
	for v := it.Next(ctx); v.IsPresent(); v = it.Next(ctx) {
		got = append(got, v.Value())
	}
	require.Equal(t, []string{"a", "bc"}, got)
}

// trickleBody returns at most n bytes per read regardless of the requested
// size so that chunk boundaries land inside multi-byte code points.
type trickleBody struct {
	r      io.Reader
	n      int
	err    error
	closed bool
}

func (b *trickleBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if int(size) > b.n {
		size = int32(b.n)
	}
	buf := make([]byte, size)
	count, err := b.r.Read(buf)
	if errors.Is(err, io.EOF) && b.err != nil {
		return buf[:count], b.err
	}
	return buf[:count], err
}

func (b *trickleBody) Close(ctx context.Context) error {
	b.closed = true
	return nil
}

func TestTextFileBody(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	input := "let π = 3; \"日本語\" + 🙂"
	for n := 1; n <= 8; n = n + 1 {
		t.Run(fmt.Sprintf("read(%d)", n), func(t *testing.T) {
			body := &trickleBody{r: strings.NewReader(input), n: n}
			it := NewTextFileBody(body, 3)
			var b strings.Builder
			for v := it.Next(ctx); v.IsPresent(); v = it.Next(ctx) {
				chunk := v.Value()
				require.NotEmpty(t, chunk)
				require.True(t, utf8.ValidString(chunk), "chunk %q splits a code point", chunk)
				b.WriteString(chunk)
			}
			require.Equal(t, input, b.String())
			require.Nil(t, it.Close(ctx))
			require.True(t, body.closed)
		})
	}
}

func TestTextFileBodyError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	failure := errors.New("disk on fire")
	body := &trickleBody{r: strings.NewReader("ab"), n: 1, err: failure}
	it := NewTextFileBody(body, 0)
	var b strings.Builder
	for v := it.Next(ctx); v.IsPresent(); v = it.Next(ctx) {
		b.WriteString(v.Value())
	}
	require.Equal(t, "ab", b.String())
	require.ErrorIs(t, it.Close(ctx), failure)
}

func TestCompletePrefix(t *testing.T) {
	t.Parallel()

	full := []byte("a日")
	require.Equal(t, len(full), completePrefix(full))
	require.Equal(t, 1, completePrefix(full[:2]))
	require.Equal(t, 1, completePrefix(full[:3]))
	require.Equal(t, 0, completePrefix([]byte{}))
}

var benchEscapeValue string

func BenchmarkTextFileBody(b *testing.B) {
	ctx := context.Background()
	input := strings.Repeat("let x = 0x1F + \"ü\";\n", 512)

	var loopEscapeValue string
	b.ResetTimer()
	for n := 0; n < b.N; n = n + 1 {
		it := NewTextFileBody(&trickleBody{r: strings.NewReader(input), n: 64}, 64)
		for v := it.Next(ctx); v.IsPresent(); v = it.Next(ctx) {
			loopEscapeValue = v.Value()
		}
	}
	benchEscapeValue = loopEscapeValue
}
