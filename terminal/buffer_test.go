package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBufferIsBlank(t *testing.T) {
	b := NewBuffer(3, 2)
	w, h := b.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, ok := b.Get(x, y)
			require.True(t, ok)
			assert.Equal(t, BlankCell, c)
		}
	}
}

func TestNewBufferNegativeDimensions(t *testing.T) {
	b := NewBuffer(-1, 5)
	assert.Equal(t, 0, b.Width())
	assert.Equal(t, 5, b.Height())
	assert.Empty(t, Diff(nil, b))
}

func TestBufferOutOfBounds(t *testing.T) {
	b := NewBuffer(4, 3)
	before := b.Clone()

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"x past width", 4, 0},
		{"y past height", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.SetContent(tt.x, tt.y, "x", StyleDefault)
			assert.ErrorIs(t, err, ErrOutOfBounds)

			c, ok := b.Get(tt.x, tt.y)
			assert.False(t, ok)
			assert.Equal(t, BlankCell, c)
		})
	}
	assert.True(t, b.Equal(before))
}

func TestBufferSetStringClips(t *testing.T) {
	b := NewBuffer(5, 1)
	n := b.SetString(2, 0, "abcdef", StyleDefault)
	assert.Equal(t, 3, n)

	var got string
	for _, c := range b.Row(0) {
		got += c.Content
	}
	assert.Equal(t, "  abc", got)

	assert.Equal(t, 0, b.SetString(0, 1, "out", StyleDefault))
	assert.Equal(t, 2, b.SetString(-2, 0, "xyzw", StyleDefault))
	c, _ := b.Get(0, 0)
	assert.Equal(t, "z", c.Content)
}

func TestBufferWideCells(t *testing.T) {
	t.Run("wide cell occupies two columns", func(t *testing.T) {
		b := NewBuffer(4, 1)
		assert.Equal(t, 3, b.SetString(0, 0, "世a", StyleDefault))

		head, _ := b.Get(0, 0)
		cont, _ := b.Get(1, 0)
		assert.Equal(t, uint8(2), head.Width)
		assert.True(t, cont.IsContinuation())
	})

	t.Run("wide cell at last column becomes blank", func(t *testing.T) {
		b := NewBuffer(3, 1)
		style := StyleDefault.Foreground(ColorGreen)
		require.NoError(t, b.SetContent(2, 0, "世", style))

		c, _ := b.Get(2, 0)
		assert.Equal(t, Cell{Content: " ", Width: 1, Style: style}, c)
	})

	t.Run("overwriting continuation blanks head", func(t *testing.T) {
		b := NewBuffer(4, 1)
		b.SetString(0, 0, "世", StyleDefault)
		require.NoError(t, b.SetContent(1, 0, "x", StyleDefault))

		head, _ := b.Get(0, 0)
		assert.Equal(t, BlankCell, head)
		c, _ := b.Get(1, 0)
		assert.Equal(t, "x", c.Content)
	})

	t.Run("overwriting head blanks continuation", func(t *testing.T) {
		b := NewBuffer(4, 1)
		b.SetString(1, 0, "世", StyleDefault)
		require.NoError(t, b.SetContent(1, 0, "y", StyleDefault))

		cont, _ := b.Get(2, 0)
		assert.Equal(t, BlankCell, cont)
	})
}

func TestBufferSetNormalizesEmptyContent(t *testing.T) {
	b := NewBuffer(2, 1)
	style := StyleDefault.With(AttrBold)
	require.NoError(t, b.Set(0, 0, Cell{Style: style}))

	c, _ := b.Get(0, 0)
	assert.Equal(t, Cell{Content: " ", Width: 1, Style: style}, c)
}

func TestBufferFillCloneEqual(t *testing.T) {
	b := NewBuffer(7, 3)
	style := StyleDefault.Background(ColorBlue)
	b.Fill(style)

	for y := 0; y < 3; y++ {
		for _, c := range b.Row(y) {
			assert.Equal(t, style, c.Style)
		}
	}

	clone := b.Clone()
	assert.True(t, clone.Equal(b))

	_ = clone.SetContent(0, 0, "z", StyleDefault)
	assert.False(t, clone.Equal(b))
	assert.False(t, b.Equal(NewBuffer(7, 2)))
	assert.False(t, b.Equal(nil))

	b.Clear()
	assert.True(t, b.Equal(NewBuffer(7, 3)))
}

func TestCellEquality(t *testing.T) {
	a := NewCell("a", StyleDefault.Foreground(ColorRed))
	assert.True(t, a.Equal(NewCell("a", StyleDefault.Foreground(ColorRed))))
	assert.False(t, a.Equal(NewCell("b", StyleDefault.Foreground(ColorRed))))
	assert.False(t, a.Equal(NewCell("a", StyleDefault.Foreground(ColorRed).With(AttrBold))))
	assert.False(t, a.Equal(NewCell("a", StyleDefault.Foreground(Palette(9)))))
	assert.False(t, a.Equal(NewCell("a", StyleDefault.Foreground(TrueColor(205, 0, 0)))))
}

func TestStyleBuilders(t *testing.T) {
	s := StyleDefault.Foreground(ColorRed).Background(ColorBlack).With(AttrBold | AttrItalic).Without(AttrItalic)
	assert.Equal(t, Style{Fg: ColorRed, Bg: ColorBlack, Attrs: AttrBold}, s)
	assert.Equal(t, Style{}, StyleDefault)
}
