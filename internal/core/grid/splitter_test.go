package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitterSelectToggle(t *testing.T) {
	s := NewSplitter()
	require.False(t, s.IsOpen())

	assert.True(t, s.Select(3))
	assert.True(t, s.IsOpen())
	assert.Equal(t, 3, s.Index())

	// Selecting the open row closes the pane
	assert.False(t, s.Select(3))
	assert.False(t, s.IsOpen())
}

func TestSplitterSwitchRowsWithoutClosing(t *testing.T) {
	s := NewSplitter()
	s.SetContainerHeight(40)
	s.Select(3)
	s.Resize(5)
	sizeBefore := s.Size()

	// Moving to another row keeps the pane open and its size intact
	assert.True(t, s.Select(7))
	assert.True(t, s.IsOpen())
	assert.Equal(t, 7, s.Index())
	assert.Equal(t, sizeBefore, s.Size())
}

func TestSplitterSizePersistsAcrossClose(t *testing.T) {
	s := NewSplitter()
	s.SetContainerHeight(40)
	s.Select(1)
	s.Resize(8)
	resized := s.Size()
	require.NotEqual(t, DefaultDetailSize, resized)

	s.Close()
	s.Select(2)
	assert.Equal(t, resized, s.Size())
}

func TestSplitterResizeClamps(t *testing.T) {
	s := NewSplitter()
	s.SetContainerHeight(20)
	s.Select(0)

	s.Resize(100)
	assert.Equal(t, 19, s.Size())

	s.Resize(-100)
	assert.Equal(t, 0, s.Size())
}

func TestSplitterContainerShrinkReclamps(t *testing.T) {
	s := NewSplitter()
	s.SetContainerHeight(60)
	s.SetSize(30)
	require.Equal(t, 30, s.Size())

	s.SetContainerHeight(20)
	assert.Equal(t, 19, s.Size())
}

func TestSplitterReselect(t *testing.T) {
	s := NewSplitter()

	// Reselect is a no-op while closed
	s.Reselect(5)
	assert.False(t, s.IsOpen())

	s.Select(2)
	s.Reselect(5)
	assert.True(t, s.IsOpen())
	assert.Equal(t, 5, s.Index())
}
