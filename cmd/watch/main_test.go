package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postview/internal/blog"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs(" 1, 2,,999 ")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 999}, ids)

	ids, err = parseIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = parseIDs("1,two")
	assert.Error(t, err)
}

func TestPrintState(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printState(&buf, blog.State{Count: -1, Posts: []blog.Post{}}))
	assert.Contains(t, buf.String(), "count: not loaded, posts in state: 0")

	buf.Reset()
	require.NoError(t, printState(&buf, blog.State{Count: 2, Posts: []blog.Post{
		{ID: 1, Title: "Welcome to React with RxJS"},
		{ID: 2, Title: "More fun stuff..."},
	}}))
	out := buf.String()
	assert.Contains(t, out, "count: 2, posts in state: 2")
	assert.Contains(t, out, "Welcome to React with RxJS")
	assert.Contains(t, out, "More fun stuff...")
}
