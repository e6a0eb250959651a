package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const features = `a,k,b,c
1,7,1.2,2
2,7,1.9,-1
3,7,3.3,3
4,7,3.8,0
5,7,5.4,1
6,7,5.9,-2
`

func TestRunStdinToStdout(t *testing.T) {
	t.Setenv("DSHELP_CONFIG", "")
	var stdout, stderr bytes.Buffer

	err := run([]string{"-log-level", "debug"}, strings.NewReader(features), &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "a,c", lines[0])
	assert.Equal(t, "1,2", lines[1])
	assert.Contains(t, stderr.String(), "features selected")
	assert.Contains(t, stderr.String(), "feature removed")
}

func TestRunFileWithScaling(t *testing.T) {
	t.Setenv("DSHELP_CONFIG", "")
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(in, []byte(features), 0o600))

	var stdout, stderr bytes.Buffer
	err := run([]string{"-in", in, "-out", out, "-method", "spearman", "-scale"}, nil, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Empty(t, stdout.String())

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Equal(t, "a,c", lines[0])
	assert.NotEqual(t, "1,2", lines[1])
}

func TestRunThresholdKeepsEverythingButConstant(t *testing.T) {
	t.Setenv("DSHELP_CONFIG", "")
	var stdout, stderr bytes.Buffer

	err := run([]string{"-threshold", "1"}, strings.NewReader(features), &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.True(t, strings.HasPrefix(stdout.String(), "a,b,c\n"))
}

func TestRunRejectsBadInput(t *testing.T) {
	t.Setenv("DSHELP_CONFIG", "")
	var stdout, stderr bytes.Buffer

	assert.Error(t, run([]string{"-method", "cosine"}, strings.NewReader(features), &stdout, &stderr))
	assert.Error(t, run([]string{"-threshold", "2"}, strings.NewReader(features), &stdout, &stderr))
	assert.Error(t, run(nil, strings.NewReader("a,b\n1,x\n"), &stdout, &stderr))
	assert.Error(t, run([]string{"-in", filepath.Join(t.TempDir(), "none.csv")}, nil, &stdout, &stderr))
}
