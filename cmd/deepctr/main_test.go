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

const doc = `
model: dcn
embedding_dim: 4
features:
  - {name: C1, type: sparse, vocabulary_size: 6}
  - {name: C2, type: sparse, vocabulary_size: 3}
  - {name: I1, type: dense}
params:
  dnn_hidden_units: [8]
  cross_num: 1
`

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dcn.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func TestVersionAndUsage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"version"}, &out, &out))
	assert.Contains(t, out.String(), version)

	out.Reset()
	require.NoError(t, run(nil, &out, &out))
	assert.Contains(t, out.String(), "describe")

	assert.Error(t, run([]string{"serve"}, &out, &out))
}

func TestDescribe(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"describe", "-config", writeDoc(t)}, &out, &errOut))
	assert.Contains(t, out.String(), "model:      DCN")
	assert.Contains(t, out.String(), "crossnet.kernel.0")
}

func TestPredict(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"predict", "-config", writeDoc(t), "-rows", "5"}, &out, &errOut))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 5)
}

func TestTrain(t *testing.T) {
	var out, errOut bytes.Buffer
	args := []string{"train", "-config", writeDoc(t), "-rows", "40", "-batch", "16", "-steps", "5", "-optimizer", "adagrad"}
	require.NoError(t, run(args, &out, &errOut))
	assert.Contains(t, errOut.String(), "done")
}

func TestModelCommandErrors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"predict"}, &out, &out))
	assert.Error(t, run([]string{"predict", "-config", filepath.Join(t.TempDir(), "none.yaml")}, &out, &out))
	assert.Error(t, run([]string{"train", "-config", writeDoc(t), "-optimizer", "lion"}, &out, &out))
	assert.Error(t, run([]string{"describe", "-config", writeDoc(t), "-log-level", "loud"}, &out, &out))
}

func TestAccuracy(t *testing.T) {
	assert.InDelta(t, 0.75, accuracy([]float32{0.9, 0.2, 0.6, 0.4}, []float32{1, 0, 0, 0}), 1e-9)
}
