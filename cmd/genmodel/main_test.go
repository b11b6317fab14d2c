package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	created, err := generate(root, "mutex")
	require.NoError(t, err)
	require.Len(t, created, 2)

	src, err := os.ReadFile(filepath.Join(root, "models", "mutex", "model.go"))
	require.NoError(t, err)
	file, err := parser.ParseFile(token.NewFileSet(), "model.go", src, 0)
	require.NoError(t, err)
	assert.Equal(t, "mutex", file.Name.Name)
	assert.Contains(t, string(src), `func (Model) Name() string { return "mutex" }`)

	doc, err := os.ReadFile(filepath.Join(root, "docs", "models", "mutex.md"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "# Mutex Model")
	assert.Contains(t, string(doc), "petrispace -model mutex")
}

func TestGenerateRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	_, err := generate(root, "mutex")
	require.NoError(t, err)
	_, err = generate(root, "mutex")
	assert.ErrorContains(t, err, "already exists")
}

func TestGenerateValidatesName(t *testing.T) {
	for _, name := range []string{"", "Mutex", "my-model", "1st", "../x"} {
		_, err := generate(t.TempDir(), name)
		assert.Error(t, err, name)
	}
}
