package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(zap.NewNop())
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"invoicectl", "--compress=false"}, args...))
	return stdout.String(), stderr.String(), err
}

const sampleYAML = `metadata:
  company_name: Acme Ltd
  invoice_number: "0042"
  currency: "€"
  custom_fields:
    - label: PO Number
      value: PO-7
items:
  - item: 001
    description: Product A
    quantity: 2
    unit_price: 10.00
vat_percentage: 16
qr_data: "Pay to: 1234567890"
`

func TestRenderFromYAML(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "invoice.yaml")
	require.NoError(t, os.WriteFile(input, []byte(sampleYAML), 0o644))
	out := filepath.Join(dir, "out.pdf")

	stdout, _, err := run(t, "render", "--input", input, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "€23.20")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "PO Number: PO-7")
	assert.Contains(t, string(data), "001")
}

func TestRenderFromJSONWithSaveDir(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "invoice.json")
	body := `{"items":[{"item":"001","quantity":"1","unit_price":5}],"vat_percentage":"0"}`
	require.NoError(t, os.WriteFile(input, []byte(body), 0o644))
	saveDir := t.TempDir()

	stdout, _, err := run(t, "render", "-i", input, "-o", filepath.Join(dir, "a.pdf"), "--save-dir", saveDir, "--qr", "")
	require.NoError(t, err)
	assert.Contains(t, stdout, "$5.00")
	assert.FileExists(t, filepath.Join(saveDir, "a.pdf"))
}

func TestRenderSaveDirMissingWarns(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "invoice.yaml")
	require.NoError(t, os.WriteFile(input, []byte(sampleYAML), 0o644))

	_, stderr, err := run(t, "render", "-i", input, "-o", filepath.Join(dir, "a.pdf"), "--save-dir", filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning")
	assert.FileExists(t, filepath.Join(dir, "a.pdf"))
}

func TestRenderReportsInvalidRows(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "invoice.yaml")
	body := "items:\n  - {item: a, quantity: x, unit_price: 1}\n  - {item: b, quantity: 1, unit_price: y}\n"
	require.NoError(t, os.WriteFile(input, []byte(body), 0o644))

	_, _, err := run(t, "render", "-i", input, "-o", filepath.Join(dir, "a.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
	assert.Contains(t, err.Error(), "row 2")
	assert.NoFileExists(t, filepath.Join(dir, "a.pdf"))
}

func TestQRCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "qr.png")
	stdout, _, err := run(t, "qr", "--text", "hello", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, out)
	assert.FileExists(t, out)
}

func TestExampleCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "invoice_example.pdf")
	stdout, _, err := run(t, "example", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "$35.00")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[LOGO PLACEHOLDER]")
	assert.Contains(t, string(data), "Product B")
}
