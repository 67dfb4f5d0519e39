package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afschrift-dev/afschrift/internal/config"
	"github.com/afschrift-dev/afschrift/internal/ordered"
)

func writeExport(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "TXT231231235959.TAB")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func goodRecord() string {
	return strings.Join([]string{
		"112233445", "EUR", "20231230", "9427,00", "9550,01", "20231230", "123,01",
		"BEA   NR:A1B23C   30.12.21/09.15 Hema EV123,PAS123               ZAANDAM",
	}, "\t")
}

func TestConvert(t *testing.T) {
	path := writeExport(t, goodRecord())

	out, err := runCommand(t, "convert", path)
	require.NoError(t, err)

	var txns []*ordered.Map
	require.NoError(t, json.Unmarshal([]byte(out), &txns))
	require.Len(t, txns, 1)

	m := txns[0]
	assert.Equal(t, []string{
		"account", "currency", "date", "value_date", "order",
		"amount", "start_saldo", "end_saldo", "raw_description", "description",
	}, m.Keys())
	assert.Equal(t, "112233445", m.GetString("account"))
	assert.Equal(t, "123.01", m.GetString("amount"))

	desc, ok := m.Get("description")
	require.True(t, ok)
	assert.Equal(t, "pos_debit", desc.(*ordered.Map).GetString("type"))
	assert.Equal(t, "Hema EV123", desc.(*ordered.Map).GetString("merchant"))
}

func TestConvert_SortKeys(t *testing.T) {
	path := writeExport(t, goodRecord())

	out, err := runCommand(t, "convert", "--sort-keys", path)
	require.NoError(t, err)

	var txns []*ordered.Map
	require.NoError(t, json.Unmarshal([]byte(out), &txns))
	require.Len(t, txns, 1)
	assert.Equal(t, []string{
		"account", "amount", "currency", "date", "description",
		"end_saldo", "order", "raw_description", "start_saldo", "value_date",
	}, txns[0].Keys())

	// Sorting reaches the nested description mapping too.
	desc, _ := txns[0].Get("description")
	keys := desc.(*ordered.Map).Keys()
	assert.Equal(t, "card", keys[0])
}

func TestConvert_OutputFile(t *testing.T) {
	path := writeExport(t, goodRecord())
	outPath := filepath.Join(t.TempDir(), "out.json")

	_, err := runCommand(t, "convert", "-o", outPath, path)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var txns []*ordered.Map
	require.NoError(t, json.Unmarshal(data, &txns))
	assert.Len(t, txns, 1)
}

func TestConvert_MalformedRecordStops(t *testing.T) {
	path := writeExport(t, goodRecord(), "garbage line")

	_, err := runCommand(t, "convert", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestConvert_KeepGoing(t *testing.T) {
	path := writeExport(t, goodRecord(), "garbage line", goodRecord())

	out, err := runCommand(t, "convert", "--keep-going", path)
	require.NoError(t, err)

	var txns []*ordered.Map
	require.NoError(t, json.Unmarshal([]byte(out), &txns))
	assert.Len(t, txns, 2)
}

func TestConvert_MissingFile(t *testing.T) {
	_, err := runCommand(t, "convert", filepath.Join(t.TempDir(), "nope.tab"))
	assert.Error(t, err)
}

func TestConvert_ExplicitConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "afschrift.yaml")
	require.NoError(t, config.Save(cfgPath, &config.Config{
		Output: config.OutputConfig{SortKeys: true},
	}))
	path := writeExport(t, goodRecord())

	out, err := runCommand(t, "convert", "--config", cfgPath, path)
	require.NoError(t, err)

	var txns []*ordered.Map
	require.NoError(t, json.Unmarshal([]byte(out), &txns))
	require.Len(t, txns, 1)
	assert.Equal(t, "account", txns[0].Keys()[0])
	assert.Equal(t, "amount", txns[0].Keys()[1])
}

func TestConvert_MissingExplicitConfig(t *testing.T) {
	path := writeExport(t, goodRecord())
	_, err := runCommand(t, "convert", "--config", filepath.Join(t.TempDir(), "nope.yaml"), path)
	assert.Error(t, err)
}

func TestLoadConfig_DefaultMissingIsFine(t *testing.T) {
	tmp := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
