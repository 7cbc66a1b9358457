package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moby/tmpfs/api/types/container"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEncode(t *testing.T) {
	out, _, err := runCommand(t, "", "encode", "--tmpfs", "/tmp:size=64m", "--tmpfs", "/run:size=16m,mode=1777")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(out, `{"/tmp":"size=64m","/run":"size=16m,mode=1777"}`+"\n"))
}

func TestEncodeEmpty(t *testing.T) {
	out, _, err := runCommand(t, "", "encode")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(out, "{}\n"))
}

func TestEncodeHostConfig(t *testing.T) {
	out, _, err := runCommand(t, "", "encode", "--host-config", "--read-only", "--tmpfs", "/tmp")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(out, `{"ReadonlyRootfs":true,"Tmpfs":{"/tmp":""}}`+"\n"))
}

func TestEncodeReadOnlyRequiresHostConfig(t *testing.T) {
	_, _, err := runCommand(t, "", "encode", "--read-only")
	assert.Check(t, is.Error(err, "--read-only requires --host-config"))
}

func TestEncodeDuplicateWarns(t *testing.T) {
	out, stderr, err := runCommand(t, "", "encode", "--tmpfs", "/tmp:size=1m", "--tmpfs", "/tmp:size=2m")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(out, `{"/tmp":"size=2m"}`+"\n"))
	assert.Check(t, is.Contains(stderr, "duplicate tmpfs paths"))
}

func TestEncodeInvalidFlag(t *testing.T) {
	_, _, err := runCommand(t, "", "encode", "--tmpfs", "tmp")
	assert.Check(t, is.ErrorContains(err, "destination must be an absolute path"))
}

func TestDecodeStdin(t *testing.T) {
	out, _, err := runCommand(t, `{"/cache":"rw","/a":5}`, "decode")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(out, "/cache:rw\n/a:5\n"))
}

func TestDecodeFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "hostconfig.json")
	assert.NilError(t, os.WriteFile(name, []byte(`{"ReadonlyRootfs":true,"Tmpfs":{"/run":"size=16m"}}`), 0o644))

	out, _, err := runCommand(t, "", "decode", "--host-config", name)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(out, "/run:size=16m\n"))
}

func TestDecodeHostConfigWithoutTmpfs(t *testing.T) {
	out, _, err := runCommand(t, `{"ReadonlyRootfs":true}`, "decode", "--host-config", "-")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(out, ""))
}

func TestDecodeMissingFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "missing.json")
	_, _, err := runCommand(t, "", "decode", name)
	assert.Check(t, is.ErrorContains(err, "failed to read tmpfs configuration from "+name))
	assert.Check(t, is.ErrorIs(err, fs.ErrNotExist))
}

func TestDecodeInvalid(t *testing.T) {
	_, _, err := runCommand(t, `["/tmp"]`, "decode")
	assert.Check(t, is.ErrorIs(err, container.ErrTmpfsNotObject))
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := runCommand(t, "", "--log-level", "loud", "encode")
	assert.Check(t, is.Error(err, "unable to parse logging level: loud"))
}
