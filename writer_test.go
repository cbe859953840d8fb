package preplan_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/preplan"
	"github.com/m-mizutani/preplan/internal"
)

func TestFileWriterWrite(t *testing.T) {
	ctx := internal.TestContext()

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".plans", "x", "preplan", "research.plan.json")
		payload := newTestPayload(t)

		gt.NoError(t, preplan.NewFileWriter().Write(ctx, path, payload))

		data := gt.R1(os.ReadFile(path)).NoError(t)
		want := gt.R1(preplan.EncodePayload(payload)).NoError(t)
		gt.Equal(t, string(data), string(want))
	})

	t.Run("leaves no temporary files", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "research.plan.json")

		gt.NoError(t, preplan.NewFileWriter().Write(ctx, path, newTestPayload(t)))

		entries := gt.R1(os.ReadDir(dir)).NoError(t)
		gt.A(t, entries).Length(1)
		gt.Equal(t, entries[0].Name(), "research.plan.json")
	})

	t.Run("overwrites existing plan", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "research.plan.json")
		gt.NoError(t, os.WriteFile(path, []byte("stale"), 0600))

		gt.NoError(t, preplan.NewFileWriter().Write(ctx, path, newTestPayload(t)))

		data := gt.R1(os.ReadFile(path)).NoError(t)
		gt.S(t, string(data)).Contains(`"task_000"`)
	})

	t.Run("applies file permission", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission bits are not meaningful on windows")
		}
		path := filepath.Join(t.TempDir(), "research.plan.json")

		gt.NoError(t, preplan.NewFileWriter(preplan.WithFilePerm(0600)).Write(ctx, path, newTestPayload(t)))

		info := gt.R1(os.Stat(path)).NoError(t)
		gt.Equal(t, info.Mode().Perm(), os.FileMode(0600))
	})

	t.Run("applies directory permission", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission bits are not meaningful on windows")
		}
		dir := filepath.Join(t.TempDir(), "plans")
		path := filepath.Join(dir, "research.plan.json")

		gt.NoError(t, preplan.NewFileWriter(preplan.WithDirPerm(0700)).Write(ctx, path, newTestPayload(t)))

		info := gt.R1(os.Stat(dir)).NoError(t)
		gt.Equal(t, info.Mode().Perm(), os.FileMode(0700))
	})

	t.Run("failed rename removes temporary file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "research.plan.json")
		gt.NoError(t, os.MkdirAll(filepath.Join(path, "occupied"), 0755))

		err := preplan.NewFileWriter().Write(ctx, path, newTestPayload(t))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, preplan.ErrTagIO))

		leftovers := gt.R1(filepath.Glob(filepath.Join(dir, ".research.plan.json.*.tmp"))).NoError(t)
		gt.Equal(t, len(leftovers), 0)

		entries := gt.R1(os.ReadDir(dir)).NoError(t)
		gt.A(t, entries).Length(1)
		gt.True(t, entries[0].IsDir())
	})

	t.Run("invalid payload writes nothing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "plan")
		payload := newTestPayload(t)
		payload.Tasks = append(payload.Tasks, payload.Tasks[0])

		err := preplan.NewFileWriter().Write(ctx, filepath.Join(dir, "research.plan.json"), payload)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, preplan.ErrTagValidation))

		_, statErr := os.Stat(dir)
		gt.True(t, os.IsNotExist(statErr))
	})

	t.Run("parent is a file", func(t *testing.T) {
		base := t.TempDir()
		blocker := filepath.Join(base, "blocker")
		gt.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

		err := preplan.NewFileWriter().Write(ctx, filepath.Join(blocker, "preplan", "research.plan.json"), newTestPayload(t))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, preplan.ErrTagIO))
	})
}
