package log

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuhaohwang/flv-inspector/src/configs"
	"github.com/yuhaohwang/flv-inspector/src/instance"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()
	cfg := configs.NewConfig()
	cfg.Debug = true
	cfg.Log.OutPutFolder = dir
	cfg.Log.SaveLastLog = true

	inst := &instance.Instance{Config: cfg}
	logger, err := New(instance.WithInstance(context.Background(), inst))
	require.NoError(t, err)
	assert.Equal(t, logger, inst.Logger)
	assert.Equal(t, logrus.DebugLevel, logger.Level)

	logger.Info("hello")
	b, err := os.ReadFile(filepath.Join(dir, "flv-inspector.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "msg=hello")
}

func TestNewBadFolder(t *testing.T) {
	cfg := configs.NewConfig()
	cfg.Log.OutPutFolder = filepath.Join(t.TempDir(), "missing")
	cfg.Log.SaveEveryLog = true

	_, err := New(instance.WithInstance(context.Background(), &instance.Instance{Config: cfg}))
	assert.Error(t, err)
}
