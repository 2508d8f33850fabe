package activation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestManager 返回激活目录与源目录都在临时目录下的管理器。
func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	root := t.TempDir()
	validator := NewValidator([]string{root}, nil)
	mgr := NewManager(filepath.Join(root, "active"), validator, nil)

	srcDir := filepath.Join(root, "skills", "demo")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	return mgr, srcDir
}

func TestManagerLoadUnloadRoundTrip(t *testing.T) {
	mgr, srcDir := newTestManager(t)

	status, err := mgr.LoadSkill("demo", srcDir)
	require.NoError(t, err)
	assert.Equal(t, StatusLoaded, status)

	records, err := mgr.ListLoaded()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "demo", records[0].ID)
	assert.True(t, records[0].IsSymlink)

	absSrc, _ := filepath.Abs(srcDir)
	assert.Equal(t, absSrc, records[0].Target)

	unloadStatus, err := mgr.UnloadSkill("demo")
	require.NoError(t, err)
	assert.Equal(t, StatusUnloaded, unloadStatus)

	records, err = mgr.ListLoaded()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestManagerLoadIsIdempotent(t *testing.T) {
	mgr, srcDir := newTestManager(t)

	status, err := mgr.LoadSkill("demo", srcDir)
	require.NoError(t, err)
	require.Equal(t, StatusLoaded, status)

	linkPath := filepath.Join(mgr.Dir(), "demo")
	before, err := os.Readlink(linkPath)
	require.NoError(t, err)

	status, err = mgr.LoadSkill("demo", srcDir)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyLoaded, status)

	// 文件系统状态不变
	after, err := os.Readlink(linkPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestManagerAdoptsPreExistingEntry(t *testing.T) {
	mgr, srcDir := newTestManager(t)

	_, err := mgr.LoadSkill("demo", srcDir)
	require.NoError(t, err)

	// 新进程重建管理器: 磁盘条目还在，簿记是空的
	fresh := NewManager(mgr.Dir(), NewValidator([]string{filepath.Dir(mgr.Dir())}, nil), nil)
	status, err := fresh.LoadSkill("demo", srcDir)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyExists, status)

	// 收编后再加载是幂等的
	status, err = fresh.LoadSkill("demo", srcDir)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyLoaded, status)
}

func TestManagerRejectsDirtyID(t *testing.T) {
	mgr, srcDir := newTestManager(t)

	_, err := mgr.LoadSkill("My Skill!", srcDir)
	require.Error(t, err)

	var invalidErr *ErrInvalidID
	require.True(t, errors.As(err, &invalidErr))
	assert.Equal(t, "my-skill", invalidErr.Sanitized)

	// 校验失败不发生任何文件系统变更
	_, statErr := os.Lstat(filepath.Join(mgr.Dir(), "my-skill"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestManagerRejectsInvalidSourcePath(t *testing.T) {
	mgr, _ := newTestManager(t)

	_, err := mgr.LoadSkill("demo", "../../../etc/passwd")
	require.Error(t, err)

	var secErr *SecurityError
	assert.True(t, errors.As(err, &secErr))

	// 拒绝发生在任何落盘之前
	_, statErr := os.Lstat(filepath.Join(mgr.Dir(), "demo"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestManagerLoadRequiresExistingDirectory(t *testing.T) {
	mgr, srcDir := newTestManager(t)

	// 源不存在
	_, err := mgr.LoadSkill("demo", filepath.Join(filepath.Dir(srcDir), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	// 源是普通文件
	filePath := filepath.Join(filepath.Dir(srcDir), "not-a-dir")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))
	_, err = mgr.LoadSkill("demo", filePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestManagerUnloadNotFound(t *testing.T) {
	mgr, _ := newTestManager(t)

	status, err := mgr.UnloadSkill("never-loaded")
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, status)
}

func TestManagerUnloadNeverDeletesRealDirectory(t *testing.T) {
	mgr, _ := newTestManager(t)

	// 用户自管的真实目录
	realDir := filepath.Join(mgr.Dir(), "manual")
	require.NoError(t, os.MkdirAll(realDir, 0o755))

	status, err := mgr.UnloadSkill("manual")
	require.NoError(t, err)
	assert.Equal(t, StatusNotSymlink, status)

	info, statErr := os.Stat(realDir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir(), "real directory must survive unload")
}

func TestManagerUnloadSanitizesAlias(t *testing.T) {
	mgr, srcDir := newTestManager(t)

	_, err := mgr.LoadSkill("demo", srcDir)
	require.NoError(t, err)

	// 未清洗的别名也能卸载到正确的条目
	status, err := mgr.UnloadSkill("Demo!")
	require.NoError(t, err)
	assert.Equal(t, StatusUnloaded, status)
}

func TestManagerListLoadedMissingDirectory(t *testing.T) {
	root := t.TempDir()
	mgr := NewManager(filepath.Join(root, "never-created"), NewValidator([]string{root}, nil), nil)

	records, err := mgr.ListLoaded()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestManagerListIncludesRealDirectories(t *testing.T) {
	mgr, srcDir := newTestManager(t)

	_, err := mgr.LoadSkill("demo", srcDir)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(mgr.Dir(), "manual"), 0o755))
	// 普通文件不算激活条目
	require.NoError(t, os.WriteFile(filepath.Join(mgr.Dir(), "stray.txt"), []byte("x"), 0o644))

	records, err := mgr.ListLoaded()
	require.NoError(t, err)
	require.Len(t, records, 2)

	byID := make(map[string]Record)
	for _, r := range records {
		byID[r.ID] = r
	}
	assert.True(t, byID["demo"].IsSymlink)
	assert.False(t, byID["manual"].IsSymlink)
}
