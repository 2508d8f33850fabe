package activation

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// =============================================================================
// 🔗 技能激活管理器
// =============================================================================

// LoadStatus 加载操作的结果状态。
type LoadStatus string

const (
	StatusLoaded        LoadStatus = "loaded"         // 本次新建了符号链接
	StatusAlreadyLoaded LoadStatus = "already_loaded" // 本进程已加载，幂等空操作
	StatusAlreadyExists LoadStatus = "already_exists" // 磁盘上已有条目（上次运行留下），收编不覆盖
)

// UnloadStatus 卸载操作的结果状态。
type UnloadStatus string

const (
	StatusUnloaded   UnloadStatus = "unloaded"
	StatusNotFound   UnloadStatus = "not_found"
	StatusNotSymlink UnloadStatus = "not_symlink" // 真实目录，绝不删除非本管理器创建的内容
	StatusError      UnloadStatus = "error"       // 权限等文件系统错误，与 not_found 区分
)

// Record 一条激活记录。真实状态以文件系统为准，
// 内存 map 只是缓存，列举时与目录内容对账。
type Record struct {
	ID        string `json:"id"`
	Path      string `json:"path"`             // 激活目录下的条目路径
	Target    string `json:"target,omitempty"` // 符号链接指向的源目录
	IsSymlink bool   `json:"isSymlink"`
}

// ErrInvalidID id 未通过清洗安全门。
type ErrInvalidID struct {
	ID        string
	Sanitized string
}

func (e *ErrInvalidID) Error() string {
	return fmt.Sprintf("skill id %q is not a clean slug (sanitizes to %q)", e.ID, e.Sanitized)
}

// Manager 符号链接式激活管理器。
//
// 同一 id 的并发加载通过按清洗后 id 键控的互斥锁串行化，
// 竞争方会自然观察到 already_loaded / already_exists。
type Manager struct {
	dir       string
	validator *Validator
	logger    *zap.Logger

	mu      sync.Mutex
	idLocks map[string]*sync.Mutex
	loaded  map[string]Record
}

// NewManager 创建激活管理器。dir 是激活目录；validator 为 nil 时使用默认校验器。
func NewManager(dir string, validator *Validator, logger *zap.Logger) *Manager {
	if validator == nil {
		validator = DefaultValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		dir:       dir,
		validator: validator,
		logger:    logger.With(zap.String("component", "activation_manager")),
		idLocks:   make(map[string]*sync.Mutex),
		loaded:    make(map[string]Record),
	}
}

// Dir 返回激活目录。
func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) lockID(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.idLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.idLocks[id] = lock
	}
	return lock
}

// LoadSkill 激活一个技能: 在激活目录下创建指向 sourcePath 的符号链接。
//
// id 清洗是安全门——清洗改变了输入即拒绝。sourcePath 先过安全校验，
// 校验失败不发生任何文件系统变更。已加载/磁盘已存在都是幂等结果。
func (m *Manager) LoadSkill(id, sourcePath string) (LoadStatus, error) {
	sanitized := SanitizeID(id)
	if sanitized == "" || sanitized != id {
		return "", &ErrInvalidID{ID: id, Sanitized: sanitized}
	}

	if err := m.validator.Validate(sourcePath); err != nil {
		m.logger.Warn("skill source path rejected",
			zap.String("skill_id", sanitized),
			zap.Error(err),
		)
		return "", err
	}

	lock := m.lockID(sanitized)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create activation directory: %w", err)
	}

	m.mu.Lock()
	_, alreadyLoaded := m.loaded[sanitized]
	m.mu.Unlock()
	if alreadyLoaded {
		return StatusAlreadyLoaded, nil
	}

	linkPath := filepath.Join(m.dir, sanitized)
	if info, err := os.Lstat(linkPath); err == nil {
		// 上次运行留下的条目，收编进簿记，不覆盖。
		rec := Record{ID: sanitized, Path: linkPath, IsSymlink: info.Mode()&os.ModeSymlink != 0}
		if rec.IsSymlink {
			if target, err := os.Readlink(linkPath); err == nil {
				rec.Target = target
			}
		}
		m.mu.Lock()
		m.loaded[sanitized] = rec
		m.mu.Unlock()
		m.logger.Info("adopted pre-existing activation entry", zap.String("skill_id", sanitized))
		return StatusAlreadyExists, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("probe activation entry %s: %w", sanitized, err)
	}

	absSource, err := filepath.Abs(sourcePath)
	if err != nil {
		return "", fmt.Errorf("resolve source path: %w", err)
	}
	info, err := os.Stat(absSource)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("skill source %s does not exist", absSource)
		}
		return "", fmt.Errorf("stat skill source: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("skill source %s is not a directory", absSource)
	}

	if err := os.Symlink(absSource, linkPath); err != nil {
		return "", fmt.Errorf("create activation symlink: %w", err)
	}

	m.mu.Lock()
	m.loaded[sanitized] = Record{ID: sanitized, Path: linkPath, Target: absSource, IsSymlink: true}
	m.mu.Unlock()

	m.logger.Info("skill activated",
		zap.String("skill_id", sanitized),
		zap.String("target", absSource),
	)
	return StatusLoaded, nil
}

// UnloadSkill 取消激活。id 经同样的清洗后再查找，
// 因此未清洗的别名也能卸载到正确的条目。
// 返回 StatusError 时附带底层错误；其余状态 error 为 nil。
func (m *Manager) UnloadSkill(id string) (UnloadStatus, error) {
	sanitized := SanitizeID(id)
	if sanitized == "" {
		return StatusNotFound, nil
	}

	lock := m.lockID(sanitized)
	lock.Lock()
	defer lock.Unlock()

	linkPath := filepath.Join(m.dir, sanitized)
	info, err := os.Lstat(linkPath)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusNotFound, nil
		}
		// 权限等错误不吞成 not_found。
		return StatusError, fmt.Errorf("probe activation entry %s: %w", sanitized, err)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return StatusNotSymlink, nil
	}

	if err := os.Remove(linkPath); err != nil {
		return StatusError, fmt.Errorf("remove activation symlink: %w", err)
	}

	m.mu.Lock()
	delete(m.loaded, sanitized)
	m.mu.Unlock()

	m.logger.Info("skill deactivated", zap.String("skill_id", sanitized))
	return StatusUnloaded, nil
}

// ListLoaded 列举激活目录的直接条目（符号链接与目录），
// 符号链接会解析并报告指向。激活目录不存在时返回空列表而非报错。
func (m *Manager) ListLoaded() ([]Record, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("list activation directory: %w", err)
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		entryPath := filepath.Join(m.dir, entry.Name())
		info, err := os.Lstat(entryPath)
		if err != nil {
			m.logger.Warn("skip unreadable activation entry",
				zap.String("entry", entry.Name()),
				zap.Error(err),
			)
			continue
		}

		rec := Record{ID: entry.Name(), Path: entryPath}
		if info.Mode()&os.ModeSymlink != 0 {
			rec.IsSymlink = true
			if target, err := os.Readlink(entryPath); err == nil {
				rec.Target = target
			}
		} else if !info.IsDir() {
			continue // 普通文件不算激活条目
		}
		records = append(records, rec)
	}

	// 与文件系统对账: 列举结果才是真相，刷新内存缓存。
	m.mu.Lock()
	m.loaded = make(map[string]Record, len(records))
	for _, rec := range records {
		m.loaded[rec.ID] = rec
	}
	m.mu.Unlock()

	return records, nil
}
