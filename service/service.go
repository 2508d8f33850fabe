package service

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/skillrouter/activation"
	"github.com/BaSui01/skillrouter/catalog"
	"github.com/BaSui01/skillrouter/internal/metrics"
	"github.com/BaSui01/skillrouter/search"
)

// =============================================================================
// 🛠️ 技能路由服务
// =============================================================================

// Service 技能路由服务: 持有目录存储、排序管线与激活管理器，
// 目录版本变化时惰性重建索引。
type Service struct {
	store      *catalog.Store
	pipeline   *search.Pipeline
	manager    *activation.Manager
	collector  *metrics.Collector
	logger     *zap.Logger
	skillsRoot string

	defaultLimit int

	mu             sync.Mutex
	indexedVersion uint64
}

// Options 服务构建参数。
type Options struct {
	Store      *catalog.Store
	Manager    *activation.Manager
	Collector  *metrics.Collector // 可选
	Logger     *zap.Logger        // 可选
	SkillsRoot string             // 目录记录中相对 path 的解析根
	// 默认返回条数，<=0 时取 5
	DefaultLimit int
}

// New 创建服务。
func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("service: catalog store is required")
	}
	if opts.Manager == nil {
		return nil, fmt.Errorf("service: activation manager is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := opts.DefaultLimit
	if limit <= 0 {
		limit = 5
	}
	return &Service{
		store:        opts.Store,
		pipeline:     search.NewPipeline(logger),
		manager:      opts.Manager,
		collector:    opts.Collector,
		logger:       logger.With(zap.String("component", "service")),
		skillsRoot:   opts.SkillsRoot,
		defaultLimit: limit,
	}, nil
}

// ensureIndex 保证索引与目录副本同版本，版本变化时整体重建。
func (s *Service) ensureIndex(ctx context.Context) error {
	records, version, err := s.store.Records(ctx)
	if err != nil {
		s.collector.RecordCatalogRefresh(false, 0)
		return fmt.Errorf("load catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.indexedVersion {
		s.pipeline.SetSkills(records)
		s.indexedVersion = version
		s.collector.RecordCatalogRefresh(true, len(records))
	}
	return nil
}

// FindSkills 检索技能。limit<=0 用默认值；category 非空时做事后过滤。
func (s *Service) FindSkills(ctx context.Context, query string, limit int, category string) (*FindSkillsResult, error) {
	if err := s.ensureIndex(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	requestID := uuid.NewString()
	start := time.Now()

	intent := s.pipeline.Intent(query)
	results := s.pipeline.Search(query, limit, category)

	s.collector.RecordSearch(string(intent), len(results) > 0, time.Since(start))
	s.logger.Info("find_skills",
		zap.String("request_id", requestID),
		zap.String("intent", string(intent)),
		zap.Int("results", len(results)),
	)

	summaries := make([]SkillSummary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, SkillSummary{
			ID:          r.Skill.ID,
			Name:        r.Skill.Name,
			Description: r.Skill.BriefDescription(briefDescriptionLimit),
			Category:    r.Skill.Category,
			Source:      r.Skill.Source,
			Score:       roundScore(r.Score),
			Reason:      r.Reason,
		})
	}

	return &FindSkillsResult{
		RequestID:   requestID,
		Intent:      string(intent),
		Query:       query,
		Matched:     len(summaries) > 0,
		Results:     summaries,
		TotalSkills: s.pipeline.SkillCount(),
	}, nil
}

// LoadSkills 批量激活技能。单个技能的失败不会中断其余技能，
// 全部成功（含幂等结果）时 Success 为 true。
func (s *Service) LoadSkills(ctx context.Context, skillIDs []string) (*LoadSkillsResult, error) {
	if err := s.ensureIndex(ctx); err != nil {
		return nil, err
	}

	out := &LoadSkillsResult{
		Loaded:        []string{},
		AlreadyLoaded: []string{},
		Failed:        []SkillFailure{},
	}

	for _, id := range skillIDs {
		record, ok := s.pipeline.Skill(id)
		if !ok {
			out.Failed = append(out.Failed, SkillFailure{SkillID: id, Error: "skill not found in catalog"})
			s.collector.RecordActivationOp("load", "not_found")
			continue
		}

		status, err := s.manager.LoadSkill(record.ID, s.resolveSkillPath(record))
		if err != nil {
			out.Failed = append(out.Failed, SkillFailure{SkillID: id, Error: err.Error()})
			s.collector.RecordActivationOp("load", "error")
			continue
		}

		s.collector.RecordActivationOp("load", string(status))
		switch status {
		case activation.StatusLoaded:
			out.Loaded = append(out.Loaded, record.ID)
		case activation.StatusAlreadyLoaded, activation.StatusAlreadyExists:
			out.AlreadyLoaded = append(out.AlreadyLoaded, record.ID)
		}
	}

	out.Success = len(out.Failed) == 0
	return out, nil
}

// UnloadSkill 取消激活单个技能。not_found / not_symlink 是预期内的
// 结构化结果；只有文件系统错误才返回 error。
func (s *Service) UnloadSkill(ctx context.Context, skillID string) (*UnloadSkillResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	status, err := s.manager.UnloadSkill(skillID)
	s.collector.RecordActivationOp("unload", string(status))

	switch status {
	case activation.StatusUnloaded:
		return &UnloadSkillResult{Success: true, Status: string(status),
			Message: fmt.Sprintf("skill %s deactivated", skillID)}, nil
	case activation.StatusNotFound:
		return &UnloadSkillResult{Success: false, Status: string(status),
			Message: fmt.Sprintf("skill %s is not active", skillID)}, nil
	case activation.StatusNotSymlink:
		return &UnloadSkillResult{Success: false, Status: string(status),
			Message: fmt.Sprintf("skill %s is a real directory, refusing to delete user-managed content", skillID)}, nil
	default:
		return &UnloadSkillResult{Success: false, Status: string(activation.StatusError),
			Message: err.Error()}, nil
	}
}

// ListActiveSkills 列举当前激活的技能。
func (s *Service) ListActiveSkills(ctx context.Context) (*ListActiveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := s.manager.ListLoaded()
	if err != nil {
		s.collector.RecordActivationOp("list", "error")
		return nil, err
	}
	s.collector.RecordActivationOp("list", "ok")

	active := make([]ActiveSkill, 0, len(records))
	for _, r := range records {
		active = append(active, ActiveSkill{ID: r.ID, Path: r.Path, IsSymlink: r.IsSymlink})
	}

	return &ListActiveResult{
		Active:    active,
		Available: s.store.Len(),
		Message:   fmt.Sprintf("%d skill(s) active in %s", len(active), s.manager.Dir()),
	}, nil
}

// RefreshCatalog 强制重取目录并重建索引。
func (s *Service) RefreshCatalog(ctx context.Context) error {
	if err := s.store.Refresh(ctx, true); err != nil {
		s.collector.RecordCatalogRefresh(false, 0)
		return err
	}
	return s.ensureIndex(ctx)
}

// resolveSkillPath 解析技能内容路径: 相对路径基于 SkillsRoot。
func (s *Service) resolveSkillPath(record catalog.SkillRecord) string {
	if filepath.IsAbs(record.Path) || s.skillsRoot == "" {
		return record.Path
	}
	return filepath.Join(s.skillsRoot, record.Path)
}

func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}
